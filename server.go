package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	maxUploadSize = 10 << 20 // 10 MB
	maxTextSize   = 1 << 20
)

var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// ImageAnalyzer turns a photographed puzzle into grid text.
type ImageAnalyzer interface {
	AnalyzeImage(ctx context.Context, imageData []byte, mimeType string) (string, error)
}

// rateLimiter is a simple per-IP token bucket rate limiter.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*bucket
	rate     int           // tokens per interval
	interval time.Duration // refill interval
	stop     chan struct{}
	stopOnce sync.Once
}

type bucket struct {
	tokens   int
	lastSeen time.Time
}

func newRateLimiter(rate int, interval time.Duration) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*bucket),
		rate:     rate,
		interval: interval,
		stop:     make(chan struct{}),
	}
	go rl.janitor(time.Minute, 5*time.Minute)
	return rl
}

// janitor drops visitors idle for longer than ttl until the limiter is closed.
func (rl *rateLimiter) janitor(every, ttl time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			for ip, b := range rl.visitors {
				if time.Since(b.lastSeen) > ttl {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *rateLimiter) close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.visitors[ip]
	if !ok {
		rl.visitors[ip] = &bucket{tokens: rl.rate - 1, lastSeen: time.Now()}
		return true
	}

	// Refill tokens based on elapsed time.
	elapsed := time.Since(b.lastSeen)
	refill := int(elapsed / rl.interval)
	if refill > 0 {
		b.tokens = min(b.tokens+refill*rl.rate, rl.rate)
		b.lastSeen = time.Now()
	}

	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

// Server is the HTTP API in front of the word-search engine.
type Server struct {
	mux      *http.ServeMux
	store    *Store
	analyzer ImageAnalyzer
	sse      *Broadcaster
	uploadRL *rateLimiter
	solveRL  *rateLimiter
	log      zerolog.Logger
}

// NewServer creates a configured HTTP server. analyzer may be nil, in which
// case image uploads are refused.
func NewServer(store *Store, analyzer ImageAnalyzer, limits LimitsConfig, logger zerolog.Logger) *Server {
	s := &Server{
		mux:      http.NewServeMux(),
		store:    store,
		analyzer: analyzer,
		sse:      NewBroadcaster(),
		uploadRL: newRateLimiter(limits.UploadsPerMinute, time.Minute),
		solveRL:  newRateLimiter(limits.SolvesPerSecond, time.Second),
		log:      logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/puzzles", s.handleCreatePuzzle)
	s.mux.HandleFunc("GET /api/puzzles", s.handleListPuzzles)
	s.mux.HandleFunc("GET /api/puzzles/{id}", s.handleGetPuzzle)
	s.mux.HandleFunc("POST /api/instructions", s.handleInstructions)
	s.mux.HandleFunc("GET /api/events", s.handleEvents)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

	start := time.Now()
	s.mux.ServeHTTP(w, r)
	s.log.Debug().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Dur("duration", time.Since(start)).
		Msg("request")
}

// Close stops the background work of the rate limiters.
func (s *Server) Close() {
	s.uploadRL.close()
	s.solveRL.close()
}

// --- Puzzle handlers ---

// POST /api/puzzles — solve grid text, or a photo of a grid.
func (s *Server) handleCreatePuzzle(w http.ResponseWriter, r *http.Request) {
	var (
		text, word, crossWord string
		ok                    bool
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if text, ok = s.readImagePuzzle(w, r); ok {
			word, crossWord = r.FormValue("word"), r.FormValue("cross_word")
		}
	} else {
		if !s.solveRL.allow(clientIP(r)) {
			jsonError(w, "too many requests, try again later", http.StatusTooManyRequests)
			return
		}
		var req struct {
			Text      string `json:"text"`
			Word      string `json:"word"`
			CrossWord string `json:"cross_word"`
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxTextSize)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			if tooLarge(err) {
				jsonError(w, "text too large", http.StatusRequestEntityTooLarge)
				return
			}
			jsonError(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.Text == "" {
			jsonError(w, "field 'text' is required", http.StatusBadRequest)
			return
		}
		text, word, crossWord, ok = req.Text, req.Word, req.CrossWord, true
	}
	if !ok {
		return
	}

	if word == "" {
		word = XmasWord
	}
	if crossWord == "" {
		crossWord = CrossWord
	}

	p := s.store.SavePuzzle(NewPuzzle(text, word, crossWord))
	s.log.Info().
		Str("id", p.ID).
		Str("word", p.Word).
		Int("word_count", p.WordCount).
		Int("cross_count", p.CrossCount).
		Msg("puzzle solved")

	if err := s.sse.BroadcastEvent(map[string]any{
		"type":        "puzzle_solved",
		"id":          p.ID,
		"word":        p.Word,
		"word_count":  p.WordCount,
		"cross_word":  p.CrossWord,
		"cross_count": p.CrossCount,
	}); err != nil {
		s.log.Warn().Err(err).Msg("broadcast puzzle_solved")
	}

	writeJSON(w, http.StatusCreated, p)
}

// readImagePuzzle validates an uploaded photo and transcribes it. It writes
// the error response itself and reports whether the caller may continue.
func (s *Server) readImagePuzzle(w http.ResponseWriter, r *http.Request) (string, bool) {
	if !s.uploadRL.allow(clientIP(r)) {
		jsonError(w, "too many requests, try again later", http.StatusTooManyRequests)
		return "", false
	}

	if s.analyzer == nil {
		jsonError(w, "image analysis is not configured", http.StatusServiceUnavailable)
		return "", false
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		jsonError(w, "image too large (max 10 MB)", http.StatusRequestEntityTooLarge)
		return "", false
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		jsonError(w, "field 'image' is required", http.StatusBadRequest)
		return "", false
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if !allowedMIME[mimeType] {
		jsonError(w, "accepted formats: JPEG or PNG", http.StatusBadRequest)
		return "", false
	}

	imageData, err := io.ReadAll(file)
	if err != nil {
		jsonError(w, "could not read image", http.StatusInternalServerError)
		return "", false
	}

	text, err := s.analyzer.AnalyzeImage(r.Context(), imageData, mimeType)
	if err != nil {
		s.log.Error().Err(err).Str("mime", mimeType).Msg("image analysis failed")
		jsonError(w, "could not read a grid from the image", http.StatusBadGateway)
		return "", false
	}
	return text, true
}

// GET /api/puzzles — list all puzzles.
func (s *Server) handleListPuzzles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.ListPuzzles())
}

// GET /api/puzzles/{id} — get a single puzzle.
func (s *Server) handleGetPuzzle(w http.ResponseWriter, r *http.Request) {
	p := s.store.GetPuzzle(r.PathValue("id"))
	if p == nil {
		jsonError(w, "puzzle not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// POST /api/instructions — extract and sum mul instructions.
func (s *Server) handleInstructions(w http.ResponseWriter, r *http.Request) {
	if !s.solveRL.allow(clientIP(r)) {
		jsonError(w, "too many requests, try again later", http.StatusTooManyRequests)
		return
	}

	var req struct {
		Text         string `json:"text"`
		Conditionals bool   `json:"conditionals"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxTextSize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if tooLarge(err) {
			jsonError(w, "text too large", http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid request", http.StatusBadRequest)
		return
	}

	instructions := ParseInstructions(req.Text, req.Conditionals)
	sum, err := SumInstructions(instructions)
	if err != nil {
		s.log.Error().Err(err).Msg("sum instructions")
		jsonError(w, "could not evaluate instructions", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"instructions": instructions,
		"sum":          sum,
	})
}

// GET /api/events — SSE stream of solved puzzles.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	s.sse.ServeSSE(w, r, func(c *client) {
		evt, _ := json.Marshal(map[string]any{
			"type":    "hello",
			"puzzles": s.store.Len(),
		})
		c.ch <- string(evt)
	})
}

// GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"puzzles":       s.store.Len(),
		"image_enabled": s.analyzer != nil,
	})
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// clientIP returns the host part of the remote address, so every connection
// from one machine shares a rate-limit bucket.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
