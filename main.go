package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type cli struct {
	verbose bool
	log     zerolog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{log: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "wordsearch",
		Short: "Word-search and instruction puzzle solver",
		Long: `wordsearch solves daily puzzles from their text input.

Day 3 sums the mul(a,b) instructions hidden in corrupted text.
Day 4 counts XMAS in a letter grid, and the X-shaped MAS crosses.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("load .env: %w", err)
			}
			level := "warn"
			if c.verbose {
				level = "debug"
			}
			c.log = newLogger(cmd.ErrOrStderr(), level)
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log debug details to stderr")

	root.AddCommand(c.solveCmd(), c.searchCmd(), c.serveCmd())
	return root
}

func (c *cli) solveCmd() *cobra.Command {
	var day, part int
	cmd := &cobra.Command{
		Use:   "solve <input-file>",
		Short: "Print the answer of one puzzle part",
		Long: `Reads the puzzle input from a file ("-" for stdin) and prints the answer.

Example:
  wordsearch solve --day 4 --part 2 day_4.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			answer, err := Solve(day, part, text)
			if err != nil {
				return err
			}
			c.log.Debug().Int("day", day).Int("part", part).Int("answer", answer).Msg("solved")
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
	cmd.Flags().IntVarP(&day, "day", "d", 4, fmt.Sprintf("puzzle day %v", Days()))
	cmd.Flags().IntVarP(&part, "part", "p", 1, "puzzle part (1 or 2)")
	return cmd
}

func (c *cli) searchCmd() *cobra.Command {
	var (
		word  string
		cross bool
	)
	cmd := &cobra.Command{
		Use:   "search <input-file>",
		Short: "Count a word in a letter grid",
		Long: `Counts every occurrence of a word in all eight directions, or with --cross
the X shapes where the word crosses itself on both diagonals.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			g := ParseGrid(text)
			var n int
			if cross {
				if !cmd.Flags().Changed("word") {
					word = CrossWord
				}
				n = len(g.FindCross(word))
			} else {
				n = len(g.FindWord(word))
			}
			c.log.Debug().Int("rows", len(g)).Str("word", word).Bool("cross", cross).Int("count", n).Msg("searched")
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&word, "word", "w", XmasWord, "word to look for")
	cmd.Flags().BoolVar(&cross, "cross", false, "count X-shaped crosses instead of words")
	return cmd
}

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serves the puzzle API. Settings come from the YAML file named by
WORDSEARCH_CONFIG and from PORT, LOG_LEVEL, CORS_ORIGINS, GCP_PROJECT_ID,
GCP_REGION and GEMINI_MODEL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, newLogger(cmd.ErrOrStderr(), c.logLevel(cfg)))
		},
	}
}

// logLevel returns the configured level, raised to debug by --verbose.
func (c *cli) logLevel(cfg *Config) string {
	if c.verbose {
		return "debug"
	}
	return cfg.LogLevel
}

// serve runs the API until ctx is cancelled or the listener fails.
func serve(ctx context.Context, cfg *Config, logger zerolog.Logger) error {
	var analyzer ImageAnalyzer
	if cfg.GCP.ProjectID != "" {
		gemini, err := NewGeminiClient(ctx, cfg.GCP)
		if err != nil {
			return fmt.Errorf("init gemini: %w", err)
		}
		defer gemini.Close()
		analyzer = gemini
		logger.Info().Str("project", cfg.GCP.ProjectID).Str("model", cfg.GCP.Model).Msg("gemini client ready")
	} else {
		logger.Warn().Msg("GCP_PROJECT_ID not set, image analysis disabled")
	}

	srv := NewServer(NewStore(), analyzer, cfg.Limits, logger)
	defer srv.Close()

	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}).Handler(srv)

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// Cancelling ctx also ends open event streams.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", httpSrv.Addr).Msg("server started")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info().Msg("shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// readInput loads the puzzle text from path, or from stdin when path is "-".
func readInput(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read input %s: %w", path, err)
	}
	return string(data), nil
}
