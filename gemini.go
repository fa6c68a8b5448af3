package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const analyzePrompt = `Transcribe this photo of a word-search puzzle.

Return the letter grid in the following JSON format:
{
  "rows": ["MMMSXXMASM", "MSAMXMSMSA", ...]
}

Rules:
- One string per grid row, from top to bottom.
- One character per grid cell, from left to right, in upper case.
- Use "." for a cell that is blank or unreadable.
- Do not include row or column labels, word lists or any other text.
- Reply ONLY with the JSON, without commentary or markdown.`

// AnalyzeImage sends a photo to Gemini and returns the transcribed grid as
// newline-separated rows, ready for ParseGrid.
func (g *GeminiClient) AnalyzeImage(ctx context.Context, imageData []byte, mimeType string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName,
		[]*genai.Content{{
			Role: "user",
			Parts: []*genai.Part{
				{Text: analyzePrompt},
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: imageData}},
			},
		}},
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr(float32(0.1)),
			TopP:             genai.Ptr(float32(1)),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty gemini response")
	}
	return gridTextFromResponse(text)
}

// gridTextFromResponse decodes the model's JSON answer into grid text.
func gridTextFromResponse(text string) (string, error) {
	var out struct {
		Rows []string `json:"rows"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return "", fmt.Errorf("parse grid JSON: %w\nraw response: %s", err, text)
	}

	rows := make([]string, 0, len(out.Rows))
	for _, r := range out.Rows {
		if r = strings.TrimSpace(r); r != "" {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("invalid grid: no rows in response")
	}
	return strings.Join(rows, "\n"), nil
}
