// Package summarize produces textual summaries of files and raw text by
// routing to the appropriate model capability: speech-to-text for
// audio/video, vision for images, chunked text summarization for
// everything else.
package summarize

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const (
	defaultMaxWords = 500

	// Per-request character cap for text summarization; longer inputs are
	// split and the partial summaries combined by one final call.
	chunkChars = 20000

	visionModel = "gpt-4o"
)

var audioExtensions = map[string]bool{
	".mp3": true, ".mp4": true, ".mpeg": true, ".mpga": true,
	".m4a": true, ".wav": true, ".webm": true, ".ogg": true, ".oga": true,
}

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
}

// Extensions that would need a document text extractor we do not ship.
var unsupportedExtensions = map[string]bool{
	".pdf": true, ".docx": true, ".doc": true,
}

type completionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error)
}

// FileSummary is the result of summarizing a file on disk.
type FileSummary struct {
	Summary  string `json:"summary"`
	FileName string `json:"file_name"`
	FileSize string `json:"file_size"`
}

// TextSummary is the result of summarizing raw text.
type TextSummary struct {
	Summary        string `json:"summary"`
	OriginalLength int    `json:"original_length"`
	SummaryLength  int    `json:"summary_length"`
}

// Options tune a summarization request. Zero values mean defaults.
type Options struct {
	MaxWords     int
	CustomPrompt string
}

func (o Options) maxWords() int {
	if o.MaxWords > 0 {
		return o.MaxWords
	}
	return defaultMaxWords
}

type Summarizer struct {
	api   completionAPI
	model string
}

func New(apiKey, baseURL, model string) *Summarizer {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4
	}
	return &Summarizer{api: openai.NewClientWithConfig(cfg), model: model}
}

// SummarizeFile summarizes the file at path, choosing the model capability
// by extension. Extensions needing a text extractor we do not ship yield a
// textual error summary, not an error return.
func (s *Summarizer) SummarizeFile(ctx context.Context, path string, opts Options) (FileSummary, error) {
	st, err := os.Stat(path)
	if err != nil {
		return FileSummary{}, fmt.Errorf("file not found: %w", err)
	}

	out := FileSummary{
		FileName: filepath.Base(path),
		FileSize: fmt.Sprintf("%.2f KB", float64(st.Size())/1024),
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case audioExtensions[ext]:
		out.Summary, err = s.summarizeAudio(ctx, path, opts)
	case imageExtensions[ext]:
		out.Summary, err = s.summarizeImage(ctx, path, ext, opts)
	case unsupportedExtensions[ext]:
		out.Summary = fmt.Sprintf("Error: no text extractor available for %s files; convert to plain text first", ext)
	default:
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			return FileSummary{}, fmt.Errorf("read file: %w", err)
		}
		out.Summary, err = s.summarizeLongText(ctx, string(data), opts)
	}
	if err != nil {
		return FileSummary{}, err
	}
	return out, nil
}

// SummarizeText summarizes raw text without a file.
func (s *Summarizer) SummarizeText(ctx context.Context, text string, opts Options) (TextSummary, error) {
	summary, err := s.summarizeLongText(ctx, text, opts)
	if err != nil {
		return TextSummary{}, err
	}
	return TextSummary{
		Summary:        summary,
		OriginalLength: wordCount(text),
		SummaryLength:  wordCount(summary),
	}, nil
}

func (s *Summarizer) summarizeAudio(ctx context.Context, path string, opts Options) (string, error) {
	transcript, err := s.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: path,
	})
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	prompt := opts.CustomPrompt
	if prompt == "" {
		prompt = fmt.Sprintf("Summarize this transcript in %d words:\n\n%s", opts.maxWords(), transcript.Text)
	}
	return s.complete(ctx, s.model, prompt)
}

func (s *Summarizer) summarizeImage(ctx context.Context, path, ext string, opts Options) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	prompt := opts.CustomPrompt
	if prompt == "" {
		prompt = fmt.Sprintf("Describe and summarize this image in %d words.", opts.maxWords())
	}

	dataURL := fmt.Sprintf("data:image/%s;base64,%s",
		strings.TrimPrefix(ext, "."), base64.StdEncoding.EncodeToString(data))

	resp, err := s.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: visionModel,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: prompt},
				{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL}},
			},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("vision request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("vision request returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// summarizeLongText summarizes text, chunking when it exceeds the per-call
// limit: each chunk is summarized independently, then one final call
// combines the partial summaries.
func (s *Summarizer) summarizeLongText(ctx context.Context, text string, opts Options) (string, error) {
	if len(text) <= chunkChars {
		prompt := opts.CustomPrompt
		if prompt == "" {
			prompt = fmt.Sprintf("Summarize this in %d words:\n\n%s", opts.maxWords(), text)
		}
		return s.complete(ctx, s.model, prompt)
	}

	var partials []string
	for _, chunk := range splitChunks(text, chunkChars) {
		summary, err := s.complete(ctx, s.model, "Summarize this section:\n\n"+chunk)
		if err != nil {
			return "", err
		}
		partials = append(partials, summary)
	}

	combined := strings.Join(partials, "\n\n")
	return s.complete(ctx, s.model, fmt.Sprintf(
		"Combine these summaries into one cohesive summary of %d words:\n\n%s", opts.maxWords(), combined))
}

func (s *Summarizer) complete(ctx context.Context, model, prompt string) (string, error) {
	resp, err := s.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a concise summarizer."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.5,
	})
	if err != nil {
		return "", fmt.Errorf("summarization request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("summarization request returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func splitChunks(text string, size int) []string {
	var chunks []string
	for len(text) > size {
		chunks = append(chunks, text[:size])
		text = text[size:]
	}
	return append(chunks, text)
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
