package summarize

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
)

type fakeAPI struct {
	completions    []openai.ChatCompletionRequest
	transcriptions []openai.AudioRequest
	reply          string
	transcript     string
}

func (f *fakeAPI) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.completions = append(f.completions, req)
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: f.reply}}},
	}, nil
}

func (f *fakeAPI) CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
	f.transcriptions = append(f.transcriptions, req)
	return openai.AudioResponse{Text: f.transcript}, nil
}

func newTestSummarizer(fake *fakeAPI) *Summarizer {
	return &Summarizer{api: fake, model: openai.GPT4}
}

func TestSummarizeText_Lengths(t *testing.T) {
	fake := &fakeAPI{reply: "short summary here"}
	s := newTestSummarizer(fake)

	res, err := s.SummarizeText(context.Background(), "one two three four five six", Options{MaxWords: 100})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if res.Summary != "short summary here" {
		t.Fatalf("unexpected summary: %q", res.Summary)
	}
	if res.OriginalLength != 6 || res.SummaryLength != 3 {
		t.Fatalf("unexpected lengths: %+v", res)
	}
	if len(fake.completions) != 1 {
		t.Fatalf("want 1 completion call, got %d", len(fake.completions))
	}
	prompt := fake.completions[0].Messages[1].Content
	if !strings.Contains(prompt, "100 words") {
		t.Fatalf("target length missing from prompt: %q", prompt)
	}
}

func TestSummarizeText_CustomPromptWins(t *testing.T) {
	fake := &fakeAPI{reply: "s"}
	s := newTestSummarizer(fake)

	if _, err := s.SummarizeText(context.Background(), "text", Options{CustomPrompt: "translate and shorten"}); err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if got := fake.completions[0].Messages[1].Content; got != "translate and shorten" {
		t.Fatalf("custom prompt not used: %q", got)
	}
}

func TestSummarizeLongText_ChunksAndCombines(t *testing.T) {
	fake := &fakeAPI{reply: "partial"}
	s := newTestSummarizer(fake)

	text := strings.Repeat("a", chunkChars*2+10)
	if _, err := s.SummarizeText(context.Background(), text, Options{}); err != nil {
		t.Fatalf("summarize: %v", err)
	}
	// 3 chunk calls plus one combine call
	if len(fake.completions) != 4 {
		t.Fatalf("want 4 completion calls, got %d", len(fake.completions))
	}
	last := fake.completions[len(fake.completions)-1].Messages[1].Content
	if !strings.Contains(last, "Combine these summaries") {
		t.Fatalf("final call must combine partials: %q", last)
	}
}

func TestSplitChunks(t *testing.T) {
	chunks := splitChunks(strings.Repeat("x", 25), 10)
	if len(chunks) != 3 {
		t.Fatalf("want 3 chunks, got %d", len(chunks))
	}
	if len(chunks[0]) != 10 || len(chunks[2]) != 5 {
		t.Fatalf("unexpected chunk sizes: %d %d %d", len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}
}

func TestSummarizeFile_TextFile(t *testing.T) {
	fake := &fakeAPI{reply: "file summary"}
	s := newTestSummarizer(fake)

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello world"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := s.SummarizeFile(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if res.Summary != "file summary" || res.FileName != "notes.txt" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !strings.HasSuffix(res.FileSize, "KB") {
		t.Fatalf("file size not rendered: %q", res.FileSize)
	}
}

func TestSummarizeFile_AudioRoutesThroughTranscription(t *testing.T) {
	fake := &fakeAPI{reply: "audio summary", transcript: "spoken words"}
	s := newTestSummarizer(fake)

	path := filepath.Join(t.TempDir(), "memo.mp3")
	if err := os.WriteFile(path, []byte{0x0}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := s.SummarizeFile(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if len(fake.transcriptions) != 1 {
		t.Fatalf("want 1 transcription call, got %d", len(fake.transcriptions))
	}
	if !strings.Contains(fake.completions[0].Messages[1].Content, "spoken words") {
		t.Fatalf("transcript not fed into summary prompt")
	}
	if res.Summary != "audio summary" {
		t.Fatalf("unexpected summary: %q", res.Summary)
	}
}

func TestSummarizeFile_ImageUsesVision(t *testing.T) {
	fake := &fakeAPI{reply: "an image of a cat"}
	s := newTestSummarizer(fake)

	path := filepath.Join(t.TempDir(), "cat.png")
	if err := os.WriteFile(path, []byte("fakepng"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := s.SummarizeFile(context.Background(), path, Options{}); err != nil {
		t.Fatalf("summarize: %v", err)
	}
	req := fake.completions[0]
	if req.Model != visionModel {
		t.Fatalf("vision model not used: %q", req.Model)
	}
	parts := req.Messages[0].MultiContent
	if len(parts) != 2 || parts[1].ImageURL == nil {
		t.Fatalf("image part missing: %+v", parts)
	}
	if !strings.HasPrefix(parts[1].ImageURL.URL, "data:image/png;base64,") {
		t.Fatalf("unexpected data URL: %q", parts[1].ImageURL.URL)
	}
}

func TestSummarizeFile_UnsupportedExtensionYieldsTextualError(t *testing.T) {
	fake := &fakeAPI{}
	s := newTestSummarizer(fake)

	path := filepath.Join(t.TempDir(), "report.pdf")
	if err := os.WriteFile(path, []byte("%PDF"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := s.SummarizeFile(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("unsupported extension must not error: %v", err)
	}
	if !strings.Contains(res.Summary, "Error") || !strings.Contains(res.Summary, ".pdf") {
		t.Fatalf("expected textual error summary, got %q", res.Summary)
	}
	if len(fake.completions) != 0 {
		t.Fatalf("no model call expected, got %d", len(fake.completions))
	}
}

func TestSummarizeFile_MissingFileErrors(t *testing.T) {
	s := newTestSummarizer(&fakeAPI{})
	if _, err := s.SummarizeFile(context.Background(), filepath.Join(t.TempDir(), "nope.txt"), Options{}); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestOptionsDefaults(t *testing.T) {
	if got := (Options{}).maxWords(); got != defaultMaxWords {
		t.Fatalf("default max words: %d", got)
	}
	if got := (Options{MaxWords: 42}).maxWords(); got != 42 {
		t.Fatalf("explicit max words: %d", got)
	}
}
