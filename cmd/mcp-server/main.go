package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"day-assistant/internal/classify"
	"day-assistant/internal/llm"
	"day-assistant/internal/summarize"
)

// ClassifyParams are the arguments of the classify_message tool.
type ClassifyParams struct {
	Message  string          `json:"message" mcp:"the user utterance to classify"`
	History  []classify.Turn `json:"history,omitempty" mcp:"optional prior conversation turns (role, timestamp, message)"`
	Timezone string          `json:"timezone,omitempty" mcp:"IANA zone for the *_local display fields (default: server local)"`
}

// SummarizeParams are the arguments of the summarize_text tool.
type SummarizeParams struct {
	Text         string `json:"text" mcp:"the text to summarize"`
	MaxWords     int    `json:"max_words,omitempty" mcp:"target summary length in words (default: 500)"`
	CustomPrompt string `json:"custom_prompt,omitempty" mcp:"optional custom summarization instruction"`
}

type assistantServer struct {
	classifier *classify.Classifier
	summarizer *summarize.Summarizer
}

func (s *assistantServer) ClassifyMessage(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[ClassifyParams]) (*mcp.CallToolResultFor[any], error) {
	res, err := s.classifier.Classify(ctx, params.Arguments.History, params.Arguments.Message)
	if err != nil {
		return &mcp.CallToolResultFor[any]{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("classification failed: %v", err)}},
		}, nil
	}

	display := classify.ForDisplay(res, params.Arguments.Timezone)
	data, err := json.MarshalIndent(display, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		Meta:    map[string]any{"kind": string(res.Kind())},
	}, nil
}

func (s *assistantServer) SummarizeText(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[SummarizeParams]) (*mcp.CallToolResultFor[any], error) {
	res, err := s.summarizer.SummarizeText(ctx, params.Arguments.Text, summarize.Options{
		MaxWords:     params.Arguments.MaxWords,
		CustomPrompt: params.Arguments.CustomPrompt,
	})
	if err != nil {
		return &mcp.CallToolResultFor[any]{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("summarization failed: %v", err)}},
		}, nil
	}
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: res.Summary}},
		Meta: map[string]any{
			"original_length": res.OriginalLength,
			"summary_length":  res.SummaryLength,
		},
	}, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("❌ OPENAI_API_KEY environment variable is required")
	}
	baseURL := os.Getenv("OPENAI_BASE_URL")
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4"
	}

	srv := &assistantServer{
		classifier: classify.New(llm.NewOpenAI(apiKey, baseURL, model, "", "")),
		summarizer: summarize.New(apiKey, baseURL, model),
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "day-assistant-mcp",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "classify_message",
		Description: "Classifies a user message into a structured response, event, task or note",
	}, srv.ClassifyMessage)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "summarize_text",
		Description: "Summarizes raw text to a target word count",
	}, srv.SummarizeText)

	log.Printf("📋 Registered MCP tools: classify_message, summarize_text")
	log.Printf("🔗 Starting day-assistant MCP server on stdin/stdout...")

	if err := server.Run(context.Background(), mcp.NewStdioTransport()); err != nil {
		log.Fatalf("❌ MCP server failed: %v", err)
	}
}
