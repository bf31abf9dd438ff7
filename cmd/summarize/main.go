package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"day-assistant/internal/summarize"
)

func main() {
	file := flag.String("file", "", "path of the file to summarize")
	text := flag.String("text", "", "raw text to summarize (ignored when -file is set)")
	words := flag.Int("words", 500, "target summary length in words")
	prompt := flag.String("prompt", "", "custom summarization instruction")
	flag.Parse()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY environment variable is required")
	}

	s := summarize.New(apiKey, os.Getenv("OPENAI_BASE_URL"), os.Getenv("OPENAI_MODEL"))
	opts := summarize.Options{MaxWords: *words, CustomPrompt: *prompt}
	ctx := context.Background()

	switch {
	case *file != "":
		res, err := s.SummarizeFile(ctx, *file, opts)
		if err != nil {
			log.Fatalf("summarization failed: %v", err)
		}
		fmt.Printf("%s (%s)\n\n%s\n", res.FileName, res.FileSize, res.Summary)
	case *text != "":
		res, err := s.SummarizeText(ctx, *text, opts)
		if err != nil {
			log.Fatalf("summarization failed: %v", err)
		}
		fmt.Printf("%s\n\n(%d words -> %d words)\n", res.Summary, res.OriginalLength, res.SummaryLength)
	default:
		flag.Usage()
		os.Exit(2)
	}
}
