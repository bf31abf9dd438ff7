package telegram

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"day-assistant/internal/summarize"
)

func hasAttachment(msg *tgbotapi.Message) bool {
	return msg.Document != nil || msg.Voice != nil || msg.Audio != nil ||
		msg.VideoNote != nil || msg.Video != nil || len(msg.Photo) > 0
}

// handleFileSummarization downloads the attachment and replies with its
// summary. The caption, when present, becomes the custom summarization
// instruction.
func (b *Bot) handleFileSummarization(ctx context.Context, msg *tgbotapi.Message) {
	fileID, name := attachmentFile(msg)
	if fileID == "" {
		b.sendMessage(msg.Chat.ID, "Sorry, I can't read this attachment type.")
		return
	}

	log.Printf("📄 Summarization request from %d: %s", msg.From.ID, name)
	b.sendMessage(msg.Chat.ID, fmt.Sprintf("⏳ Summarizing %s...", name))

	path, err := b.downloadFile(fileID, name)
	if err != nil {
		log.Printf("failed to download file: %v", err)
		b.sendMessage(msg.Chat.ID, "Sorry, I couldn't download the file.")
		return
	}
	defer func() { _ = os.Remove(path) }()

	result, err := b.summarizer.SummarizeFile(ctx, path, summarize.Options{CustomPrompt: msg.Caption})
	if err != nil {
		log.Printf("failed to summarize file %s: %v", name, err)
		b.sendMessage(msg.Chat.ID, "Sorry, summarization failed.")
		return
	}

	b.sendMessage(msg.Chat.ID, fmt.Sprintf("📄 %s (%s)\n\n%s", result.FileName, result.FileSize, result.Summary))
}

// attachmentFile picks the downloadable file ID and a local name carrying
// the right extension for capability routing.
func attachmentFile(msg *tgbotapi.Message) (fileID, name string) {
	switch {
	case msg.Document != nil:
		return msg.Document.FileID, msg.Document.FileName
	case msg.Voice != nil:
		return msg.Voice.FileID, "voice.ogg"
	case msg.Audio != nil:
		if msg.Audio.FileName != "" {
			return msg.Audio.FileID, msg.Audio.FileName
		}
		return msg.Audio.FileID, "audio.mp3"
	case msg.VideoNote != nil:
		return msg.VideoNote.FileID, "video_note.mp4"
	case msg.Video != nil:
		if msg.Video.FileName != "" {
			return msg.Video.FileID, msg.Video.FileName
		}
		return msg.Video.FileID, "video.mp4"
	case len(msg.Photo) > 0:
		// Telegram orders photo sizes ascending; take the largest.
		return msg.Photo[len(msg.Photo)-1].FileID, "photo.jpg"
	}
	return "", ""
}

func (b *Bot) downloadFile(fileID, name string) (string, error) {
	file, err := b.s.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("get file: %w", err)
	}

	resp, err := http.Get(file.Link(b.token))
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download: unexpected status %s", resp.Status)
	}

	path := filepath.Join(os.TempDir(), fmt.Sprintf("day-assistant-%s-%s", fileID, filepath.Base(name)))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = out.Close() }()
	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}
	return path, nil
}
