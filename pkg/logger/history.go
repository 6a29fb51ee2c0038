package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const defaultHistoryPath = ".agentchat/logs/chat.history"

var (
	historyMu   sync.Mutex
	historyFile *os.File
)

// InitHistoryFile opens the chat history file. With cont set the file is
// appended to, otherwise it is truncated.
func InitHistoryFile(path string, cont bool) error {
	if path == "" {
		path = defaultHistoryPath
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	marker := "Started"
	if cont {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
		marker = "Continued"
	}

	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}

	historyMu.Lock()
	defer historyMu.Unlock()
	if historyFile != nil {
		historyFile.Close()
	}
	historyFile = f

	_, err = fmt.Fprintf(f, "=== Agentchat Session %s %s ===\n", marker, time.Now().Format(time.RFC3339))
	return err
}

// LogChatHistory appends one transcript entry to the history file. It is a
// no-op when no history file is open.
func LogChatHistory(role, content string) error {
	historyMu.Lock()
	defer historyMu.Unlock()
	if historyFile == nil {
		return nil
	}

	ts := time.Now().Format("15:04:05")
	body := strings.ReplaceAll(content, "\n", "\n    ")
	if _, err := fmt.Fprintf(historyFile, "[%s] %s: %s\n", ts, strings.ToUpper(role), body); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

// LogChatHistoryMarker writes a free-form separator line, used when the transcript is cleared
func LogChatHistoryMarker(text string) error {
	historyMu.Lock()
	defer historyMu.Unlock()
	if historyFile == nil {
		return nil
	}
	_, err := fmt.Fprintf(historyFile, "--- %s ---\n", text)
	return err
}

func closeHistory() error {
	historyMu.Lock()
	defer historyMu.Unlock()
	if historyFile == nil {
		return nil
	}
	err := historyFile.Close()
	historyFile = nil
	return err
}
