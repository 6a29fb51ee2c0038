package chat

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Snapshot is the on-disk shape of an exported transcript
type Snapshot struct {
	ExportedAt time.Time `yaml:"exported_at"`
	ClientID   string    `yaml:"client_id,omitempty"`
	Messages   []Message `yaml:"messages"`
}

// Export writes the messages as a YAML document
func Export(w io.Writer, clientID string, messages []Message) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	snap := Snapshot{
		ExportedAt: time.Now().UTC(),
		ClientID:   clientID,
		Messages:   messages,
	}
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}
	return enc.Close()
}

// ExportFile writes the messages to path, creating parent directories
func ExportFile(path, clientID string, messages []Message) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()
	return Export(f, clientID, messages)
}

// LoadSnapshot reads a transcript previously written by Export
func LoadSnapshot(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	if err := yaml.NewDecoder(r).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode transcript: %w", err)
	}
	return snap, nil
}
