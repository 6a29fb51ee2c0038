package protocol

import (
	"encoding/json"
	"fmt"
)

// Format selects how user input is framed on the wire
type Format string

const (
	// FormatRaw sends the user text unchanged
	FormatRaw Format = "raw"
	// FormatRequest wraps the text in {"type":"request",...}
	FormatRequest Format = "request"
	// FormatInitialize wraps the text in {"command":"initialize","task":...}
	FormatInitialize Format = "initialize"
)

// Formats lists every supported outbound format
func Formats() []Format {
	return []Format{FormatRaw, FormatRequest, FormatInitialize}
}

// Valid reports whether f is a supported format
func (f Format) Valid() bool {
	for _, known := range Formats() {
		if f == known {
			return true
		}
	}
	return false
}

type requestFrame struct {
	Type      string `json:"type"`
	Content   string `json:"content"`
	ProjectID string `json:"project_id,omitempty"`
}

type initializeFrame struct {
	Command string `json:"command"`
	Task    string `json:"task"`
}

// Encoder turns user text into an outbound frame payload
type Encoder struct {
	Format    Format
	ProjectID string
}

func NewEncoder(format Format, projectID string) Encoder {
	if format == "" {
		format = FormatRaw
	}
	return Encoder{Format: format, ProjectID: projectID}
}

// Encode returns the bytes to write for text
func (e Encoder) Encode(text string) ([]byte, error) {
	switch e.Format {
	case FormatRaw, "":
		return []byte(text), nil
	case FormatRequest:
		b, err := json.Marshal(requestFrame{Type: "request", Content: text, ProjectID: e.ProjectID})
		if err != nil {
			return nil, fmt.Errorf("failed to encode request frame: %w", err)
		}
		return b, nil
	case FormatInitialize:
		b, err := json.Marshal(initializeFrame{Command: "initialize", Task: text})
		if err != nil {
			return nil, fmt.Errorf("failed to encode initialize frame: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unsupported outbound format %q", e.Format)
	}
}
