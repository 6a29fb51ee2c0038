package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Base16 palette with warm earth tones
var (
	ColorBase00 = lipgloss.Color("#1a1816") // Dark background
	ColorBase01 = lipgloss.Color("#282420") // Lighter background
	ColorBase02 = lipgloss.Color("#36302a") // Selection background
	ColorBase03 = lipgloss.Color("#5c5044") // Comments, invisibles
	ColorBase04 = lipgloss.Color("#83715f") // Dark foreground
	ColorBase05 = lipgloss.Color("#ab937b") // Default foreground
	ColorBase06 = lipgloss.Color("#d3b597") // Light foreground
	ColorBase07 = lipgloss.Color("#f5d7b9") // Lightest foreground

	ColorRed    = lipgloss.Color("#d95f5f")
	ColorOrange = lipgloss.Color("#eb8755")
	ColorYellow = lipgloss.Color("#f5b761")
	ColorGreen  = lipgloss.Color("#93b56b")
	ColorCyan   = lipgloss.Color("#61afaf")
	ColorBlue   = lipgloss.Color("#6b93b5")
	ColorPurple = lipgloss.Color("#976bb5")
	ColorBrown  = lipgloss.Color("#b57f6b")

	ColorBorder  = ColorBase03
	ColorFocus   = ColorOrange
	ColorSuccess = ColorGreen
	ColorWarning = ColorYellow
	ColorError   = ColorRed
	ColorInfo    = ColorCyan
	ColorMuted   = ColorBase03
)

// Styles defines the lipgloss styles for the chat screen
type Styles struct {
	// Layout
	Viewport    lipgloss.Style
	InputBorder lipgloss.Style
	StatusBar   lipgloss.Style

	// Transcript
	UserLabel    lipgloss.Style
	AgentLabel   lipgloss.Style
	UserMessage  lipgloss.Style
	AgentMessage lipgloss.Style
	Partial      lipgloss.Style
	Timestamp    lipgloss.Style

	// Status line
	Connected    lipgloss.Style
	Connecting   lipgloss.Style
	Disconnected lipgloss.Style
	Notice       lipgloss.Style
	Hint         lipgloss.Style
}

// DefaultStyles returns the default chat screen styles
func DefaultStyles() *Styles {
	return &Styles{
		Viewport: lipgloss.NewStyle().
			Padding(0, 1),

		InputBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorFocus).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(ColorBase05).
			Padding(0, 1),

		UserLabel: lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true),

		AgentLabel: lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true),

		UserMessage: lipgloss.NewStyle().
			Foreground(ColorBase06),

		AgentMessage: lipgloss.NewStyle().
			Foreground(ColorBase05),

		Partial: lipgloss.NewStyle().
			Foreground(ColorBase04),

		Timestamp: lipgloss.NewStyle().
			Foreground(ColorMuted),

		Connected: lipgloss.NewStyle().
			Foreground(ColorSuccess),

		Connecting: lipgloss.NewStyle().
			Foreground(ColorWarning),

		Disconnected: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),

		Notice: lipgloss.NewStyle().
			Foreground(ColorWarning).
			Italic(true),

		Hint: lipgloss.NewStyle().
			Foreground(ColorMuted),
	}
}

// MarkdownStyles are applied to rendered markdown elements
type MarkdownStyles struct {
	Heading   lipgloss.Style
	Strong    lipgloss.Style
	Emphasis  lipgloss.Style
	Strike    lipgloss.Style
	CodeSpan  lipgloss.Style
	CodeBlock lipgloss.Style
	CodeLang  lipgloss.Style
	Link      lipgloss.Style
	Quote     lipgloss.Style
	Bullet    lipgloss.Style
	Rule      lipgloss.Style
}

// DefaultMarkdownStyles returns the default markdown styles
func DefaultMarkdownStyles() MarkdownStyles {
	return MarkdownStyles{
		Heading:  lipgloss.NewStyle().Foreground(ColorOrange).Bold(true),
		Strong:   lipgloss.NewStyle().Bold(true),
		Emphasis: lipgloss.NewStyle().Italic(true),
		Strike:   lipgloss.NewStyle().Strikethrough(true),
		CodeSpan: lipgloss.NewStyle().Foreground(ColorYellow),
		CodeBlock: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(ColorBorder).
			PaddingLeft(1),
		CodeLang: lipgloss.NewStyle().Foreground(ColorMuted).Italic(true),
		Link:     lipgloss.NewStyle().Foreground(ColorCyan).Underline(true),
		Quote:    lipgloss.NewStyle().Foreground(ColorBase04).Italic(true),
		Bullet:   lipgloss.NewStyle().Foreground(ColorOrange),
		Rule:     lipgloss.NewStyle().Foreground(ColorBorder),
	}
}
