// Package render turns transcript content blocks into terminal text. Text
// blocks pass through verbatim. Markdown blocks are parsed with goldmark and
// styled with lipgloss, with fenced code highlighted by chroma.
package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/killallgit/agentchat/pkg/chat"
	"github.com/killallgit/agentchat/pkg/logger"
	"github.com/killallgit/agentchat/pkg/tui/theme"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

const minWidth = 20

// Options configures a Renderer
type Options struct {
	// Markdown disables markdown styling when false; markdown blocks are then
	// shown as their source text.
	Markdown bool
	// CodeTheme is a chroma style name
	CodeTheme string
	// Formatter is a chroma formatter name, "terminal16m" when empty
	Formatter string
	// Width wraps paragraphs; zero disables wrapping
	Width int
}

// Renderer renders content blocks. Safe to reuse; not safe for concurrent
// use while SetWidth is called.
type Renderer struct {
	opts      Options
	md        goldmark.Markdown
	styles    theme.MarkdownStyles
	formatter chroma.Formatter
	log       *logger.ComponentLogger
}

func New(opts Options) *Renderer {
	if opts.CodeTheme == "" {
		opts.CodeTheme = "monokai"
	}
	if opts.Formatter == "" {
		opts.Formatter = "terminal16m"
	}
	formatter := formatters.Get(opts.Formatter)
	if formatter == nil {
		formatter = formatters.Fallback
	}
	return &Renderer{
		opts:      opts,
		md:        goldmark.New(goldmark.WithExtensions(extension.GFM)),
		styles:    theme.DefaultMarkdownStyles(),
		formatter: formatter,
		log:       logger.WithComponent("render"),
	}
}

// SetWidth updates the wrap width
func (r *Renderer) SetWidth(width int) {
	r.opts.Width = width
}

func (r *Renderer) Width() int {
	return r.opts.Width
}

// Blocks renders a sequence of blocks. Adjacent blocks of the same kind are
// joined before rendering so markdown split across stream chunks parses as
// one document.
func (r *Renderer) Blocks(blocks []chat.ContentBlock) string {
	var sb strings.Builder
	for _, group := range mergeRuns(blocks) {
		sb.WriteString(r.Block(group))
	}
	return sb.String()
}

// Block renders one block
func (r *Renderer) Block(b chat.ContentBlock) string {
	if b.Kind == chat.KindMarkdown && r.opts.Markdown {
		return r.Markdown(b.Text)
	}
	return b.Text
}

// Markdown renders markdown source as styled terminal text
func (r *Renderer) Markdown(src string) string {
	if strings.TrimSpace(src) == "" {
		return src
	}
	source := []byte(src)
	doc := r.md.Parser().Parse(text.NewReader(source))

	w := &walker{r: r, source: source}
	w.walkBlock(doc)
	return strings.TrimRight(w.buf.String(), "\n ")
}

func (r *Renderer) wrapWidth() int {
	if r.opts.Width <= 0 {
		return 0
	}
	if r.opts.Width < minWidth {
		return minWidth
	}
	return r.opts.Width
}

func mergeRuns(blocks []chat.ContentBlock) []chat.ContentBlock {
	var out []chat.ContentBlock
	for _, b := range blocks {
		if n := len(out); n > 0 && out[n-1].Kind == b.Kind {
			out[n-1].Text += b.Text
			continue
		}
		out = append(out, b)
	}
	return out
}
