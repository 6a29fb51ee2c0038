package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

type walker struct {
	r         *Renderer
	source    []byte
	buf       bytes.Buffer
	listDepth int
}

func (w *walker) walkBlock(n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		w.block(c)
	}
}

func (w *walker) block(node ast.Node) {
	switch n := node.(type) {
	case *ast.Document:
		w.walkBlock(n)

	case *ast.Heading:
		prefix := strings.Repeat("#", n.Level) + " "
		w.buf.WriteString(w.r.styles.Heading.Render(prefix + w.inlineString(n)))
		w.buf.WriteString("\n\n")

	case *ast.Paragraph:
		w.buf.WriteString(w.wrap(w.inlineString(n)))
		w.buf.WriteString("\n\n")

	case *ast.TextBlock:
		w.buf.WriteString(w.inlineString(n))
		w.buf.WriteString("\n")

	case *ast.Blockquote:
		sub := &walker{r: w.r, source: w.source}
		sub.walkBlock(n)
		body := strings.TrimRight(sub.buf.String(), "\n ")
		for _, line := range strings.Split(body, "\n") {
			w.buf.WriteString(w.r.styles.Quote.Render("│ " + line))
			w.buf.WriteByte('\n')
		}
		w.buf.WriteByte('\n')

	case *ast.List:
		w.list(n)

	case *ast.FencedCodeBlock:
		w.buf.WriteString(w.r.Code(w.lines(n), string(n.Language(w.source))))
		w.buf.WriteString("\n\n")

	case *ast.CodeBlock:
		w.buf.WriteString(w.r.Code(w.lines(n), ""))
		w.buf.WriteString("\n\n")

	case *ast.ThematicBreak:
		width := w.r.wrapWidth()
		if width == 0 {
			width = 40
		}
		w.buf.WriteString(w.r.styles.Rule.Render(strings.Repeat("─", width)))
		w.buf.WriteString("\n\n")

	case *ast.HTMLBlock:
		w.buf.WriteString(w.lines(n))
		w.buf.WriteString("\n")

	default:
		if t, ok := node.(*east.Table); ok {
			w.table(t)
			return
		}
		if node.HasChildren() {
			w.walkBlock(node)
		}
	}
}

func (w *walker) lines(n ast.Node) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(w.source))
	}
	return sb.String()
}

func (w *walker) wrap(s string) string {
	width := w.r.wrapWidth()
	if width == 0 {
		return s
	}
	return wordwrap.String(s, width)
}

func (w *walker) inlineString(n ast.Node) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		w.inline(c, &sb)
	}
	return sb.String()
}

func (w *walker) inline(node ast.Node, sb *strings.Builder) {
	st := w.r.styles
	switch n := node.(type) {
	case *ast.Text:
		sb.Write(n.Text(w.source))
		if n.SoftLineBreak() || n.HardLineBreak() {
			sb.WriteByte('\n')
		}

	case *ast.String:
		sb.Write(n.Value)

	case *ast.Emphasis:
		inner := w.inlineString(n)
		if n.Level == 2 {
			sb.WriteString(st.Strong.Render(inner))
		} else {
			sb.WriteString(st.Emphasis.Render(inner))
		}

	case *ast.CodeSpan:
		sb.WriteString(st.CodeSpan.Render(w.plainText(n)))

	case *ast.Link:
		label := w.inlineString(n)
		dest := string(n.Destination)
		if label == "" || label == dest {
			sb.WriteString(st.Link.Render(dest))
		} else {
			fmt.Fprintf(sb, "%s (%s)", st.Link.Render(label), dest)
		}

	case *ast.AutoLink:
		sb.WriteString(st.Link.Render(string(n.URL(w.source))))

	case *ast.Image:
		alt := w.plainText(n)
		if alt == "" {
			alt = "image"
		}
		fmt.Fprintf(sb, "[%s] (%s)", alt, n.Destination)

	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			sb.Write(seg.Value(w.source))
		}

	default:
		switch v := node.(type) {
		case *east.Strikethrough:
			sb.WriteString(st.Strike.Render(w.inlineString(v)))
		case *east.TaskCheckBox:
			if v.IsChecked {
				sb.WriteString("[x] ")
			} else {
				sb.WriteString("[ ] ")
			}
		default:
			if node.HasChildren() {
				sb.WriteString(w.inlineString(node))
			}
		}
	}
}

// plainText returns the unstyled text content of a node tree
func (w *walker) plainText(node ast.Node) string {
	var sb strings.Builder
	w.collectText(node, &sb)
	return sb.String()
}

func (w *walker) collectText(node ast.Node, sb *strings.Builder) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Text(w.source))
		case *ast.String:
			sb.Write(t.Value)
		default:
			w.collectText(c, sb)
		}
	}
}

func (w *walker) list(n *ast.List) {
	idx := 0
	if n.Start > 0 {
		idx = n.Start - 1
	}
	indent := strings.Repeat("  ", w.listDepth)

	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		item, ok := child.(*ast.ListItem)
		if !ok {
			continue
		}
		w.buf.WriteString(indent)
		if n.IsOrdered() {
			idx++
			w.buf.WriteString(w.r.styles.Bullet.Render(fmt.Sprintf("%d.", idx)))
		} else {
			w.buf.WriteString(w.r.styles.Bullet.Render("•"))
		}
		w.buf.WriteByte(' ')
		w.listItem(item)
		w.buf.WriteByte('\n')
	}
	if w.listDepth == 0 {
		w.buf.WriteByte('\n')
	}
}

func (w *walker) listItem(item *ast.ListItem) {
	first := true
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		switch n := c.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			if !first {
				w.buf.WriteByte('\n')
				w.buf.WriteString(strings.Repeat("  ", w.listDepth+1))
			}
			w.buf.WriteString(w.inlineString(n))
			first = false
		case *ast.List:
			w.buf.WriteByte('\n')
			w.listDepth++
			w.list(n)
			w.listDepth--
			trimTrailingNewline(&w.buf)
		default:
			w.block(c)
			first = false
		}
	}
}

func trimTrailingNewline(buf *bytes.Buffer) {
	if b := buf.Bytes(); len(b) > 0 && b[len(b)-1] == '\n' {
		buf.Truncate(len(b) - 1)
	}
}

func (w *walker) table(t *east.Table) {
	var rows [][]string
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, strings.TrimSpace(w.inlineString(cell)))
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				if cw := lipgloss.Width(cell); cw > widths[i] {
					widths[i] = cw
				}
			}
		}
	}

	for r, row := range rows {
		parts := make([]string, len(row))
		for i, cell := range row {
			pad := 0
			if i < len(widths) {
				pad = widths[i] - lipgloss.Width(cell)
			}
			parts[i] = cell + strings.Repeat(" ", pad)
		}
		line := strings.TrimRight(strings.Join(parts, " │ "), " ")
		if r == 0 {
			line = w.r.styles.Strong.Render(line)
		}
		w.buf.WriteString(line)
		w.buf.WriteByte('\n')
		if r == 0 {
			seps := make([]string, len(widths))
			for i, cw := range widths {
				seps[i] = strings.Repeat("─", cw)
			}
			w.buf.WriteString(w.r.styles.Rule.Render(strings.Join(seps, "─┼─")))
			w.buf.WriteByte('\n')
		}
	}
	w.buf.WriteByte('\n')
}
