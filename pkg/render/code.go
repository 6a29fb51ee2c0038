package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Code highlights a code listing. Highlighting failures fall back to the
// plain listing.
func (r *Renderer) Code(content, language string) string {
	content = strings.TrimRight(content, "\n")

	var lexer chroma.Lexer
	if language != "" {
		lexer = lexers.Get(language)
	}
	if lexer == nil {
		lexer = lexers.Analyse(content)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	highlighted := content
	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		r.log.Debug("tokenise failed, using plain text", "language", language, "error", err)
	} else {
		var buf strings.Builder
		if err := r.formatter.Format(&buf, styles.Get(r.opts.CodeTheme), iterator); err != nil {
			r.log.Debug("format failed, using plain text", "language", language, "error", err)
		} else {
			highlighted = strings.TrimRight(buf.String(), "\n")
		}
	}

	out := r.styles.CodeBlock.Render(highlighted)
	if language != "" {
		out = r.styles.CodeLang.Render(language) + "\n" + out
	}
	return out
}
