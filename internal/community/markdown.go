package community

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// RenderMarkdown converts a notice body to HTML. Raw HTML in the source is
// dropped and links open in a new tab.
func RenderMarkdown(source string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock)
	r := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.SkipHTML | html.HrefTargetBlank | html.Safelink,
	})
	return string(markdown.ToHTML([]byte(source), p, r))
}
