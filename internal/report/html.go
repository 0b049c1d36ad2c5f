package report

import (
	"hypotest/app"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// HTML renders the report as a standalone HTML page
func HTML(r *app.Report) []byte {
	return renderHTML(Markdown(r), planTitle(r))
}

func renderHTML(md, title string) []byte {
	// Parsers carry state; one per document.
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML([]byte(md), p, renderer)
}
