package publish

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	// Raw HTML in cells is not passed through (no html.WithUnsafe).
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.5; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: .25rem .5rem; min-width: 4rem; text-align: center; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// RenderHTML converts markdown produced by RenderMarkdown into a standalone page.
func RenderHTML(title, md string) (string, error) {
	var body bytes.Buffer
	if err := markdownRenderer.Convert([]byte(md), &body); err != nil {
		return "", err
	}
	var out bytes.Buffer
	err := pageTemplate.Execute(&out, struct {
		Title string
		// goldmark output is trusted only because raw HTML is disabled above.
		Body template.HTML
	}{Title: title, Body: template.HTML(body.String())})
	if err != nil {
		return "", err
	}
	return out.String(), nil
}
