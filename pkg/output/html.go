package output

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const reportStyle = "body{font-family:sans-serif;max-width:960px;margin:0 auto;padding:1rem;} " +
	"table{border-collapse:collapse;} th,td{border:1px solid #a8a29e;padding:0.3rem 0.5rem;} " +
	"thead th{background:#f1f5f9;}"

// RenderHTML converts a markdown report to a standalone HTML page.
func RenderHTML(title, markdown string) ([]byte, error) {
	var content bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(markdown), &content); err != nil {
		return nil, fmt.Errorf("markdown convert: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!doctype html><html><head><meta charset='utf-8'><title>")
	page.WriteString(html.EscapeString(title))
	page.WriteString("</title><style>" + reportStyle + "</style></head><body>")
	page.Write(content.Bytes())
	page.WriteString("</body></html>\n")
	return page.Bytes(), nil
}

func writeHTML(w io.Writer, title, markdown string) error {
	page, err := RenderHTML(title, markdown)
	if err != nil {
		return err
	}
	_, err = w.Write(page)
	return err
}
