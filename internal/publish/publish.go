// Package publish renders a chart for reading: a markdown outline, a standalone HTML
// page, or styled terminal output.
package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"mandala-cli/internal/chart"
)

type WriteOptions struct {
	RenderOptions
	HTML      bool
	Overwrite bool
}

type WriteResult struct {
	Written string `json:"written"`
	Bytes   int    `json:"bytes"`
}

// Render returns the document for a chart: markdown, or HTML when opt.HTML is set.
func Render(name string, t chart.Tree, opt WriteOptions) (string, error) {
	md, err := RenderMarkdown(name, t, opt.RenderOptions)
	if err != nil {
		return "", err
	}
	if !opt.HTML {
		return md, nil
	}
	return RenderHTML(name, md)
}

// WriteFile renders the chart into path.
func WriteFile(name string, t chart.Tree, path string, opt WriteOptions) (WriteResult, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return WriteResult{}, errors.New("missing --out")
	}
	path = filepath.Clean(path)
	doc, err := Render(name, t, opt)
	if err != nil {
		return WriteResult{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return WriteResult{}, err
	}
	if err := writeFile(path, []byte(doc), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: path, Bytes: len(doc)}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
