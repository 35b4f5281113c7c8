// Package ingest loads resume and posting text from files.
package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	noiseSelector = "script, style, nav, header, footer, iframe, noscript, form"
	blockSelector = "h1, h2, h3, h4, h5, h6, p, li, dt, dd, td, th, pre, blockquote"
)

var spacesRe = regexp.MustCompile(`[ \t\f\r\v\p{Zs}]+`)

// ErrEmpty is returned when a document has no text.
var ErrEmpty = errors.New("document is empty")

// LoadFile reads a document. HTML files are reduced to their readable text;
// anything else is returned as is.
func LoadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	text := string(data)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		text, err = HTMLText(text)
		if err != nil {
			return "", fmt.Errorf("extract text from %s: %w", path, err)
		}
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	return text, nil
}

// HTMLText extracts readable text from an HTML fragment or page, one block per line.
// List items are prefixed with "- " so they read as bullets.
func HTMLText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find(noiseSelector).Remove()
	doc.Find("br").ReplaceWithHtml("\n")

	var lines []string
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		// Only leaf blocks, so nested content is not emitted twice.
		if s.Find(blockSelector).Length() > 0 {
			return
		}

		blockLines := splitLines(s.Text())
		if len(blockLines) == 0 {
			return
		}
		if goquery.NodeName(s) == "li" {
			blockLines[0] = "- " + blockLines[0]
		}
		lines = append(lines, blockLines...)
	})

	if len(lines) == 0 {
		lines = splitLines(doc.Find("body").Text())
	}

	return strings.Join(lines, "\n"), nil
}

func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(spacesRe.ReplaceAllString(line, " "))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
