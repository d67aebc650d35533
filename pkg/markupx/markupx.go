// Package markupx renders user supplied Markdown into HTML that is safe to
// embed in a page.
package markupx

import (
	"bytes"
	"html/template"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	once   sync.Once
	md     goldmark.Markdown
	policy *bluemonday.Policy
)

func setup() {
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)
	policy = bluemonday.UGCPolicy()
}

// Render converts Markdown to sanitized HTML. Raw HTML in the source is
// passed through goldmark and then stripped down by the UGC policy, so
// script tags and event handlers never survive.
func Render(source string) (template.HTML, error) {
	once.Do(setup)

	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes())), nil
}

// Excerpt returns the first n runes of the plain source, for listings.
func Excerpt(source string, n int) string {
	r := []rune(source)
	if len(r) <= n {
		return source
	}
	return string(r[:n]) + "…"
}
