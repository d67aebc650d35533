package markupx_test

import (
	"strings"
	"testing"

	"github.com/aussiebroadwan/inkwell/pkg/markupx"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown(t *testing.T) {
	out, err := markupx.Render("# Hello\n\nSome *emphasis* and a [link](https://example.com).")
	require.NoError(t, err)

	s := string(out)
	require.Contains(t, s, "<h1")
	require.Contains(t, s, "<em>emphasis</em>")
	require.Contains(t, s, `href="https://example.com"`)
}

func TestRenderStripsScripts(t *testing.T) {
	out, err := markupx.Render("hi <script>alert(1)</script> <a href=\"javascript:alert(1)\" onclick=\"x()\">x</a>")
	require.NoError(t, err)

	s := strings.ToLower(string(out))
	require.NotContains(t, s, "<script")
	require.NotContains(t, s, "javascript:")
	require.NotContains(t, s, "onclick")
}

func TestExcerpt(t *testing.T) {
	require.Equal(t, "short", markupx.Excerpt("short", 10))
	require.Equal(t, "héllo…", markupx.Excerpt("héllo world", 5))
}
