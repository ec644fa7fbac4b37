package onenote

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownToHTML(t *testing.T) {
	out := MarkdownToHTML("# Weekly plan\n\nShip **the release**.\n\n- one\n- two\n")

	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "Weekly plan</h1>")
	assert.Contains(t, out, "<strong>the release</strong>")
	assert.Contains(t, out, "<li>one</li>")
}

func TestHTMLToMarkdown(t *testing.T) {
	out, err := HTMLToMarkdown("<h1>Weekly plan</h1><p>Ship <strong>the release</strong>.</p>")

	require.NoError(t, err)
	assert.Contains(t, out, "Weekly plan")
	assert.Contains(t, out, "**the release**")
	assert.NotContains(t, out, "<strong>")
}

func TestHTMLToText(t *testing.T) {
	out, err := HTMLToText("<html><body><h1>Weekly plan</h1><p>Ship the release.</p></body></html>")

	require.NoError(t, err)
	assert.Contains(t, out, "Weekly plan")
	assert.Contains(t, out, "Ship the release.")
	assert.NotContains(t, out, "<p>")
}

func TestRenderContent(t *testing.T) {
	page := "<p>hello</p>"

	out, err := RenderContent(page, FormatHTML)
	require.NoError(t, err)
	assert.Equal(t, page, out)

	out, err = RenderContent(page, FormatText)
	require.NoError(t, err)
	assert.Equal(t, "hello", strings.TrimSpace(out))

	out, err = RenderContent(page, FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "hello", strings.TrimSpace(out))
}

func TestParseContentFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    ContentFormat
		wantErr bool
	}{
		{"", FormatHTML, false},
		{"HTML", FormatHTML, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"txt", FormatText, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseContentFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestPageDocument(t *testing.T) {
	created := time.Date(2024, 3, 9, 8, 30, 0, 0, time.UTC)
	doc := PageDocument("Tom & Jerry <draft>", "<p>body</p>", created)

	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	assert.Contains(t, doc, "<title>Tom &amp; Jerry &lt;draft&gt;</title>")
	assert.Contains(t, doc, `<meta name="created" content="2024-03-09T08:30:00Z" />`)
	assert.Contains(t, doc, "<body>\n<p>body</p>\n</body>")

	assert.NotContains(t, PageDocument("t", "", time.Time{}), `name="created"`)
}
