package parser

import (
	"bytes"
	"context"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/fredcamaral/inkpost/internal/domain/ports"
)

// GoldmarkRenderer renders post markdown with Goldmark and sanitizes the
// result with bluemonday
type GoldmarkRenderer struct {
	md          goldmark.Markdown
	policy      *bluemonday.Policy
	frontmatter *FrontmatterParser
}

// NewGoldmarkRenderer creates a new Goldmark-based markdown renderer
func NewGoldmarkRenderer() *GoldmarkRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,         // tables, strikethrough, task lists, autolinks
			extension.Typographer, // Smart punctuation
			extension.Footnote,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			// raw HTML is passed through and cleaned by the policy below
			html.WithUnsafe(),
		),
	)

	return &GoldmarkRenderer{
		md:          md,
		policy:      newPostPolicy(),
		frontmatter: NewFrontmatterParser(),
	}
}

// Render converts markdown to sanitized HTML. Leading YAML frontmatter is
// dropped; a block that does not parse as frontmatter is rendered as is.
func (r *GoldmarkRenderer) Render(ctx context.Context, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	source := []byte(markdown)
	if doc, err := r.frontmatter.Parse(ctx, source); err == nil {
		source = []byte(doc.Body)
	}

	var buf bytes.Buffer
	if err := r.md.Convert(source, &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}

	return r.policy.Sanitize(buf.String()), nil
}

// newPostPolicy starts from the user generated content policy and keeps the
// attributes Goldmark emits for headings, code blocks and task lists
func newPostPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre", "span")
	p.AllowAttrs("type", "checked", "disabled").OnElements("input")
	p.RequireNoFollowOnLinks(true)
	return p
}

// Ensure GoldmarkRenderer implements ports.MarkdownRenderer
var _ ports.MarkdownRenderer = (*GoldmarkRenderer)(nil)
