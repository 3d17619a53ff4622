package ports

import (
	"context"
)

// MarkdownRenderer converts post markdown into safe HTML
type MarkdownRenderer interface {
	Render(ctx context.Context, markdown string) (string, error)
}

// DocumentParser splits a markdown document into frontmatter and body
type DocumentParser interface {
	Parse(ctx context.Context, content []byte) (*ParsedDocument, error)
}

// ParsedDocument represents the result of parsing a markdown document
type ParsedDocument struct {
	Frontmatter map[string]interface{}
	Body        string
}

// FrontmatterString returns a string frontmatter value, or "" when absent or not a string
func (d *ParsedDocument) FrontmatterString(key string) string {
	if d == nil || d.Frontmatter == nil {
		return ""
	}
	s, _ := d.Frontmatter[key].(string)
	return s
}
