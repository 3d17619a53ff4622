package parser

import (
	"bytes"
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/fredcamaral/inkpost/internal/domain/ports"
)

var frontmatterDelimiter = []byte("---")

// FrontmatterParser splits a markdown file into YAML frontmatter and body
type FrontmatterParser struct{}

// NewFrontmatterParser creates a new frontmatter parser
func NewFrontmatterParser() *FrontmatterParser {
	return &FrontmatterParser{}
}

// Parse extracts frontmatter delimited by "---" lines at the top of content.
// Content without an opening delimiter is returned whole as the body; an
// opening delimiter without a closing one, or invalid YAML, is an error.
func (p *FrontmatterParser) Parse(ctx context.Context, content []byte) (*ports.ParsedDocument, error) {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))

	if !bytes.HasPrefix(content, []byte("---\n")) {
		return &ports.ParsedDocument{Body: string(content)}, nil
	}

	lines := bytes.Split(content, []byte("\n"))
	end := -1
	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), frontmatterDelimiter) {
			end = i
			break
		}
	}
	if end == -1 {
		return nil, fmt.Errorf("frontmatter is not closed")
	}

	frontmatter := make(map[string]interface{})
	if raw := bytes.Join(lines[1:end], []byte("\n")); len(bytes.TrimSpace(raw)) > 0 {
		if err := yaml.Unmarshal(raw, &frontmatter); err != nil {
			return nil, fmt.Errorf("parsing frontmatter: %w", err)
		}
	}

	body := bytes.Join(lines[end+1:], []byte("\n"))
	return &ports.ParsedDocument{
		Frontmatter: frontmatter,
		Body:        string(bytes.TrimLeft(body, "\n")),
	}, nil
}

// Ensure FrontmatterParser implements ports.DocumentParser
var _ ports.DocumentParser = (*FrontmatterParser)(nil)
