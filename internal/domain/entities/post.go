package entities

import (
	"errors"
	"time"
)

// NewPostSlug is the route parameter reserved for a post that does not exist yet
const NewPostSlug = "new"

// Post represents a blog post as stored by the persistence layer
type Post struct {
	// Slug is the unique identifier and URL segment of the post
	Slug string `yaml:"slug" json:"slug"`

	// Title is the post title shown in listings
	Title string `yaml:"title" json:"title"`

	// Markdown is the raw post body
	Markdown string `yaml:"-" json:"markdown"`

	CreatedAt time.Time `yaml:"-" json:"created_at"`
	UpdatedAt time.Time `yaml:"-" json:"updated_at"`
}

// Validate ensures the post has all required fields
func (p *Post) Validate() error {
	if p.Slug == "" {
		return errors.New("post slug is required")
	}
	if p.Title == "" {
		return errors.New("post title is required")
	}
	if p.Markdown == "" {
		return errors.New("post markdown is required")
	}
	return nil
}

// Listing returns the listing projection of the post
func (p *Post) Listing() PostListing {
	return PostListing{Slug: p.Slug, Title: p.Title}
}

// Input returns the writable fields of the post
func (p *Post) Input() PostInput {
	return PostInput{Title: p.Title, Slug: p.Slug, Markdown: p.Markdown}
}

// PostListing is the slug/title pair used by post listings
type PostListing struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// PostInput carries the fields written by create and update
type PostInput struct {
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Markdown string `json:"markdown"`
}

// Validate checks that every field is non-empty and reports one message per empty field
func (in PostInput) Validate() ValidationResult {
	return ValidationResult{
		Title:    requireField(FieldTitle, in.Title),
		Slug:     requireField(FieldSlug, in.Slug),
		Markdown: requireField(FieldMarkdown, in.Markdown),
	}
}
