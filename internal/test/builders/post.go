package builders

import (
	"net/url"
	"strconv"
	"time"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
)

// PostBuilder helps build Post entities for testing
type PostBuilder struct {
	post *entities.Post
}

// NewPostBuilder creates a new post builder with sensible defaults
func NewPostBuilder() *PostBuilder {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return &PostBuilder{
		post: &entities.Post{
			Slug:      "test-post",
			Title:     "Test Post",
			Markdown:  "# Test Post\n\nSome content.",
			CreatedAt: created,
			UpdatedAt: created,
		},
	}
}

// WithSlug sets the post slug
func (b *PostBuilder) WithSlug(slug string) *PostBuilder {
	b.post.Slug = slug
	return b
}

// WithTitle sets the post title
func (b *PostBuilder) WithTitle(title string) *PostBuilder {
	b.post.Title = title
	return b
}

// WithMarkdown sets the post body
func (b *PostBuilder) WithMarkdown(markdown string) *PostBuilder {
	b.post.Markdown = markdown
	return b
}

// WithCreatedAt sets both timestamps
func (b *PostBuilder) WithCreatedAt(t time.Time) *PostBuilder {
	b.post.CreatedAt = t
	b.post.UpdatedAt = t
	return b
}

// Build returns a copy of the built post
func (b *PostBuilder) Build() *entities.Post {
	post := *b.post
	return &post
}

// Posts returns count posts with slugs post-1..post-N, each created one
// minute after the previous one
func Posts(count int) []*entities.Post {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	posts := make([]*entities.Post, 0, count)
	for i := 1; i <= count; i++ {
		n := strconv.Itoa(i)
		posts = append(posts, NewPostBuilder().
			WithSlug("post-"+n).
			WithTitle("Post "+n).
			WithCreatedAt(start.Add(time.Duration(i)*time.Minute)).
			Build())
	}
	return posts
}

// SubmissionBuilder helps build post form submissions for testing
type SubmissionBuilder struct {
	intent entities.Intent
	target string
	fields url.Values
}

// NewSubmissionBuilder starts a create submission for a valid new post
func NewSubmissionBuilder() *SubmissionBuilder {
	return &SubmissionBuilder{
		intent: entities.IntentCreate,
		target: entities.NewPostSlug,
		fields: url.Values{
			entities.FieldIntent:   {string(entities.IntentCreate)},
			entities.FieldTitle:    {"Test Post"},
			entities.FieldSlug:     {"test-post"},
			entities.FieldMarkdown: {"# Test Post"},
		},
	}
}

// ForPost targets an existing post with an update of its current values
func (b *SubmissionBuilder) ForPost(post *entities.Post) *SubmissionBuilder {
	b.target = post.Slug
	return b.WithIntent(entities.IntentUpdate).
		WithField(entities.FieldTitle, post.Title).
		WithField(entities.FieldSlug, post.Slug).
		WithField(entities.FieldMarkdown, post.Markdown)
}

// WithTarget sets the route slug the form was posted to
func (b *SubmissionBuilder) WithTarget(slug string) *SubmissionBuilder {
	b.target = slug
	return b
}

// WithIntent sets the intent; an empty intent removes the field
func (b *SubmissionBuilder) WithIntent(intent entities.Intent) *SubmissionBuilder {
	b.intent = intent
	if intent == "" {
		b.fields.Del(entities.FieldIntent)
	} else {
		b.fields.Set(entities.FieldIntent, string(intent))
	}
	return b
}

// WithField sets a form field
func (b *SubmissionBuilder) WithField(name, value string) *SubmissionBuilder {
	b.fields.Set(name, value)
	return b
}

// WithoutField drops a form field, making the submission malformed
func (b *SubmissionBuilder) WithoutField(name string) *SubmissionBuilder {
	b.fields.Del(name)
	return b
}

// Build returns the submission with its own copy of the fields
func (b *SubmissionBuilder) Build() entities.Submission {
	fields := make(url.Values, len(b.fields))
	for k, v := range b.fields {
		fields[k] = append([]string(nil), v...)
	}
	return entities.Submission{Intent: b.intent, TargetSlug: b.target, Fields: fields}
}
