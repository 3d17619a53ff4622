package entities

import (
	"fmt"
	"net/url"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AdminPostsPath is where successful submissions redirect to
const AdminPostsPath = "/posts/admin"

// Form field names
const (
	FieldIntent   = "intent"
	FieldTitle    = "title"
	FieldSlug     = "slug"
	FieldMarkdown = "markdown"
)

// Intent is the client-declared action of a form submission
type Intent string

const (
	IntentCreate Intent = "create"
	IntentUpdate Intent = "update"
	IntentDelete Intent = "delete"
)

// IsDelete reports whether the intent asks for deletion. Any other value,
// including an empty one, means create or update depending on the target slug.
func (i Intent) IsDelete() bool {
	return i == IntentDelete
}

// Submission is a single post form submission
type Submission struct {
	Intent     Intent
	TargetSlug string
	Fields     url.Values
}

// IsNew reports whether the submission targets a post that does not exist yet
func (s Submission) IsNew() bool {
	return s.TargetSlug == NewPostSlug
}

// ExtractPostInput reads title, slug and markdown from the submitted fields.
// A field that was not submitted as a string yields ErrMalformedSubmission;
// empty strings are accepted here and left to validation.
func ExtractPostInput(fields url.Values) (PostInput, error) {
	var in PostInput
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{FieldTitle, &in.Title},
		{FieldSlug, &in.Slug},
		{FieldMarkdown, &in.Markdown},
	} {
		values, ok := fields[f.name]
		if !ok || len(values) == 0 {
			return PostInput{}, fmt.Errorf("%w: missing %s", ErrMalformedSubmission, f.name)
		}
		*f.dst = values[0]
	}
	return in, nil
}

// ValidationResult maps each post field to nil (valid) or an error message
type ValidationResult struct {
	Title    *string `json:"title"`
	Slug     *string `json:"slug"`
	Markdown *string `json:"markdown"`
}

// HasErrors reports whether any field failed validation
func (v ValidationResult) HasErrors() bool {
	return v.Title != nil || v.Slug != nil || v.Markdown != nil
}

// Message returns the error message for a field, or "" when the field is valid
func (v ValidationResult) Message(field string) string {
	var msg *string
	switch field {
	case FieldTitle:
		msg = v.Title
	case FieldSlug:
		msg = v.Slug
	case FieldMarkdown:
		msg = v.Markdown
	}
	if msg == nil {
		return ""
	}
	return *msg
}

// requireField returns nil for a non-empty value and "<Field> is required" otherwise
func requireField(name, value string) *string {
	if value != "" {
		return nil
	}
	// Casers are stateful, so one is created per call
	msg := cases.Title(language.English).String(name) + " is required"
	return &msg
}

// OutcomeKind distinguishes the non-error results of a submission
type OutcomeKind int

const (
	// OutcomeRedirect means the submission was applied
	OutcomeRedirect OutcomeKind = iota
	// OutcomeInvalid means validation failed and nothing was written
	OutcomeInvalid
)

// Outcome is the result of processing a submission
type Outcome struct {
	Kind     OutcomeKind
	Location string
	Errors   ValidationResult
	Values   PostInput
}

// RedirectTo returns a redirect outcome
func RedirectTo(location string) Outcome {
	return Outcome{Kind: OutcomeRedirect, Location: location}
}

// Invalid returns a validation failure outcome that keeps the submitted values
func Invalid(errs ValidationResult, values PostInput) Outcome {
	return Outcome{Kind: OutcomeInvalid, Errors: errs, Values: values}
}

// IsRedirect reports whether the outcome is a redirect
func (o Outcome) IsRedirect() bool {
	return o.Kind == OutcomeRedirect
}
