package services

import (
	"context"
	"fmt"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
	"github.com/fredcamaral/inkpost/internal/domain/ports"
)

// PostFormController turns admin form submissions into a single create,
// update or delete on the post repository
type PostFormController struct {
	repo ports.PostRepository
}

// NewPostFormController creates a new post form controller
func NewPostFormController(repo ports.PostRepository) *PostFormController {
	return &PostFormController{repo: repo}
}

// Submit processes one submission.
//
// Delete intents skip validation. Otherwise title, slug and markdown must be
// present as strings (ErrMalformedSubmission) and non-empty (an invalid
// Outcome carrying the messages and submitted values). Repository errors are
// returned unchanged.
func (c *PostFormController) Submit(ctx context.Context, sub entities.Submission) (entities.Outcome, error) {
	if sub.Intent.IsDelete() {
		if err := c.repo.Delete(ctx, sub.TargetSlug); err != nil {
			return entities.Outcome{}, err
		}
		return entities.RedirectTo(entities.AdminPostsPath), nil
	}

	in, err := entities.ExtractPostInput(sub.Fields)
	if err != nil {
		return entities.Outcome{}, fmt.Errorf("submitting post %q: %w", sub.TargetSlug, err)
	}

	if errs := in.Validate(); errs.HasErrors() {
		return entities.Invalid(errs, in), nil
	}

	if sub.IsNew() {
		_, err = c.repo.Create(ctx, in)
	} else {
		_, err = c.repo.Update(ctx, sub.TargetSlug, in)
	}
	if err != nil {
		return entities.Outcome{}, err
	}

	return entities.RedirectTo(entities.AdminPostsPath), nil
}

// Ensure PostFormController implements ports.PostFormController
var _ ports.PostFormController = (*PostFormController)(nil)
