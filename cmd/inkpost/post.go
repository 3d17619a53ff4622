package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
	"github.com/fredcamaral/inkpost/internal/domain/ports"
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Manage posts",
}

var postImportCmd = &cobra.Command{
	Use:   "import <file.md>",
	Short: "Import a markdown file as a new post",
	Long: `Create a post from a markdown file. The title and slug are read from
YAML frontmatter; the slug defaults to the file name without extension.
The file content, frontmatter included, becomes the post markdown.

Example:
  inkpost post import posts/hello-world.md`,
	Args: cobra.ExactArgs(1),
	RunE: runPostImport,
}

func init() {
	rootCmd.AddCommand(postCmd)
	postCmd.AddCommand(postImportCmd)
}

func runPostImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	return importPost(cmd.Context(), a.parser, a.forms, args[0], cmd.OutOrStdout())
}

// importPost reads path and submits it as a create
func importPost(ctx context.Context, docs ports.DocumentParser, forms ports.PostFormController, path string, out io.Writer) error {
	sub, err := readPostFile(ctx, docs, path)
	if err != nil {
		return err
	}

	if err := submitPostFile(ctx, forms, path, sub); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "Imported %s as /posts/%s\n", path, sub.Fields.Get(entities.FieldSlug))
	return nil
}

// readPostFile reads a markdown file into a create submission
func readPostFile(ctx context.Context, docs ports.DocumentParser, path string) (entities.Submission, error) {
	info, err := os.Stat(path)
	if err != nil {
		return entities.Submission{}, fmt.Errorf("accessing %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return entities.Submission{}, fmt.Errorf("not a regular file: %s", path)
	}

	content, err := os.ReadFile(path) // #nosec G304 - path validated above
	if err != nil {
		return entities.Submission{}, fmt.Errorf("reading %s: %w", path, err)
	}

	return importSubmission(ctx, docs, path, content)
}

// submitPostFile submits sub and turns an invalid outcome into an error
func submitPostFile(ctx context.Context, forms ports.PostFormController, path string, sub entities.Submission) error {
	outcome, err := forms.Submit(ctx, sub)
	if err != nil {
		return fmt.Errorf("importing %s: %w", path, err)
	}
	if !outcome.IsRedirect() {
		return fmt.Errorf("importing %s: %w", path, validationError(outcome.Errors))
	}
	return nil
}

// importSubmission builds a create submission from a markdown file
func importSubmission(ctx context.Context, docs ports.DocumentParser, path string, content []byte) (entities.Submission, error) {
	doc, err := docs.Parse(ctx, content)
	if err != nil {
		return entities.Submission{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	slug := doc.FrontmatterString("slug")
	if slug == "" {
		slug = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if slug == entities.NewPostSlug {
		return entities.Submission{}, fmt.Errorf("%s: %w", path, errReservedSlug)
	}

	return entities.Submission{
		Intent:     entities.IntentCreate,
		TargetSlug: entities.NewPostSlug,
		Fields: url.Values{
			entities.FieldIntent:   {string(entities.IntentCreate)},
			entities.FieldTitle:    {doc.FrontmatterString("title")},
			entities.FieldSlug:     {slug},
			entities.FieldMarkdown: {string(content)},
		},
	}, nil
}

// errReservedSlug rejects the slug the admin form uses for new posts
var errReservedSlug = fmt.Errorf("slug %q is reserved; set another slug in the frontmatter", entities.NewPostSlug)

func validationError(v entities.ValidationResult) error {
	var msgs []string
	for _, field := range []string{entities.FieldTitle, entities.FieldSlug, entities.FieldMarkdown} {
		if msg := v.Message(field); msg != "" {
			msgs = append(msgs, msg)
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
