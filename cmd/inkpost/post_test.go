package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/inkpost/internal/adapters/secondary/parser"
	"github.com/fredcamaral/inkpost/internal/domain/entities"
)

func writePostFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestImportSubmission(t *testing.T) {
	ctx := context.Background()
	docs := parser.NewFrontmatterParser()

	t.Run("title and slug from frontmatter", func(t *testing.T) {
		content := []byte("---\ntitle: Hello World\nslug: hello\n---\n# Hello\n")

		sub, err := importSubmission(ctx, docs, "posts/ignored.md", content)

		require.NoError(t, err)
		assert.True(t, sub.IsNew())
		assert.Equal(t, entities.IntentCreate, sub.Intent)
		assert.Equal(t, "Hello World", sub.Fields.Get(entities.FieldTitle))
		assert.Equal(t, "hello", sub.Fields.Get(entities.FieldSlug))
		assert.Equal(t, string(content), sub.Fields.Get(entities.FieldMarkdown))
	})

	t.Run("slug defaults to the file name", func(t *testing.T) {
		sub, err := importSubmission(ctx, docs, "posts/my-first-post.md", []byte("---\ntitle: First\n---\nbody"))

		require.NoError(t, err)
		assert.Equal(t, "my-first-post", sub.Fields.Get(entities.FieldSlug))
	})

	t.Run("no frontmatter leaves the title empty", func(t *testing.T) {
		sub, err := importSubmission(ctx, docs, "plain.md", []byte("just text"))

		require.NoError(t, err)
		assert.Equal(t, "", sub.Fields.Get(entities.FieldTitle))
		assert.Equal(t, "plain", sub.Fields.Get(entities.FieldSlug))
	})

	t.Run("broken frontmatter", func(t *testing.T) {
		_, err := importSubmission(ctx, docs, "broken.md", []byte("---\ntitle: [unclosed\n---\n"))
		assert.Error(t, err)
	})

	t.Run("reserved slug", func(t *testing.T) {
		_, err := importSubmission(ctx, docs, "posts/intro.md", []byte("---\ntitle: Intro\nslug: new\n---\nbody"))
		assert.ErrorIs(t, err, errReservedSlug)

		_, err = importSubmission(ctx, docs, "posts/new.md", []byte("---\ntitle: Intro\n---\nbody"))
		assert.ErrorIs(t, err, errReservedSlug)
	})
}

func TestImportPost(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the post", func(t *testing.T) {
		a := openTestApp(t)
		path := writePostFile(t, "hello.md", "---\ntitle: Hello\n---\n# Hi there\n")
		out := new(bytes.Buffer)

		require.NoError(t, importPost(ctx, a.parser, a.forms, path, out))
		assert.Contains(t, out.String(), "/posts/hello")

		post, err := a.posts.GetPost(ctx, "hello")
		require.NoError(t, err)
		assert.Equal(t, "Hello", post.Title)

		rendered, err := a.posts.RenderPost(ctx, "hello")
		require.NoError(t, err)
		assert.Contains(t, rendered.HTML, "Hi there")
		assert.NotContains(t, rendered.HTML, "title: Hello")
	})

	t.Run("duplicate slug", func(t *testing.T) {
		a := openTestApp(t)
		path := writePostFile(t, "hello.md", "---\ntitle: Hello\n---\nbody\n")

		require.NoError(t, importPost(ctx, a.parser, a.forms, path, new(bytes.Buffer)))
		err := importPost(ctx, a.parser, a.forms, path, new(bytes.Buffer))

		assert.ErrorIs(t, err, entities.ErrPostAlreadyExists)
	})

	t.Run("missing title fails validation", func(t *testing.T) {
		a := openTestApp(t)
		path := writePostFile(t, "untitled.md", "no frontmatter here")

		err := importPost(ctx, a.parser, a.forms, path, new(bytes.Buffer))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Title is required")
		_, err = a.posts.GetPost(ctx, "untitled")
		assert.ErrorIs(t, err, entities.ErrPostNotFound)
	})

	t.Run("missing file", func(t *testing.T) {
		a := openTestApp(t)

		err := importPost(ctx, a.parser, a.forms, filepath.Join(t.TempDir(), "nope.md"), new(bytes.Buffer))

		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("directory", func(t *testing.T) {
		a := openTestApp(t)

		err := importPost(ctx, a.parser, a.forms, t.TempDir(), new(bytes.Buffer))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a regular file")
	})
}
