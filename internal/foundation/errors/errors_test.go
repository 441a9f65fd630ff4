package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			Fatal().
			WithContext("file", "config.yaml").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "invalid configuration", err.Message())
		assert.True(t, err.IsFatal())

		file, ok := err.Context().GetString("file")
		require.True(t, ok)
		assert.Equal(t, "config.yaml", file)
	})

	t.Run("Document errors name the file", func(t *testing.T) {
		cause := stderrors.New("no such file or directory")
		err := DocumentReadError("docs/a.md", cause).Build()

		assert.Equal(t, "docs/a.md: cannot read document: no such file or directory", err.Error())
		assert.ErrorIs(t, err, cause)
		assert.True(t, HasCategory(err, CategoryDocumentRead))
	})

	t.Run("Classification survives wrapping", func(t *testing.T) {
		inner := DocumentParseError("x.ipynb", stderrors.New("bad json")).Build()
		wrapped := fmt.Errorf("processing: %w", inner)

		classified, ok := AsClassified(wrapped)
		require.True(t, ok)
		assert.Equal(t, CategoryDocumentParse, classified.Category())
		assert.Equal(t, CategoryInternal, GetCategory(stderrors.New("plain")))
	})
}

func TestErrorContextMerge(t *testing.T) {
	ctx1 := ErrorContext{}.Set("key1", "value1").Set("shared", "original")
	ctx2 := ErrorContext{}.Set("key2", "value2").Set("shared", "overridden")

	merged := ctx1.Merge(ctx2)

	v, _ := merged.GetString("key1")
	assert.Equal(t, "value1", v)
	v, _ = merged.GetString("key2")
	assert.Equal(t, "value2", v)
	v, _ = merged.GetString("shared")
	assert.Equal(t, "overridden", v)

	_, exists := merged.Get("nonexistent")
	assert.False(t, exists)
}

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"missing resources", NewError(CategoryMissingResource, "2 images missing").Build(), 1},
		{"validation", ValidationError("bad flag").Build(), 2},
		{"document read", DocumentReadError("a.md", stderrors.New("x")).Build(), 3},
		{"document parse", DocumentParseError("a.md", stderrors.New("x")).Build(), 3},
		{"config", ConfigError("cfg.yaml", "bad config", stderrors.New("x")).Build(), 7},
		{"filesystem", FileSystemError("cannot write").Build(), 11},
		{"unclassified", stderrors.New("boom"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var stderr bytes.Buffer
	var code int
	adapter := NewCLIErrorAdapter(true, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	adapter.stderr = &stderr
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(DocumentParseError("broken.ipynb", stderrors.New("unexpected EOF")).Build())

	assert.Equal(t, 3, code)
	assert.Contains(t, stderr.String(), "broken.ipynb")
	assert.Contains(t, stderr.String(), "document_parse")
}

func TestCLIErrorAdapter_HandleError_Silent(t *testing.T) {
	var stderr bytes.Buffer
	code := -1
	adapter := NewCLIErrorAdapter(false, nil)
	adapter.stderr = &stderr
	adapter.exit = func(c int) { code = c }

	err := NewError(CategoryMissingResource, "2 images missing").Silent().Build()
	assert.True(t, IsSilent(err))
	assert.False(t, IsSilent(stderrors.New("plain")))

	adapter.HandleError(err)
	assert.Equal(t, 1, code)
	assert.Empty(t, stderr.String())
}
