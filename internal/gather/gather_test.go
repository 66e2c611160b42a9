package gather

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRetriever struct {
	name  string
	value string
	err   error
}

func (s stubRetriever) Name() string { return s.name }
func (s stubRetriever) Retrieve(context.Context, string) (string, error) {
	return s.value, s.err
}

func TestProviderCollect(t *testing.T) {
	p := NewProvider(
		stubRetriever{name: "a", value: "alpha"},
		stubRetriever{name: "b", value: ""},
		stubRetriever{name: "c", err: errors.New("boom")},
		stubRetriever{name: "d", value: "delta"},
	)

	got := p.Collect(context.Background(), "anything")
	want := map[string]string{"a": "alpha", "d": "delta"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Collect() mismatch (-want +got):\n%s", diff)
	}
}

func TestFileRetriever(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("remember the milk"), 0o644))

	r := FileRetriever{}

	t.Run("mentioned file is inlined", func(t *testing.T) {
		out, err := r.Retrieve(context.Background(), "summarize the file "+path)
		require.NoError(t, err)
		assert.Contains(t, out, path)
		assert.Contains(t, out, "remember the milk")
	})

	t.Run("no file keyword means no lookup", func(t *testing.T) {
		out, err := r.Retrieve(context.Background(), "what is in "+path)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("keyword without an existing path", func(t *testing.T) {
		out, err := r.Retrieve(context.Background(), "read something interesting")
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("large files are capped", func(t *testing.T) {
		big := filepath.Join(dir, "big.log")
		require.NoError(t, os.WriteFile(big, make([]byte, maxFileBytes+1000), 0o644))
		out, err := r.Retrieve(context.Background(), "read "+big)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(out), maxFileBytes+len("target file: ")+len(big)+1)
	})
}

func TestClipboardRetrieverSkipsUnrelatedInput(t *testing.T) {
	out, err := ClipboardRetriever{}.Retrieve(context.Background(), "list files")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSystemRetriever(t *testing.T) {
	out, err := SystemRetriever{}.Retrieve(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, out, "os=")
}
