// Package gather aggregates supplementary context for the interpreter role:
// clipboard contents, referenced file contents, and host facts. Retrievers
// run concurrently and individual failures are skipped rather than failing
// the whole collection.
package gather

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"golang.org/x/sync/errgroup"

	"promptshell/internal/logging"
	"promptshell/internal/sysinfo"
)

// maxFileBytes caps how much of a referenced file is inlined into a prompt.
const maxFileBytes = 64 * 1024

// Retriever produces one named piece of context for a user input. Returning
// ("", nil) means the retriever has nothing to contribute.
type Retriever interface {
	Name() string
	Retrieve(ctx context.Context, userInput string) (string, error)
}

// Provider aggregates context from multiple retrievers.
type Provider struct {
	retrievers []Retriever
}

// NewProvider creates a Provider with the given retrievers.
func NewProvider(retrievers ...Retriever) *Provider {
	return &Provider{retrievers: retrievers}
}

// DefaultProvider wires the standard PromptShell retrievers.
func DefaultProvider() *Provider {
	return NewProvider(
		ClipboardRetriever{},
		FileRetriever{},
		SystemRetriever{},
	)
}

// Collect runs every retriever concurrently and returns a map of retriever
// name to context string. Failing retrievers are logged and skipped.
func (p *Provider) Collect(ctx context.Context, userInput string) map[string]string {
	result := make(map[string]string)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, r := range p.retrievers {
		g.Go(func() error {
			value, err := r.Retrieve(gctx, userInput)
			if err != nil {
				logging.AssistantDebug("retriever %s failed: %v", r.Name(), err)
				return nil // skip, never fail the group
			}
			if value == "" {
				return nil
			}
			mu.Lock()
			result[r.Name()] = value
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return result
}

// ClipboardRetriever inlines the clipboard when the input mentions it.
type ClipboardRetriever struct{}

// Name implements Retriever.
func (ClipboardRetriever) Name() string { return "clipboard_content" }

// Retrieve implements Retriever.
func (ClipboardRetriever) Retrieve(_ context.Context, userInput string) (string, error) {
	if !strings.Contains(strings.ToLower(userInput), "clipboard") {
		return "", nil
	}
	return clipboard.ReadAll()
}

// FileRetriever inlines the first existing file mentioned in the input when
// the input looks file-related.
type FileRetriever struct{}

var fileKeywords = []string{"file", "content", "read", "merge"}

// Name implements Retriever.
func (FileRetriever) Name() string { return "file_content" }

// Retrieve implements Retriever.
func (FileRetriever) Retrieve(_ context.Context, userInput string) (string, error) {
	lower := strings.ToLower(userInput)
	mentioned := false
	for _, kw := range fileKeywords {
		if strings.Contains(lower, kw) {
			mentioned = true
			break
		}
	}
	if !mentioned {
		return "", nil
	}

	for _, word := range strings.Fields(userInput) {
		info, err := os.Stat(word)
		if err != nil || info.IsDir() {
			continue
		}
		data, err := os.ReadFile(word)
		if err != nil {
			return "", err
		}
		if len(data) > maxFileBytes {
			data = data[:maxFileBytes]
		}
		return "target file: " + word + "\n" + string(data), nil
	}
	return "", nil
}

// SystemRetriever always contributes a one-line host summary.
type SystemRetriever struct{}

// Name implements Retriever.
func (SystemRetriever) Name() string { return "system" }

// Retrieve implements Retriever.
func (SystemRetriever) Retrieve(_ context.Context, _ string) (string, error) {
	return sysinfo.Collect().Summary(), nil
}
