package repl

import (
	"os"
	"path/filepath"
	"strings"

	"promptshell/internal/alias"
)

// completePath completes the last whitespace-separated word of line against
// the filesystem. A unique match replaces the word; multiple matches extend
// it to the longest common prefix. Directories get a trailing separator so
// repeated tabs descend.
func completePath(line string) string {
	if line == "" {
		return line
	}

	idx := strings.LastIndexAny(line, " \t")
	head, word := "", line
	if idx >= 0 {
		head, word = line[:idx+1], line[idx+1:]
	}
	if word == "" {
		return line
	}

	matches, err := filepath.Glob(alias.ExpandHome(word) + "*")
	if err != nil || len(matches) == 0 {
		return line
	}

	completed := matches[0]
	if len(matches) > 1 {
		completed = commonPrefix(matches)
		if completed == "" || completed == word {
			return line
		}
	} else if info, err := os.Stat(completed); err == nil && info.IsDir() {
		completed += string(os.PathSeparator)
	}

	// Keep the ~ the user typed.
	if strings.HasPrefix(word, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			completed = "~" + strings.TrimPrefix(completed, home)
		}
	}
	return head + completed
}

func commonPrefix(paths []string) string {
	prefix := paths[0]
	for _, p := range paths[1:] {
		for !strings.HasPrefix(p, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	return prefix
}
