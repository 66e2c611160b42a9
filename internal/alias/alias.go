// Package alias manages user-defined command aliases, persisted as JSON at
// <config dir>/aliases.json.
package alias

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"promptshell/internal/logging"
	"promptshell/internal/safety"
)

// FileName is the alias store file inside the config directory.
const FileName = "aliases.json"

var namePattern = regexp.MustCompile(`^[a-zA-Z_]\w*$`)

// Alias is a stored command shortcut.
type Alias struct {
	Command     string    `json:"command"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type fileFormat struct {
	Aliases map[string]Alias `json:"aliases"`
}

// Manager handles adding, removing, listing, importing, exporting, and
// expanding command aliases.
type Manager struct {
	mu      sync.RWMutex
	path    string
	aliases map[string]Alias
}

// NewManager loads (or initializes) the alias store at path.
func NewManager(path string) *Manager {
	m := &Manager{
		path:    path,
		aliases: make(map[string]Alias),
	}
	if err := m.Reload(); err != nil {
		logging.Alias("load failed, starting empty: %v", err)
	}
	return m
}

// Reload re-reads the alias file from disk. A missing file leaves the store
// empty without error.
func (m *Manager) Reload() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read aliases: %w", err)
	}

	var ff fileFormat
	if err := json.Unmarshal(data, &ff); err != nil {
		return fmt.Errorf("parse aliases: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if ff.Aliases != nil {
		m.aliases = ff.Aliases
	} else {
		m.aliases = make(map[string]Alias)
	}
	return nil
}

func (m *Manager) save() error {
	data, err := json.MarshalIndent(fileFormat{Aliases: m.aliases}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal aliases: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("write aliases: %w", err)
	}
	return nil
}

// ValidName reports whether name is a legal alias identifier.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Add registers a new alias. The command must pass the safety blocklist and
// the name must not already exist.
func (m *Manager) Add(name, command, description string) error {
	if !ValidName(name) {
		return fmt.Errorf("invalid alias name %q: must be alphanumeric with underscores", name)
	}
	if err := safety.CheckAllowed(command); err != nil {
		return fmt.Errorf("invalid command: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.aliases[name]; exists {
		return fmt.Errorf("alias %q already exists", name)
	}

	now := time.Now()
	m.aliases[name] = Alias{
		Command:     command,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	logging.Alias("added alias %q -> %q", name, command)
	return m.save()
}

// Remove deletes an alias by name.
func (m *Manager) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.aliases[name]; !exists {
		return fmt.Errorf("alias %q not found", name)
	}
	delete(m.aliases, name)
	logging.Alias("removed alias %q", name)
	return m.save()
}

// Get returns a single alias.
func (m *Manager) Get(name string) (Alias, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.aliases[name]
	return a, ok
}

// Names returns all alias names in sorted order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.aliases))
	for name := range m.aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Expand rewrites input if its first word matches an alias, appending any
// remaining arguments. Unmatched input is returned unchanged.
func (m *Manager) Expand(input string) string {
	parts := strings.SplitN(strings.TrimSpace(input), " ", 2)
	if len(parts) == 0 || parts[0] == "" {
		return input
	}

	m.mu.RLock()
	a, ok := m.aliases[parts[0]]
	m.mu.RUnlock()
	if !ok {
		return input
	}

	if len(parts) == 2 {
		return a.Command + " " + strings.TrimSpace(parts[1])
	}
	return a.Command
}

// Import merges aliases from a JSON file. Entries failing name or command
// validation are skipped.
func (m *Manager) Import(path string) (int, error) {
	path = ExpandHome(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("import aliases: %w", err)
	}

	var ff fileFormat
	if err := json.Unmarshal(data, &ff); err != nil {
		return 0, fmt.Errorf("import aliases: invalid JSON: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	imported := 0
	for name, a := range ff.Aliases {
		if !ValidName(name) || safety.CheckAllowed(a.Command) != nil {
			continue
		}
		m.aliases[name] = a
		imported++
	}
	if err := m.save(); err != nil {
		return imported, err
	}
	logging.Alias("imported %d aliases from %s", imported, path)
	return imported, nil
}

// Export writes the current aliases to a JSON file.
func (m *Manager) Export(path string) error {
	m.mu.RLock()
	data, err := json.MarshalIndent(fileFormat{Aliases: m.aliases}, "", "  ")
	m.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("export aliases: %w", err)
	}
	if err := os.WriteFile(ExpandHome(path), data, 0o644); err != nil {
		return fmt.Errorf("export aliases: %w", err)
	}
	return nil
}

// ExpandHome resolves a leading ~ to the user home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~"+string(os.PathSeparator)) || path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
