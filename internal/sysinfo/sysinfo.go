// Package sysinfo collects the host facts that seed the assistant's role
// definitions: OS, architecture, shell, user, and the PATH command inventory.
package sysinfo

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// Info is a snapshot of the host environment.
type Info struct {
	OS       string // normalized: windows, macos, linux
	Arch     string
	NumCPU   int
	Shell    string
	Username string
	Hostname string
	HomeDir  string
}

// Collect gathers a best-effort snapshot. Fields that cannot be determined
// are left empty rather than failing the whole snapshot.
func Collect() Info {
	info := Info{
		OS:     CurrentOS(),
		Arch:   runtime.GOARCH,
		NumCPU: runtime.NumCPU(),
		Shell:  os.Getenv("SHELL"),
	}
	if info.Shell == "" && runtime.GOOS == "windows" {
		info.Shell = os.Getenv("COMSPEC")
	}
	if u, err := user.Current(); err == nil {
		info.Username = u.Username
		info.HomeDir = u.HomeDir
	}
	if info.HomeDir == "" {
		info.HomeDir, _ = os.UserHomeDir()
	}
	if h, err := os.Hostname(); err == nil {
		info.Hostname = h
	}
	return info
}

// CurrentOS normalizes runtime.GOOS to the names used in prompts.
func CurrentOS() string {
	switch runtime.GOOS {
	case "windows":
		return "windows"
	case "darwin":
		return "macos"
	default:
		return "linux"
	}
}

// InstalledCommands scans PATH directories for executables and returns a
// sorted, de-duplicated list capped at limit entries. Unreadable directories
// are skipped.
func InstalledCommands(limit int) []string {
	seen := make(map[string]struct{})
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			if runtime.GOOS != "windows" && info.Mode()&0o111 == 0 {
				continue
			}
			seen[e.Name()] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	return names
}

// Examples returns OS-appropriate natural-language to command examples used
// to steer the interpreter role.
func Examples(osName string) []string {
	switch osName {
	case "windows":
		return []string{
			`"List files" -> dir`,
			`"Create directory" -> mkdir projects`,
			`"Delete file" -> del example.txt`,
			`"Copy file" -> copy source.txt destination.txt`,
			`"Search text" -> findstr "pattern" file.txt`,
		}
	case "macos":
		return []string{
			`"List files" -> ls -lG`,
			`"Create directory" -> mkdir projects`,
			`"Delete file" -> rm example.txt`,
			`"Copy file" -> cp source.txt destination.txt`,
			`"Search text" -> grep "pattern" file.txt`,
		}
	default:
		return []string{
			`"List files" -> ls -l`,
			`"Create directory" -> mkdir projects`,
			`"Delete file" -> rm example.txt`,
			`"Copy file" -> cp source.txt destination.txt`,
			`"Search text" -> grep "pattern" file.txt`,
		}
	}
}

// Summary renders the snapshot as a compact single-line context string.
func (i Info) Summary() string {
	parts := []string{
		"os=" + i.OS,
		"arch=" + i.Arch,
	}
	if i.Shell != "" {
		parts = append(parts, "shell="+i.Shell)
	}
	if i.Hostname != "" {
		parts = append(parts, "host="+i.Hostname)
	}
	return strings.Join(parts, " ")
}
