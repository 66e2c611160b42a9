// Package version provides version information.
package version

// Version is set at build time via -ldflags "-X promptshell/internal/version.Version=<value>"
// The default is a development placeholder.
var Version = "v1.4.0"

// Banner returns the version string printed by --version.
func Banner() string {
	return "PromptShell " + Version
}
