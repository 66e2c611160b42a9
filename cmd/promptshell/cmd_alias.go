package main

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"promptshell/internal/alias"
)

var aliasCmd = &cobra.Command{
	Use:   "alias [add|remove|list|import|export|help] [args]",
	Short: "Manage command aliases",
	Long: `Aliases map a short name to a full command line. In the interactive
shell an alias is expanded before translation, so "gs" can stand in for
"git status" without a round trip to the model.

Examples:
  promptshell alias add gs "git status"
  promptshell alias list
  promptshell alias export ~/aliases.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m := alias.NewManager(aliasPath(configDir))
		if err := m.Reload(); err != nil {
			return err
		}
		line := "alias " + shellquote.Join(args...)
		fmt.Println(alias.HandleCommand(strings.TrimSpace(line), m))
		return nil
	},
}
