package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"promptshell/internal/clouddb"
	"promptshell/internal/config"
	"promptshell/internal/history"
	"promptshell/internal/logging"
)

var (
	historyLimit int
	syncPull     bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or manage the command history",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listHistory()
	},
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listHistory()
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the command history",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(historyPath(configDir))
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		if err := store.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("History cleared.")
		return nil
	},
}

var historySyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync history with the configured cloud backend",
	Long: `Pushes the local history to the cloud backend configured in the sync
section of config.json (aws, google, azure, or mongodb). With --pull, cloud
entries are merged into the local history instead.`,
	RunE: syncHistory,
}

func init() {
	historyCmd.PersistentFlags().IntVarP(&historyLimit, "limit", "n", history.MaxEntries, "number of entries")
	historySyncCmd.Flags().BoolVar(&syncPull, "pull", false, "merge cloud entries into the local history")
	historyCmd.AddCommand(historyListCmd, historyClearCmd, historySyncCmd)
}

func listHistory() error {
	store, err := history.Open(historyPath(configDir))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := store.LastN(rootCmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No history yet.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  [%3d]  %-30q  %s\n",
			e.CreatedAt.Local().Format(time.DateTime), e.ExitCode, e.NaturalLanguage, e.ShellCommand)
	}
	return nil
}

func syncHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(config.Path(configDir))
	if err != nil {
		return err
	}

	cloud, err := clouddb.New(cfg.GetSyncConfig())
	if err != nil {
		return err
	}
	if err := cloud.Connect(ctx); err != nil {
		return err
	}
	defer func() {
		if derr := cloud.Disconnect(ctx); derr != nil {
			logging.SyncError("disconnect %s: %v", cloud.Name(), derr)
		}
	}()

	store, err := history.Open(historyPath(configDir))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if syncPull {
		entries, err := cloud.Load(ctx, history.MaxEntries)
		if err != nil {
			return err
		}
		merged := 0
		for _, e := range entries {
			inserted, err := store.Merge(ctx, e)
			if err != nil {
				return err
			}
			if inserted {
				merged++
			}
		}
		fmt.Printf("Merged %d entries from %s.\n", merged, cloud.Name())
		return nil
	}

	entries, err := store.LastN(ctx, 0)
	if err != nil {
		return err
	}
	if err := cloud.Save(ctx, entries); err != nil {
		return err
	}
	fmt.Printf("Pushed %d entries to %s.\n", len(entries), cloud.Name())
	return nil
}
