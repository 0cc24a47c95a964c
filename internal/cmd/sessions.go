package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/movewise/movewise/internal/config"
	"github.com/movewise/movewise/internal/session"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage persisted planning sessions",
	Long:  `Commands for listing, inspecting, and deleting persisted planning sessions.`,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all persisted sessions",
	RunE:  runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Print the stored state of a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsShow,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a persisted session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
}

func openStore() (session.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return session.Open(cfg.Session.Store, cfg.Session.Dir, cfg.Session.SQLitePath)
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	infos, err := store.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		dimColor.Println("no sessions")
		return nil
	}

	for _, info := range infos {
		fmt.Printf("%-40s", info.ID)
		dimColor.Printf("  updated %s\n", info.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	state, err := store.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(state) == 0 {
		return fmt.Errorf("no session %q", args[0])
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	successColor.Printf("deleted session %s\n", args[0])
	return nil
}
