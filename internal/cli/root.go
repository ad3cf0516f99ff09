package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "tilegame",
		Short: "CLI tool for the tile game server",
		Long: `tilegame runs the tile game server and talks to its JSON API.

Commands act for the player given with --player; the server trusts the key
as given. Events for a game can be streamed in real-time.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			client = NewClient(cfg.ServerURL, cfg.Player)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: TILEGAME_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Player, "player", "p", cfg.Player, "Player key to act as (env: TILEGAME_PLAYER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")

	// Add subcommands
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newGameCmd())
	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newPassCmd())
	rootCmd.AddCommand(newSwapCmd())
	rootCmd.AddCommand(newChallengeCmd())
	rootCmd.AddCommand(newTakeBackCmd())
	rootCmd.AddCommand(newPauseCmd())
	rootCmd.AddCommand(newUnpauseCmd())
	rootCmd.AddCommand(newConfirmCmd())
	rootCmd.AddCommand(newAnotherCmd())
	rootCmd.AddCommand(newAllowCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newEditionsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
