package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/tilegame/internal/api/response"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Health

			if err := client.Get("/api/v1/health", &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newEditionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "editions",
		Short: "List the tile editions the server knows",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Editions []string `json:"editions"`
			}

			if err := client.Get("/api/v1/editions", &result); err != nil {
				return err
			}

			newOutput(cmd).PrintList(result.Editions)
			return nil
		},
	}
}
