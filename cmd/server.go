/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/gamestore-web/apiserver/internal/logging"
	"github.com/gamestore-web/apiserver/internal/server"
	"github.com/spf13/cobra"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the GameStore backend server",
	Long: `Starts the GameStore backend server. Usage:

	gamestore server
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := loadRuntime()

		srv, err := server.New(cmd.Context(), cfg, logger)
		if err != nil {
			logging.LogError(logger, "failed to start server", err)
			return err
		}
		if err := srv.Start(cmd.Context()); err != nil {
			logging.LogError(logger, "server error", err)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
