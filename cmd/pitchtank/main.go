// Command pitchtank is the founder-facing client of the Pitch Tank
// application funnel: log in, fill out the eight-step application in a
// terminal wizard, upload a deck, and check where you stand.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const defaultServer = "http://localhost:8081"

type app struct {
	Server string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:          "pitchtank",
		Short:        "Pitch Tank application wizard",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Create an account and log in
  pitchtank register founder@example.com
  pitchtank login founder@example.com

  # Fill out (or continue) the application
  pitchtank apply

  # See how far along you are
  pitchtank status
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	server := defaultServer
	if env := os.Getenv("PITCHTANK_SERVER"); env != "" {
		server = env
	}
	cmd.PersistentFlags().StringVar(&a.Server, "server", server, "API base URL")

	cmd.AddCommand(newRegisterCmd(a))
	cmd.AddCommand(newLoginCmd(a))
	cmd.AddCommand(newLogoutCmd(a))
	cmd.AddCommand(newApplyCmd(a))
	cmd.AddCommand(newStatusCmd(a))
	cmd.AddCommand(newUploadCmd(a))
	cmd.AddCommand(newDeleteDeckCmd(a))
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
