package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gemops/vmdash/internal/tui"
)

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Open the interactive fleet dashboard",
	Long: `Open a full-screen dashboard over the fleet.

Keys:
  up/down  select a VM
  enter    toggle power for the selected VM
  c        show the SSH command for the selected VM
  /        search by name
  s        cycle the status filter
  z        cycle the zone filter
  r        refresh
  q        quit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := newSession()
		if err != nil {
			return err
		}
		defer func() {
			_ = sess.logger.Sync()
		}()

		// Stderr logging would fight the alt-screen renderer, so the
		// dashboard runs with a quiet logger unless verbose mode asks
		// for diagnostics anyway.
		logger := zap.NewNop()
		if sess.config.Verbose {
			logger = sess.logger
		}

		return tui.Run(sess.client, tui.WithLogger(logger))
	},
}
