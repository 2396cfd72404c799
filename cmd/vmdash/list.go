package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gemops/vmdash/internal/api"
	"github.com/gemops/vmdash/internal/controller"
	"github.com/gemops/vmdash/internal/output"
)

var (
	listSearch string
	listStatus string
	listZone   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List VMs",
	Long: `List the virtual machine fleet reported by the backend.

Filters are applied client-side and are conjunctive: a VM must match
the name search AND the status filter AND the zone filter.

Output formats:
  -o table  Human-readable table (default)
  -o yaml   YAML stream
  -o json   JSON array`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := newSession()
		if err != nil {
			return err
		}
		defer func() {
			_ = sess.logger.Sync()
		}()

		if err := output.ValidateFormat(sess.config.Output); err != nil {
			return err
		}

		ctrl := controller.New(sess.client, controller.WithLogger(sess.logger))

		if listSearch != "" {
			ctrl.SetSearch(listSearch)
		}
		if listStatus != "" {
			status := api.Status(listStatus)
			if !status.Known() {
				return fmt.Errorf("unknown status %q (valid: Running, Stopped, Provisioning)", listStatus)
			}
			ctrl.SetStatusFilter(&status)
		}
		if listZone != "" {
			ctrl.SetZoneFilter(&listZone)
		}

		ctrl.Fetch(context.Background())
		state := ctrl.State()
		if state.LastError != "" {
			return errors.New(state.LastError)
		}

		formatter, err := output.NewFormatter(output.Options{
			Format:    output.Format(sess.config.Output),
			NoHeaders: noHeaders,
		})
		if err != nil {
			return err
		}

		result, err := formatter.FormatVMList(state.FilteredVMs())
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}

		fmt.Print(result)
		return nil
	},
}

var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "List the zones present in the current fleet",
	Long: `List the distinct zones of the current fleet snapshot.

The set reflects the latest fetch only: zones without any VM right now
do not appear.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := newSession()
		if err != nil {
			return err
		}
		defer func() {
			_ = sess.logger.Sync()
		}()

		ctrl := controller.New(sess.client, controller.WithLogger(sess.logger))
		ctrl.Fetch(context.Background())

		state := ctrl.State()
		if state.LastError != "" {
			return errors.New(state.LastError)
		}

		zones := state.AvailableZones()
		if len(zones) == 0 {
			fmt.Println("No zones found")
			return nil
		}
		for _, zone := range zones {
			fmt.Println(zone)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listSearch, "search", "", "case-insensitive substring match on VM name")
	listCmd.Flags().StringVar(&listStatus, "status", "", "exact status match: Running, Stopped, or Provisioning")
	listCmd.Flags().StringVar(&listZone, "zone", "", "exact zone match")
}
