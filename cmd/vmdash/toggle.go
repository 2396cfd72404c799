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

var toggleZone string

var toggleCmd = &cobra.Command{
	Use:   "toggle <vm-name>",
	Short: "Toggle the power state of a VM",
	Long: `Toggle the power state of a virtual machine by name.

The current status is observed from a fresh fleet snapshot and sent to
the backend, which decides whether that means a start or a stop. After
the backend accepts the action, the fleet is refetched so the reported
status always comes from the server.

A VM that is still Provisioning cannot be toggled.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vmName := args[0]

		sess, err := newSession()
		if err != nil {
			return err
		}
		defer func() {
			_ = sess.logger.Sync()
		}()

		ctrl := controller.New(sess.client, controller.WithLogger(sess.logger))

		// Observe the current status before acting.
		ctrl.Fetch(context.Background())
		state := ctrl.State()
		if state.LastError != "" {
			return errors.New(state.LastError)
		}

		vm, err := findVM(state.VMs, vmName, toggleZone)
		if err != nil {
			return err
		}
		if !vm.Status.CanToggle() {
			return fmt.Errorf("cannot toggle %s while it is %s", vm.Name, vm.Status)
		}

		fmt.Printf("Toggling power for %s (%s, currently %s)...\n", vm.Name, vm.ZoneRegion, vm.Status)

		if ok := ctrl.TogglePower(context.Background(), vm.Name, vm.ZoneRegion, vm.Status); !ok {
			return errors.New(ctrl.State().LastError)
		}

		fmt.Printf("✓ Power toggle accepted for %s\n", vm.Name)

		// Show the refreshed record; the new status may still be
		// transitioning on the backend side.
		refreshed := ctrl.State()
		if refreshed.LastError != "" {
			return fmt.Errorf("toggle accepted but refresh failed: %s", refreshed.LastError)
		}
		if vm, err := findVM(refreshed.VMs, vmName, toggleZone); err == nil {
			formatter := &output.TableFormatter{NoHeaders: noHeaders}
			if result, err := formatter.FormatVM(vm); err == nil {
				fmt.Print(result)
			}
		}
		return nil
	},
}

// findVM locates a VM by name in a snapshot, optionally narrowed by
// zone. Names are treated as unique within a zone; without a zone
// filter an ambiguous name is an error rather than a guess.
func findVM(vms []api.VirtualMachine, name, zone string) (api.VirtualMachine, error) {
	var matches []api.VirtualMachine
	for _, vm := range vms {
		if vm.Name != name {
			continue
		}
		if zone != "" && vm.ZoneRegion != zone {
			continue
		}
		matches = append(matches, vm)
	}

	switch len(matches) {
	case 0:
		if zone != "" {
			return api.VirtualMachine{}, fmt.Errorf("VM %s not found in zone %s", name, zone)
		}
		return api.VirtualMachine{}, fmt.Errorf("VM %s not found", name)
	case 1:
		return matches[0], nil
	default:
		return api.VirtualMachine{}, fmt.Errorf("VM name %s is ambiguous across zones, use --zone", name)
	}
}

func init() {
	toggleCmd.Flags().StringVar(&toggleZone, "zone", "", "zone of the VM (required only when the name is ambiguous)")
}
