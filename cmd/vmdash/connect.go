package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gemops/vmdash/internal/controller"
)

var connectZone string

var connectCmd = &cobra.Command{
	Use:   "connect <vm-name>",
	Short: "Get the SSH command for a VM",
	Long: `Ask the backend for the SSH command to reach a virtual machine.

The VM's external IP, when it has one, is passed along so the backend
can build a direct connection command. Connecting does not change VM
state.`,
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

		ctrl.Fetch(context.Background())
		state := ctrl.State()
		if state.LastError != "" {
			return errors.New(state.LastError)
		}

		vm, err := findVM(state.VMs, vmName, connectZone)
		if err != nil {
			return err
		}

		info, ok := ctrl.Connect(context.Background(), vm.Name, vm.ZoneRegion, vm.IPExternal)
		if !ok {
			return errors.New(ctrl.State().LastError)
		}

		fmt.Println(info.Message)
		fmt.Println()
		fmt.Printf("  %s\n", info.SSHCommand)
		return nil
	},
}

func init() {
	connectCmd.Flags().StringVar(&connectZone, "zone", "", "zone of the VM (required only when the name is ambiguous)")
}
