package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/gemops/vmdash/internal/api"
)

// TableFormatter formats VM records as human-readable tables.
type TableFormatter struct {
	// NoHeaders omits the header row.
	NoHeaders bool
}

// FormatVM formats a single VirtualMachine as a table row.
func (f *TableFormatter) FormatVM(vm api.VirtualMachine) (string, error) {
	return f.FormatVMList([]api.VirtualMachine{vm})
}

// FormatVMList formats a list of VirtualMachines as a table.
func (f *TableFormatter) FormatVMList(vms []api.VirtualMachine) (string, error) {
	if len(vms) == 0 {
		return "No VMs found\n", nil
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	if !f.NoHeaders {
		_, _ = fmt.Fprintln(w, "NAME\tSTATUS\tZONE\tMACHINE TYPE\tEXTERNAL IP\tINTERNAL IP")
	}

	for _, vm := range vms {
		status := string(vm.Status)
		if status == "" {
			status = "-"
		}

		// Absent external IP means no external connectivity.
		external := vm.IPExternal
		if external == "" {
			external = "-"
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			vm.Name, status, vm.ZoneRegion, vm.MachineType, external, vm.IPInternal)
	}

	_ = w.Flush()
	return buf.String(), nil
}
