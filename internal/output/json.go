package output

import (
	"encoding/json"
	"fmt"

	"github.com/gemops/vmdash/internal/api"
)

// JSONFormatter formats VM records as JSON.
type JSONFormatter struct{}

// FormatVM formats a single VirtualMachine as JSON.
func (f *JSONFormatter) FormatVM(vm api.VirtualMachine) (string, error) {
	data, err := json.MarshalIndent(vm, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal VM to JSON: %w", err)
	}

	return string(data) + "\n", nil
}

// FormatVMList formats a list of VirtualMachines as a JSON array. The
// array form round-trips with the backend's own collection encoding.
func (f *JSONFormatter) FormatVMList(vms []api.VirtualMachine) (string, error) {
	if len(vms) == 0 {
		return "[]\n", nil
	}

	data, err := json.MarshalIndent(vms, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal VMs to JSON: %w", err)
	}

	return string(data) + "\n", nil
}
