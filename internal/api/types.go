package api

// Status is the power status of a virtual machine as reported by the
// backend. It is a closed enumeration; the client narrows but does not
// otherwise validate it.
type Status string

const (
	// StatusRunning means the VM is powered on.
	StatusRunning Status = "Running"
	// StatusStopped means the VM is powered off.
	StatusStopped Status = "Stopped"
	// StatusProvisioning means the VM is still being brought up.
	StatusProvisioning Status = "Provisioning"
)

// Known reports whether s is one of the statuses the backend emits.
func (s Status) Known() bool {
	switch s {
	case StatusRunning, StatusStopped, StatusProvisioning:
		return true
	default:
		return false
	}
}

// CanToggle reports whether a power toggle makes sense for s. The
// backend rejects toggles on Provisioning VMs with a 400; surfaces can
// use this to disable the action up front.
func (s Status) CanToggle() bool {
	return s == StatusRunning || s == StatusStopped
}

// VirtualMachine is a read-only projection of a compute instance as
// reported by the backend. Name is the key for action endpoints and is
// treated as unique by the client; ZoneRegion is both a display label
// and a required routing parameter on actions.
type VirtualMachine struct {
	// ID is an opaque identifier, unique within a loaded snapshot.
	ID string `json:"id" yaml:"id"`

	// Name is the human identifier used to address the VM.
	Name string `json:"name" yaml:"name"`

	// ZoneRegion is the location label (e.g. "europe-west1-b").
	ZoneRegion string `json:"zoneRegion" yaml:"zoneRegion"`

	// IPExternal is the externally routable address. Empty means the
	// VM has no external connectivity.
	IPExternal string `json:"ipExternal,omitempty" yaml:"ipExternal,omitempty"`

	// IPInternal is the always-present internal address.
	IPInternal string `json:"ipInternal" yaml:"ipInternal"`

	// MachineType is a descriptive label (e.g. "e2-small"), display-only.
	MachineType string `json:"machineType" yaml:"machineType"`

	// Status is the reported power status.
	Status Status `json:"status" yaml:"status"`
}

// ConnectInfo is the backend's response to a connect request: a human
// message plus the SSH command to run. The wire keys are part of the
// backend contract.
type ConnectInfo struct {
	Message    string `json:"mensaje"`
	SSHCommand string `json:"comando_ssh"`
}
