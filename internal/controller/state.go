package controller

import (
	"sort"
	"strings"

	"github.com/gemops/vmdash/internal/api"
)

// Filters holds the three client-side filter predicates. A nil Status
// or Zone means that dimension is inactive; there are no magic "all"
// sentinel values at this level.
type Filters struct {
	// Search is matched case-insensitively as a substring of the VM name.
	// Empty means no name filtering.
	Search string

	// Status, when set, requires an exact status match.
	Status *api.Status

	// Zone, when set, requires an exact zoneRegion match.
	Zone *string
}

// Matches reports whether vm satisfies all three predicates. The
// predicates are conjunctive: every active filter must match.
func (f Filters) Matches(vm api.VirtualMachine) bool {
	if f.Search != "" &&
		!strings.Contains(strings.ToLower(vm.Name), strings.ToLower(f.Search)) {
		return false
	}
	if f.Status != nil && vm.Status != *f.Status {
		return false
	}
	if f.Zone != nil && vm.ZoneRegion != *f.Zone {
		return false
	}
	return true
}

// State is the session state of one dashboard view. It is created once
// per session, fully replaced on transitions, and never persisted.
//
// Invariant: VMs is always the latest server-reported snapshot or empty
// after a failed fetch. The client never mutates a VM locally; power
// changes are observed only through a follow-up fetch.
type State struct {
	// VMs is the ordered snapshot from the last successful fetch.
	VMs []api.VirtualMachine

	// Filters are the client-side view predicates.
	Filters Filters

	// Loading is true while any operation is in flight.
	Loading bool

	// LastError is the most recent failure message, or empty. Only one
	// error is visible at a time; every started operation clears it.
	LastError string
}

// FetchStarted begins a list fetch: loading turns on and any previous
// error is cleared.
func (s State) FetchStarted() State {
	s.Loading = true
	s.LastError = ""
	return s
}

// FetchSucceeded replaces the snapshot with the server response. The
// slice is taken as-is; order is the server's order.
func (s State) FetchSucceeded(vms []api.VirtualMachine) State {
	s.VMs = vms
	s.Loading = false
	s.LastError = ""
	return s
}

// FetchFailed records the failure and discards any previously loaded
// snapshot: a failed fetch never leaves stale data behind.
func (s State) FetchFailed(message string) State {
	s.VMs = nil
	s.Loading = false
	s.LastError = message
	return s
}

// ActionStarted begins a per-VM action (toggle or connect): loading
// turns on and any previous error is cleared. The snapshot is untouched.
func (s State) ActionStarted() State {
	s.Loading = true
	s.LastError = ""
	return s
}

// ActionSucceeded completes a per-VM action without touching the
// snapshot. A toggle's visible effect arrives via the follow-up fetch.
func (s State) ActionSucceeded() State {
	s.Loading = false
	return s
}

// ActionFailed records the failure and keeps the last known snapshot.
func (s State) ActionFailed(message string) State {
	s.Loading = false
	s.LastError = message
	return s
}

// FilteredVMs returns the VMs satisfying all active filters, in
// snapshot order. Pure; the receiver is not modified.
func (s State) FilteredVMs() []api.VirtualMachine {
	filtered := make([]api.VirtualMachine, 0, len(s.VMs))
	for _, vm := range s.VMs {
		if s.Filters.Matches(vm) {
			filtered = append(filtered, vm)
		}
	}
	return filtered
}

// AvailableZones returns the distinct zoneRegion values present in the
// current snapshot, sorted ascending. The choices track the last fetch,
// not the historical fleet: filtering by a zone that disappeared simply
// yields an empty result.
func (s State) AvailableZones() []string {
	seen := make(map[string]bool, len(s.VMs))
	zones := make([]string, 0, len(s.VMs))
	for _, vm := range s.VMs {
		if !seen[vm.ZoneRegion] {
			seen[vm.ZoneRegion] = true
			zones = append(zones, vm.ZoneRegion)
		}
	}
	sort.Strings(zones)
	return zones
}
