package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gemops/vmdash/internal/api"
)

// stubBackend is a canned backend for driving the model without a
// server. Calls are counted so tests can assert on refetch behavior.
type stubBackend struct {
	vms     []api.VirtualMachine
	listErr error

	toggleErr  error
	connectErr error

	listCalls    int
	toggleCalls  int
	connectCalls int
}

func (s *stubBackend) ListVMs(ctx context.Context) ([]api.VirtualMachine, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.vms, nil
}

func (s *stubBackend) TogglePower(ctx context.Context, name, zone string, current api.Status) error {
	s.toggleCalls++
	return s.toggleErr
}

func (s *stubBackend) Connect(ctx context.Context, name, zone, ipExternal string) (*api.ConnectInfo, error) {
	s.connectCalls++
	if s.connectErr != nil {
		return nil, s.connectErr
	}
	return &api.ConnectInfo{Message: "use this command", SSHCommand: "gcloud compute ssh " + name}, nil
}

func testBackend() *stubBackend {
	return &stubBackend{
		vms: []api.VirtualMachine{
			{ID: "1", Name: "web-1", ZoneRegion: "us-1", IPExternal: "1.2.3.4", IPInternal: "10.0.0.1", MachineType: "e2-small", Status: api.StatusRunning},
			{ID: "2", Name: "web-2", ZoneRegion: "us-2", IPInternal: "10.0.0.2", MachineType: "e2-medium", Status: api.StatusStopped},
			{ID: "3", Name: "batch-9", ZoneRegion: "eu-1", IPInternal: "10.0.0.3", MachineType: "n1-standard", Status: api.StatusProvisioning},
		},
	}
}

// loaded returns a model that has completed its initial fetch.
func loaded(t *testing.T, backend *stubBackend) Model {
	t.Helper()
	m := NewModel(backend)

	vms, err := backend.ListVMs(context.Background())
	updated, _ := m.Update(vmsLoadedMsg{vms: vms, err: err})
	return updated.(Model)
}

func key(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInitialStateIsLoading(t *testing.T) {
	m := NewModel(testBackend())
	if !m.state.Loading {
		t.Error("expected the initial frame to be loading")
	}
	if m.Init() == nil {
		t.Error("expected Init to schedule the first fetch")
	}
}

func TestFetchCompletionPopulatesSnapshot(t *testing.T) {
	m := loaded(t, testBackend())

	if m.state.Loading {
		t.Error("expected loading to drop after the fetch completes")
	}
	if len(m.state.VMs) != 3 {
		t.Fatalf("expected 3 VMs, got %d", len(m.state.VMs))
	}

	view := m.View()
	if !strings.Contains(view, "web-1") || !strings.Contains(view, "batch-9") {
		t.Error("expected all VMs in the rendered table")
	}
}

func TestFetchFailureShowsErrorBanner(t *testing.T) {
	backend := testBackend()
	m := NewModel(backend)

	updated, _ := m.Update(vmsLoadedMsg{err: &api.Error{StatusCode: 500, Detail: "boom"}})
	m = updated.(Model)

	if m.state.LastError != "boom" {
		t.Errorf("expected error 'boom', got %q", m.state.LastError)
	}
	if len(m.state.VMs) != 0 {
		t.Error("expected the snapshot to be discarded on fetch failure")
	}
	if !strings.Contains(m.View(), "error: boom") {
		t.Error("expected the error banner in the view")
	}
}

func TestEmptyMatchIsNotAnError(t *testing.T) {
	m := loaded(t, testBackend())

	// A filter that matches nothing renders the informational notice,
	// not the error banner.
	m.state.Filters.Search = "no-such-vm"
	view := m.View()

	if !strings.Contains(view, "No VMs match the current filters") {
		t.Error("expected the no-matches notice")
	}
	if strings.Contains(view, "error:") {
		t.Error("an empty filter result must not render as an error")
	}
}

func TestSearchKeyFiltersList(t *testing.T) {
	m := loaded(t, testBackend())

	updated, _ := m.Update(key("/"))
	m = updated.(Model)
	if !m.searching {
		t.Fatal("expected / to focus the search input")
	}

	for _, r := range "batch" {
		updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}

	filtered := m.state.FilteredVMs()
	if len(filtered) != 1 || filtered[0].Name != "batch-9" {
		t.Errorf("expected only batch-9, got %d VMs", len(filtered))
	}

	updated, _ = m.Update(key("enter"))
	m = updated.(Model)
	if m.searching {
		t.Error("expected enter to leave search mode")
	}
}

func TestStatusFilterCycles(t *testing.T) {
	m := loaded(t, testBackend())

	updated, _ := m.Update(key("s"))
	m = updated.(Model)

	if m.state.Filters.Status == nil || *m.state.Filters.Status != api.StatusRunning {
		t.Fatal("expected first cycle step to filter Running")
	}
	filtered := m.state.FilteredVMs()
	if len(filtered) != 1 || filtered[0].Name != "web-1" {
		t.Errorf("expected only web-1, got %d VMs", len(filtered))
	}

	// Cycling through the remaining positions returns to inactive.
	for i := 0; i < 3; i++ {
		updated, _ = m.Update(key("s"))
		m = updated.(Model)
	}
	if m.state.Filters.Status != nil {
		t.Error("expected the status filter to cycle back to inactive")
	}
}

func TestZoneFilterCyclesThroughSnapshotZones(t *testing.T) {
	m := loaded(t, testBackend())

	// Zones are sorted: eu-1, us-1, us-2.
	updated, _ := m.Update(key("z"))
	m = updated.(Model)
	if m.state.Filters.Zone == nil || *m.state.Filters.Zone != "eu-1" {
		t.Fatalf("expected first zone eu-1, got %v", m.state.Filters.Zone)
	}

	for i := 0; i < 3; i++ {
		updated, _ = m.Update(key("z"))
		m = updated.(Model)
	}
	if m.state.Filters.Zone != nil {
		t.Error("expected the zone filter to cycle back to inactive")
	}
}

func TestToggleTriggersRefetch(t *testing.T) {
	backend := testBackend()
	m := loaded(t, backend)

	updated, cmd := m.Update(key("enter"))
	m = updated.(Model)
	if !m.state.Loading {
		t.Error("expected loading while the toggle is in flight")
	}
	if cmd == nil {
		t.Fatal("expected a toggle command")
	}

	updated, cmd = m.Update(toggleDoneMsg{name: "web-1"})
	m = updated.(Model)
	if !m.state.Loading {
		t.Error("expected loading to stay on for the follow-up fetch")
	}
	if cmd == nil {
		t.Fatal("expected a refetch command after a successful toggle")
	}
	if m.notice == "" {
		t.Error("expected a user-visible acknowledgment")
	}
}

func TestToggleFailureKeepsSnapshot(t *testing.T) {
	backend := testBackend()
	m := loaded(t, backend)

	updated, _ := m.Update(toggleDoneMsg{
		name: "web-1",
		err:  &api.Error{StatusCode: 400, Detail: "cannot toggle"},
	})
	m = updated.(Model)

	if m.state.LastError != "cannot toggle" {
		t.Errorf("expected server detail, got %q", m.state.LastError)
	}
	if len(m.state.VMs) != 3 {
		t.Error("a failed toggle must keep the last known snapshot")
	}
	if m.state.Loading {
		t.Error("expected loading to drop after a failed toggle")
	}
}

func TestToggleDisabledForProvisioningVM(t *testing.T) {
	backend := testBackend()
	m := loaded(t, backend)

	// Move the cursor to batch-9 (Provisioning).
	updated, _ := m.Update(key("j"))
	m = updated.(Model)
	updated, _ = m.Update(key("j"))
	m = updated.(Model)

	updated, cmd := m.Update(key("enter"))
	m = updated.(Model)
	if cmd != nil || m.state.Loading {
		t.Error("expected the toggle to be a no-op for a Provisioning VM")
	}
}

func TestConnectShowsCommand(t *testing.T) {
	backend := testBackend()
	m := loaded(t, backend)

	updated, cmd := m.Update(key("c"))
	m = updated.(Model)
	if cmd == nil || !m.state.Loading {
		t.Fatal("expected a connect command in flight")
	}

	updated, _ = m.Update(connectDoneMsg{
		name: "web-1",
		info: &api.ConnectInfo{Message: "use this command", SSHCommand: "gcloud compute ssh web-1"},
	})
	m = updated.(Model)

	if m.state.Loading {
		t.Error("expected loading to drop after connect")
	}
	view := m.View()
	if !strings.Contains(view, "gcloud compute ssh web-1") {
		t.Error("expected the SSH command in the view")
	}
	if !strings.Contains(view, "use this command") {
		t.Error("expected the server message in the view")
	}
}

func TestActionKeysIgnoredWhileLoading(t *testing.T) {
	backend := testBackend()
	m := loaded(t, backend)
	m.state = m.state.FetchStarted()

	updated, cmd := m.Update(key("enter"))
	m = updated.(Model)
	if cmd != nil {
		t.Error("expected enter to be ignored while loading")
	}

	updated, cmd = m.Update(key("c"))
	m = updated.(Model)
	if cmd != nil {
		t.Error("expected c to be ignored while loading")
	}

	updated, cmd = m.Update(key("r"))
	if cmd != nil {
		t.Error("expected r to be ignored while loading")
	}
	_ = updated
}

func TestCursorClampsWhenFilterShrinksList(t *testing.T) {
	m := loaded(t, testBackend())

	updated, _ := m.Update(key("j"))
	m = updated.(Model)
	updated, _ = m.Update(key("j"))
	m = updated.(Model)
	if m.cursor != 2 {
		t.Fatalf("expected cursor at 2, got %d", m.cursor)
	}

	m.state.Filters.Search = "web"
	m.clampSelection()
	if m.cursor != 1 {
		t.Errorf("expected cursor clamped to 1, got %d", m.cursor)
	}
}

func TestQuitKey(t *testing.T) {
	m := loaded(t, testBackend())

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if msg := cmd(); msg != (tea.QuitMsg{}) {
		t.Errorf("expected QuitMsg, got %T", msg)
	}
}
