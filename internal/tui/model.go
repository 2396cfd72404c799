// Package tui implements the interactive fleet dashboard: a bubbletea
// program whose model wraps the controller state machine. All state
// mutation happens inside Update by applying the pure transitions;
// backend I/O runs in commands and comes back as completion messages.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/gemops/vmdash/internal/api"
	"github.com/gemops/vmdash/internal/controller"
)

// backend is the slice of the API client the dashboard needs.
// Satisfied by *api.Client in production and by stubs in tests.
type backend interface {
	ListVMs(ctx context.Context) ([]api.VirtualMachine, error)
	TogglePower(ctx context.Context, name, zone string, current api.Status) error
	Connect(ctx context.Context, name, zone, ipExternal string) (*api.ConnectInfo, error)
}

// vmsLoadedMsg delivers the result of a list fetch.
type vmsLoadedMsg struct {
	vms []api.VirtualMachine
	err error
}

// toggleDoneMsg delivers the result of a power toggle.
type toggleDoneMsg struct {
	name string
	err  error
}

// connectDoneMsg delivers the result of a connect request.
type connectDoneMsg struct {
	name string
	info *api.ConnectInfo
	err  error
}

// statusCycle is the order the status filter steps through; nil is the
// inactive position.
var statusCycle = []*api.Status{
	nil,
	statusPtr(api.StatusRunning),
	statusPtr(api.StatusStopped),
	statusPtr(api.StatusProvisioning),
}

func statusPtr(s api.Status) *api.Status {
	return &s
}

// Model is the dashboard's bubbletea model. It owns one controller
// session state exclusively; commands never touch it.
type Model struct {
	client backend
	logger *zap.Logger

	state  controller.State
	cursor int

	// zoneIdx indexes into the zone cycle: 0 means no zone filter,
	// i > 0 means AvailableZones()[i-1]. The cycle tracks the current
	// snapshot only, so choices shrink and grow with each fetch.
	zoneIdx   int
	statusIdx int

	search    textinput.Model
	searching bool

	spin   spinner.Model
	theme  Theme
	notice string
	width  int
	height int
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// NewModel creates the dashboard model. The first fetch is already
// marked in flight so the initial frame shows the spinner instead of an
// empty fleet.
func NewModel(client backend, opts ...Option) Model {
	search := textinput.New()
	search.Placeholder = "filter by name"
	search.Prompt = "/ "
	search.CharLimit = 64

	theme := NewTheme()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = theme.Spinner

	m := Model{
		client: client,
		logger: zap.NewNop(),
		state:  controller.State{}.FetchStarted(),
		search: search,
		spin:   spin,
		theme:  theme,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init starts the initial fetch and the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), m.spin.Tick)
}

// fetchCmd loads the fleet snapshot off the update loop.
func (m Model) fetchCmd() tea.Cmd {
	client, logger := m.client, m.logger
	return func() tea.Msg {
		logger.Debug("dashboard fetching vm list")
		vms, err := client.ListVMs(context.Background())
		return vmsLoadedMsg{vms: vms, err: err}
	}
}

// toggleCmd sends a power toggle for vm, passing the observed status.
func (m Model) toggleCmd(vm api.VirtualMachine) tea.Cmd {
	client, logger := m.client, m.logger
	return func() tea.Msg {
		logger.Debug("dashboard toggling power",
			zap.String("vm", vm.Name),
			zap.String("zone", vm.ZoneRegion),
			zap.String("current_status", string(vm.Status)))
		err := client.TogglePower(context.Background(), vm.Name, vm.ZoneRegion, vm.Status)
		return toggleDoneMsg{name: vm.Name, err: err}
	}
}

// connectCmd requests the SSH command for vm.
func (m Model) connectCmd(vm api.VirtualMachine) tea.Cmd {
	client, logger := m.client, m.logger
	return func() tea.Msg {
		logger.Debug("dashboard requesting connect command",
			zap.String("vm", vm.Name),
			zap.String("zone", vm.ZoneRegion))
		info, err := client.Connect(context.Background(), vm.Name, vm.ZoneRegion, vm.IPExternal)
		return connectDoneMsg{name: vm.Name, info: info, err: err}
	}
}

// Update is the single mutation point for the session state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case vmsLoadedMsg:
		if msg.err != nil {
			m.state = m.state.FetchFailed(
				controller.FailureMessage(msg.err, "could not load the VM list"))
		} else {
			m.state = m.state.FetchSucceeded(msg.vms)
		}
		m.clampSelection()
		return m, nil

	case toggleDoneMsg:
		if msg.err != nil {
			m.state = m.state.ActionFailed(
				controller.FailureMessage(msg.err, fmt.Sprintf("could not change the power state of %s", msg.name)))
			return m, nil
		}
		// The server is the only source of truth: one refetch, no
		// local status patch.
		m.notice = fmt.Sprintf("power toggle accepted for %s, refreshing", msg.name)
		m.state = m.state.ActionSucceeded().FetchStarted()
		return m, tea.Batch(m.fetchCmd(), m.spin.Tick)

	case connectDoneMsg:
		if msg.err != nil {
			m.state = m.state.ActionFailed(
				controller.FailureMessage(msg.err, fmt.Sprintf("could not prepare a connection to %s", msg.name)))
			return m, nil
		}
		m.state = m.state.ActionSucceeded()
		m.notice = fmt.Sprintf("%s\n  %s", msg.info.Message, msg.info.SSHCommand)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey routes keyboard input: to the search box while it is
// focused, otherwise to the dashboard bindings.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "enter", "esc":
			m.searching = false
			m.search.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			m.state.Filters.Search = m.search.Value()
			m.clampSelection()
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "/":
		m.searching = true
		m.notice = ""
		return m, m.search.Focus()

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.state.FilteredVMs())-1 {
			m.cursor++
		}
		return m, nil

	case "s":
		m.statusIdx = (m.statusIdx + 1) % len(statusCycle)
		m.state.Filters.Status = statusCycle[m.statusIdx]
		m.clampSelection()
		return m, nil

	case "z":
		zones := m.state.AvailableZones()
		m.zoneIdx = (m.zoneIdx + 1) % (len(zones) + 1)
		if m.zoneIdx == 0 {
			m.state.Filters.Zone = nil
		} else {
			zone := zones[m.zoneIdx-1]
			m.state.Filters.Zone = &zone
		}
		m.clampSelection()
		return m, nil

	case "r":
		if m.state.Loading {
			return m, nil
		}
		m.notice = ""
		m.state = m.state.FetchStarted()
		return m, tea.Batch(m.fetchCmd(), m.spin.Tick)

	case "enter", " ":
		vm, ok := m.selectedVM()
		if !ok || m.state.Loading || !vm.Status.CanToggle() {
			return m, nil
		}
		m.notice = ""
		m.state = m.state.ActionStarted()
		return m, tea.Batch(m.toggleCmd(vm), m.spin.Tick)

	case "c":
		vm, ok := m.selectedVM()
		if !ok || m.state.Loading {
			return m, nil
		}
		m.notice = ""
		m.state = m.state.ActionStarted()
		return m, tea.Batch(m.connectCmd(vm), m.spin.Tick)
	}

	return m, nil
}

// selectedVM returns the VM under the cursor in the filtered view.
func (m Model) selectedVM() (api.VirtualMachine, bool) {
	filtered := m.state.FilteredVMs()
	if m.cursor < 0 || m.cursor >= len(filtered) {
		return api.VirtualMachine{}, false
	}
	return filtered[m.cursor], true
}

// clampSelection keeps the cursor and zone filter index valid after
// the snapshot or the filters change.
func (m *Model) clampSelection() {
	filtered := m.state.FilteredVMs()
	if m.cursor >= len(filtered) {
		m.cursor = len(filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	zones := m.state.AvailableZones()
	if m.zoneIdx > len(zones) {
		m.zoneIdx = 0
		m.state.Filters.Zone = nil
	}
}

// Run starts the dashboard as a full-screen program.
func Run(client *api.Client, opts ...Option) error {
	program := tea.NewProgram(NewModel(client, opts...), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
