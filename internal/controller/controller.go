package controller

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gemops/vmdash/internal/api"
)

// vmClient defines the backend operations the controller needs.
//
// In production, this is satisfied by *api.Client.
// In tests, this is satisfied by mock implementations.
type vmClient interface {
	// ListVMs fetches the current fleet snapshot
	ListVMs(ctx context.Context) ([]api.VirtualMachine, error)

	// TogglePower flips the power state of a VM
	TogglePower(ctx context.Context, name, zone string, current api.Status) error

	// Connect returns the SSH command for reaching a VM
	Connect(ctx context.Context, name, zone, ipExternal string) (*api.ConnectInfo, error)
}

// Controller mediates all communication with the backend for one
// dashboard session. It owns a State exclusively; callers on a single
// goroutine invoke operations and read State() afterwards.
//
// No operation returns an error: failures are caught locally and stored
// as a single human-readable message on the state, matching the
// one-error-visible rule.
type Controller struct {
	client vmClient
	logger *zap.Logger
	state  State
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the diagnostic logger for operation tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// New creates a Controller backed by client with an empty session state.
func New(client vmClient, opts ...Option) *Controller {
	c := &Controller{
		client: client,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current session state.
func (c *Controller) State() State {
	return c.state
}

// SetSearch sets the name substring filter.
func (c *Controller) SetSearch(search string) {
	c.state.Filters.Search = search
}

// SetStatusFilter sets the status filter; nil deactivates it.
func (c *Controller) SetStatusFilter(status *api.Status) {
	c.state.Filters.Status = status
}

// SetZoneFilter sets the zone filter; nil deactivates it.
func (c *Controller) SetZoneFilter(zone *string) {
	c.state.Filters.Zone = zone
}

// Fetch refreshes the fleet snapshot. On success the snapshot is fully
// replaced; on failure the snapshot is emptied and the error message
// stored. Repeated calls simply replace state.
func (c *Controller) Fetch(ctx context.Context) {
	if c.state.Loading {
		c.logger.Debug("fetch rejected, operation in flight")
		return
	}
	c.state = c.state.FetchStarted()
	c.logger.Debug("fetching vm list")

	vms, err := c.client.ListVMs(ctx)
	if err != nil {
		message := FailureMessage(err, "could not load the VM list")
		c.logger.Warn("fetch failed", zap.Error(err))
		c.state = c.state.FetchFailed(message)
		return
	}

	c.logger.Debug("fetch complete", zap.Int("vms", len(vms)))
	c.state = c.state.FetchSucceeded(vms)
}

// TogglePower asks the backend to flip the named VM's power state,
// passing the status observed at call time. On success, exactly one
// follow-up fetch re-derives the snapshot from the server before the
// loading flag drops; the return value acknowledges the action.
//
// On failure, the last known snapshot is kept and no refetch happens.
// The action is never retried automatically.
func (c *Controller) TogglePower(ctx context.Context, name, zone string, current api.Status) bool {
	if c.state.Loading {
		c.logger.Debug("toggle rejected, operation in flight", zap.String("vm", name))
		return false
	}
	c.state = c.state.ActionStarted()
	c.logger.Debug("toggling power",
		zap.String("vm", name),
		zap.String("zone", zone),
		zap.String("current_status", string(current)))

	if err := c.client.TogglePower(ctx, name, zone, current); err != nil {
		message := FailureMessage(err, fmt.Sprintf("could not change the power state of %s", name))
		c.logger.Warn("toggle failed", zap.String("vm", name), zap.Error(err))
		c.state = c.state.ActionFailed(message)
		return false
	}

	// The server is the only source of truth for the new status.
	c.state = c.state.ActionSucceeded()
	c.Fetch(ctx)
	return true
}

// Connect asks the backend for the SSH command to reach the named VM.
// ipExternal may be empty. Connecting does not change VM state, so no
// refetch follows; the returned info is nil when the action failed.
func (c *Controller) Connect(ctx context.Context, name, zone, ipExternal string) (*api.ConnectInfo, bool) {
	if c.state.Loading {
		c.logger.Debug("connect rejected, operation in flight", zap.String("vm", name))
		return nil, false
	}
	c.state = c.state.ActionStarted()
	c.logger.Debug("requesting connect command",
		zap.String("vm", name),
		zap.String("zone", zone))

	info, err := c.client.Connect(ctx, name, zone, ipExternal)
	if err != nil {
		message := FailureMessage(err, fmt.Sprintf("could not prepare a connection to %s", name))
		c.logger.Warn("connect failed", zap.String("vm", name), zap.Error(err))
		c.state = c.state.ActionFailed(message)
		return nil, false
	}

	c.state = c.state.ActionSucceeded()
	return info, true
}

// FailureMessage picks the server-supplied detail when the failure
// body carried one, else the generic per-operation message. Shared with
// the interactive dashboard, which applies the same policy to
// asynchronous completions.
func FailureMessage(err error, generic string) string {
	if detail, ok := api.Detail(err); ok {
		return detail
	}
	return generic
}
