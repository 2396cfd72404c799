package controller

import (
	"context"

	"github.com/gemops/vmdash/internal/api"
)

// mockVMClient is a mock implementation of the vmClient interface for
// testing.
type mockVMClient struct {
	// Configurable behavior
	listVMsFunc     func(ctx context.Context) ([]api.VirtualMachine, error)
	togglePowerFunc func(ctx context.Context, name, zone string, current api.Status) error
	connectFunc     func(ctx context.Context, name, zone, ipExternal string) (*api.ConnectInfo, error)

	// Call tracking
	listVMsCalls     int
	togglePowerCalls []string
	connectCalls     []string
}

// newMockVMClient creates a mock client with default behavior: an empty
// fleet and actions that succeed.
func newMockVMClient() *mockVMClient {
	m := &mockVMClient{}

	m.listVMsFunc = func(ctx context.Context) ([]api.VirtualMachine, error) {
		return []api.VirtualMachine{}, nil
	}
	m.togglePowerFunc = func(ctx context.Context, name, zone string, current api.Status) error {
		return nil
	}
	m.connectFunc = func(ctx context.Context, name, zone, ipExternal string) (*api.ConnectInfo, error) {
		return &api.ConnectInfo{Message: "ok", SSHCommand: "ssh"}, nil
	}

	return m
}

func (m *mockVMClient) ListVMs(ctx context.Context) ([]api.VirtualMachine, error) {
	m.listVMsCalls++
	return m.listVMsFunc(ctx)
}

func (m *mockVMClient) TogglePower(ctx context.Context, name, zone string, current api.Status) error {
	m.togglePowerCalls = append(m.togglePowerCalls, name)
	return m.togglePowerFunc(ctx, name, zone, current)
}

func (m *mockVMClient) Connect(ctx context.Context, name, zone, ipExternal string) (*api.ConnectInfo, error) {
	m.connectCalls = append(m.connectCalls, name)
	return m.connectFunc(ctx, name, zone, ipExternal)
}
