// Package api contains the wire model and HTTP client for the VM
// management backend.
//
// The backend exposes three endpoints: a collection listing, a per-VM
// power toggle, and a per-VM connect helper that returns a ready-made
// SSH command. All action parameters travel as query parameters and
// request bodies are always empty; success is exactly HTTP 2xx and
// failures carry a {"detail": "..."} JSON envelope.
package api
