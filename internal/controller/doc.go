// Package controller owns the dashboard session state: the fleet
// snapshot, filter predicates, loading flag, and the most recent error.
//
// State is a plain value with pure transition methods, so every state
// change is testable without a rendering environment or a live backend.
// Controller layers the backend operations (fetch, toggle power,
// connect) on top of State through a small client interface.
package controller
