// Package driving provides interfaces for application entry points
// (primary/inbound ports).
//
// The CLI and any batch tooling drive the core through these
// interfaces; internal/core/services implements them.
package driving
