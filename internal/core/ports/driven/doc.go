// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports).
//
// The core services depend on these abstractions only; adapters under
// internal/adapters/driven implement them. The embedding and generation
// services are remote collaborators that may fail; the ports document
// how the core treats those failures.
package driven
