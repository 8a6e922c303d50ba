// Package driving provides interfaces for application entry points
// (primary/inbound ports). The CLI and TUI talk to the core only
// through these.
package driving
