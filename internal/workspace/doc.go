// Package workspace manages the scratch directories generation runs check
// remote sources out into, supporting both ephemeral (timestamped) and
// persistent (fixed-path) modes.
//
// Ephemeral mode creates timestamped directories (e.g. exdoc-20260825-142233)
// suitable for one-shot runs, cleaned up completely afterwards.
//
// Persistent mode uses a fixed directory path that survives across runs, so
// the daemon can update existing checkouts instead of recloning on every
// interval.
package workspace
