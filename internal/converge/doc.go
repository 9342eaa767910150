// Package converge brings a local working copy into agreement with a remote
// repository at a target revision.
//
// It resolves a revision spec against the remote's advertised references,
// plans the minimal sequence of git operations (clone versus fetch, reset,
// and checkout), executes the plan through the shell executor, and reports a
// before/after commit pair with a changed verdict. A dry-run mode evaluates
// the plan without mutating the destination.
package converge
