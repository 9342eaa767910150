// Package gitrepo interrogates the state of a local Git working copy.
//
// It exposes RepositoryInspector for deriving a RepositoryState snapshot from
// disk, locating repository metadata (including submodule redirect files), and
// answering the local-ref probes used when planning a convergence.
package gitrepo
