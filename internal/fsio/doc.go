// Package fsio defines the filesystem collaborator used by repository
// inspection: existence tests, small text file reads, and directory creation.
package fsio
