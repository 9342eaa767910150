// Package utils provides shared logging and configuration plumbing for the
// command layer.
package utils
