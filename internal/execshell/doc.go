// Package execshell provides structured helpers for invoking the external git binary.
//
// It wraps os/exec with zap logging via ShellExecutor, exposes OSCommandRunner
// for default process execution, and defines the CommandRunner abstraction used
// throughout checkout to run git in a testable manner.
package execshell
