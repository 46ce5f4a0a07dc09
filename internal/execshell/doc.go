// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution, and defines the abstractions used to run the
// repository aggregation tool in a testable manner, including pass-through of
// the parent process's standard streams.
package execshell
