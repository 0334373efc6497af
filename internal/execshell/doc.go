// Package execshell centralizes external command execution for the CLI.
//
// It wraps os/exec with structured logging, lifecycle observers, and typed
// errors so higher-level packages can run the npm CLI without duplicating
// process-management concerns.
package execshell
