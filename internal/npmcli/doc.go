// Package npmcli coordinates npm CLI invocations through execshell.
//
// It exposes the Publish operation used to register placeholder packages and
// helpers for building registry URLs and manual publish command lines.
package npmcli
