// Package cli constructs the npm-oidc-setup command-line interface, wiring the
// Cobra command, configuration loader, and structured logging primitives. It
// exposes helpers to build reusable application instances and to execute the
// placeholder publishing workflow as a reusable library.
package cli
