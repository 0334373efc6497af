package main

import (
	"fmt"
	"os"

	"github.com/temirov/npm-oidc-setup/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the npm-oidc-setup command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
