package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/odooops/autoaggregate/cmd/cli"
	"github.com/odooops/autoaggregate/internal/execshell"
)

const (
	exitErrorTemplateConstant      = "%v\n"
	genericFailureExitCodeConstant = 1
)

// main executes the autoaggregate command-line application and mirrors
// aggregation subprocess exit codes so container builds fail the same way the
// underlying tool did.
func main() {
	executionError := cli.Execute()
	if executionError == nil {
		return
	}

	fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)

	var commandFailure *execshell.CommandFailedError
	if errors.As(executionError, &commandFailure) && commandFailure.ExitCode > 0 {
		os.Exit(commandFailure.ExitCode)
	}

	os.Exit(genericFailureExitCodeConstant)
}
