package execshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

const (
	environmentAssignmentSeparatorConstant = "="
	environmentAssignmentTemplateConstant  = "%s%s%s"
)

// OSCommandRunner executes commands using the operating system facilities.
//
// Child process output is mirrored to the configured streams while being
// captured, so interactive npm output stays visible live and failure messages
// still carry the collected stderr.
type OSCommandRunner struct {
	standardOutputStream io.Writer
	standardErrorStream  io.Writer
	standardInputStream  io.Reader
}

// NewOSCommandRunner constructs a runner mirroring child output to the process streams.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{
		standardOutputStream: os.Stdout,
		standardErrorStream:  os.Stderr,
		standardInputStream:  os.Stdin,
	}
}

// NewOSCommandRunnerWithStreams constructs a runner mirroring child output to the supplied streams.
func NewOSCommandRunnerWithStreams(standardOutput io.Writer, standardError io.Writer, standardInput io.Reader) *OSCommandRunner {
	return &OSCommandRunner{
		standardOutputStream: standardOutput,
		standardErrorStream:  standardError,
		standardInputStream:  standardInput,
	}
}

// Run executes the supplied command using os/exec.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandArguments := append([]string{}, command.Details.Arguments...)
	executable := exec.CommandContext(executionContext, string(command.Name), commandArguments...)

	if len(command.Details.WorkingDirectory) > 0 {
		executable.Dir = command.Details.WorkingDirectory
	}

	if len(command.Details.EnvironmentVariables) > 0 {
		mergedEnvironment := append([]string{}, os.Environ()...)
		for environmentKey, environmentValue := range command.Details.EnvironmentVariables {
			mergedEnvironment = append(mergedEnvironment, fmt.Sprintf(environmentAssignmentTemplateConstant, environmentKey, environmentAssignmentSeparatorConstant, environmentValue))
		}
		executable.Env = mergedEnvironment
	}

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	executable.Stdout = runner.teeWriter(&standardOutputBuffer, runner.standardOutputStream)
	executable.Stderr = runner.teeWriter(&standardErrorBuffer, runner.standardErrorStream)

	if len(command.Details.StandardInput) > 0 {
		executable.Stdin = bytes.NewReader(command.Details.StandardInput)
	} else if runner.standardInputStream != nil {
		executable.Stdin = runner.standardInputStream
	}

	runError := executable.Run()
	if runError != nil {
		exitError := &exec.ExitError{}
		if errors.As(runError, &exitError) {
			return ExecutionResult{
				StandardOutput: standardOutputBuffer.String(),
				StandardError:  standardErrorBuffer.String(),
				ExitCode:       exitError.ExitCode(),
			}, nil
		}
		return ExecutionResult{}, runError
	}

	return ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
		ExitCode:       0,
	}, nil
}

func (runner *OSCommandRunner) teeWriter(captureBuffer *bytes.Buffer, mirrorStream io.Writer) io.Writer {
	if mirrorStream == nil {
		return captureBuffer
	}
	return io.MultiWriter(captureBuffer, mirrorStream)
}
