package tests

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	integrationCommandTimeout         = 60 * time.Second
	fakeNpmScriptFileNameConstant     = "npm"
	fakeNpmScriptPermissionsConstant  = 0o755
	pathEnvironmentVariableConstant   = "PATH"
	pathListSeparatorConstant         = string(os.PathListSeparator)
	goCommandNameConstant             = "go"
	goRunArgumentConstant             = "run"
	goRunTargetArgumentConstant       = "."
	successfulRunExitCodeConstant     = 0
	failedRunExitCodeConstant         = 1
	fakeNpmFailureScriptConstant      = "#!/bin/sh\necho \"npm ERR! code E403\" >&2\nexit 1\n"
	fakeNpmRecordingScriptTemplate    = "#!/bin/sh\necho \"$@\" >> %s\nexit 0\n"
	integrationRecordFileNameConstant = "npm-invocations.log"
)

type integrationCommandResult struct {
	output   string
	exitCode int
}

func repositoryRootDirectory(testInstance *testing.T) string {
	testInstance.Helper()

	currentWorkingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)
	return filepath.Dir(currentWorkingDirectory)
}

func runIntegrationCommand(testInstance *testing.T, repositoryRoot string, environmentOverrides map[string]string, arguments []string) integrationCommandResult {
	testInstance.Helper()

	executionContext, cancelFunction := context.WithTimeout(context.Background(), integrationCommandTimeout)
	defer cancelFunction()

	commandArguments := append([]string{goRunArgumentConstant, goRunTargetArgumentConstant}, arguments...)
	command := exec.CommandContext(executionContext, goCommandNameConstant, commandArguments...)
	command.Dir = repositoryRoot

	environment := append([]string{}, os.Environ()...)
	for environmentKey, environmentValue := range environmentOverrides {
		environment = append(environment, environmentKey+"="+environmentValue)
	}
	command.Env = environment

	outputBytes, runError := command.CombinedOutput()
	result := integrationCommandResult{output: string(outputBytes), exitCode: successfulRunExitCodeConstant}

	if runError != nil {
		var exitError *exec.ExitError
		if !errors.As(runError, &exitError) {
			testInstance.Fatalf("command failed without exit code: %v\n%s", runError, result.output)
		}
		result.exitCode = exitError.ExitCode()
	}

	return result
}

func writeFakeNpmExecutable(testInstance *testing.T, scriptContent string) string {
	testInstance.Helper()

	binaryDirectory := testInstance.TempDir()
	scriptPath := filepath.Join(binaryDirectory, fakeNpmScriptFileNameConstant)
	require.NoError(testInstance, os.WriteFile(scriptPath, []byte(scriptContent), fakeNpmScriptPermissionsConstant))
	return binaryDirectory
}

func prependToPath(binaryDirectory string) string {
	return binaryDirectory + pathListSeparatorConstant + os.Getenv(pathEnvironmentVariableConstant)
}
