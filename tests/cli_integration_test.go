package tests

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	integrationTemporaryRootEnvNameConstant = "NPMOIDC_SETUP_TEMP_ROOT"
	integrationLogLevelEnvNameConstant      = "NPMOIDC_COMMON_LOG_LEVEL"
	integrationConfigurationMessageConstant = "\"msg\":\"configuration initialized\""
	integrationVersionPrefixConstant        = "npm-oidc-setup version: "
	integrationUsagePrefixConstant          = "Usage:"
	integrationPackageNameConstant          = "integration-placeholder"
	integrationScopedPackageNameConstant    = "@integration/placeholder"
	integrationInvalidPackageNameConstant   = "Invalid_Name!"
	integrationDirectoryPrefixConstant      = "npm-oidc-setup-"
	integrationManifestFileNameConstant     = "package.json"
	integrationNoticeFileNameConstant       = "README.md"
)

func TestCLIVersionFlagSucceeds(testInstance *testing.T) {
	repositoryRoot := repositoryRootDirectory(testInstance)

	for _, versionArgument := range []string{"--version", "-v"} {
		result := runIntegrationCommand(testInstance, repositoryRoot, nil, []string{versionArgument})
		require.Equal(testInstance, successfulRunExitCodeConstant, result.exitCode, result.output)
		require.Contains(testInstance, result.output, integrationVersionPrefixConstant)
	}
}

func TestCLIHelpFlagSucceeds(testInstance *testing.T) {
	repositoryRoot := repositoryRootDirectory(testInstance)

	for _, helpArgument := range []string{"--help", "-h"} {
		result := runIntegrationCommand(testInstance, repositoryRoot, nil, []string{helpArgument})
		require.Equal(testInstance, successfulRunExitCodeConstant, result.exitCode, result.output)
		require.Contains(testInstance, result.output, integrationUsagePrefixConstant)
		require.Contains(testInstance, result.output, "--dry-run")
	}
}

func TestCLIMissingPackageNameFails(testInstance *testing.T) {
	repositoryRoot := repositoryRootDirectory(testInstance)

	result := runIntegrationCommand(testInstance, repositoryRoot, nil, nil)
	require.Equal(testInstance, failedRunExitCodeConstant, result.exitCode, result.output)
	require.Contains(testInstance, result.output, "package-name")
}

func TestCLIInvalidPackageNameFailsWithoutSideEffects(testInstance *testing.T) {
	repositoryRoot := repositoryRootDirectory(testInstance)
	temporaryRoot := testInstance.TempDir()

	environment := map[string]string{integrationTemporaryRootEnvNameConstant: temporaryRoot}
	result := runIntegrationCommand(testInstance, repositoryRoot, environment, []string{integrationInvalidPackageNameConstant})

	require.Equal(testInstance, failedRunExitCodeConstant, result.exitCode, result.output)
	require.Contains(testInstance, result.output, "is not a valid npm package name")

	directoryEntries, readError := os.ReadDir(temporaryRoot)
	require.NoError(testInstance, readError)
	require.Empty(testInstance, directoryEntries)
}

func TestCLIDryRunKeepsGeneratedPlaceholder(testInstance *testing.T) {
	repositoryRoot := repositoryRootDirectory(testInstance)
	temporaryRoot := testInstance.TempDir()

	environment := map[string]string{integrationTemporaryRootEnvNameConstant: temporaryRoot}
	result := runIntegrationCommand(testInstance, repositoryRoot, environment, []string{integrationPackageNameConstant, "--dry-run"})

	require.Equal(testInstance, successfulRunExitCodeConstant, result.exitCode, result.output)
	require.Contains(testInstance, result.output, "Dry run: placeholder package generated at")
	require.Contains(testInstance, result.output, "npm publish")

	directoryEntries, readError := os.ReadDir(temporaryRoot)
	require.NoError(testInstance, readError)
	require.Len(testInstance, directoryEntries, 1)
	require.True(testInstance, strings.HasPrefix(directoryEntries[0].Name(), integrationDirectoryPrefixConstant))

	placeholderDirectory := filepath.Join(temporaryRoot, directoryEntries[0].Name())
	manifestBytes, manifestError := os.ReadFile(filepath.Join(placeholderDirectory, integrationManifestFileNameConstant))
	require.NoError(testInstance, manifestError)
	require.Contains(testInstance, string(manifestBytes), integrationPackageNameConstant)

	_, noticeError := os.Stat(filepath.Join(placeholderDirectory, integrationNoticeFileNameConstant))
	require.NoError(testInstance, noticeError)
}

func TestCLIPublishSuccessRemovesPlaceholder(testInstance *testing.T) {
	repositoryRoot := repositoryRootDirectory(testInstance)
	temporaryRoot := testInstance.TempDir()
	recordPath := filepath.Join(testInstance.TempDir(), integrationRecordFileNameConstant)
	binaryDirectory := writeFakeNpmExecutable(testInstance, fmt.Sprintf(fakeNpmRecordingScriptTemplate, recordPath))

	environment := map[string]string{
		integrationTemporaryRootEnvNameConstant: temporaryRoot,
		pathEnvironmentVariableConstant:         prependToPath(binaryDirectory),
	}
	result := runIntegrationCommand(testInstance, repositoryRoot, environment, []string{integrationScopedPackageNameConstant})

	require.Equal(testInstance, successfulRunExitCodeConstant, result.exitCode, result.output)
	require.Contains(testInstance, result.output, "Published placeholder package "+integrationScopedPackageNameConstant+"@0.0.1")
	require.Contains(testInstance, result.output, "https://www.npmjs.com/package/"+integrationScopedPackageNameConstant)

	recordedArguments, recordError := os.ReadFile(recordPath)
	require.NoError(testInstance, recordError)
	require.Contains(testInstance, string(recordedArguments), "publish --access public")

	directoryEntries, readError := os.ReadDir(temporaryRoot)
	require.NoError(testInstance, readError)
	require.Empty(testInstance, directoryEntries)
}

func TestCLIPublishFailureCleansUpAndFails(testInstance *testing.T) {
	repositoryRoot := repositoryRootDirectory(testInstance)
	temporaryRoot := testInstance.TempDir()
	binaryDirectory := writeFakeNpmExecutable(testInstance, fakeNpmFailureScriptConstant)

	environment := map[string]string{
		integrationTemporaryRootEnvNameConstant: temporaryRoot,
		pathEnvironmentVariableConstant:         prependToPath(binaryDirectory),
	}
	result := runIntegrationCommand(testInstance, repositoryRoot, environment, []string{integrationPackageNameConstant})

	require.Equal(testInstance, failedRunExitCodeConstant, result.exitCode, result.output)
	require.Contains(testInstance, result.output, "Publishing failed:")
	require.Contains(testInstance, result.output, "npm publish")

	directoryEntries, readError := os.ReadDir(temporaryRoot)
	require.NoError(testInstance, readError)
	require.Empty(testInstance, directoryEntries)
}

func TestCLILogLevelControlsDiagnostics(testInstance *testing.T) {
	repositoryRoot := repositoryRootDirectory(testInstance)

	testCases := []struct {
		name                         string
		environmentLevel             string
		expectConfigurationDiagnosed bool
	}{
		{name: "default_info_hides_diagnostics", environmentLevel: "", expectConfigurationDiagnosed: false},
		{name: "debug_shows_diagnostics", environmentLevel: "debug", expectConfigurationDiagnosed: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			temporaryRoot := subtest.TempDir()
			environment := map[string]string{integrationTemporaryRootEnvNameConstant: temporaryRoot}
			if len(testCase.environmentLevel) > 0 {
				environment[integrationLogLevelEnvNameConstant] = testCase.environmentLevel
			}

			result := runIntegrationCommand(subtest, repositoryRoot, environment, []string{integrationPackageNameConstant, "--dry-run"})
			require.Equal(subtest, successfulRunExitCodeConstant, result.exitCode, result.output)

			if testCase.expectConfigurationDiagnosed {
				require.Contains(subtest, result.output, integrationConfigurationMessageConstant)
			} else {
				require.NotContains(subtest, result.output, integrationConfigurationMessageConstant)
			}
		})
	}
}
