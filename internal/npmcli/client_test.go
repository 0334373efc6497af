package npmcli_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/npm-oidc-setup/internal/execshell"
	"github.com/temirov/npm-oidc-setup/internal/npmcli"
)

const (
	testUnscopedPackageNameConstant = "my-package"
	testScopedPackageNameConstant   = "@myorg/my-package"
	testPackageDirectoryConstant    = "/tmp/npm-oidc-setup-0011223344556677"
)

type recordingNpmExecutor struct {
	recordedDetails []execshell.CommandDetails
	executionError  error
}

func (executor *recordingNpmExecutor) ExecuteNpm(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedDetails = append(executor.recordedDetails, details)
	if executor.executionError != nil {
		return execshell.ExecutionResult{}, executor.executionError
	}
	return execshell.ExecutionResult{}, nil
}

func TestNewClientRequiresExecutor(testInstance *testing.T) {
	client, creationError := npmcli.NewClient(nil)
	require.Nil(testInstance, client)
	require.ErrorIs(testInstance, creationError, npmcli.ErrExecutorNotConfigured)
}

func TestPublishArgumentSelection(testInstance *testing.T) {
	testCases := []struct {
		name              string
		packageName       string
		access            npmcli.AccessLevel
		expectedArguments []string
	}{
		{
			name:              "unscoped_bare_publish",
			packageName:       testUnscopedPackageNameConstant,
			access:            npmcli.PublicAccessLevel,
			expectedArguments: []string{"publish"},
		},
		{
			name:              "scoped_public_access",
			packageName:       testScopedPackageNameConstant,
			access:            npmcli.PublicAccessLevel,
			expectedArguments: []string{"publish", "--access", "public"},
		},
		{
			name:              "scoped_restricted_access",
			packageName:       testScopedPackageNameConstant,
			access:            npmcli.RestrictedAccessLevel,
			expectedArguments: []string{"publish", "--access", "restricted"},
		},
		{
			name:              "scoped_defaults_to_public",
			packageName:       testScopedPackageNameConstant,
			access:            "",
			expectedArguments: []string{"publish", "--access", "public"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &recordingNpmExecutor{}
			client, creationError := npmcli.NewClient(executor)
			require.NoError(testInstance, creationError)

			publishError := client.Publish(context.Background(), npmcli.PublishOptions{
				PackageName: testCase.packageName,
				Directory:   testPackageDirectoryConstant,
				Access:      testCase.access,
			})
			require.NoError(testInstance, publishError)
			require.Len(testInstance, executor.recordedDetails, 1)
			require.Equal(testInstance, testCase.expectedArguments, executor.recordedDetails[0].Arguments)
			require.Equal(testInstance, testPackageDirectoryConstant, executor.recordedDetails[0].WorkingDirectory)
		})
	}
}

func TestPublishValidatesInputs(testInstance *testing.T) {
	client, creationError := npmcli.NewClient(&recordingNpmExecutor{})
	require.NoError(testInstance, creationError)

	publishError := client.Publish(context.Background(), npmcli.PublishOptions{Directory: testPackageDirectoryConstant})
	require.Error(testInstance, publishError)
	require.IsType(testInstance, npmcli.InvalidInputError{}, publishError)

	publishError = client.Publish(context.Background(), npmcli.PublishOptions{PackageName: testUnscopedPackageNameConstant})
	require.Error(testInstance, publishError)
	require.IsType(testInstance, npmcli.InvalidInputError{}, publishError)
}

func TestPublishWrapsExecutionFailures(testInstance *testing.T) {
	underlyingFailure := errors.New("npm publish failed with exit code 1: E403 forbidden")
	executor := &recordingNpmExecutor{executionError: underlyingFailure}
	client, creationError := npmcli.NewClient(executor)
	require.NoError(testInstance, creationError)

	publishError := client.Publish(context.Background(), npmcli.PublishOptions{
		PackageName: testUnscopedPackageNameConstant,
		Directory:   testPackageDirectoryConstant,
	})
	require.Error(testInstance, publishError)
	require.IsType(testInstance, npmcli.OperationError{}, publishError)
	require.ErrorIs(testInstance, publishError, underlyingFailure)
	require.Contains(testInstance, publishError.Error(), "E403 forbidden")
}

func TestParseAccessLevel(testInstance *testing.T) {
	testCases := []struct {
		name          string
		value         string
		expectedLevel npmcli.AccessLevel
		expectError   bool
	}{
		{name: "empty_defaults_public", value: "", expectedLevel: npmcli.PublicAccessLevel},
		{name: "public", value: "public", expectedLevel: npmcli.PublicAccessLevel},
		{name: "restricted_mixed_case", value: "Restricted", expectedLevel: npmcli.RestrictedAccessLevel},
		{name: "unsupported", value: "internal", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			parsedLevel, parseError := npmcli.ParseAccessLevel(testCase.value)
			if testCase.expectError {
				require.Error(testInstance, parseError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedLevel, parsedLevel)
		})
	}
}

func TestManualPublishCommand(testInstance *testing.T) {
	require.Equal(testInstance, "npm publish", npmcli.ManualPublishCommand(testUnscopedPackageNameConstant, npmcli.PublicAccessLevel))
	require.Equal(testInstance, "npm publish --access public", npmcli.ManualPublishCommand(testScopedPackageNameConstant, npmcli.PublicAccessLevel))
	require.Equal(testInstance, "npm publish --access restricted", npmcli.ManualPublishCommand(testScopedPackageNameConstant, npmcli.RestrictedAccessLevel))
}

func TestRegistryURLBuilders(testInstance *testing.T) {
	require.Equal(testInstance, "https://www.npmjs.com/package/my-package", npmcli.RegistryPackageURL(testUnscopedPackageNameConstant))
	require.Equal(testInstance, "https://www.npmjs.com/package/@myorg/my-package/access", npmcli.AccessSettingsURL(testScopedPackageNameConstant))
}
