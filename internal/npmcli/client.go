package npmcli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/npm-oidc-setup/internal/execshell"
	"github.com/temirov/npm-oidc-setup/internal/placeholder"
)

const (
	publishSubcommandConstant            = "publish"
	accessFlagConstant                   = "--access"
	packageNameFieldNameConstant         = "package_name"
	directoryFieldNameConstant           = "directory"
	requiredValueMessageConstant         = "value required"
	executorNotConfiguredMessageConstant = "npm cli executor not configured"
	operationErrorTemplateConstant       = "%s operation failed"
	operationErrorCauseTemplateConstant  = "%s operation failed: %s"
	invalidInputErrorTemplateConstant    = "%s: %s"
	manualPublishCommandJoinConstant     = " "
	registryPackageURLTemplateConstant   = "https://www.npmjs.com/package/%s"
	accessSettingsURLTemplateConstant    = "https://www.npmjs.com/package/%s/access"
	publishOperationNameConstant         = OperationName("Publish")
)

// OperationName describes a named npm CLI workflow supported by the client.
type OperationName string

// NpmCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type NpmCommandExecutor interface {
	ExecuteNpm(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ErrExecutorNotConfigured indicates the client was constructed without an executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps execution issues for npm CLI operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the failed operation including its cause when available.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorCauseTemplateConstant, operationError.Operation, operationError.Cause.Error())
}

// Unwrap exposes the underlying cause for errors.Is and errors.As inspection.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// PublishOptions configures a Publish invocation.
type PublishOptions struct {
	PackageName string
	Directory   string
	Access      AccessLevel
}

// Client coordinates npm CLI invocations through execshell.
type Client struct {
	executor NpmCommandExecutor
}

// NewClient constructs an npm CLI client around the provided executor.
func NewClient(executor NpmCommandExecutor) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Client{executor: executor}, nil
}

// Publish runs npm publish inside the package directory.
//
// Scoped package names receive an explicit access-level argument because npm
// treats scoped packages as restricted by default; unscoped names publish with
// the bare command.
func (client *Client) Publish(executionContext context.Context, options PublishOptions) error {
	trimmedPackageName := strings.TrimSpace(options.PackageName)
	if len(trimmedPackageName) == 0 {
		return InvalidInputError{FieldName: packageNameFieldNameConstant, Message: requiredValueMessageConstant}
	}

	trimmedDirectory := strings.TrimSpace(options.Directory)
	if len(trimmedDirectory) == 0 {
		return InvalidInputError{FieldName: directoryFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandDetails := execshell.CommandDetails{
		Arguments:        PublishArguments(trimmedPackageName, options.Access),
		WorkingDirectory: trimmedDirectory,
	}

	if _, executionError := client.executor.ExecuteNpm(executionContext, commandDetails); executionError != nil {
		return OperationError{Operation: publishOperationNameConstant, Cause: executionError}
	}

	return nil
}

// PublishArguments builds the npm publish argument list for the package name.
func PublishArguments(packageName string, access AccessLevel) []string {
	publishArguments := []string{publishSubcommandConstant}
	if placeholder.IsScopedPackageName(packageName) {
		publishArguments = append(publishArguments, accessFlagConstant, string(normalizeAccessLevel(access)))
	}
	return publishArguments
}

// ManualPublishCommand renders the command line a user would run by hand.
func ManualPublishCommand(packageName string, access AccessLevel) string {
	commandParts := append([]string{string(execshell.CommandNpm)}, PublishArguments(packageName, access)...)
	return strings.Join(commandParts, manualPublishCommandJoinConstant)
}

// RegistryPackageURL returns the public registry page for the package.
func RegistryPackageURL(packageName string) string {
	return fmt.Sprintf(registryPackageURLTemplateConstant, packageName)
}

// AccessSettingsURL returns the registry access-settings page for the package.
func AccessSettingsURL(packageName string) string {
	return fmt.Sprintf(accessSettingsURLTemplateConstant, packageName)
}

func normalizeAccessLevel(access AccessLevel) AccessLevel {
	if len(strings.TrimSpace(string(access))) == 0 {
		return PublicAccessLevel
	}
	return access
}
