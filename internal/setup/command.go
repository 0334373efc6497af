package setup

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/npm-oidc-setup/internal/execshell"
	"github.com/temirov/npm-oidc-setup/internal/npmcli"
	"github.com/temirov/npm-oidc-setup/internal/placeholder"
	"github.com/temirov/npm-oidc-setup/internal/ui"
	"github.com/temirov/npm-oidc-setup/internal/utils"
	flagutils "github.com/temirov/npm-oidc-setup/internal/utils/flags"
)

const (
	commandUseConstant              = "npm-oidc-setup <package-name>"
	commandShortDescriptionConstant = "Publish a placeholder npm package to enable OIDC trusted publishing"
	commandLongDescriptionConstant  = "npm-oidc-setup scaffolds a minimal placeholder package in a temporary directory, " +
		"publishes it with npm so the package name exists in the registry, and removes the directory afterwards. " +
		"The published placeholder lets you configure OIDC trusted publishing for the name."
	commandExampleConstant = "  npm-oidc-setup my-package\n" +
		"  npm-oidc-setup @myorg/my-package --access restricted\n" +
		"  npm-oidc-setup my-package --dry-run"
	missingPackageNameMessageConstant     = "missing required <package-name> argument; run 'npm-oidc-setup --help' for usage"
	unexpectedArgumentsTemplateConstant   = "expected a single <package-name> argument, received %d"
	commandExecutionErrorTemplateConstant = "npm-oidc-setup failed: %w"
	accessFlagNameConstant                = "access"
	accessFlagDescriptionConstant         = "Access level used when publishing scoped packages"
	dryRunFlagNameConstant                = "dry-run"
	dryRunFlagDescriptionConstant         = "Generate the placeholder package without publishing and keep it for inspection"
	accessFlagParseErrorTemplateConstant  = "invalid access level: %w"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current setup configuration.
type ConfigurationProvider func() Configuration

// HumanReadableLoggingProvider reports whether console-formatted logging is active.
type HumanReadableLoggingProvider func() bool

// CommandBuilder assembles the npm-oidc-setup command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	Publisher                    Publisher
	Scaffolder                   *placeholder.Scaffolder
	OutputWriter                 io.Writer
}

// Build constructs the cobra command executing the setup workflow.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	setupCommand := &cobra.Command{
		Use:     commandUseConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Example: commandExampleConstant,
		Args:    validatePositionalArguments,
		RunE:    builder.run,
	}

	accessUsageText := flagutils.FormatChoiceUsage(
		string(npmcli.PublicAccessLevel),
		[]string{string(npmcli.PublicAccessLevel), string(npmcli.RestrictedAccessLevel)},
		accessFlagDescriptionConstant,
	)
	setupCommand.Flags().String(accessFlagNameConstant, "", accessUsageText)

	var dryRunFlagTarget bool
	flagutils.AddToggleFlag(setupCommand.Flags(), &dryRunFlagTarget, dryRunFlagNameConstant, "", false, dryRunFlagDescriptionConstant)

	return setupCommand, nil
}

func validatePositionalArguments(command *cobra.Command, arguments []string) error {
	if len(arguments) == 0 {
		return errors.New(missingPackageNameMessageConstant)
	}
	if len(arguments) > 1 {
		return fmt.Errorf(unexpectedArgumentsTemplateConstant, len(arguments))
	}
	return nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	setupOptions, optionsError := builder.parseOptions(command, arguments)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()
	setupService, serviceError := builder.resolveService(logger, command)
	if serviceError != nil {
		return serviceError
	}

	if _, executionError := setupService.Execute(command.Context(), setupOptions); executionError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, executionError)
	}

	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string) (Options, error) {
	configuration := builder.resolveConfiguration()

	accessFlagValue, accessFlagError := command.Flags().GetString(accessFlagNameConstant)
	if accessFlagError != nil {
		return Options{}, accessFlagError
	}
	accessValue := selectStringValue(accessFlagValue, configuration.Access)
	parsedAccessLevel, accessParseError := npmcli.ParseAccessLevel(accessValue)
	if accessParseError != nil {
		return Options{}, fmt.Errorf(accessFlagParseErrorTemplateConstant, accessParseError)
	}

	dryRunValue := configuration.DryRun
	if command.Flags().Changed(dryRunFlagNameConstant) {
		flagDryRunValue, dryRunFlagError := command.Flags().GetBool(dryRunFlagNameConstant)
		if dryRunFlagError != nil {
			return Options{}, dryRunFlagError
		}
		dryRunValue = flagDryRunValue
	}

	setupOptions := Options{
		PackageName: strings.TrimSpace(arguments[0]),
		DryRun:      dryRunValue,
		Access:      parsedAccessLevel,
	}

	return setupOptions, nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	configuration := DefaultConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	return configuration.Sanitize()
}

func (builder *CommandBuilder) resolveService(logger *zap.Logger, command *cobra.Command) (*Service, error) {
	publisher := builder.Publisher
	if publisher == nil {
		defaultPublisher, publisherError := builder.buildDefaultPublisher(logger)
		if publisherError != nil {
			return nil, publisherError
		}
		publisher = defaultPublisher
	}

	scaffolder := builder.Scaffolder
	if scaffolder == nil {
		configuration := builder.resolveConfiguration()
		scaffolder = placeholder.NewScaffolderWithDependencies(placeholder.ScaffolderDependencies{
			TemporaryRoot: configuration.TemporaryRoot,
		})
	}

	outputWriter := builder.OutputWriter
	if outputWriter == nil {
		outputWriter = utils.NewFlushingWriter(command.OutOrStdout())
	}

	return NewService(ServiceDependencies{
		Logger:     logger,
		Publisher:  publisher,
		Scaffolder: scaffolder,
		Output:     outputWriter,
	})
}

func (builder *CommandBuilder) buildDefaultPublisher(logger *zap.Logger) (Publisher, error) {
	commandRunner := execshell.NewOSCommandRunner()

	var eventObserver execshell.CommandEventObserver
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		eventObserver = ui.NewConsoleCommandEventLogger(logger)
	}

	shellExecutor, executorError := execshell.NewShellExecutorWithObserver(logger, commandRunner, eventObserver)
	if executorError != nil {
		return nil, executorError
	}

	return npmcli.NewClient(shellExecutor)
}

func selectStringValue(flagValue string, configurationValue string) string {
	trimmedFlagValue := strings.TrimSpace(flagValue)
	if len(trimmedFlagValue) > 0 {
		return trimmedFlagValue
	}

	return strings.TrimSpace(configurationValue)
}
