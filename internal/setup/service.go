package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/npm-oidc-setup/internal/npmcli"
	"github.com/temirov/npm-oidc-setup/internal/placeholder"
)

const (
	publisherNotConfiguredMessageConstant = "publisher not configured"
	scaffoldErrorTemplateConstant         = "unable to scaffold placeholder package: %w"
	cleanupWarningMessageConstant         = "unable to remove placeholder directory"
	logFieldPackageDirectoryConstant      = "directory"
	logFieldPackageNameConstant           = "package_name"

	dryRunLocationTemplateConstant       = "Dry run: placeholder package generated at %s\n"
	dryRunInstructionMessageConstant     = "Publish it manually by running the following from that directory:\n"
	manualCommandLineTemplateConstant    = "  %s\n"
	publishedTemplateConstant            = "Published placeholder package %s@%s\n"
	registryURLTemplateConstant          = "Registry URL: %s\n"
	followUpHeaderMessageConstant        = "Next steps:\n"
	followUpAccessTemplateConstant       = "  1. Visit %s\n"
	followUpTrustedMessageConstant       = "  2. Configure a trusted publisher for the package.\n"
	followUpPipelineMessageConstant      = "  3. Update the CI/CD pipeline to publish with OIDC instead of long-lived tokens.\n"
	publishFailureTemplateConstant       = "Publishing failed: %s\n"
	generatedFilesRemainTemplateConstant = "Generated files remain at %s; cleanup will remove that directory.\n"
	manualFallbackMessageConstant        = "To publish manually, rerun with --dry-run and execute the printed command, or run:\n"
	placeholderVersionDisplayConstant    = "0.0.1"
)

// Publisher abstracts the npm publish capability so tests can record invocations.
type Publisher interface {
	Publish(executionContext context.Context, options npmcli.PublishOptions) error
}

// Options configures a single setup invocation.
type Options struct {
	PackageName string
	DryRun      bool
	Access      npmcli.AccessLevel
}

// Result reports the outcome of a setup invocation.
type Result struct {
	PackageName string
	Directory   string
	Published   bool
	DryRun      bool
}

// DirectoryRemover deletes a scaffolded package directory.
type DirectoryRemover func(scaffoldedPackage placeholder.Package) error

// ServiceDependencies lists collaborators required to construct a Service.
type ServiceDependencies struct {
	Logger           *zap.Logger
	Publisher        Publisher
	Scaffolder       *placeholder.Scaffolder
	Output           io.Writer
	DirectoryRemover DirectoryRemover
}

// Service executes the placeholder publishing workflow.
type Service struct {
	logger           *zap.Logger
	publisher        Publisher
	scaffolder       *placeholder.Scaffolder
	output           io.Writer
	directoryRemover DirectoryRemover
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Publisher == nil {
		return nil, errors.New(publisherNotConfiguredMessageConstant)
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	scaffolder := dependencies.Scaffolder
	if scaffolder == nil {
		scaffolder = placeholder.NewScaffolder()
	}

	output := dependencies.Output
	if output == nil {
		output = io.Discard
	}

	directoryRemover := dependencies.DirectoryRemover
	if directoryRemover == nil {
		directoryRemover = placeholder.Package.Remove
	}

	service := &Service{
		logger:           logger,
		publisher:        dependencies.Publisher,
		scaffolder:       scaffolder,
		output:           output,
		directoryRemover: directoryRemover,
	}

	return service, nil
}

// Execute runs the workflow for the supplied options.
//
// The scaffolded directory is always removed before returning unless dry-run
// is requested; removal failures are logged as warnings and never change the
// returned error or exit code.
func (service *Service) Execute(executionContext context.Context, options Options) (Result, error) {
	trimmedPackageName := strings.TrimSpace(options.PackageName)
	if validationError := placeholder.ValidatePackageName(trimmedPackageName); validationError != nil {
		return Result{}, validationError
	}

	scaffoldedPackage, scaffoldError := service.scaffolder.Scaffold(trimmedPackageName)
	if scaffoldError != nil {
		return Result{}, fmt.Errorf(scaffoldErrorTemplateConstant, scaffoldError)
	}

	if !options.DryRun {
		defer service.cleanup(scaffoldedPackage)
	}

	invocationResult := Result{
		PackageName: trimmedPackageName,
		Directory:   scaffoldedPackage.Directory,
		DryRun:      options.DryRun,
	}

	if options.DryRun {
		service.reportDryRun(scaffoldedPackage, options.Access)
		return invocationResult, nil
	}

	publishError := service.publisher.Publish(executionContext, npmcli.PublishOptions{
		PackageName: trimmedPackageName,
		Directory:   scaffoldedPackage.Directory,
		Access:      options.Access,
	})
	if publishError != nil {
		service.reportPublishFailure(scaffoldedPackage, options.Access, publishError)
		return invocationResult, publishError
	}

	invocationResult.Published = true
	service.reportPublishSuccess(scaffoldedPackage)

	return invocationResult, nil
}

func (service *Service) cleanup(scaffoldedPackage placeholder.Package) {
	if removalError := service.directoryRemover(scaffoldedPackage); removalError != nil {
		service.logger.Warn(
			cleanupWarningMessageConstant,
			zap.String(logFieldPackageDirectoryConstant, scaffoldedPackage.Directory),
			zap.Error(removalError),
		)
	}
}

func (service *Service) reportDryRun(scaffoldedPackage placeholder.Package, access npmcli.AccessLevel) {
	fmt.Fprintf(service.output, dryRunLocationTemplateConstant, scaffoldedPackage.Directory)
	fmt.Fprint(service.output, dryRunInstructionMessageConstant)
	fmt.Fprintf(service.output, manualCommandLineTemplateConstant, npmcli.ManualPublishCommand(scaffoldedPackage.PackageName, access))
}

func (service *Service) reportPublishSuccess(scaffoldedPackage placeholder.Package) {
	fmt.Fprintf(service.output, publishedTemplateConstant, scaffoldedPackage.PackageName, placeholderVersionDisplayConstant)
	fmt.Fprintf(service.output, registryURLTemplateConstant, npmcli.RegistryPackageURL(scaffoldedPackage.PackageName))
	fmt.Fprint(service.output, followUpHeaderMessageConstant)
	fmt.Fprintf(service.output, followUpAccessTemplateConstant, npmcli.AccessSettingsURL(scaffoldedPackage.PackageName))
	fmt.Fprint(service.output, followUpTrustedMessageConstant)
	fmt.Fprint(service.output, followUpPipelineMessageConstant)

	service.logger.Info(
		"placeholder package published",
		zap.String(logFieldPackageNameConstant, scaffoldedPackage.PackageName),
		zap.String(logFieldPackageDirectoryConstant, scaffoldedPackage.Directory),
	)
}

func (service *Service) reportPublishFailure(scaffoldedPackage placeholder.Package, access npmcli.AccessLevel, publishError error) {
	fmt.Fprintf(service.output, publishFailureTemplateConstant, publishError.Error())
	fmt.Fprintf(service.output, generatedFilesRemainTemplateConstant, scaffoldedPackage.Directory)
	fmt.Fprint(service.output, manualFallbackMessageConstant)
	fmt.Fprintf(service.output, manualCommandLineTemplateConstant, npmcli.ManualPublishCommand(scaffoldedPackage.PackageName, access))
}
