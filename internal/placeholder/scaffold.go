package placeholder

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	temporaryDirectoryPrefixConstant       = "npm-oidc-setup-"
	temporaryDirectorySuffixByteCount      = 8
	temporaryDirectoryPermissionsConstant  = 0o755
	generatedFilePermissionsConstant       = 0o644
	manifestFileNameConstant               = "package.json"
	noticeFileNameConstant                 = "README.md"
	placeholderVersionConstant             = "0.0.1"
	manifestIndentConstant                 = "  "
	manifestTrailingNewlineConstant        = "\n"
	manifestDescriptionTemplateConstant    = "Placeholder package for configuring OIDC trusted publishing for %s"
	randomSuffixReadErrorTemplateConstant  = "unable to generate directory suffix: %w"
	directoryCreationErrorTemplateConstant = "unable to create directory %s: %w"
	manifestEncodingErrorTemplateConstant  = "unable to encode manifest: %w"
	manifestWriteErrorTemplateConstant     = "unable to write %s: %w"
	noticeWriteErrorTemplateConstant       = "unable to write %s: %w"
	directoryRemovalErrorTemplateConstant  = "unable to remove directory %s: %w"
)

var placeholderKeywords = []string{"oidc", "trusted-publishing", "setup"}

const noticeDocumentTemplateConstant = `# %s

**This package is a non-functional placeholder.**

It was published solely to register the package name so that OIDC trusted
publishing can be configured for it. It contains no usable code and should
never be installed as a dependency.

## Purpose

Registries require a package to exist before a trusted publisher can be
attached to it. Publishing this placeholder for %s creates that initial
registry entry.

## Next steps

1. Open the package's access settings on the registry.
2. Configure a trusted publisher (repository, workflow, and environment).
3. Update the CI/CD pipeline to publish real releases with OIDC instead of
   long-lived tokens.
`

// Manifest models the generated package.json document.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

// Package describes a scaffolded placeholder package on disk.
type Package struct {
	PackageName string
	Directory   string
}

// Scoped reports whether the package name carries an @scope/ prefix.
func (scaffoldedPackage Package) Scoped() bool {
	return IsScopedPackageName(scaffoldedPackage.PackageName)
}

// ManifestPath returns the absolute path of the generated manifest.
func (scaffoldedPackage Package) ManifestPath() string {
	return filepath.Join(scaffoldedPackage.Directory, manifestFileNameConstant)
}

// NoticePath returns the absolute path of the generated notice document.
func (scaffoldedPackage Package) NoticePath() string {
	return filepath.Join(scaffoldedPackage.Directory, noticeFileNameConstant)
}

// Remove deletes the scaffolded directory and its contents.
func (scaffoldedPackage Package) Remove() error {
	if removalError := os.RemoveAll(scaffoldedPackage.Directory); removalError != nil {
		return fmt.Errorf(directoryRemovalErrorTemplateConstant, scaffoldedPackage.Directory, removalError)
	}
	return nil
}

// Scaffolder creates placeholder packages under the configured temporary root.
type Scaffolder struct {
	temporaryRoot string
	randomSource  io.Reader
}

// ScaffolderDependencies lists injectable collaborators for the scaffolder.
type ScaffolderDependencies struct {
	TemporaryRoot string
	RandomSource  io.Reader
}

// NewScaffolder constructs a scaffolder backed by the OS temp directory and crypto/rand.
func NewScaffolder() *Scaffolder {
	return NewScaffolderWithDependencies(ScaffolderDependencies{})
}

// NewScaffolderWithDependencies constructs a scaffolder with explicit collaborators.
func NewScaffolderWithDependencies(dependencies ScaffolderDependencies) *Scaffolder {
	temporaryRoot := strings.TrimSpace(dependencies.TemporaryRoot)
	if len(temporaryRoot) == 0 {
		temporaryRoot = os.TempDir()
	}

	randomSource := dependencies.RandomSource
	if randomSource == nil {
		randomSource = rand.Reader
	}

	return &Scaffolder{temporaryRoot: temporaryRoot, randomSource: randomSource}
}

// Scaffold validates the package name and writes the placeholder package to a
// fresh uniquely named directory.
func (scaffolder *Scaffolder) Scaffold(packageName string) (Package, error) {
	if validationError := ValidatePackageName(packageName); validationError != nil {
		return Package{}, validationError
	}

	trimmedPackageName := strings.TrimSpace(packageName)

	directorySuffix, suffixError := scaffolder.generateDirectorySuffix()
	if suffixError != nil {
		return Package{}, suffixError
	}

	packageDirectory := filepath.Join(scaffolder.temporaryRoot, temporaryDirectoryPrefixConstant+directorySuffix)
	if creationError := os.MkdirAll(packageDirectory, temporaryDirectoryPermissionsConstant); creationError != nil {
		return Package{}, fmt.Errorf(directoryCreationErrorTemplateConstant, packageDirectory, creationError)
	}

	scaffoldedPackage := Package{PackageName: trimmedPackageName, Directory: packageDirectory}

	if manifestError := scaffolder.writeManifest(scaffoldedPackage); manifestError != nil {
		_ = scaffoldedPackage.Remove()
		return Package{}, manifestError
	}

	if noticeError := scaffolder.writeNotice(scaffoldedPackage); noticeError != nil {
		_ = scaffoldedPackage.Remove()
		return Package{}, noticeError
	}

	return scaffoldedPackage, nil
}

func (scaffolder *Scaffolder) generateDirectorySuffix() (string, error) {
	suffixBytes := make([]byte, temporaryDirectorySuffixByteCount)
	if _, readError := io.ReadFull(scaffolder.randomSource, suffixBytes); readError != nil {
		return "", fmt.Errorf(randomSuffixReadErrorTemplateConstant, readError)
	}
	return hex.EncodeToString(suffixBytes), nil
}

func (scaffolder *Scaffolder) writeManifest(scaffoldedPackage Package) error {
	manifest := Manifest{
		Name:        scaffoldedPackage.PackageName,
		Version:     placeholderVersionConstant,
		Description: fmt.Sprintf(manifestDescriptionTemplateConstant, scaffoldedPackage.PackageName),
		Keywords:    append([]string{}, placeholderKeywords...),
	}

	manifestBytes, encodingError := json.MarshalIndent(manifest, "", manifestIndentConstant)
	if encodingError != nil {
		return fmt.Errorf(manifestEncodingErrorTemplateConstant, encodingError)
	}
	manifestBytes = append(manifestBytes, []byte(manifestTrailingNewlineConstant)...)

	manifestPath := scaffoldedPackage.ManifestPath()
	if writeError := os.WriteFile(manifestPath, manifestBytes, generatedFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(manifestWriteErrorTemplateConstant, manifestPath, writeError)
	}

	return nil
}

func (scaffolder *Scaffolder) writeNotice(scaffoldedPackage Package) error {
	noticeContent := fmt.Sprintf(noticeDocumentTemplateConstant, scaffoldedPackage.PackageName, scaffoldedPackage.PackageName)

	noticePath := scaffoldedPackage.NoticePath()
	if writeError := os.WriteFile(noticePath, []byte(noticeContent), generatedFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(noticeWriteErrorTemplateConstant, noticePath, writeError)
	}

	return nil
}
