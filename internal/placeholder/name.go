package placeholder

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	packageNamePatternConstant             = `^(@[a-z0-9-~][a-z0-9-._~]*/)?[a-z0-9-~][a-z0-9-._~]*$`
	packageNameEmptyErrorMessageConstant   = "package name must be provided"
	packageNameInvalidTemplateConstant     = "package name %q is not a valid npm package name"
	packageScopePrefixConstant             = "@"
	packageScopeSeparatorConstant          = "/"
	packageScopeSegmentCountConstant       = 2
	scopedNameSeparatorMissingErrorMessage = "scoped package name %q must contain a single %q separator"
)

var packageNameExpression = regexp.MustCompile(packageNamePatternConstant)

// ValidatePackageName checks the candidate against the npm naming grammar.
//
// Validation runs before any filesystem or subprocess action, so a rejected
// name never leaves partial state behind.
func ValidatePackageName(candidateName string) error {
	trimmedName := strings.TrimSpace(candidateName)
	if len(trimmedName) == 0 {
		return fmt.Errorf(packageNameEmptyErrorMessageConstant)
	}
	if !packageNameExpression.MatchString(trimmedName) {
		return fmt.Errorf(packageNameInvalidTemplateConstant, candidateName)
	}
	return nil
}

// IsScopedPackageName reports whether the name carries an @scope/ prefix.
func IsScopedPackageName(packageName string) bool {
	return strings.HasPrefix(strings.TrimSpace(packageName), packageScopePrefixConstant)
}

// SplitScopedPackageName separates a scoped name into scope and bare name segments.
func SplitScopedPackageName(packageName string) (string, string, error) {
	trimmedName := strings.TrimSpace(packageName)
	if !IsScopedPackageName(trimmedName) {
		return "", trimmedName, nil
	}

	segments := strings.SplitN(trimmedName, packageScopeSeparatorConstant, packageScopeSegmentCountConstant)
	if len(segments) != packageScopeSegmentCountConstant {
		return "", "", fmt.Errorf(scopedNameSeparatorMissingErrorMessage, packageName, packageScopeSeparatorConstant)
	}

	return segments[0], segments[1], nil
}
