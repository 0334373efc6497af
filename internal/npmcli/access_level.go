package npmcli

import (
	"fmt"
	"strings"
)

const (
	accessLevelPublicConstant     AccessLevel = "public"
	accessLevelRestrictedConstant AccessLevel = "restricted"
)

const accessLevelInvalidTemplateConstant = "access level %q is not supported"

// AccessLevel enumerates npm publish access levels.
type AccessLevel string

// PublicAccessLevel marks packages readable by anyone.
const PublicAccessLevel AccessLevel = accessLevelPublicConstant

// RestrictedAccessLevel marks packages visible only to authorized users.
const RestrictedAccessLevel AccessLevel = accessLevelRestrictedConstant

// ParseAccessLevel normalizes textual access level values, defaulting to public.
func ParseAccessLevel(accessLevelValue string) (AccessLevel, error) {
	trimmedValue := strings.TrimSpace(accessLevelValue)
	if len(trimmedValue) == 0 {
		return PublicAccessLevel, nil
	}

	lowerCasedValue := strings.ToLower(trimmedValue)
	switch AccessLevel(lowerCasedValue) {
	case PublicAccessLevel:
		return PublicAccessLevel, nil
	case RestrictedAccessLevel:
		return RestrictedAccessLevel, nil
	default:
		return "", fmt.Errorf(accessLevelInvalidTemplateConstant, accessLevelValue)
	}
}
