// Package policy holds the authorization decisions of the CRM: the flat role
// gate and the ownership rules over leads. Everything here is pure; callers
// supply the identity and the record.
package policy

import "github.com/leadflow/crm-api/internal/core/domain"

// Authorize admits identity iff its role is one of allowed. Roles do not
// inherit from each other: ADMIN passes only when ADMIN is listed.
func Authorize(identity *domain.Identity, allowed ...domain.Role) error {
	if identity == nil {
		return domain.ErrUnauthenticated
	}
	for _, r := range allowed {
		if identity.Role == r {
			return nil
		}
	}
	return domain.ErrForbidden
}
