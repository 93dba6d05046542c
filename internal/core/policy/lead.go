package policy

import "github.com/leadflow/crm-api/internal/core/domain"

// CanAccessLead is the per-record gate for reading, updating and deleting a
// lead by id. ADMIN may touch any lead; every other role only leads assigned
// to it. Unassigned leads are therefore ADMIN-only.
func CanAccessLead(identity domain.Identity, lead *domain.Lead) error {
	switch identity.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleSalesManager, domain.RoleSalesExecutive:
		if lead.IsAssignedTo(identity.ID) {
			return nil
		}
		return domain.ErrForbidden
	default:
		return domain.ErrForbidden
	}
}

// LeadScopeFor returns the visibility scope used when listing leads. Instead
// of rejecting, listing narrows non-admin callers to their own leads.
func LeadScopeFor(identity domain.Identity) domain.LeadScope {
	switch identity.Role {
	case domain.RoleAdmin:
		return domain.LeadScope{Unrestricted: true}
	case domain.RoleSalesManager, domain.RoleSalesExecutive:
		return domain.LeadScope{AssignedToID: identity.ID}
	default:
		// The zero scope matches no lead.
		return domain.LeadScope{}
	}
}
