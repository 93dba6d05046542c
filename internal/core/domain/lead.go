package domain

import "time"

// LeadStatus represents where a lead sits in the sales pipeline.
type LeadStatus string

const (
	LeadStatusNew         LeadStatus = "NEW"
	LeadStatusContacted   LeadStatus = "CONTACTED"
	LeadStatusQualified   LeadStatus = "QUALIFIED"
	LeadStatusProposal    LeadStatus = "PROPOSAL"
	LeadStatusNegotiation LeadStatus = "NEGOTIATION"
	LeadStatusWon         LeadStatus = "WON"
	LeadStatusLost        LeadStatus = "LOST"
)

// Valid reports whether s is a known pipeline status.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusProposal,
		LeadStatusNegotiation, LeadStatusWon, LeadStatusLost:
		return true
	default:
		return false
	}
}

// Lead is a prospective customer. AssignedToID is a weak reference to the
// user working the lead; empty means unassigned.
type Lead struct {
	ID           string     `json:"id" bson:"_id"`
	Name         string     `json:"name" bson:"name"`
	Email        string     `json:"email" bson:"email"`
	Phone        string     `json:"phone,omitempty" bson:"phone,omitempty"`
	Company      string     `json:"company,omitempty" bson:"company,omitempty"`
	Status       LeadStatus `json:"status" bson:"status"`
	Source       string     `json:"source,omitempty" bson:"source,omitempty"`
	Notes        string     `json:"notes,omitempty" bson:"notes,omitempty"`
	AssignedToID string     `json:"assignedToId,omitempty" bson:"assigned_to_id,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" bson:"updated_at"`
}

// IsAssignedTo reports whether the lead is currently assigned to userID.
// An unassigned lead is assigned to nobody.
func (l *Lead) IsAssignedTo(userID string) bool {
	return l.AssignedToID != "" && l.AssignedToID == userID
}

// LeadPatch carries a partial update. Nil fields are left untouched.
type LeadPatch struct {
	Name         *string
	Email        *string
	Phone        *string
	Company      *string
	Status       *LeadStatus
	Source       *string
	Notes        *string
	AssignedToID *string
}

// Apply copies every set field of p onto l.
func (p LeadPatch) Apply(l *Lead) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Email != nil {
		l.Email = *p.Email
	}
	if p.Phone != nil {
		l.Phone = *p.Phone
	}
	if p.Company != nil {
		l.Company = *p.Company
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	if p.Source != nil {
		l.Source = *p.Source
	}
	if p.Notes != nil {
		l.Notes = *p.Notes
	}
	if p.AssignedToID != nil {
		l.AssignedToID = *p.AssignedToID
	}
}

// LeadScope restricts which leads a query may see. The access policy picks
// the scope; stores only apply it.
type LeadScope struct {
	Unrestricted bool
	AssignedToID string
}

// Includes reports whether lead falls inside the scope.
func (s LeadScope) Includes(lead *Lead) bool {
	if s.Unrestricted {
		return true
	}
	return lead.IsAssignedTo(s.AssignedToID)
}
