package handler

import "time"

// --- Requests ---

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name"     validate:"required"`
	Role     string `json:"role"     validate:"omitempty,role"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type createLeadRequest struct {
	Name         string `json:"name"         validate:"required"`
	Email        string `json:"email"        validate:"required,email"`
	Phone        string `json:"phone"`
	Company      string `json:"company"`
	Status       string `json:"status"       validate:"omitempty,leadstatus"`
	Source       string `json:"source"`
	Notes        string `json:"notes"`
	AssignedToID string `json:"assignedToId"`
}

// updateLeadRequest is a partial update; absent fields are left untouched.
type updateLeadRequest struct {
	Name         *string `json:"name"         validate:"omitempty,min=1"`
	Email        *string `json:"email"        validate:"omitempty,email"`
	Phone        *string `json:"phone"`
	Company      *string `json:"company"`
	Status       *string `json:"status"       validate:"omitempty,leadstatus"`
	Source       *string `json:"source"`
	Notes        *string `json:"notes"`
	AssignedToID *string `json:"assignedToId"`
}

type listLeadsQuery struct {
	Page   int    `query:"page"   validate:"omitempty,min=1"`
	Limit  int    `query:"limit"  validate:"omitempty,min=1"`
	Status string `query:"status" validate:"omitempty,leadstatus"`
	Search string `query:"search"`
}

type createActivityRequest struct {
	Type        string     `json:"type"  validate:"required,activitytype"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Completed   bool       `json:"completed"`
}

// --- Responses ---
// Response types are owned by the transport layer so the JSON contract is not
// coupled to domain changes.

// errorResponse is the envelope of every 4xx/5xx response.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type identityResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type authResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Token   string        `json:"token"`
	User    *userResponse `json:"user"`
}

type profileResponse struct {
	Success bool             `json:"success"`
	User    identityResponse `json:"user"`
}

type usersResponse struct {
	Success bool           `json:"success"`
	Users   []userResponse `json:"users"`
	Count   int            `json:"count"`
}

type leadResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Company      string    `json:"company,omitempty"`
	Status       string    `json:"status"`
	Source       string    `json:"source,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	AssignedToID string    `json:"assignedToId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type activityResponse struct {
	ID          string     `json:"id"`
	LeadID      string     `json:"leadId"`
	UserID      string     `json:"userId"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type leadEnvelope struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	Lead       leadResponse       `json:"lead"`
	Activities []activityResponse `json:"activities,omitempty"`
}

type paginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type leadListResponse struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	Leads      []leadResponse     `json:"leads"`
	Count      int64              `json:"count"`
	Pagination paginationResponse `json:"pagination"`
}

type activityEnvelope struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message"`
	Activity activityResponse `json:"activity"`
}

type activityListResponse struct {
	Success    bool               `json:"success"`
	Activities []activityResponse `json:"activities"`
	Count      int                `json:"count"`
}
