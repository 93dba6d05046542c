package handler

import (
	"github.com/leadflow/crm-api/internal/core/domain"
	"github.com/leadflow/crm-api/internal/core/ports"
)

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toIdentityResponse(id domain.Identity) identityResponse {
	return identityResponse{
		ID:    id.ID,
		Email: id.Email,
		Name:  id.Name,
		Role:  id.Role.String(),
	}
}

func toLeadResponse(l *domain.Lead) leadResponse {
	return leadResponse{
		ID:           l.ID,
		Name:         l.Name,
		Email:        l.Email,
		Phone:        l.Phone,
		Company:      l.Company,
		Status:       string(l.Status),
		Source:       l.Source,
		Notes:        l.Notes,
		AssignedToID: l.AssignedToID,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

func toLeadResponses(leads []*domain.Lead) []leadResponse {
	out := make([]leadResponse, 0, len(leads))
	for _, l := range leads {
		out = append(out, toLeadResponse(l))
	}
	return out
}

func toActivityResponse(a *domain.Activity) activityResponse {
	return activityResponse{
		ID:          a.ID,
		LeadID:      a.LeadID,
		UserID:      a.UserID,
		Type:        string(a.Type),
		Title:       a.Title,
		Description: a.Description,
		DueDate:     a.DueDate,
		Completed:   a.Completed,
		CreatedAt:   a.CreatedAt,
	}
}

func toActivityResponses(activities []*domain.Activity) []activityResponse {
	out := make([]activityResponse, 0, len(activities))
	for _, a := range activities {
		out = append(out, toActivityResponse(a))
	}
	return out
}

func toLeadInput(req createLeadRequest) ports.CreateLeadInput {
	return ports.CreateLeadInput{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Company:      req.Company,
		Status:       domain.LeadStatus(req.Status),
		Source:       req.Source,
		Notes:        req.Notes,
		AssignedToID: req.AssignedToID,
	}
}

func toLeadPatch(req updateLeadRequest) domain.LeadPatch {
	patch := domain.LeadPatch{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Company:      req.Company,
		Source:       req.Source,
		Notes:        req.Notes,
		AssignedToID: req.AssignedToID,
	}
	if req.Status != nil {
		status := domain.LeadStatus(*req.Status)
		patch.Status = &status
	}
	return patch
}
