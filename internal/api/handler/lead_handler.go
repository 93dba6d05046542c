package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadflow/crm-api/internal/api/metrics"
	"github.com/leadflow/crm-api/internal/core/domain"
	"github.com/leadflow/crm-api/internal/core/ports"
)

// LeadHandler handles HTTP requests for leads and their activities. Every
// route it serves sits behind Authenticate; access decisions are made by the
// service.
type LeadHandler struct {
	service ports.LeadService
}

func NewLeadHandler(service ports.LeadService) *LeadHandler {
	return &LeadHandler{service: service}
}

// Create handles POST /api/leads.
//
// @Summary      Create a lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createLeadRequest  true  "Lead details"
// @Success      201   {object}  leadEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/leads [post]
func (h *LeadHandler) Create(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}

	var req createLeadRequest
	if err := bind(c, &req); err != nil {
		recordOutcome("create", err)
		return err
	}

	lead, err := h.service.CreateLead(c.Request().Context(), id, toLeadInput(req))
	if err != nil {
		recordOutcome("create", err)
		return err
	}
	recordOutcome("create", nil)

	return c.JSON(http.StatusCreated, leadEnvelope{
		Success: true,
		Message: "Lead created successfully",
		Lead:    toLeadResponse(lead),
	})
}

// List handles GET /api/leads. ADMIN sees every lead; other roles see only
// the leads assigned to them.
//
// @Summary      List leads
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size (default 10, max 100)"
// @Param        status  query     string  false  "Filter by status"
// @Param        search  query     string  false  "Search name, email or company"
// @Success      200     {object}  leadListResponse
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Router       /api/leads [get]
func (h *LeadHandler) List(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}

	var q listLeadsQuery
	if err := bind(c, &q); err != nil {
		recordOutcome("list", err)
		return err
	}

	res, err := h.service.ListLeads(c.Request().Context(), id, ports.ListLeadsInput{
		Status: domain.LeadStatus(q.Status),
		Search: q.Search,
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		recordOutcome("list", err)
		return err
	}
	recordOutcome("list", nil)

	return c.JSON(http.StatusOK, leadListResponse{
		Success: true,
		Message: "Leads fetched successfully",
		Leads:   toLeadResponses(res.Items),
		Count:   res.Total,
		Pagination: paginationResponse{
			Page:       res.Page,
			Limit:      res.Limit,
			Total:      res.Total,
			TotalPages: res.TotalPages,
		},
	})
}

// Get handles GET /api/leads/:id.
//
// @Summary      Get a lead with its activities
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Lead ID"
// @Success      200  {object}  leadEnvelope
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/leads/{id} [get]
func (h *LeadHandler) Get(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}

	detail, err := h.service.GetLead(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		recordOutcome("get", err)
		return err
	}
	recordOutcome("get", nil)

	return c.JSON(http.StatusOK, leadEnvelope{
		Success:    true,
		Message:    "Lead fetched successfully",
		Lead:       toLeadResponse(detail.Lead),
		Activities: toActivityResponses(detail.Activities),
	})
}

// Update handles PUT /api/leads/:id.
//
// @Summary      Update a lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Lead ID"
// @Param        body  body      updateLeadRequest  true  "Fields to change"
// @Success      200   {object}  leadEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/leads/{id} [put]
func (h *LeadHandler) Update(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}

	var req updateLeadRequest
	if err := bind(c, &req); err != nil {
		recordOutcome("update", err)
		return err
	}

	lead, err := h.service.UpdateLead(c.Request().Context(), id, c.Param("id"), toLeadPatch(req))
	if err != nil {
		recordOutcome("update", err)
		return err
	}
	recordOutcome("update", nil)

	return c.JSON(http.StatusOK, leadEnvelope{
		Success: true,
		Message: "Lead updated successfully",
		Lead:    toLeadResponse(lead),
	})
}

// Delete handles DELETE /api/leads/:id.
//
// @Summary      Delete a lead
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Lead ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/leads/{id} [delete]
func (h *LeadHandler) Delete(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteLead(c.Request().Context(), id, c.Param("id")); err != nil {
		recordOutcome("delete", err)
		return err
	}
	recordOutcome("delete", nil)

	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Lead deleted successfully"})
}

// AddActivity handles POST /api/leads/:id/activities.
//
// @Summary      Log an activity on a lead
// @Tags         activities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Lead ID"
// @Param        body  body      createActivityRequest  true  "Activity details"
// @Success      201   {object}  activityEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/leads/{id}/activities [post]
func (h *LeadHandler) AddActivity(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}

	var req createActivityRequest
	if err := bind(c, &req); err != nil {
		recordOutcome("add_activity", err)
		return err
	}

	activity, err := h.service.AddActivity(c.Request().Context(), id, c.Param("id"), ports.CreateActivityInput{
		Type:        domain.ActivityType(req.Type),
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Completed:   req.Completed,
	})
	if err != nil {
		recordOutcome("add_activity", err)
		return err
	}
	recordOutcome("add_activity", nil)

	return c.JSON(http.StatusCreated, activityEnvelope{
		Success:  true,
		Message:  "Activity created successfully",
		Activity: toActivityResponse(activity),
	})
}

// ListActivities handles GET /api/leads/:id/activities.
//
// @Summary      List a lead's activities
// @Tags         activities
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Lead ID"
// @Success      200  {object}  activityListResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/leads/{id}/activities [get]
func (h *LeadHandler) ListActivities(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}

	activities, err := h.service.ListActivities(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		recordOutcome("list_activities", err)
		return err
	}
	recordOutcome("list_activities", nil)

	return c.JSON(http.StatusOK, activityListResponse{
		Success:    true,
		Activities: toActivityResponses(activities),
		Count:      len(activities),
	})
}

// recordOutcome counts the outcome of a lead operation.
func recordOutcome(operation string, err error) {
	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrForbidden):
		result = "forbidden"
	case errors.Is(err, domain.ErrLeadNotFound):
		result = "not_found"
	case errors.Is(err, domain.ErrInvalidInput):
		result = "invalid"
	default:
		result = "error"
	}
	metrics.LeadOperationsTotal.WithLabelValues(operation, result).Inc()
}
