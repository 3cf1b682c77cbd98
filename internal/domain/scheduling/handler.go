package scheduling

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/clinicdesk/internal/domain/identity"
	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
	"github.com/clinicdesk/clinicdesk/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/appointments", h.List)
	api.GET("/appointments/:id", h.Get)
	// Field gating inside the update is per-role, so the route is open to
	// every authenticated user.
	api.PUT("/appointments/:id", h.Update)

	staff := api.Group("", auth.RequireRole(string(identity.RoleReception), string(identity.RoleAdmin)))
	staff.POST("/appointments", h.Create)

	admin := api.Group("", auth.RequireRole(string(identity.RoleAdmin)))
	admin.DELETE("/appointments/:id", h.Delete)
}

func actorFrom(c echo.Context) (Actor, error) {
	p := auth.PrincipalFromContext(c.Request().Context())
	if p == nil {
		return Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return Actor{ID: p.ID, Role: identity.Role(p.Role)}, nil
}

func (h *Handler) Create(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	detail, err := h.svc.Create(c.Request().Context(), actor, in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, detail)
}

// updateRequest is the raw PUT body. Pointers distinguish absent fields from
// zero values.
type updateRequest struct {
	PatientID     *uuid.UUID `json:"patient_id"`
	ClinicianID   *uuid.UUID `json:"clinician_id"`
	StartTime     *time.Time `json:"start_time"`
	EndTime       *time.Time `json:"end_time"`
	Note          *string    `json:"note"`
	Status        *Status    `json:"status"`
	ClinicianNote *string    `json:"clinician_note"`
}

func (h *Handler) Update(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	cmd := UpdateCommand{
		Staff: StaffChanges{
			PatientID:   req.PatientID,
			ClinicianID: req.ClinicianID,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			Note:        req.Note,
		},
		Clinician: ClinicianChanges{
			Status:        req.Status,
			ClinicianNote: req.ClinicianNote,
		},
	}

	detail, err := h.svc.Update(c.Request().Context(), actor, id, cmd)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *Handler) Get(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	detail, err := h.svc.Get(c.Request().Context(), actor, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *Handler) List(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var f ListFilter
	if v := c.QueryParam("clinician_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid clinician_id")
		}
		f.ClinicianID = &id
	}
	if v := c.QueryParam("patient_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		f.PatientID = &id
	}

	pg := pagination.FromContext(c)
	details, total, err := h.svc.List(c.Request().Context(), actor, f, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(details, total, pg.Limit, pg.Offset))
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "appointment deleted"})
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrAccessDenied):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return err
}
