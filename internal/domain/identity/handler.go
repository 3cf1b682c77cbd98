package identity

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the public auth endpoints and the authenticated user
// listing. public carries no auth middleware; api requires a bearer token.
func (h *Handler) RegisterRoutes(public *echo.Group, api *echo.Group) {
	public.POST("/auth/register", h.Register)
	public.POST("/auth/login", h.Login)
	public.POST("/auth/reset-password", h.ResetPassword)

	api.GET("/users/clinicians", h.ListClinicians)
}

// authResponse is the body returned by register and login.
type authResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	u, token, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, authResponse{Token: token, User: u})
}

func (h *Handler) Login(c echo.Context) error {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	u, token, err := h.svc.Login(c.Request().Context(), in.Username, in.Password)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, authResponse{Token: token, User: u})
}

func (h *Handler) ResetPassword(c echo.Context) error {
	var in struct {
		Email       string `json:"email"`
		NewPassword string `json:"new_password"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.ResetPassword(c.Request().Context(), in.Email, in.NewPassword); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "password updated"})
}

func (h *Handler) ListClinicians(c echo.Context) error {
	clinicians, err := h.svc.ListClinicians(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clinicians)
}

// httpError maps domain errors onto HTTP status codes. Unrecognized errors
// pass through and surface as 500 via the server's error handler.
func httpError(err error) error {
	switch {
	case errors.Is(err, ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return err
}
