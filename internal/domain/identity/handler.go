package identity

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medref/medref/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the public auth endpoints and the authenticated
// favorites endpoints.
func (h *Handler) RegisterRoutes(public *echo.Group, authed *echo.Group) {
	public.POST("/auth/register", h.Register)
	public.POST("/auth/login", h.Login)

	authed.GET("/me", h.Me)
	authed.GET("/me/favorites", h.ListFavorites)
	authed.POST("/me/favorites", h.AddFavorite)
	authed.DELETE("/me/favorites", h.RemoveFavorite)
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	// Self-service accounts are always viewers. Editors and admins are
	// created through the CLI.
	u, err := h.svc.Register(c.Request().Context(), req.Username, req.Email, req.Password, RoleViewer)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, u)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	token, u, err := h.svc.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, loginResponse{Token: token, User: u})
}

func (h *Handler) Me(c echo.Context) error {
	userID := auth.CurrentUserID(c.Request().Context())
	if userID == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}
	u, err := h.svc.GetUser(c.Request().Context(), *userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) ListFavorites(c echo.Context) error {
	userID := auth.CurrentUserID(c.Request().Context())
	if userID == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}
	favs, err := h.svc.Favorites(c.Request().Context(), *userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if favs == nil {
		favs = []*Favorite{}
	}
	return c.JSON(http.StatusOK, favs)
}

func (h *Handler) AddFavorite(c echo.Context) error {
	userID := auth.CurrentUserID(c.Request().Context())
	if userID == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}
	var item ItemRef
	if err := c.Bind(&item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	f, err := h.svc.AddFavorite(c.Request().Context(), *userID, item)
	if err != nil {
		if errors.Is(err, ErrUnknownItem) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *Handler) RemoveFavorite(c echo.Context) error {
	userID := auth.CurrentUserID(c.Request().Context())
	if userID == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}
	var item ItemRef
	if err := c.Bind(&item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.RemoveFavorite(c.Request().Context(), *userID, item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
