package catalog

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medref/medref/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/search", h.Search)
	api.GET("/export", h.Export)
}

func (h *Handler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing query parameter q")
	}
	typ := c.QueryParam("type")
	if !ValidType(typ) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown entity type")
	}
	pg := pagination.FromContext(c)
	res, err := h.svc.Search(c.Request().Context(), query, typ, pg.Limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) Export(c echo.Context) error {
	typ := c.QueryParam("entity")
	if !ValidType(typ) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown entity type")
	}
	snap, err := h.svc.Export(c.Request().Context(), typ)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	switch c.QueryParam("format") {
	case "", "json":
		return c.JSON(http.StatusOK, snap)
	case "csv":
		c.Response().Header().Set(echo.HeaderContentType, "text/csv")
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="catalog.csv"`)
		c.Response().WriteHeader(http.StatusOK)
		return WriteCSV(c.Response(), snap)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "format must be json or csv")
	}
}
