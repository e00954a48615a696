package label

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ehr/spl/internal/platform/auth"
	"github.com/ehr/spl/internal/platform/spl"
	"github.com/ehr/spl/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the SPL endpoints on api (normally /api/v1).
// Authentication is applied by the caller; only ingest needs a role.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/spl/parse", h.ParseSPL)
	api.POST("/spl/graph", h.GraphSPL)

	api.GET("/labels", h.ListLabels)
	api.GET("/labels/:setId", h.GetLabel)
	api.GET("/labels/:setId/graph", h.GetLabelGraph)

	write := api.Group("", auth.RequireRole(auth.RoleIngest))
	write.POST("/labels", h.IngestLabel)
}

func readBody(c echo.Context) ([]byte, error) {
	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return nil, httpErr
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, "could not read request body")
	}
	return data, nil
}

// httpError maps service errors onto status codes.
func httpError(err error) error {
	var malformed *spl.MalformedInputError
	switch {
	case errors.As(err, &malformed):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNoSetID):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) ParseSPL(c echo.Context) error {
	data, err := readBody(c)
	if err != nil {
		return err
	}
	rec, err := h.svc.Parse(data, c.QueryParam("filename"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) GraphSPL(c echo.Context) error {
	data, err := readBody(c)
	if err != nil {
		return err
	}
	g, err := h.svc.BuildGraph(data, c.QueryParam("filename"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, g)
}

// IngestResponse is returned by POST /labels.
type IngestResponse struct {
	Label  *Label      `json:"label"`
	Record *spl.Record `json:"record"`
}

func (h *Handler) IngestLabel(c echo.Context) error {
	data, err := readBody(c)
	if err != nil {
		return err
	}
	l, rec, err := h.svc.Ingest(c.Request().Context(), data, c.QueryParam("filename"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, IngestResponse{Label: l, Record: rec})
}

func (h *Handler) ListLabels(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := ListFilter{DocumentType: c.QueryParam("document_type")}
	items, total, err := h.svc.List(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	resp := pagination.NewResponse(items, total, pg.Limit, pg.Offset)
	resp.Links = pg.Links(c.Request().URL.Path, total, c.QueryParams())
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetLabel(c echo.Context) error {
	rec, err := h.svc.Get(c.Request().Context(), c.Param("setId"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) GetLabelGraph(c echo.Context) error {
	g, err := h.svc.Graph(c.Request().Context(), c.Param("setId"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, g)
}
