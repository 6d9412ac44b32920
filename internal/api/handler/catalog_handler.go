package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/netondemand/portal/internal/core/domain"
	"github.com/netondemand/portal/internal/core/ports"
)

// CatalogHandler serves the service catalog.
type CatalogHandler struct {
	service ports.CatalogService
}

func NewCatalogHandler(service ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// List returns every service in the catalog.
//
// @Summary      List services
// @Tags         catalog
// @Produce      json
// @Success      200  {array}   domain.ServiceSummary
// @Failure      401  {object}  map[string]string
// @Router       /api/services [get]
func (h *CatalogHandler) List(c echo.Context) error {
	services, err := h.service.Services(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, services)
}

// Paged returns one page of the catalog.
//
// @Summary      List services page by page
// @Tags         catalog
// @Produce      json
// @Param        page   query     int  false  "1-based page"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  domain.Page[domain.ServiceSummary]
// @Router       /api/services/paged [get]
func (h *CatalogHandler) Paged(c echo.Context) error {
	page, limit, err := pagingParams(c)
	if err != nil {
		return err
	}
	res, err := h.service.ServicesPaged(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Search filters the catalog.
//
// @Summary      Search services
// @Tags         catalog
// @Produce      json
// @Param        name                 query     string   false  "Name or description contains"
// @Param        categoryId           query     string   false  "Category id"
// @Param        serviceType          query     string   false  "Service type"
// @Param        minPrice             query     number   false  "Minimum monthly price"
// @Param        maxPrice             query     number   false  "Maximum monthly price"
// @Param        minBandwidth         query     int      false  "Minimum base bandwidth (Mbps)"
// @Param        maxBandwidth         query     int      false  "Maximum base bandwidth (Mbps)"
// @Param        bandwidthAdjustable  query     boolean  false  "Only adjustable services"
// @Param        page                 query     int      false  "1-based page"
// @Param        limit                query     int      false  "Page size"
// @Success      200                  {object}  domain.Page[domain.ServiceSummary]
// @Failure      400                  {object}  map[string]string
// @Router       /api/services/search [get]
func (h *CatalogHandler) Search(c echo.Context) error {
	in := domain.ServiceSearch{
		Name:        c.QueryParam("name"),
		CategoryID:  c.QueryParam("categoryId"),
		ServiceType: c.QueryParam("serviceType"),
	}
	var err error
	if in.Page, in.Limit, err = pagingParams(c); err != nil {
		return err
	}
	if in.MinPrice, err = optionalFloat(c, "minPrice"); err != nil {
		return err
	}
	if in.MaxPrice, err = optionalFloat(c, "maxPrice"); err != nil {
		return err
	}
	if in.MinBandwidth, err = optionalInt(c, "minBandwidth"); err != nil {
		return err
	}
	if in.MaxBandwidth, err = optionalInt(c, "maxBandwidth"); err != nil {
		return err
	}
	if raw := c.QueryParam("bandwidthAdjustable"); raw != "" {
		b, perr := strconv.ParseBool(raw)
		if perr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "bandwidthAdjustable must be true or false")
		}
		in.BandwidthAdjustable = &b
	}

	res, err := h.service.Search(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// BandwidthAdjustable lists the services whose bandwidth can be changed.
//
// @Summary      Bandwidth-adjustable services
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  domain.ServiceSummary
// @Router       /api/services/bandwidth-adjustable [get]
func (h *CatalogHandler) BandwidthAdjustable(c echo.Context) error {
	services, err := h.service.BandwidthAdjustable(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, services)
}

// Get returns the full description of one service.
//
// @Summary      Get a service
// @Tags         catalog
// @Produce      json
// @Param        id   path      string  true  "Service id"
// @Success      200  {object}  domain.ServiceDetail
// @Failure      404  {object}  map[string]string
// @Router       /api/services/{id} [get]
func (h *CatalogHandler) Get(c echo.Context) error {
	svc, err := h.service.Service(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, svc)
}

// Categories lists the catalog categories.
//
// @Summary      List categories
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  domain.ServiceCategory
// @Router       /api/categories [get]
func (h *CatalogHandler) Categories(c echo.Context) error {
	categories, err := h.service.Categories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

// Category returns one category.
//
// @Summary      Get a category
// @Tags         catalog
// @Produce      json
// @Param        id   path      string  true  "Category id"
// @Success      200  {object}  domain.ServiceCategory
// @Failure      404  {object}  map[string]string
// @Router       /api/categories/{id} [get]
func (h *CatalogHandler) Category(c echo.Context) error {
	category, err := h.service.Category(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, category)
}

// Types lists the distinct service types.
//
// @Summary      List service types
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  string
// @Router       /api/service-types [get]
func (h *CatalogHandler) Types(c echo.Context) error {
	types, err := h.service.Types(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, types)
}

func pagingParams(c echo.Context) (page, limit int, err error) {
	err = echo.QueryParamsBinder(c).
		Int("page", &page).
		Int("limit", &limit).
		BindError()
	if err != nil {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "page and limit must be integers")
	}
	return page, limit, nil
}

func optionalFloat(c echo.Context, name string) (*float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be a number")
	}
	return &v, nil
}

func optionalInt(c echo.Context, name string) (*int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be an integer")
	}
	return &v, nil
}
