package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/netondemand/portal/internal/core/ports"
)

// ActivityHandler exposes the audit trail of portal actions.
type ActivityHandler struct {
	service ports.ActivityService
}

func NewActivityHandler(service ports.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// Mine handles GET /api/activity.
//
// @Summary      Own recent activity
// @Tags         activity
// @Produce      json
// @Param        limit  query    int  false  "Number of events (default 20, max 100)"
// @Success      200    {array}  domain.ActivityEvent
// @Router       /api/activity [get]
func (h *ActivityHandler) Mine(c echo.Context) error {
	_, user, err := ctxSession(c)
	if err != nil {
		return err
	}
	return h.list(c, user.ID)
}

// ForUser handles GET /api/admin/activity/:userId.
//
// @Summary      Recent activity of any user
// @Tags         activity
// @Produce      json
// @Param        userId  path     string  true   "User id"
// @Param        limit   query    int     false  "Number of events (default 20, max 100)"
// @Success      200     {array}  domain.ActivityEvent
// @Failure      403     {object}  map[string]string
// @Router       /api/admin/activity/{userId} [get]
func (h *ActivityHandler) ForUser(c echo.Context) error {
	return h.list(c, c.Param("userId"))
}

func (h *ActivityHandler) list(c echo.Context, userID string) error {
	_, limit, err := pagingParams(c)
	if err != nil {
		return err
	}
	events, err := h.service.Recent(c.Request().Context(), userID, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}
