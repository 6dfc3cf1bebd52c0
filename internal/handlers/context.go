package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"backoffice/internal/api/middleware"
	"backoffice/internal/authz"
	"backoffice/internal/services"
)

// actor builds the audit entry skeleton for the authenticated principal:
// actor id, denormalized display name, requester IP and user agent.
func actor(c echo.Context) services.Entry {
	entry := services.Entry{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
	if p, ok := middleware.PrincipalFrom(c); ok {
		entry.UserID = p.UserID
		entry.UserName = p.Name
		if entry.UserName == "" {
			entry.UserName = p.Email
		}
	}
	return entry
}

func principal(c echo.Context) (authz.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return authz.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "Missing authentication token")
	}
	return p, nil
}

// notFound turns a record-not-found lookup error into a 404 that names the
// missing entity and its id. Other errors pass through unchanged.
func notFound(err error, kind string, id int64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("%s %d not found", kind, id))
	}
	return err
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id parameter")
	}
	return id, nil
}

func pageParams(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}
