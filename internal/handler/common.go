// Package handler contains the HTTP handlers of the back-office API.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cineweb-backoffice/internal/repository"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"error": msg})
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// bindValid binds the request body into dst and validates it.  On failure
// the 400 response has already been written and ok is false.
func bindValid(c echo.Context, dst interface{}) (bool, error) {
	if err := c.Bind(dst); err != nil {
		return false, fail(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(dst); err != nil {
		return false, fail(c, http.StatusBadRequest, validationMessage(err))
	}
	return true, nil
}

// storeFailure maps repository sentinels onto responses.
func storeFailure(c echo.Context, err error, what string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fail(c, http.StatusNotFound, what+" not found")
	case errors.Is(err, repository.ErrReference):
		return fail(c, http.StatusBadRequest, "referenced record does not exist")
	case errors.Is(err, repository.ErrConflict):
		return fail(c, http.StatusConflict, err.Error())
	}
	c.Logger().Errorf("%s: %v", what, err)
	return fail(c, http.StatusInternalServerError, "db error")
}
