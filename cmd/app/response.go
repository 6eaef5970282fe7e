package main

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/model"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/services"
)

// Every response uses the same envelope:
// {success: bool, data?, error?, message?}

func respondData(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

func respondMessage(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": true, "message": msg})
}

func respondError(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "error": msg})
}

// respondServiceError maps service sentinels onto the status taxonomy.
// Anything unmatched is treated as a validation failure; services phrase
// those errors for end users.
func respondServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return respondError(c, http.StatusNotFound, "not found")
	case errors.Is(err, model.ErrDuplicate):
		return respondError(c, http.StatusConflict, "already exists")
	case errors.Is(err, services.ErrEmailTaken):
		return respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		return respondError(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrAccountDeactivated):
		return respondError(c, http.StatusUnauthorized, "Account is deactivated")
	case errors.Is(err, services.ErrEmailNotVerified):
		return respondError(c, http.StatusForbidden, "email not verified")
	case errors.Is(err, services.ErrInvalidOTP):
		return respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrBookingForbidden):
		return respondError(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, services.ErrPaymentExists):
		return respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrBookingNotDue):
		return respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInternal):
		return respondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		return respondError(c, http.StatusBadRequest, err.Error())
	}
}
