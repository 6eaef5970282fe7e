package main

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/middleware"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/services"
)

func registerPaymentRoutes(g *echo.Group, ps *services.PaymentService, auth *middleware.Authenticator) {
	protected := g.Group("", auth.RequireAuth())

	protected.POST("/bookings/:id/pay", func(c echo.Context) error {
		u := middleware.CurrentUser(c)
		id, ok := paramID(c)
		if !ok {
			return respondError(c, http.StatusBadRequest, "invalid id")
		}
		redirectURL, err := ps.CreateSnapPayment(c.Request().Context(), id, u.UserID)
		if err != nil {
			return respondServiceError(c, err)
		}
		return respondData(c, http.StatusCreated, echo.Map{"redirect_url": redirectURL})
	})

	// provider webhook, authenticated by signature instead of a bearer token
	g.POST("/payments/notification", func(c echo.Context) error {
		var payload map[string]interface{}
		if err := c.Bind(&payload); err != nil {
			return respondError(c, http.StatusBadRequest, "invalid payload")
		}
		if err := ps.HandleNotification(c.Request().Context(), payload); err != nil {
			switch {
			case errors.Is(err, services.ErrBadSignature):
				return respondError(c, http.StatusUnauthorized, "invalid signature")
			case errors.Is(err, services.ErrUnknownReference):
				return respondError(c, http.StatusNotFound, "unknown payment reference")
			default:
				return respondError(c, http.StatusInternalServerError, "could not process notification")
			}
		}
		return respondMessage(c, http.StatusOK, "ok")
	})
}
