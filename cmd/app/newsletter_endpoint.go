package main

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/middleware"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/model"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/services"
)

type newsletterRequest struct {
	Email string `json:"email"`
}

func registerNewsletterRoutes(g *echo.Group, ns *services.NewsletterService, auth *middleware.Authenticator, limiter *middleware.RateLimiter) {
	nl := g.Group("/newsletter")

	nl.POST("/subscribe", func(c echo.Context) error {
		req := new(newsletterRequest)
		if err := c.Bind(req); err != nil {
			return respondError(c, http.StatusBadRequest, "invalid request")
		}
		if _, err := ns.Subscribe(c.Request().Context(), req.Email); err != nil {
			return respondServiceError(c, err)
		}
		return respondMessage(c, http.StatusCreated, "subscribed")
	}, limiter.Middleware())

	nl.POST("/unsubscribe", func(c echo.Context) error {
		req := new(newsletterRequest)
		if err := c.Bind(req); err != nil {
			return respondError(c, http.StatusBadRequest, "invalid request")
		}
		if err := ns.Unsubscribe(c.Request().Context(), req.Email); err != nil {
			return respondServiceError(c, err)
		}
		return respondMessage(c, http.StatusOK, "unsubscribed")
	})

	admin := g.Group("/admin/newsletter", auth.RequireAuth(), middleware.RequireRole(model.RoleAdmin))

	admin.GET("", func(c echo.Context) error {
		limit, offset := queryPage(c)
		list, err := ns.List(c.Request().Context(), limit, offset)
		if err != nil {
			return respondError(c, http.StatusInternalServerError, "could not list subscriptions")
		}
		return respondData(c, http.StatusOK, list)
	})
}
