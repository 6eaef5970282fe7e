package main

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/middleware"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/model"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/services"
)

// registerMediaRoutes mounts the presigned-URL endpoints for cover images.
// Uploads are admin/editor gated; resolution is public so the site can
// render covers.
func registerMediaRoutes(g *echo.Group, ms *services.MediaService, auth *middleware.Authenticator) {
	protected := g.Group("/media", auth.RequireAuth())

	protected.POST("/upload-url", func(c echo.Context) error {
		u := middleware.CurrentUser(c)
		if u.Role != model.RoleAdmin && u.Role != model.RoleEditor {
			return respondError(c, http.StatusForbidden, "editor role required")
		}
		key, url, err := ms.PresignedPutURL(c.Request().Context())
		if err != nil {
			return respondError(c, http.StatusInternalServerError, "could not presign upload")
		}
		return respondData(c, http.StatusCreated, echo.Map{"key": key, "url": url})
	})

	g.GET("/media/url", func(c echo.Context) error {
		key := c.QueryParam("key")
		if key == "" {
			return respondError(c, http.StatusBadRequest, "key required")
		}
		url, err := ms.PresignedGetURL(c.Request().Context(), key)
		if err != nil {
			return respondError(c, http.StatusInternalServerError, "could not presign download")
		}
		return respondData(c, http.StatusOK, echo.Map{"url": url})
	})
}
