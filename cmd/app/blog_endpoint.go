package main

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/middleware"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/model"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/services"
)

type blogRequest struct {
	Slug        string  `json:"slug,omitempty"`
	Title       string  `json:"title"`
	Excerpt     string  `json:"excerpt"`
	Content     string  `json:"content"`
	CoverKey    *string `json:"cover_key,omitempty"`
	IsPublished bool    `json:"is_published"`
}

// canWriteBlogs: blogs are managed by editors and admins; exact role match,
// checked in-handler because two roles qualify.
func canWriteBlogs(u *model.User) bool {
	return u != nil && (u.Role == model.RoleAdmin || u.Role == model.RoleEditor)
}

func registerBlogRoutes(g *echo.Group, bs *services.BlogService, auth *middleware.Authenticator) {
	g.GET("/blogs", func(c echo.Context) error {
		limit, offset := queryPage(c)
		list, err := bs.ListPublic(c.Request().Context(), limit, offset)
		if err != nil {
			return respondError(c, http.StatusInternalServerError, "could not list posts")
		}
		return respondData(c, http.StatusOK, list)
	})

	g.GET("/blogs/:slug", func(c echo.Context) error {
		b, err := bs.GetPublicBySlug(c.Request().Context(), c.Param("slug"))
		if err != nil {
			return respondServiceError(c, err)
		}
		return respondData(c, http.StatusOK, b)
	})

	protected := g.Group("", auth.RequireAuth())

	protected.GET("/admin/blogs", func(c echo.Context) error {
		if !canWriteBlogs(middleware.CurrentUser(c)) {
			return respondError(c, http.StatusForbidden, "editor role required")
		}
		limit, offset := queryPage(c)
		list, err := bs.ListAll(c.Request().Context(), limit, offset)
		if err != nil {
			return respondError(c, http.StatusInternalServerError, "could not list posts")
		}
		return respondData(c, http.StatusOK, list)
	})

	protected.POST("/blogs", func(c echo.Context) error {
		u := middleware.CurrentUser(c)
		if !canWriteBlogs(u) {
			return respondError(c, http.StatusForbidden, "editor role required")
		}
		req := new(blogRequest)
		if err := c.Bind(req); err != nil {
			return respondError(c, http.StatusBadRequest, "invalid request")
		}
		b := &model.Blog{
			Slug:        req.Slug,
			Title:       req.Title,
			Excerpt:     req.Excerpt,
			Content:     req.Content,
			AuthorID:    u.UserID,
			CoverKey:    req.CoverKey,
			IsPublished: req.IsPublished,
		}
		id, err := bs.Create(c.Request().Context(), b)
		if err != nil {
			return respondServiceError(c, err)
		}
		return respondData(c, http.StatusCreated, echo.Map{"blogid": id})
	})

	protected.PUT("/blogs/:id", func(c echo.Context) error {
		u := middleware.CurrentUser(c)
		if !canWriteBlogs(u) {
			return respondError(c, http.StatusForbidden, "editor role required")
		}
		id, ok := paramID(c)
		if !ok {
			return respondError(c, http.StatusBadRequest, "invalid id")
		}
		req := new(blogRequest)
		if err := c.Bind(req); err != nil {
			return respondError(c, http.StatusBadRequest, "invalid request")
		}
		b := &model.Blog{
			BlogID:      id,
			Slug:        req.Slug,
			Title:       req.Title,
			Excerpt:     req.Excerpt,
			Content:     req.Content,
			CoverKey:    req.CoverKey,
			IsPublished: req.IsPublished,
		}
		if err := bs.Update(c.Request().Context(), b, u.UserID, u.Role); err != nil {
			return respondServiceError(c, err)
		}
		return respondMessage(c, http.StatusOK, "post updated")
	})

	protected.DELETE("/blogs/:id", func(c echo.Context) error {
		u := middleware.CurrentUser(c)
		if u == nil || u.Role != model.RoleAdmin {
			return respondError(c, http.StatusForbidden, "admin role required")
		}
		id, ok := paramID(c)
		if !ok {
			return respondError(c, http.StatusBadRequest, "invalid id")
		}
		if err := bs.Delete(c.Request().Context(), id); err != nil {
			return respondServiceError(c, err)
		}
		return respondMessage(c, http.StatusOK, "post removed")
	})
}
