package main

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/middleware"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/model"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/services"
)

type tourRequest struct {
	Slug         string  `json:"slug,omitempty"`
	Title        string  `json:"title"`
	Summary      string  `json:"summary"`
	Description  string  `json:"description"`
	Destination  string  `json:"destination"`
	DurationDays int     `json:"duration_days"`
	Price        float64 `json:"price"`
	MaxGroupSize int     `json:"max_group_size"`
	CoverKey     *string `json:"cover_key,omitempty"`
	IsFeatured   bool    `json:"is_featured"`
	IsPublished  bool    `json:"is_published"`
}

func (r *tourRequest) toModel() *model.Tour {
	return &model.Tour{
		Slug:         r.Slug,
		Title:        r.Title,
		Summary:      r.Summary,
		Description:  r.Description,
		Destination:  r.Destination,
		DurationDays: r.DurationDays,
		Price:        r.Price,
		MaxGroupSize: r.MaxGroupSize,
		CoverKey:     r.CoverKey,
		IsFeatured:   r.IsFeatured,
		IsPublished:  r.IsPublished,
	}
}

// registerTourRoutes mounts the tour catalogue.
// Public:
//
//	GET /tours        -> published list (?destination=&featured=&limit=&offset=)
//	GET /tours/:slug  -> published detail
//
// Admin:
//
//	GET /admin/tours, POST /tours, PUT /tours/:id, DELETE /tours/:id
func registerTourRoutes(g *echo.Group, ts *services.TourService, auth *middleware.Authenticator) {
	g.GET("/tours", func(c echo.Context) error {
		limit, offset := queryPage(c)
		list, err := ts.ListPublic(c.Request().Context(),
			c.QueryParam("destination"),
			c.QueryParam("featured") == "true",
			limit, offset)
		if err != nil {
			return respondError(c, http.StatusInternalServerError, "could not list tours")
		}
		return respondData(c, http.StatusOK, list)
	})

	g.GET("/tours/:slug", func(c echo.Context) error {
		t, err := ts.GetPublicBySlug(c.Request().Context(), c.Param("slug"))
		if err != nil {
			return respondServiceError(c, err)
		}
		return respondData(c, http.StatusOK, t)
	})

	admin := g.Group("", auth.RequireAuth(), middleware.RequireRole(model.RoleAdmin))

	admin.GET("/admin/tours", func(c echo.Context) error {
		limit, offset := queryPage(c)
		list, err := ts.ListAll(c.Request().Context(), limit, offset)
		if err != nil {
			return respondError(c, http.StatusInternalServerError, "could not list tours")
		}
		return respondData(c, http.StatusOK, list)
	})

	admin.POST("/tours", func(c echo.Context) error {
		req := new(tourRequest)
		if err := c.Bind(req); err != nil {
			return respondError(c, http.StatusBadRequest, "invalid request")
		}
		id, err := ts.Create(c.Request().Context(), req.toModel())
		if err != nil {
			return respondServiceError(c, err)
		}
		return respondData(c, http.StatusCreated, echo.Map{"tourid": id})
	})

	admin.PUT("/tours/:id", func(c echo.Context) error {
		id, ok := paramID(c)
		if !ok {
			return respondError(c, http.StatusBadRequest, "invalid id")
		}
		req := new(tourRequest)
		if err := c.Bind(req); err != nil {
			return respondError(c, http.StatusBadRequest, "invalid request")
		}
		t := req.toModel()
		t.TourID = id
		if err := ts.Update(c.Request().Context(), t); err != nil {
			return respondServiceError(c, err)
		}
		return respondMessage(c, http.StatusOK, "tour updated")
	})

	admin.DELETE("/tours/:id", func(c echo.Context) error {
		id, ok := paramID(c)
		if !ok {
			return respondError(c, http.StatusBadRequest, "invalid id")
		}
		if err := ts.Delete(c.Request().Context(), id); err != nil {
			return respondServiceError(c, err)
		}
		return respondMessage(c, http.StatusOK, "tour removed")
	})
}
