package main

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/middleware"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/model"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/services"
)

type testimonialRequest struct {
	AuthorName string `json:"author_name"`
	Location   string `json:"location"`
	Rating     int    `json:"rating"`
	Content    string `json:"content"`
	TourID     *int64 `json:"tourid,omitempty"`
}

func registerTestimonialRoutes(g *echo.Group, ts *services.TestimonialService, auth *middleware.Authenticator) {
	g.GET("/testimonials", func(c echo.Context) error {
		limit, offset := queryPage(c)
		list, err := ts.ListPublic(c.Request().Context(), limit, offset)
		if err != nil {
			return respondError(c, http.StatusInternalServerError, "could not list testimonials")
		}
		return respondData(c, http.StatusOK, list)
	})

	// visitor submissions land unapproved
	g.POST("/testimonials", func(c echo.Context) error {
		req := new(testimonialRequest)
		if err := c.Bind(req); err != nil {
			return respondError(c, http.StatusBadRequest, "invalid request")
		}
		id, err := ts.Submit(c.Request().Context(), &model.Testimonial{
			AuthorName: req.AuthorName,
			Location:   req.Location,
			Rating:     req.Rating,
			Content:    req.Content,
			TourID:     req.TourID,
		})
		if err != nil {
			return respondServiceError(c, err)
		}
		return respondData(c, http.StatusCreated, echo.Map{"testimonialid": id})
	})

	admin := g.Group("", auth.RequireAuth(), middleware.RequireRole(model.RoleAdmin))

	admin.GET("/admin/testimonials", func(c echo.Context) error {
		limit, offset := queryPage(c)
		list, err := ts.ListAll(c.Request().Context(), limit, offset)
		if err != nil {
			return respondError(c, http.StatusInternalServerError, "could not list testimonials")
		}
		return respondData(c, http.StatusOK, list)
	})

	admin.PUT("/testimonials/:id/approve", func(c echo.Context) error {
		id, ok := paramID(c)
		if !ok {
			return respondError(c, http.StatusBadRequest, "invalid id")
		}
		if err := ts.Approve(c.Request().Context(), id); err != nil {
			return respondServiceError(c, err)
		}
		return respondMessage(c, http.StatusOK, "testimonial approved")
	})

	admin.DELETE("/testimonials/:id", func(c echo.Context) error {
		id, ok := paramID(c)
		if !ok {
			return respondError(c, http.StatusBadRequest, "invalid id")
		}
		if err := ts.Delete(c.Request().Context(), id); err != nil {
			return respondServiceError(c, err)
		}
		return respondMessage(c, http.StatusOK, "testimonial removed")
	})
}
