package main

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/middleware"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/model"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/services"
)

type bookingRequest struct {
	TourID     int64  `json:"tourid"`
	TravelDate string `json:"travel_date"` // YYYY-MM-DD
	Guests     int    `json:"guests"`
}

func registerBookingRoutes(g *echo.Group, bs *services.BookingService, auth *middleware.Authenticator) {
	protected := g.Group("/bookings", auth.RequireAuth())

	protected.POST("", func(c echo.Context) error {
		u := middleware.CurrentUser(c)
		req := new(bookingRequest)
		if err := c.Bind(req); err != nil {
			return respondError(c, http.StatusBadRequest, "invalid request")
		}
		travelDate, err := time.Parse("2006-01-02", req.TravelDate)
		if err != nil {
			return respondError(c, http.StatusBadRequest, "invalid travel date (use YYYY-MM-DD)")
		}
		b, err := bs.Book(c.Request().Context(), u.UserID, req.TourID, travelDate, req.Guests)
		if err != nil {
			return respondServiceError(c, err)
		}
		return respondData(c, http.StatusCreated, b)
	})

	protected.GET("/mine", func(c echo.Context) error {
		u := middleware.CurrentUser(c)
		limit, offset := queryPage(c)
		list, err := bs.ListMine(c.Request().Context(), u.UserID, limit, offset)
		if err != nil {
			return respondError(c, http.StatusInternalServerError, "could not list bookings")
		}
		return respondData(c, http.StatusOK, list)
	})

	protected.GET("/:id", func(c echo.Context) error {
		u := middleware.CurrentUser(c)
		id, ok := paramID(c)
		if !ok {
			return respondError(c, http.StatusBadRequest, "invalid id")
		}
		b, err := bs.GetOwned(c.Request().Context(), id, u.UserID)
		if err != nil {
			return respondServiceError(c, err)
		}
		return respondData(c, http.StatusOK, b)
	})

	protected.PUT("/:id/cancel", func(c echo.Context) error {
		u := middleware.CurrentUser(c)
		id, ok := paramID(c)
		if !ok {
			return respondError(c, http.StatusBadRequest, "invalid id")
		}
		if err := bs.Cancel(c.Request().Context(), id, u.UserID); err != nil {
			return respondServiceError(c, err)
		}
		return respondMessage(c, http.StatusOK, "booking cancelled")
	})

	admin := g.Group("/admin/bookings", auth.RequireAuth(), middleware.RequireRole(model.RoleAdmin))

	admin.GET("", func(c echo.Context) error {
		limit, offset := queryPage(c)
		list, err := bs.ListAll(c.Request().Context(), limit, offset)
		if err != nil {
			return respondError(c, http.StatusInternalServerError, "could not list bookings")
		}
		return respondData(c, http.StatusOK, list)
	})
}
