package main

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/middleware"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/model"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/services"
)

type createStaffRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

func paramID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil
}

func queryPage(c echo.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	offset, _ = strconv.Atoi(c.QueryParam("offset"))
	return
}

// registerUserRoutes mounts the admin-only account management endpoints.
func registerUserRoutes(g *echo.Group, userSvc *services.UserService, authSvc *services.AuthService, auth *middleware.Authenticator) {
	admin := g.Group("/users",
		auth.RequireAuth(),
		middleware.RequireRole(model.RoleAdmin),
	)

	admin.GET("", func(c echo.Context) error {
		limit, offset := queryPage(c)
		list, err := userSvc.List(c.Request().Context(), limit, offset)
		if err != nil {
			return respondError(c, http.StatusInternalServerError, "could not list users")
		}
		return respondData(c, http.StatusOK, list)
	})

	admin.GET("/:id", func(c echo.Context) error {
		id, ok := paramID(c)
		if !ok {
			return respondError(c, http.StatusBadRequest, "invalid id")
		}
		u, err := userSvc.Get(c.Request().Context(), id)
		if err != nil {
			return respondServiceError(c, err)
		}
		return respondData(c, http.StatusOK, u)
	})

	// staff accounts (editor/admin); travellers register themselves
	admin.POST("", func(c echo.Context) error {
		req := new(createStaffRequest)
		if err := c.Bind(req); err != nil {
			return respondError(c, http.StatusBadRequest, "invalid request")
		}
		id, err := authSvc.RegisterByAdmin(c.Request().Context(),
			req.Email, req.Password, req.FirstName, req.LastName, req.Role)
		if err != nil {
			return respondServiceError(c, err)
		}
		return respondData(c, http.StatusCreated, echo.Map{"userid": id})
	})

	admin.PUT("/:id/deactivate", func(c echo.Context) error {
		id, ok := paramID(c)
		if !ok {
			return respondError(c, http.StatusBadRequest, "invalid id")
		}
		if err := userSvc.Deactivate(c.Request().Context(), id); err != nil {
			return respondServiceError(c, err)
		}
		return respondMessage(c, http.StatusOK, "account deactivated")
	})

	admin.PUT("/:id/reactivate", func(c echo.Context) error {
		id, ok := paramID(c)
		if !ok {
			return respondError(c, http.StatusBadRequest, "invalid id")
		}
		if err := userSvc.Reactivate(c.Request().Context(), id); err != nil {
			return respondServiceError(c, err)
		}
		return respondMessage(c, http.StatusOK, "account reactivated")
	})
}
