package main

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/middleware"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/model"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/services"
)

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type otpRequest struct {
	Email string        `json:"email"`
	Code  string        `json:"code,omitempty"`
	Type  model.OTPType `json:"type"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func userPayload(u *model.User) echo.Map {
	return echo.Map{
		"userid":            u.UserID,
		"email":             u.Email,
		"first_name":        u.FirstName,
		"last_name":         u.LastName,
		"role":              u.Role,
		"is_email_verified": u.IsEmailVerified,
		"last_login":        u.LastLogin,
	}
}

func registerHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(registerRequest)
		if err := c.Bind(req); err != nil {
			return respondError(c, http.StatusBadRequest, "invalid request")
		}
		if _, err := authSvc.Register(c.Request().Context(), req.Email, req.Password, req.FirstName, req.LastName); err != nil {
			return respondServiceError(c, err)
		}
		return respondMessage(c, http.StatusCreated, "registration successful, check your email for a verification code")
	}
}

func loginHandler(authSvc *services.AuthService, tokenTTL time.Duration) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(loginRequest)
		if err := c.Bind(req); err != nil {
			return respondError(c, http.StatusBadRequest, "invalid request")
		}

		user, err := authSvc.Login(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			return respondServiceError(c, err)
		}

		token, err := middleware.GenerateToken(user, tokenTTL)
		if err != nil {
			return respondError(c, http.StatusInternalServerError, "could not create token")
		}

		return respondData(c, http.StatusOK, echo.Map{
			"token":      token,
			"expires_in": int64(tokenTTL.Seconds()),
			"user":       userPayload(user),
		})
	}
}

func requestOTPHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(otpRequest)
		if err := c.Bind(req); err != nil {
			return respondError(c, http.StatusBadRequest, "invalid request")
		}
		if err := authSvc.RequestOTP(c.Request().Context(), req.Email, req.Type); err != nil {
			return respondServiceError(c, err)
		}
		// same answer whether or not the account exists
		return respondMessage(c, http.StatusOK, "if the account exists, a code has been sent")
	}
}

// forgotPasswordHandler is the dedicated password-reset entry; it issues a
// password_reset code regardless of the type field.
func forgotPasswordHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(otpRequest)
		if err := c.Bind(req); err != nil {
			return respondError(c, http.StatusBadRequest, "invalid request")
		}
		if err := authSvc.RequestOTP(c.Request().Context(), req.Email, model.OTPTypePasswordReset); err != nil {
			return respondServiceError(c, err)
		}
		return respondMessage(c, http.StatusOK, "if the account exists, a code has been sent")
	}
}

func verifyOTPHandler(authSvc *services.AuthService, tokenTTL time.Duration) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(otpRequest)
		if err := c.Bind(req); err != nil {
			return respondError(c, http.StatusBadRequest, "invalid request")
		}
		user, err := authSvc.VerifyOTP(c.Request().Context(), req.Email, req.Code, req.Type)
		if err != nil {
			return respondServiceError(c, err)
		}
		if user != nil {
			// login_verification completes a sign-in
			token, err := middleware.GenerateToken(user, tokenTTL)
			if err != nil {
				return respondError(c, http.StatusInternalServerError, "could not create token")
			}
			return respondData(c, http.StatusOK, echo.Map{
				"token":      token,
				"expires_in": int64(tokenTTL.Seconds()),
				"user":       userPayload(user),
			})
		}
		return respondMessage(c, http.StatusOK, "code verified")
	}
}

func resetPasswordHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(resetPasswordRequest)
		if err := c.Bind(req); err != nil {
			return respondError(c, http.StatusBadRequest, "invalid request")
		}
		if err := authSvc.ResetPassword(c.Request().Context(), req.Email, req.Code, req.NewPassword); err != nil {
			return respondServiceError(c, err)
		}
		return respondMessage(c, http.StatusOK, "password has been reset, please login")
	}
}

func changePasswordHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		u := middleware.CurrentUser(c)
		req := new(changePasswordRequest)
		if err := c.Bind(req); err != nil {
			return respondError(c, http.StatusBadRequest, "invalid request")
		}
		if err := authSvc.ChangePassword(c.Request().Context(), u.UserID, req.CurrentPassword, req.NewPassword); err != nil {
			return respondServiceError(c, err)
		}
		return respondMessage(c, http.StatusOK, "password changed, please login again")
	}
}

// meHandler returns the authenticated user's normalized context.
func meHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		u := middleware.CurrentUser(c)
		if u == nil {
			return respondError(c, http.StatusUnauthorized, "Authorization token required")
		}
		return respondData(c, http.StatusOK, userPayload(u))
	}
}

func seedHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		created, err := authSvc.Seed(c.Request().Context())
		if err != nil {
			return respondServiceError(c, err)
		}
		if created {
			return respondMessage(c, http.StatusCreated, "admin account created")
		}
		return respondMessage(c, http.StatusOK, "admin account already present")
	}
}

func registerAuthRoutes(g *echo.Group, authSvc *services.AuthService, auth *middleware.Authenticator, limiter *middleware.RateLimiter, tokenTTL time.Duration) {
	ag := g.Group("/auth")

	// credential endpoints sit behind the per-IP limiter
	limited := ag.Group("", limiter.Middleware())
	limited.POST("/register", registerHandler(authSvc))
	limited.POST("/login", loginHandler(authSvc, tokenTTL))
	limited.POST("/request-otp", requestOTPHandler(authSvc))
	limited.POST("/verify-otp", verifyOTPHandler(authSvc, tokenTTL))
	limited.POST("/forgot-password", forgotPasswordHandler(authSvc))
	limited.POST("/reset-password", resetPasswordHandler(authSvc))

	ag.POST("/seed", seedHandler(authSvc))

	protected := ag.Group("", auth.RequireAuth())
	protected.GET("/me", meHandler())
	protected.POST("/change-password", changePasswordHandler(authSvc))
}
