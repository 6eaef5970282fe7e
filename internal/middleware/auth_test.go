package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/metrics"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/model"
)

type fakeUserSource struct {
	users map[int64]*model.User
	err   error
	calls int
}

func (f *fakeUserSource) GetByID(ctx context.Context, id int64) (*model.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func activeUser() *model.User {
	return &model.User{
		UserID:          7,
		Email:           "traveller@example.com",
		Role:            model.RoleUser,
		IsActive:        true,
		IsEmailVerified: true,
	}
}

// runProtected sends a request through RequireAuth into a probe handler.
func runProtected(t *testing.T, src UserSource, header string, extra ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	invoked := false
	h := func(c echo.Context) error {
		invoked = true
		return c.NoContent(http.StatusOK)
	}
	var wrapped echo.HandlerFunc = h
	for i := len(extra) - 1; i >= 0; i-- {
		wrapped = extra[i](wrapped)
	}
	wrapped = NewAuthenticator(src).RequireAuth()(wrapped)
	require.NoError(t, wrapped(c))
	return rec, invoked
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Error
}

func TestRequireAuth_NoToken(t *testing.T) {
	src := &fakeUserSource{users: map[int64]*model.User{}}
	rec, invoked := runProtected(t, src, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authorization token required", decodeError(t, rec))
	assert.False(t, invoked)
	// no store lookup may happen before a token is even present
	assert.Zero(t, src.calls)
}

func TestRequireAuth_BadToken(t *testing.T) {
	src := &fakeUserSource{users: map[int64]*model.User{}}
	rec, invoked := runProtected(t, src, "Bearer garbage")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired token", decodeError(t, rec))
	assert.False(t, invoked)
	assert.Zero(t, src.calls)
}

func TestRequireAuth_UserGone(t *testing.T) {
	u := activeUser()
	tok, err := GenerateToken(u, time.Hour)
	require.NoError(t, err)

	src := &fakeUserSource{users: map[int64]*model.User{}}
	rec, invoked := runProtected(t, src, "Bearer "+tok)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", decodeError(t, rec))
	assert.False(t, invoked)
}

func TestRequireAuth_Deactivated(t *testing.T) {
	u := activeUser()
	tok, err := GenerateToken(u, time.Hour)
	require.NoError(t, err)

	u.IsActive = false
	src := &fakeUserSource{users: map[int64]*model.User{u.UserID: u}}
	rec, invoked := runProtected(t, src, "Bearer "+tok)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Account is deactivated", decodeError(t, rec))
	assert.False(t, invoked)
}

func TestRequireAuth_PasswordRotatedAfterIssue(t *testing.T) {
	u := activeUser()
	tok, err := GenerateToken(u, time.Hour)
	require.NoError(t, err)

	changed := time.Now().Add(time.Minute)
	u.PasswordChangedAt = &changed
	src := &fakeUserSource{users: map[int64]*model.User{u.UserID: u}}
	rec, invoked := runProtected(t, src, "Bearer "+tok)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Password was changed. Please login again.", decodeError(t, rec))
	assert.False(t, invoked)
}

func TestRequireAuth_PasswordChangedBeforeIssue(t *testing.T) {
	u := activeUser()
	changed := time.Now().Add(-time.Hour)
	u.PasswordChangedAt = &changed
	tok, err := GenerateToken(u, time.Hour)
	require.NoError(t, err)

	src := &fakeUserSource{users: map[int64]*model.User{u.UserID: u}}
	rec, invoked := runProtected(t, src, "Bearer "+tok)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, invoked)
}

func TestRequireAuth_StoreError(t *testing.T) {
	u := activeUser()
	tok, err := GenerateToken(u, time.Hour)
	require.NoError(t, err)

	src := &fakeUserSource{err: errors.New("connection reset")}
	rec, invoked := runProtected(t, src, "Bearer "+tok)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Authentication failed", decodeError(t, rec))
	assert.False(t, invoked)
}

func TestRequireAuth_RecordsFailureReasons(t *testing.T) {
	u := activeUser()
	tok, err := GenerateToken(u, time.Hour)
	require.NoError(t, err)

	collector := metrics.NewCollector()
	src := &fakeUserSource{users: map[int64]*model.User{}}
	auth := NewAuthenticator(src)
	auth.Metrics = collector

	run := func(header string) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		c := e.NewContext(req, httptest.NewRecorder())
		h := auth.RequireAuth()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
		require.NoError(t, h(c))
	}

	run("")
	run("Bearer garbage")
	run("Bearer " + tok) // user no longer exists

	scrape := httptest.NewRecorder()
	collector.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := scrape.Body.String()
	assert.Contains(t, body, `tours_auth_failures_total{reason="token_missing"} 1`)
	assert.Contains(t, body, `tours_auth_failures_total{reason="token_invalid"} 1`)
	assert.Contains(t, body, `tours_auth_failures_total{reason="user_missing"} 1`)
}

func TestRequireAuth_SetsContext(t *testing.T) {
	u := activeUser()
	tok, err := GenerateToken(u, time.Hour)
	require.NoError(t, err)

	src := &fakeUserSource{users: map[int64]*model.User{u.UserID: u}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewAuthenticator(src).RequireAuth()(func(c echo.Context) error {
		got := CurrentUser(c)
		require.NotNil(t, got)
		assert.Equal(t, u.UserID, got.UserID)
		claims := GetClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, u.UserID, claims.UserID)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	u := activeUser()
	u.Role = model.RoleEditor
	tok, err := GenerateToken(u, time.Hour)
	require.NoError(t, err)

	src := &fakeUserSource{users: map[int64]*model.User{u.UserID: u}}

	rec, invoked := runProtected(t, src, "Bearer "+tok, RequireRole(model.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "admin role required", decodeError(t, rec))
	assert.False(t, invoked)

	rec, invoked = runProtected(t, src, "Bearer "+tok, RequireRole(model.RoleEditor))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, invoked)
}

func TestRequireRole_NoHierarchy(t *testing.T) {
	u := activeUser()
	u.Role = model.RoleAdmin
	tok, err := GenerateToken(u, time.Hour)
	require.NoError(t, err)

	src := &fakeUserSource{users: map[int64]*model.User{u.UserID: u}}

	// admin does not implicitly satisfy an editor-only gate
	rec, invoked := runProtected(t, src, "Bearer "+tok, RequireRole(model.RoleEditor))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, invoked)
}
