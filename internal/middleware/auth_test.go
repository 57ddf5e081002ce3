package middleware_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	users   map[string]*models.User
	lookups int
}

func (f *fakeResolver) CurrentUser(_ context.Context, token string) (*models.User, error) {
	f.lookups++
	return f.users[token], nil
}

func newGuardServer(t *testing.T, resolver middleware.UserResolver) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	renderer := multitemplate.NewRenderer()
	renderer.AddFromString("error.html", `{{.Code}}: {{.Error}}`)
	r.HTMLRender = renderer
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("0123456789abcdef0123456789abcdef"))))
	r.Use(middleware.LoadUser(resolver))

	r.GET("/as/:token", func(c *gin.Context) {
		s := sessions.Default(c)
		s.Set(middleware.SessionTokenKey, c.Param("token"))
		_ = s.Save()
		c.String(http.StatusOK, "ok")
	})
	r.GET("/whoami", func(c *gin.Context) {
		if u := middleware.CurrentUser(c); u != nil {
			c.String(http.StatusOK, u.Name)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	r.GET("/member", middleware.AuthRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, "member area")
	})
	r.GET("/admin", middleware.AuthRequired(), middleware.AdminRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, "admin area")
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func get(t *testing.T, c *http.Client, url string) (int, string) {
	t.Helper()
	resp, err := c.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestGuards(t *testing.T) {
	resolver := &fakeResolver{users: map[string]*models.User{
		"reader-token": {ID: 2, Name: "Reader", Role: models.RoleReader},
		"admin-token":  {ID: 1, Name: "Admin", Role: models.RoleAdmin},
	}}
	srv := newGuardServer(t, resolver)

	tests := []struct {
		name     string
		token    string
		path     string
		wantCode int
		wantBody string
	}{
		{"anonymous member", "", "/member", http.StatusForbidden, "You do not have permission to view that page"},
		{"anonymous admin", "", "/admin", http.StatusForbidden, "You do not have permission to view that page"},
		{"reader member", "reader-token", "/member", http.StatusOK, "member area"},
		{"reader admin", "reader-token", "/admin", http.StatusForbidden, "403: You do not have permission to view that page"},
		{"admin member", "admin-token", "/member", http.StatusOK, "member area"},
		{"admin admin", "admin-token", "/admin", http.StatusOK, "admin area"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t)
			if tt.token != "" {
				code, _ := get(t, client, srv.URL+"/as/"+tt.token)
				require.Equal(t, http.StatusOK, code)
			}
			code, body := get(t, client, srv.URL+tt.path)
			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, body, tt.wantBody)
		})
	}
}

func TestLoadUser(t *testing.T) {
	resolver := &fakeResolver{users: map[string]*models.User{
		"good": {ID: 1, Name: "Alice", Role: models.RoleReader},
	}}
	srv := newGuardServer(t, resolver)

	client := newClient(t)
	_, body := get(t, client, srv.URL+"/whoami")
	assert.Equal(t, "anonymous", body)
	assert.Zero(t, resolver.lookups)

	get(t, client, srv.URL+"/as/good")
	_, body = get(t, client, srv.URL+"/whoami")
	assert.Equal(t, "Alice", body)

	// an unknown token is looked up once, then dropped from the cookie
	stale := newClient(t)
	get(t, stale, srv.URL+"/as/stale")
	before := resolver.lookups
	_, body = get(t, stale, srv.URL+"/whoami")
	assert.Equal(t, "anonymous", body)
	_, body = get(t, stale, srv.URL+"/whoami")
	assert.Equal(t, "anonymous", body)
	assert.Equal(t, before+1, resolver.lookups)
}

func TestCapabilities(t *testing.T) {
	admin := &models.User{Role: models.RoleAdmin}
	reader := &models.User{Role: models.RoleReader}

	assert.False(t, middleware.Authenticated(nil))
	assert.True(t, middleware.Authenticated(reader))
	assert.False(t, middleware.IsAdmin(nil))
	assert.False(t, middleware.IsAdmin(reader))
	assert.True(t, middleware.IsAdmin(admin))
}

func TestRequire_RecordsUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	renderer := multitemplate.NewRenderer()
	renderer.AddFromString("error.html", `{{.Code}}: {{.Error}}`)
	r.HTMLRender = renderer

	var recorded []error
	r.Use(func(c *gin.Context) {
		c.Next()
		for _, e := range c.Errors {
			recorded = append(recorded, e.Err)
		}
	})
	r.GET("/member", middleware.AuthRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, "member area")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/member", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	require.Len(t, recorded, 1)
	assert.True(t, errors.Is(recorded[0], models.ErrUnauthorized))
}
