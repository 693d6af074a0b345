package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anoa.com/weddingsalon/internal/entity"
	"anoa.com/weddingsalon/internal/modules/user/dto"
	userRepo "anoa.com/weddingsalon/internal/modules/user/repository"
	userService "anoa.com/weddingsalon/internal/modules/user/service"
	"anoa.com/weddingsalon/internal/testutil"
	"anoa.com/weddingsalon/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const cookieName = "salon_session"

type fixture struct {
	router *gin.Engine
	db     *gorm.DB
	auth   userService.AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	repo := userRepo.NewUserRepository(db)
	auth := userService.NewAuthService(repo, nil, userService.Options{Secret: "test-secret", TokenTTL: time.Hour})
	m := NewAuthMiddleware(auth, repo, cookieName)

	ok := func(c *gin.Context) {
		identity, _ := response.GetIdentity(c)
		if identity == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, identity.Username)
	}

	r := gin.New()
	r.Use(m.Authenticate())
	r.GET("/", ok)
	r.GET("/api/me", m.RequireAuth(), ok)
	r.GET("/dresses", m.RequireLogin(), m.RequireRoles(AnyRole...), ok)
	r.POST("/save", m.RequireLogin(), m.RequireRoles(Staff...), ok)
	r.GET("/user-management", m.RequireLogin(), m.RequireRoles(Admins...), ok)

	return &fixture{router: r, db: db, auth: auth}
}

func (f *fixture) token(t *testing.T, username, role string) string {
	t.Helper()
	res, err := f.auth.Register(context.Background(), dto.RegisterInput{
		Username: username, Email: username + "@example.com", Password: "s3cret-pass", ConfirmPassword: "s3cret-pass",
	}, username)
	require.NoError(t, err)
	if role != entity.RoleUser {
		require.NoError(t, f.db.Model(&entity.User{}).Where("id = ?", res.User.ID).Update("role", role).Error)
	}
	return res.AccessToken
}

func (f *fixture) do(method, path string, setup func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if setup != nil {
		setup(req)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func bearer(token string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func TestAnonymous(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/me", nil).Code)

	w = f.do(http.MethodGet, "/dresses", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/?login", w.Header().Get("Location"))

	w = f.do(http.MethodGet, "/api/me", bearer("not-a-token"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleMatrix(t *testing.T) {
	f := newFixture(t)
	tokens := map[string]string{
		entity.RoleUser:    f.token(t, "user", entity.RoleUser),
		entity.RoleManager: f.token(t, "manager", entity.RoleManager),
		entity.RoleAdmin:   f.token(t, "admin", entity.RoleAdmin),
	}

	tests := []struct {
		method, path string
		want         map[string]int
	}{
		{http.MethodGet, "/dresses", map[string]int{entity.RoleUser: 200, entity.RoleManager: 200, entity.RoleAdmin: 200}},
		{http.MethodPost, "/save", map[string]int{entity.RoleUser: 403, entity.RoleManager: 200, entity.RoleAdmin: 200}},
		{http.MethodGet, "/user-management", map[string]int{entity.RoleUser: 403, entity.RoleManager: 403, entity.RoleAdmin: 200}},
	}

	for _, tt := range tests {
		for role, code := range tt.want {
			t.Run(tt.path+"/"+role, func(t *testing.T) {
				w := f.do(tt.method, tt.path, bearer(tokens[role]))
				assert.Equal(t, code, w.Code)
			})
		}
	}
}

func TestTokenSources(t *testing.T) {
	f := newFixture(t)
	token := f.token(t, "anna", entity.RoleUser)

	w := f.do(http.MethodGet, "/api/me", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	})
	assert.Equal(t, "anna", w.Body.String())

	w = f.do(http.MethodGet, "/api/me?token="+token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(http.MethodGet, "/api/me?token="+token, func(r *http.Request) {
		r.Header.Set("Connection", "Upgrade")
		r.Header.Set("Upgrade", "websocket")
	})
	assert.Equal(t, "anna", w.Body.String())
}

func TestRoleChangeAppliesImmediately(t *testing.T) {
	f := newFixture(t)
	token := f.token(t, "anna", entity.RoleUser)

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPost, "/save", bearer(token)).Code)

	require.NoError(t, f.db.Model(&entity.User{}).Where("username = ?", "anna").Update("role", entity.RoleManager).Error)

	assert.Equal(t, http.StatusOK, f.do(http.MethodPost, "/save", bearer(token)).Code)
}
