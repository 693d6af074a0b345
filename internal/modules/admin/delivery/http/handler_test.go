package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"anoa.com/weddingsalon/internal/entity"
	adminService "anoa.com/weddingsalon/internal/modules/admin/service"
	"anoa.com/weddingsalon/internal/modules/user/repository"
	"anoa.com/weddingsalon/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	h := NewAdminHandler(adminService.NewAdminService(repository.NewUserRepository(db)))

	r := gin.New()
	r.GET("/user-management", h.GetAllUsers)
	r.POST("/assign-role", h.AssignRole)
	return r, db
}

func assign(r http.Handler, userID, role string) *httptest.ResponseRecorder {
	form := url.Values{"userId": {userID}, "role": {role}}
	req := httptest.NewRequest(http.MethodPost, "/assign-role", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminFlow(t *testing.T) {
	r, db := setupRouter(t)
	u := &entity.User{Username: "anna", Email: "anna@example.com", PasswordHash: "hash", Role: entity.RoleUser}
	require.NoError(t, db.Create(u).Error)

	w := assign(r, u.ID.String(), entity.RoleAdmin)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user-management", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "hash")

	var users []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "ADMIN", users[0]["role"])
}

func TestAssignRole_Rejected(t *testing.T) {
	r, _ := setupRouter(t)

	w := assign(r, uuid.NewString(), "OWNER")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"role"`)

	w = assign(r, uuid.NewString(), entity.RoleManager)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
