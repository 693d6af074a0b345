package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"anoa.com/weddingsalon/internal/entity"
	"anoa.com/weddingsalon/internal/modules/designer/dto"
	"anoa.com/weddingsalon/internal/modules/designer/repository"
	designer "anoa.com/weddingsalon/internal/modules/designer/service"
	"anoa.com/weddingsalon/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	h := NewDesignerHandler(designer.NewDesignerService(repository.NewDesignerRepository(db), nil, nil, nil, nil))

	r := gin.New()
	r.GET("/designers", h.ListDesigners)
	r.POST("/designers/save", h.SaveDesigner)
	r.POST("/designers/update", h.UpdateDesigner)
	r.POST("/designers/delete", h.DeleteDesigner)
	r.GET("/api/designers", h.ListDesigners)
	r.GET("/api/designers/:id", h.GetDesigner)
	return r, db
}

func postForm(r http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestWebFlow(t *testing.T) {
	r, db := setupRouter(t)

	w := postForm(r, "/designers/save", url.Values{"name": {"Vera Wang"}, "contactInfo": {"vera@wang.com"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/designers", w.Header().Get("Location"))

	var stored entity.Designer
	require.NoError(t, db.First(&stored).Error)
	require.NotNil(t, stored.ContactInfo)
	assert.Equal(t, "vera@wang.com", *stored.ContactInfo)

	w = postForm(r, "/designers/update", url.Values{"id": {stored.ID.String()}, "name": {"Vera"}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = get(r, "/designers")
	require.Equal(t, http.StatusOK, w.Code)
	var list []dto.DesignerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Vera", list[0].Name)

	// unknown id on update is a no-op
	w = postForm(r, "/designers/update", url.Values{"id": {uuid.NewString()}, "name": {"Ghost"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = postForm(r, "/designers/delete", url.Values{"id": {stored.ID.String()}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	var n int64
	require.NoError(t, db.Model(&entity.Designer{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestSaveDesigner_MissingName(t *testing.T) {
	r, _ := setupRouter(t)

	w := postForm(r, "/designers/save", url.Values{"contactInfo": {"x@y.z"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "name", body["field"])
}

func TestGetDesigner(t *testing.T) {
	r, db := setupRouter(t)
	d := &entity.Designer{Name: "Pronovias"}
	require.NoError(t, db.Create(d).Error)

	w := get(r, "/api/designers/"+d.ID.String())
	require.Equal(t, http.StatusOK, w.Code)
	var res dto.DesignerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, d.ID, res.ID)

	assert.Equal(t, http.StatusNotFound, get(r, "/api/designers/"+uuid.NewString()).Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/api/designers/not-an-id").Code)
}
