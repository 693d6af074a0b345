package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"anoa.com/weddingsalon/pkg/apperror"
	"anoa.com/weddingsalon/pkg/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestResponseError_FieldError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/register", nil)

	ResponseError(c, apperror.NewFieldError("email", "invalid email address", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "invalid email address", body["error"])
	assert.Equal(t, "email", body["field"])
}

func TestResponseError_InternalIsGeneric(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/dresses", nil)

	ResponseError(c, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, genericErrorMessage, decode(t, w)["error"])
}

func TestRecovery_ConvertsPanic(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, genericErrorMessage, decode(t, w)["error"])
}

func TestGetIdentity(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := GetIdentity(c)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	want := &dto.Identity{UserID: uuid.New(), Username: "anna", Role: "USER"}
	SetIdentity(c, want)

	got, err := GetIdentity(c)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBindingError(t *testing.T) {
	type payload struct {
		Price int `json:"price" binding:"min=0"`
	}

	r := gin.New()
	r.POST("/bind", func(c *gin.Context) {
		var p payload
		if err := c.ShouldBindJSON(&p); err != nil {
			BindingError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(`{"price":-1}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "price", decode(t, w)["field"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, decode(t, w), "field")
}
