package response

import (
	"errors"
	"log/slog"
	"net/http"

	"anoa.com/weddingsalon/pkg/apperror"
	"anoa.com/weddingsalon/pkg/dto"
	"anoa.com/weddingsalon/pkg/validator"
	"github.com/gin-gonic/gin"
)

const (
	IdentityKey = "identity"

	genericErrorMessage = "something went wrong, please try again"
)

// SetIdentity stores the authenticated caller on the request context.
func SetIdentity(c *gin.Context, identity *dto.Identity) {
	c.Set(IdentityKey, identity)
}

// GetIdentity retrieves the authenticated caller from the context
func GetIdentity(c *gin.Context) (*dto.Identity, error) {
	v, exists := c.Get(IdentityKey)
	if !exists {
		return nil, apperror.ErrUnauthorized
	}

	identity, ok := v.(*dto.Identity)
	if !ok || identity == nil {
		return nil, apperror.ErrUnauthorized
	}

	return identity, nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code >= http.StatusInternalServerError {
		if code == http.StatusInternalServerError {
			slog.ErrorContext(c.Request.Context(), "internal error", "path", c.FullPath(), "error", err)
			c.JSON(code, gin.H{"error": genericErrorMessage})
			return
		}
		slog.WarnContext(c.Request.Context(), "dependency unavailable", "path", c.FullPath(), "error", err)
	}

	body := gin.H{"error": err.Error()}

	var fieldErr *apperror.FieldError
	if errors.As(err, &fieldErr) {
		body["field"] = fieldErr.Field
	}

	c.JSON(code, body)
}

// BindingError answers 400 for a request that failed binding, naming the first
// offending field when the validator reported one.
func BindingError(c *gin.Context, err error) {
	msg := validator.FormatValidationError(err)
	if field := validator.FirstField(err); field != "" {
		ResponseError(c, apperror.NewFieldError(field, msg, apperror.ErrBadRequest))
		return
	}
	ResponseError(c, apperror.New(http.StatusBadRequest, msg, apperror.ErrBadRequest))
}

// Recovery converts panics into the generic error body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.ErrorContext(c.Request.Context(), "panic recovered", "path", c.Request.URL.Path, "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": genericErrorMessage})
	})
}
