package middleware

import (
	"errors"
	"net/http"
	"strings"

	"anoa.com/weddingsalon/internal/entity"
	userRepo "anoa.com/weddingsalon/internal/modules/user/repository"
	"anoa.com/weddingsalon/pkg/apperror"
	"anoa.com/weddingsalon/pkg/dto"
	"anoa.com/weddingsalon/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const loginPage = "/?login"

// TokenParser resolves a session token to the id of the user it was issued for.
type TokenParser interface {
	ParseToken(token string) (uuid.UUID, error)
}

type AuthMiddleware struct {
	tokens     TokenParser
	userRepo   userRepo.UserRepository
	cookieName string
}

func NewAuthMiddleware(tokens TokenParser, userRepo userRepo.UserRepository, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:     tokens,
		userRepo:   userRepo,
		cookieName: cookieName,
	}
}

// Authenticate attaches the caller's identity when the request carries a valid
// session. It never rejects; the Require* handlers do.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := m.extractToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		userID, err := m.tokens.ParseToken(tokenString)
		if err != nil {
			c.Next()
			return
		}

		// role is read on every request so reassignments apply immediately
		user, err := m.userRepo.FindByID(c.Request.Context(), userID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				response.ResponseError(c, err)
				c.Abort()
				return
			}
			c.Next()
			return
		}

		response.SetIdentity(c, &dto.Identity{
			UserID:   user.ID,
			Username: user.Username,
			Role:     user.Role,
		})
		c.Next()
	}
}

func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	if cookie, err := c.Cookie(m.cookieName); err == nil && cookie != "" {
		return cookie
	}

	// browsers cannot set headers on a websocket handshake
	if c.IsWebsocket() {
		return c.Query("token")
	}
	return ""
}

// RequireAuth rejects anonymous API calls with 401.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := response.GetIdentity(c); err != nil {
			response.ResponseError(c, apperror.New(http.StatusUnauthorized, "authorization required", apperror.ErrUnauthorized))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireLogin sends anonymous browser requests to the login page.
func (m *AuthMiddleware) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := response.GetIdentity(c); err != nil {
			c.Redirect(http.StatusSeeOther, loginPage)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRoles must run after RequireAuth or RequireLogin.
func (m *AuthMiddleware) RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := response.GetIdentity(c)
		if err != nil {
			response.ResponseError(c, err)
			c.Abort()
			return
		}

		if !identity.HasRole(roles...) {
			response.ResponseError(c, apperror.New(http.StatusForbidden, "insufficient role", apperror.ErrForbidden))
			c.Abort()
			return
		}
		c.Next()
	}
}

// Role groups used by the route table.
var (
	AnyRole = []string{entity.RoleUser, entity.RoleManager, entity.RoleAdmin}
	Staff   = []string{entity.RoleManager, entity.RoleAdmin}
	Admins  = []string{entity.RoleAdmin}
)
