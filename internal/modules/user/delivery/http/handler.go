package handler

import (
	"net/http"
	"time"

	"anoa.com/weddingsalon/internal/modules/user/dto"
	user "anoa.com/weddingsalon/internal/modules/user/service"
	"anoa.com/weddingsalon/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const (
	homePage      = "/"
	loginFailPage = "/?error"
	afterLogin    = "/dresses"
)

// CookieOptions describes the session cookie set on login and registration.
type CookieOptions struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

type AuthHandler struct {
	authService user.AuthService
	cookie      CookieOptions
}

func NewAuthHandler(authService user.AuthService, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

// RegisterForm answers GET /register with the fields the form must post.
func (h *AuthHandler) RegisterForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"fields": []string{"username", "email", "password", "confirmPassword"},
	})
}

// Register signs the new user in. JSON clients get the token, form posts are
// redirected home.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterInput
	if err := c.ShouldBind(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	res, err := h.authService.Register(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	h.setSession(c, res.AccessToken)
	if isJSON(c) {
		c.JSON(http.StatusCreated, res)
		return
	}
	c.Redirect(http.StatusSeeOther, homePage)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginInput
	if err := c.ShouldBind(&req); err != nil {
		if isJSON(c) {
			response.BindingError(c, err)
			return
		}
		c.Redirect(http.StatusSeeOther, loginFailPage)
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		if isJSON(c) {
			response.ResponseError(c, err)
			return
		}
		c.Redirect(http.StatusSeeOther, loginFailPage)
		return
	}

	h.setSession(c, res.AccessToken)
	if isJSON(c) {
		c.JSON(http.StatusOK, res)
		return
	}
	c.Redirect(http.StatusSeeOther, afterLogin)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	c.Redirect(http.StatusSeeOther, homePage)
}

func (h *AuthHandler) Me(c *gin.Context) {
	identity, err := response.GetIdentity(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	me, err := h.authService.Me(c.Request.Context(), identity.UserID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, me)
}

func (h *AuthHandler) setSession(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, int(h.cookie.TTL.Seconds()), "/", "", h.cookie.Secure, true)
}

func isJSON(c *gin.Context) bool {
	return c.ContentType() == binding.MIMEJSON
}
