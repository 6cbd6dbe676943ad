package handlers

import (
	"errors"
	"net/http"

	"order-dashboard/internal/middleware"
	"order-dashboard/internal/models"
	"order-dashboard/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const msgBadLogin = "メールアドレス(ユーザー名)またはパスワードが正しくありません。"

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// LoginPage shows the sign-in form
func (h *Handler) LoginPage(c *gin.Context) {
	if _, _, ok := middleware.CurrentUser(c); ok {
		c.Redirect(http.StatusFound, middleware.SafeNext(c.Query("next")))
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{"next": c.Query("next")})
}

// Login checks the submitted credentials and starts a session
func (h *Handler) Login(c *gin.Context) {
	next := c.PostForm("next")

	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusOK, "login.html", gin.H{"next": next, "username": req.Username, "error": msgBadLogin})
		return
	}

	user, err := h.services.Auth.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, services.ErrInvalidCredentials) {
			renderError(c, err)
			return
		}
		h.logger.WithFields(logrus.Fields{"client_ip": c.ClientIP()}).Warn("Failed sign-in attempt")
		c.HTML(http.StatusOK, "login.html", gin.H{"next": next, "username": req.Username, "error": msgBadLogin})
		return
	}

	if err := h.sessions.SignIn(c, user); err != nil {
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, middleware.SafeNext(next))
}

// Logout ends the session
func (h *Handler) Logout(c *gin.Context) {
	h.sessions.SignOut(c)
	c.Redirect(http.StatusFound, middleware.LoginPath)
}

// @Summary Login
// @Description Authenticate with a username or email and start a cookie session
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} models.APIResponse{data=models.User}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *Handler) APILogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	user, err := h.services.Auth.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error: &models.APIError{Code: "invalid_credentials", Message: msgBadLogin},
			})
			return
		}
		respondError(c, err)
		return
	}

	if err := h.sessions.SignIn(c, user); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, user)
}

// @Summary Logout
// @Description Clear the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /auth/logout [post]
func (h *Handler) APILogout(c *gin.Context) {
	h.sessions.SignOut(c)
	respondOK(c, http.StatusOK, nil)
}

// @Summary Current user
// @Description Return the signed-in staff account
// @Tags auth
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.User}
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	id, _, _ := middleware.CurrentUser(c)
	user, err := h.services.Auth.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, user)
}
