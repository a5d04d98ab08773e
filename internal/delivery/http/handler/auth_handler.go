package handler

import (
	"net/http"
	"time"

	"bootcamp-directory/internal/config"
	"bootcamp-directory/internal/middleware"
	"bootcamp-directory/internal/usecase/auth"
	"bootcamp-directory/pkg/utils"

	"github.com/gin-gonic/gin"
)

const logoutCookieTTL = 10 * time.Second

type AuthHandler struct {
	service *auth.Service
	config  *config.Config
}

func NewAuthHandler(service *auth.Service, cfg *config.Config) *AuthHandler {
	return &AuthHandler{service: service, config: cfg}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/auth")
	{
		group.POST("/register", h.Register)
		group.POST("/login", h.Login)
		group.POST("/forgotpassword", h.ForgotPassword)
		group.PUT("/resetpassword/:resettoken", h.ResetPassword)
	}
}

// RegisterProtectedRoutes expects a group that already runs Protect.
func (h *AuthHandler) RegisterProtectedRoutes(router *gin.RouterGroup) {
	group := router.Group("/auth")
	{
		group.GET("/logout", h.Logout)
		group.GET("/me", h.Me)
		group.PUT("/updatedetails", h.UpdateDetails)
		group.PUT("/updatepassword", h.UpdatePassword)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.sendToken(c, http.StatusOK, session)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.sendToken(c, http.StatusOK, session)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), middleware.CurrentToken(c)); err != nil {
		respondWithError(c, err)
		return
	}

	h.setCookie(c, "none", logoutCookieTTL)
	utils.SuccessResponse(c, http.StatusOK, struct{}{})
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.service.Me(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, u)
}

func (h *AuthHandler) UpdateDetails(c *gin.Context) {
	var req auth.UpdateDetailsRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.service.UpdateDetails(c.Request.Context(), middleware.CurrentUserID(c), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, u)
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req auth.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.service.ChangePassword(c.Request.Context(), middleware.CurrentUserID(c), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.sendToken(c, http.StatusOK, session)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req auth.ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.RequestPasswordReset(c.Request.Context(), &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Email sent")
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req auth.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.service.ResetPassword(c.Request.Context(), c.Param("resettoken"), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.sendToken(c, http.StatusOK, session)
}

// sendToken delivers the token both as a cookie and in the body.
func (h *AuthHandler) sendToken(c *gin.Context, status int, session *auth.Session) {
	h.setCookie(c, session.Token, h.config.CookieMaxAge())
	utils.TokenResponse(c, status, session.Token)
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, value, int(ttl.Seconds()), "/", "", h.config.CookieSecure(), true)
}
