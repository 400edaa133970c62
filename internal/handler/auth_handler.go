package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tetianalytvynovska/tax-system/internal/middleware"
	"github.com/tetianalytvynovska/tax-system/internal/service"
	"github.com/tetianalytvynovska/tax-system/pkg/response"
)

type AuthHandler struct {
	authService service.AuthService
	db          *gorm.DB
	logger      *zap.Logger
}

func NewAuthHandler(authService service.AuthService, db *gorm.DB, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, db: db, logger: logger}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/register", h.Register)
	router.POST("/login", h.Login)
	router.POST("/admin/verify-2fa", h.Verify2FA)

	router.GET("/me", middleware.RequireAuth(h.db), h.Me)
}

// Register creates a user account
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RegisterRequest  true  "Registration payload"
// @Success      201      {object}  service.AuthResponse
// @Failure      400      {object}  response.ErrorBody
// @Router       /api/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Заповніть усі поля"))
		return
	}

	auth, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, auth)
}

// Login authenticates by email and password
// @Summary      Log in
// @Description  Plain users receive a token; the administrator receives a 2FA challenge instead.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Credentials"
// @Success      200      {object}  service.AuthResponse
// @Failure      400      {object}  response.ErrorBody
// @Router       /api/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Введіть електронну адресу та пароль"))
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	if result.Requires2FA {
		c.JSON(http.StatusOK, gin.H{
			"requires2FA": true,
			"message":     "Код підтвердження надіслано на електронну пошту",
		})
		return
	}
	c.JSON(http.StatusOK, result.Auth)
}

// Verify2FA completes the administrator login
// @Summary      Verify the administrator 2FA code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.Verify2FARequest  true  "Email and code"
// @Success      200      {object}  service.AuthResponse
// @Failure      400      {object}  response.ErrorBody
// @Router       /api/admin/verify-2fa [post]
func (h *AuthHandler) Verify2FA(c *gin.Context) {
	var req service.Verify2FARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Введіть електронну адресу та код"))
		return
	}

	auth, err := h.authService.Verify2FA(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, auth)
}

// Me returns the authenticated user
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.User
// @Failure      401  {object}  response.ErrorBody
// @Router       /api/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}
