package api

import (
	"net/http"

	reqdto "ops-console/internal/handler/dto/request"
	resdto "ops-console/internal/handler/dto/response"
	"ops-console/internal/handler/httperr"
	"ops-console/internal/pkg/config"
	"ops-console/internal/pkg/errs"
	"ops-console/internal/pkg/jwt"
	"ops-console/internal/pkg/password"

	"github.com/gin-gonic/gin"
)

var errInvalidCredentials = errs.New("invalid credentials")

type AuthHandler struct {
	cfg    config.AuthConfig
	tokens *jwt.Service
}

func NewAuthHandler(cfg config.AuthConfig, tokens *jwt.Service) *AuthHandler {
	return &AuthHandler{cfg: cfg, tokens: tokens}
}

// @Summary Operator login
// @Description Authenticate the configured operator account and issue a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	if req.Email != h.cfg.OperatorEmail || password.Verify(h.cfg.OperatorPasswordHash, req.Password) != nil {
		httperr.AbortWithError(c, http.StatusUnauthorized, errInvalidCredentials, "Invalid email or password", nil)
		return
	}

	token, err := h.tokens.GenerateToken(req.Email)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to issue token", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
	})
}
