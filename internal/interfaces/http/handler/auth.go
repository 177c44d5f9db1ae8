// Package handler 提供 HTTP 请求处理器
package handler

import (
	"time"

	"viralspark-api/internal/domain/entity"
	"viralspark-api/internal/domain/repository"
	"viralspark-api/internal/interfaces/http/dto"
	"viralspark-api/internal/interfaces/http/middleware"
	"viralspark-api/pkg/logger"
	"viralspark-api/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	jwtManager *utils.JWTManager
	cfg        middleware.AuthConfig
	accessTTL  time.Duration
	refreshTTL time.Duration
	userRepo   repository.UserRepository
	tenantRepo repository.TenantRepository
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg middleware.AuthConfig, accessTTL, refreshTTL time.Duration, userRepo repository.UserRepository, tenantRepo repository.TenantRepository) *AuthHandler {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &AuthHandler{
		jwtManager: utils.NewJWTManager(cfg.Secret, cfg.Issuer),
		cfg:        cfg,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
	}
}

// Register 注册
// @Summary 用户注册
// @Description 在指定租户下创建新用户
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterRequest true "注册信息"
// @Success 201 {object} dto.Response[dto.AuthResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	// 按 slug 定位租户
	tenant, err := h.tenantRepo.GetBySlug(ctx, req.TenantSlug)
	if err != nil {
		logger.Error(ctx, "failed to check tenant", err)
		dto.InternalError(c, "registration failed")
		return
	}
	if tenant == nil {
		dto.BadRequest(c, "tenant not found")
		return
	}
	if tenant.Status == entity.TenantStatusSuspended {
		dto.Forbidden(c, "tenant is suspended")
		return
	}

	// 检查邮箱是否已存在
	exists, err := h.userRepo.ExistsByEmail(ctx, tenant.ID, req.Email)
	if err != nil {
		logger.Error(ctx, "failed to check email existence", err)
		dto.InternalError(c, "registration failed")
		return
	}
	if exists {
		dto.Conflict(c, "email already registered")
		return
	}

	// 创建用户实体
	user := entity.NewUser(tenant.ID, req.Email, req.Name)
	if err := user.SetPassword(req.Password); err != nil {
		logger.Error(ctx, "failed to hash password", err)
		dto.InternalError(c, "registration failed")
		return
	}

	// 保存用户
	if err := h.userRepo.Create(ctx, user); err != nil {
		logger.Error(ctx, "failed to create user", err)
		dto.InternalError(c, "registration failed")
		return
	}

	tokens, ok := h.grantTokens(c, user.TenantID, user.ID, string(user.Role))
	if !ok {
		return
	}

	dto.Created(c, &dto.AuthResponse{
		AccessToken: tokens.AccessToken,
		ExpiresIn:   int(h.accessTTL.Seconds()),
		User:        dto.ToAuthUserDTO(user),
	})
}

// Login 登录
// @Summary 用户登录
// @Description 验证邮箱密码并返回双 Token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "登录信息"
// @Success 200 {object} dto.Response[dto.AuthResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	tenant, err := h.tenantRepo.GetBySlug(ctx, req.TenantSlug)
	if err != nil {
		logger.Error(ctx, "failed to check tenant", err)
		dto.InternalError(c, "login failed")
		return
	}
	if tenant == nil {
		dto.Unauthorized(c, "invalid email or password")
		return
	}

	// 查询用户
	user, err := h.userRepo.GetByEmail(ctx, tenant.ID, req.Email)
	if err != nil {
		logger.Error(ctx, "failed to get user", err)
		dto.InternalError(c, "login failed")
		return
	}

	// 校验存在性及密码
	if user == nil || !user.CheckPassword(req.Password) {
		dto.Unauthorized(c, "invalid email or password")
		return
	}

	// 更新登录状态
	if err := h.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Warn(ctx, "failed to update last login time", "error", err, "user_id", user.ID)
	}

	tokens, ok := h.grantTokens(c, user.TenantID, user.ID, string(user.Role))
	if !ok {
		return
	}

	dto.Success(c, &dto.AuthResponse{
		AccessToken: tokens.AccessToken,
		ExpiresIn:   int(h.accessTTL.Seconds()),
		User:        dto.ToAuthUserDTO(user),
	})
}

// RefreshToken 用 refresh 令牌换发新的双令牌并轮换 Cookie
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	refreshToken, err := c.Cookie("refresh_token")
	if err != nil {
		dto.Unauthorized(c, "missing refresh token")
		return
	}

	claims, err := h.jwtManager.Verify(refreshToken, utils.TokenRefresh)
	if err != nil {
		dto.Unauthorized(c, "invalid refresh token")
		return
	}

	tokens, ok := h.grantTokens(c, claims.TenantID, claims.UserID, claims.Role)
	if !ok {
		return
	}

	dto.Success(c, gin.H{
		"access_token": tokens.AccessToken,
		"expires_in":   int(h.accessTTL.Seconds()),
	})
}

// grantTokens 签发双令牌并把 refresh 令牌写进 HttpOnly Cookie。
// 失败时已写好 500 响应，调用方直接返回即可。
func (h *AuthHandler) grantTokens(c *gin.Context, tenantID, userID, role string) (*utils.TokenPair, bool) {
	tokens, err := h.jwtManager.IssuePair(tenantID, userID, role, h.accessTTL, h.refreshTTL)
	if err != nil {
		dto.InternalError(c, "failed to generate tokens")
		return nil, false
	}
	c.SetCookie("refresh_token", tokens.RefreshToken, int(h.refreshTTL.Seconds()), "/v1/auth/refresh", "", false, true)
	return tokens, true
}

// Logout 登出
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("refresh_token", "", -1, "/v1/auth/refresh", "", false, true)
	dto.Success(c, gin.H{"message": "logged out"})
}
