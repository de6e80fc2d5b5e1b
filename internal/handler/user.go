package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/raaghavgupta2020/budget-app/internal/models"
	"github.com/raaghavgupta2020/budget-app/internal/store"
	"github.com/raaghavgupta2020/budget-app/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler serves registration, login and account lookups.
type UserHandler struct {
	Accounts  *store.AccountStore
	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration
	Log       *zap.Logger
}

func NewUserHandler(accounts *store.AccountStore, jwtSecret, jwtIssuer string, ttlMinutes int, log *zap.Logger) *UserHandler {
	if ttlMinutes <= 0 {
		ttlMinutes = 30
	}
	return &UserHandler{
		Accounts:  accounts,
		JWTSecret: jwtSecret,
		JWTIssuer: jwtIssuer,
		TokenTTL:  time.Duration(ttlMinutes) * time.Minute,
		Log:       log,
	}
}

// Register handles POST /user/register.
func (h *UserHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "username and password are required")
		return
	}

	user, err := h.Accounts.Create(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "username already registered")
			return
		}
		h.Log.Error("register failed", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create user")
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login handles POST /user/login. Credentials arrive as form fields, the
// response carries a bearer token.
func (h *UserHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "username and password are required")
		return
	}

	user, err := h.Accounts.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "incorrect username or password")
			return
		}
		h.Log.Error("login failed", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to authenticate")
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, h.JWTIssuer, user.Username, h.TokenTTL)
	if err != nil {
		h.Log.Error("token generation failed", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to issue token")
		return
	}

	c.JSON(http.StatusOK, models.Token{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// GetAll handles GET /user/getAll.
func (h *UserHandler) GetAll(c *gin.Context) {
	users, err := h.Accounts.ListAll(c.Request.Context())
	if err != nil {
		h.Log.Error("list users failed", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// Get handles GET /user/:username.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.Accounts.FindByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "user not found")
			return
		}
		h.Log.Error("get user failed", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to find user")
		return
	}
	c.JSON(http.StatusOK, user)
}
