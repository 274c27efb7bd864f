package gateway

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ammybawa/Azure-Integration-App/internal/auth"
	"github.com/ammybawa/Azure-Integration-App/internal/conversation"
	"github.com/ammybawa/Azure-Integration-App/internal/metrics"
	"github.com/ammybawa/Azure-Integration-App/internal/models"
	"github.com/ammybawa/Azure-Integration-App/internal/pricing"
	"github.com/ammybawa/Azure-Integration-App/internal/session"
	"github.com/ammybawa/Azure-Integration-App/internal/userstore"
)

// Handler handles HTTP requests for the gateway layer
type Handler struct {
	engine        *conversation.Engine
	sessions      session.Store
	users         userstore.Store
	jwtManager    *auth.JWTManager
	retail        *pricing.RetailClient
	metrics       *metrics.ChatMetrics
	tokenLifetime time.Duration
}

// NewHandler creates a new gateway handler
func NewHandler(engine *conversation.Engine, sessions session.Store, users userstore.Store, jwtManager *auth.JWTManager, retail *pricing.RetailClient, chatMetrics *metrics.ChatMetrics, tokenLifetime time.Duration) *Handler {
	if tokenLifetime <= 0 {
		tokenLifetime = 24 * time.Hour
	}
	return &Handler{
		engine:        engine,
		sessions:      sessions,
		users:         users,
		jwtManager:    jwtManager,
		retail:        retail,
		metrics:       chatMetrics,
		tokenLifetime: tokenLifetime,
	}
}

// Login godoc
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := userstore.Authenticate(c.Request.Context(), h.users, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, userstore.ErrInvalidCredentials) {
			log.Printf(`{"level":"warn","message":"Login failed","username":"%s"}`, req.Username)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
		return
	}

	token, err := h.jwtManager.GenerateToken(c.Request.Context(), user.ID, user.Username, user.Roles, h.tokenLifetime)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.tokenLifetime),
		User:      user.ToUserInfo(),
	})
}

// Register godoc
// @Summary Register user
// @Description Create a new user account (admin only)
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "New user details"
// @Success 201 {object} models.UserInfo
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.users.Create(c.Request.Context(), req.Username, req.Password, req.Roles)
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
			return
		}
		log.Printf(`{"level":"error","message":"Failed to create user","error":"%v"}`, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user.ToUserInfo())
}

// Me godoc
// @Summary Current user
// @Description Return the authenticated user's profile
// @Tags auth
// @Produce json
// @Success 200 {object} models.UserInfo
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userIDVal.(string))
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User no longer exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	c.JSON(http.StatusOK, user.ToUserInfo())
}

// CreateSession godoc
// @Summary Create chat session
// @Description Create a new conversation session. Authentication optional but recommended.
// @Tags chat
// @Produce json
// @Success 200 {object} models.SessionResponse
// @Router /session [post]
func (h *Handler) CreateSession(c *gin.Context) {
	sessionID := uuid.NewString()

	sess, err := h.sessions.GetOrCreate(c.Request.Context(), sessionID)
	if err != nil {
		log.Printf(`{"level":"error","message":"Failed to create session","error":"%v"}`, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	// Tag the session with user identity when authenticated
	if userID, exists := c.Get("user_id"); exists {
		sess.CollectedParams["_user_id"] = userID
		if username, ok := c.Get("username"); ok {
			sess.CollectedParams["_username"] = username
		}
		if err := h.sessions.Put(c.Request.Context(), sess); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
			return
		}
	}

	if h.metrics != nil {
		h.metrics.RecordSessionCreated(c.Request.Context())
	}
	log.Printf(`{"level":"info","message":"Session created","session_id":"%s"}`, sessionID)

	c.JSON(http.StatusOK, models.SessionResponse{
		SessionID: sessionID,
		Message:   "Session created. How can I help you create Azure resources today?",
	})
}

// DeleteSession godoc
// @Summary Delete chat session
// @Description Delete a conversation session and its history
// @Tags chat
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /session/{session_id} [delete]
func (h *Handler) DeleteSession(c *gin.Context) {
	sessionID := c.Param("session_id")

	if err := h.sessions.Delete(c.Request.Context(), sessionID); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete session"})
		return
	}

	h.engine.ReleaseSession(sessionID)
	if h.metrics != nil {
		h.metrics.RecordSessionEnded(c.Request.Context())
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted", "session_id": sessionID})
}

// Chat godoc
// @Summary Process chat message
// @Description Run one turn of the provisioning conversation
// @Tags chat
// @Accept json
// @Produce json
// @Param request body models.ChatRequest true "Chat message"
// @Success 200 {object} models.ChatResponse
// @Failure 400 {object} map[string]string
// @Router /chat [post]
func (h *Handler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	resp, err := h.engine.ProcessMessage(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		log.Printf(`{"level":"error","message":"Chat processing failed","session_id":"%s","error":"%v"}`, req.SessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RetailPrices godoc
// @Summary Query Azure retail prices
// @Description Query the public Azure Retail Prices API with an OData filter
// @Tags pricing
// @Produce json
// @Param filter query string true "OData filter expression"
// @Param max query int false "Maximum items to return (default 50)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /pricing/retail [get]
func (h *Handler) RetailPrices(c *gin.Context) {
	filter := c.Query("filter")
	if filter == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing filter parameter"})
		return
	}

	maxItems := 50
	if raw := c.Query("max"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max parameter"})
			return
		}
		maxItems = parsed
	}

	items, err := h.retail.Query(c.Request.Context(), filter, maxItems)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Retail price lookup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// Health godoc
// @Summary Health check
// @Description Liveness probe
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "Azure Provisioning Chatbot"})
}
