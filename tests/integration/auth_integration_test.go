package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammybawa/Azure-Integration-App/internal/auth"
	"github.com/ammybawa/Azure-Integration-App/internal/conversation"
	"github.com/ammybawa/Azure-Integration-App/internal/gateway"
	"github.com/ammybawa/Azure-Integration-App/internal/models"
	"github.com/ammybawa/Azure-Integration-App/internal/pricing"
	"github.com/ammybawa/Azure-Integration-App/internal/provision"
	"github.com/ammybawa/Azure-Integration-App/internal/session"
	"github.com/ammybawa/Azure-Integration-App/internal/terraform"
	"github.com/ammybawa/Azure-Integration-App/internal/userstore"
	"github.com/ammybawa/Azure-Integration-App/tests/helpers"
)

func TestAuthenticationIntegration(t *testing.T) {
	// Setup test environment with a real database
	testDB := helpers.NewTestDatabase(t)
	defer testDB.Close()
	testDB.CleanupTables(t)

	ctx := context.Background()

	users := userstore.NewPostgresStore(testDB.Pool)
	require.NoError(t, users.EnsureSchema(ctx))
	require.NoError(t, userstore.EnsureAdmin(ctx, users, helpers.DefaultAdminPassword))

	sessions := session.NewPostgresStore(testDB.Pool, time.Hour)
	require.NoError(t, sessions.EnsureSchema(ctx))

	jwtManager, err := auth.NewJWTManager("integration-signing-key")
	require.NoError(t, err)

	sim := provision.NewSimulated()
	sim.Delay = 0
	engine := conversation.NewEngine(conversation.Options{
		Store:       sessions,
		Estimator:   pricing.NewEstimator(),
		Generator:   terraform.NewGenerator(),
		Provisioner: sim,
		RGEnsurer:   sim,
	})

	handler := gateway.NewHandler(engine, sessions, users, jwtManager, pricing.NewRetailClient(), nil, time.Hour)

	// Setup Gin router
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", handler.Health)

	api := router.Group("/api")
	api.POST("/auth/login", handler.Login)

	protected := api.Group("")
	protected.Use(auth.RequireAuth(jwtManager))
	protected.GET("/auth/me", handler.Me)

	admin := api.Group("")
	admin.Use(auth.RequireAuth(jwtManager), auth.RequireRole(models.RoleAdmin))
	admin.POST("/auth/register", handler.Register)

	do := func(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	login := func(t *testing.T, username, password string) models.LoginResponse {
		t.Helper()
		w := do(http.MethodPost, "/api/auth/login", models.LoginRequest{Username: username, Password: password}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp models.LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp
	}

	memberUsername := helpers.UniqueUsername("member")

	t.Run("admin login issues a valid token", func(t *testing.T) {
		resp := login(t, "admin", helpers.DefaultAdminPassword)
		require.NotEmpty(t, resp.Token)
		assert.Equal(t, "admin", resp.User.Username)
		assert.Contains(t, resp.User.Roles, models.RoleAdmin)
		assert.True(t, resp.ExpiresAt.After(time.Now()))

		claims, err := jwtManager.ValidateToken(ctx, resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Username)
		assert.Equal(t, resp.User.ID, claims.UserID)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		w := do(http.MethodPost, "/api/auth/login", models.LoginRequest{Username: "admin", Password: "nope-nope-nope"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("admin registers a new user who can then log in", func(t *testing.T) {
		adminToken := login(t, "admin", helpers.DefaultAdminPassword).Token

		w := do(http.MethodPost, "/api/auth/register", models.RegisterRequest{
			Username: memberUsername,
			Password: helpers.DefaultTestUser.Password,
		}, adminToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created models.UserInfo
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(t, memberUsername, created.Username)
		assert.Equal(t, []string{models.RoleUser}, created.Roles)

		resp := login(t, memberUsername, helpers.DefaultTestUser.Password)
		assert.Equal(t, memberUsername, resp.User.Username)
	})

	t.Run("registration requires the admin role", func(t *testing.T) {
		memberToken := login(t, memberUsername, helpers.DefaultTestUser.Password).Token

		w := do(http.MethodPost, "/api/auth/register", models.RegisterRequest{
			Username: helpers.UniqueUsername("intruder"),
			Password: "whatever-12345",
		}, memberToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("me returns the authenticated profile", func(t *testing.T) {
		memberToken := login(t, memberUsername, helpers.DefaultTestUser.Password).Token

		w := do(http.MethodGet, "/api/auth/me", nil, memberToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var info models.UserInfo
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
		assert.Equal(t, memberUsername, info.Username)

		w = do(http.MethodGet, "/api/auth/me", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("users survive a new store instance", func(t *testing.T) {
		fresh := userstore.NewPostgresStore(testDB.Pool)
		user, err := fresh.GetByUsername(ctx, memberUsername)
		require.NoError(t, err)
		assert.Equal(t, memberUsername, user.Username)
		assert.NotEmpty(t, user.HashedPassword)
		assert.NotEqual(t, helpers.DefaultTestUser.Password, user.HashedPassword)

		assert.GreaterOrEqual(t, testDB.GetUserCount(t), 2)
	})
}
