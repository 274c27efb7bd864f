package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
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

// TestProvisioningIntegration walks complete provisioning conversations
// over HTTP with sessions persisted in Postgres.
func TestProvisioningIntegration(t *testing.T) {
	testDB := helpers.NewTestDatabase(t)
	defer testDB.Close()
	testDB.CleanupTables(t)

	ctx := context.Background()

	sessions := session.NewPostgresStore(testDB.Pool, time.Hour)
	require.NoError(t, sessions.EnsureSchema(ctx))

	users := userstore.NewMemoryStore()
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

	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api")
	open := api.Group("")
	open.Use(auth.OptionalAuth(jwtManager))
	open.POST("/session", handler.CreateSession)
	open.DELETE("/session/:session_id", handler.DeleteSession)
	open.POST("/chat", handler.Chat)

	createSession := func(t *testing.T) string {
		t.Helper()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/session", nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp models.SessionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.SessionID)
		return resp.SessionID
	}

	chat := func(t *testing.T, sessionID, message string) models.ChatResponse {
		t.Helper()
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(models.ChatRequest{SessionID: sessionID, Message: message}))
		req := httptest.NewRequest(http.MethodPost, "/api/chat", &buf)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp models.ChatResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp
	}

	t.Run("storage account from welcome to created resource", func(t *testing.T) {
		sessionID := createSession(t)

		resp := chat(t, sessionID, "hello")
		assert.Equal(t, string(models.StateResourceSelection), resp.State)
		assert.Contains(t, resp.Message, "Azure")

		for _, message := range helpers.StorageAccountScript("intacct01") {
			resp = chat(t, sessionID, message)
			require.Empty(t, resp.Error, "unexpected error after %q: %s", message, resp.Message)
		}
		require.Equal(t, string(models.StateConfirmation), resp.State, resp.Message)
		assert.Contains(t, resp.Message, "intacct01")
		require.NotNil(t, resp.CostEstimate)
		assert.Greater(t, resp.CostEstimate.EstimatedMonthlyCost, 0.0)

		resp = chat(t, sessionID, "yes")
		require.Equal(t, string(models.StateCreating), resp.State, resp.Message)

		resp = chat(t, sessionID, "")
		require.Equal(t, string(models.StateCompleted), resp.State, resp.Message)
		require.NotNil(t, resp.CreatedResource)
		assert.True(t, resp.CreatedResource.Success)
		assert.Contains(t, resp.CreatedResource.ResourceID, "/providers/Microsoft.Storage/storageAccounts/intacct01")

		// Secrets belong in structured details only, never the transcript
		assert.NotEmpty(t, resp.CreatedResource.Details["connection_string"])
		assert.NotContains(t, resp.Message, resp.CreatedResource.Details["connection_string"])
	})

	t.Run("terraform hand-off instead of direct creation", func(t *testing.T) {
		sessionID := createSession(t)

		chat(t, sessionID, "hello")
		var resp models.ChatResponse
		for _, message := range helpers.VirtualNetworkScript("int-vnet") {
			resp = chat(t, sessionID, message)
		}
		require.Equal(t, string(models.StateConfirmation), resp.State, resp.Message)

		resp = chat(t, sessionID, "terraform")
		require.Equal(t, string(models.StateCompleted), resp.State, resp.Message)
		assert.NotEmpty(t, resp.TerraformCode)
		assert.True(t, strings.HasPrefix(resp.TerraformCode, "terraform {"))
		assert.Contains(t, resp.TerraformCode, `azurerm_virtual_network`)
	})

	t.Run("conversation state survives the database round trip", func(t *testing.T) {
		sessionID := createSession(t)
		chat(t, sessionID, "hello")
		chat(t, sessionID, "virtual machine")

		fresh := session.NewPostgresStore(testDB.Pool, time.Hour)
		sess, err := fresh.Get(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, models.StateSubscription, sess.State)
		assert.Equal(t, models.ResourceTypeVirtualMachine, sess.ResourceType)
		assert.NotEmpty(t, sess.Messages)
	})

	t.Run("deleting a session removes its row", func(t *testing.T) {
		sessionID := createSession(t)
		chat(t, sessionID, "hello")

		req := httptest.NewRequest(http.MethodDelete, "/api/session/"+sessionID, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		_, err := sessions.Get(ctx, sessionID)
		assert.ErrorIs(t, err, session.ErrNotFound)
	})
}
