package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammybawa/Azure-Integration-App/internal/models"
	"github.com/ammybawa/Azure-Integration-App/internal/pricing"
	"github.com/ammybawa/Azure-Integration-App/internal/provision"
	"github.com/ammybawa/Azure-Integration-App/internal/session"
	"github.com/ammybawa/Azure-Integration-App/internal/terraform"
)

const testSubscription = "12345678-1234-1234-1234-123456789012"

// failingProvisioner always returns an error so ERROR transitions can be
// exercised.
type failingProvisioner struct {
	err error
}

func (f *failingProvisioner) Create(ctx context.Context, req provision.Request) (*models.CreationResult, error) {
	return nil, f.err
}

// unsuccessfulProvisioner returns a well-formed failure result.
type unsuccessfulProvisioner struct{}

func (u *unsuccessfulProvisioner) Create(ctx context.Context, req provision.Request) (*models.CreationResult, error) {
	return &models.CreationResult{
		Success:      false,
		ResourceType: string(req.ResourceType),
		Region:       req.Region,
		Error:        "quota exceeded",
	}, nil
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	sim := provision.NewSimulated()
	sim.Delay = 0
	return NewEngine(Options{
		Store:               session.NewMemoryStore(0),
		Estimator:           pricing.NewEstimator(),
		Generator:           terraform.NewGenerator(),
		Provisioner:         sim,
		RGEnsurer:           sim,
		DefaultSubscription: testSubscription,
		ProvisionTimeout:    5 * time.Second,
	})
}

func send(t *testing.T, e *Engine, sessionID, message string) *models.ChatResponse {
	t.Helper()
	resp, err := e.ProcessMessage(context.Background(), sessionID, message)
	require.NoError(t, err)
	return resp
}

func TestEngine_WelcomeAndSelection(t *testing.T) {
	e := newTestEngine(t)

	t.Run("first message yields the welcome prompt", func(t *testing.T) {
		resp := send(t, e, "s1", "hello")
		assert.Contains(t, resp.Message, "Welcome to the Azure Provisioning Assistant")
		assert.Equal(t, string(models.StateResourceSelection), resp.State)
		assert.NotEmpty(t, resp.Options)
	})

	t.Run("unrecognized selection re-prompts", func(t *testing.T) {
		resp := send(t, e, "s1", "a pony")
		assert.Contains(t, resp.Message, "I didn't understand that")
		assert.Equal(t, string(models.StateResourceSelection), resp.State)
	})

	t.Run("valid selection moves to subscription", func(t *testing.T) {
		resp := send(t, e, "s1", "storage account")
		assert.Contains(t, resp.Message, "Great! Let's create a Storage Account.")
		assert.Contains(t, resp.Message, "Subscription ID")
		assert.Equal(t, string(models.StateSubscription), resp.State)
	})
}

func TestEngine_SubscriptionStep(t *testing.T) {
	e := newTestEngine(t)
	send(t, e, "s1", "hi")
	send(t, e, "s1", "vm")

	t.Run("short input is rejected", func(t *testing.T) {
		resp := send(t, e, "s1", "1234")
		assert.Contains(t, resp.Message, "doesn't look like a valid Subscription ID")
		assert.Equal(t, string(models.StateSubscription), resp.State)
	})

	t.Run("default uses the configured subscription", func(t *testing.T) {
		resp := send(t, e, "s1", "default")
		assert.Contains(t, resp.Message, "Resource Group")
		assert.Equal(t, string(models.StateResourceGroup), resp.State)
	})

	t.Run("default without configuration re-prompts", func(t *testing.T) {
		bare := newTestEngine(t)
		bare.defaultSubscription = ""
		send(t, bare, "s2", "hi")
		send(t, bare, "s2", "vm")
		resp := send(t, bare, "s2", "default")
		assert.Contains(t, resp.Message, "No default subscription configured")
		assert.Equal(t, string(models.StateSubscription), resp.State)
	})
}

func TestEngine_ResourceGroupStep(t *testing.T) {
	e := newTestEngine(t)
	send(t, e, "s1", "hi")
	send(t, e, "s1", "vm")
	send(t, e, "s1", testSubscription)

	t.Run("empty name re-prompts", func(t *testing.T) {
		resp := send(t, e, "s1", "new:")
		assert.Contains(t, resp.Message, "valid Resource Group name")
		assert.Equal(t, string(models.StateResourceGroup), resp.State)
	})

	t.Run("new prefix marks creation", func(t *testing.T) {
		resp := send(t, e, "s1", "new:demo-rg")
		assert.Contains(t, resp.Message, "Will create new Resource Group: **demo-rg**")
		assert.Equal(t, string(models.StateRegion), resp.State)
		assert.Equal(t, resp.Options, []string{"eastus", "westus2", "westeurope", "northeurope", "southeastasia", "australiaeast"})
	})

	t.Run("existing name is used as-is", func(t *testing.T) {
		e2 := newTestEngine(t)
		send(t, e2, "s2", "hi")
		send(t, e2, "s2", "vm")
		send(t, e2, "s2", testSubscription)
		resp := send(t, e2, "s2", "shared-rg")
		assert.Contains(t, resp.Message, "Using Resource Group: **shared-rg**")
	})
}

func TestEngine_RegionStep(t *testing.T) {
	e := newTestEngine(t)
	send(t, e, "s1", "hi")
	send(t, e, "s1", "storage")
	send(t, e, "s1", testSubscription)
	send(t, e, "s1", "new:demo-rg")

	t.Run("invalid region re-prompts", func(t *testing.T) {
		resp := send(t, e, "s1", "atlantis")
		assert.Contains(t, resp.Message, "'atlantis' is not a recognized Azure region")
		assert.Equal(t, string(models.StateRegion), resp.State)
	})

	t.Run("numeric index selects a popular region", func(t *testing.T) {
		resp := send(t, e, "s1", "2")
		assert.Equal(t, string(models.StateResourceConfig), resp.State)
		// First storage question follows immediately
		assert.Contains(t, resp.Message, "Storage Account")
	})
}

func TestEngine_FullStorageHappyPath(t *testing.T) {
	e := newTestEngine(t)
	id := "happy"

	send(t, e, id, "hi")
	send(t, e, id, "storage account")
	send(t, e, id, testSubscription)
	send(t, e, id, "new:demo-rg")
	send(t, e, id, "eastus")

	// Config questions: name, sku, kind, access tier
	resp := send(t, e, id, "mydata01")
	assert.Contains(t, resp.Message, "redundancy")

	resp = send(t, e, id, "1") // Standard_LRS
	assert.Contains(t, resp.Message, "account kind")

	resp = send(t, e, id, "") // default StorageV2
	assert.Contains(t, resp.Message, "access tier")

	resp = send(t, e, id, "Cool")

	t.Run("confirmation summarizes config and cost", func(t *testing.T) {
		assert.Equal(t, string(models.StateConfirmation), resp.State)
		assert.Contains(t, resp.Message, "Storage Account Configuration Summary")
		assert.Contains(t, resp.Message, "12345678...9012", "subscription is masked")
		assert.Contains(t, resp.Message, "**Resource Group:** demo-rg (new)")
		assert.Contains(t, resp.Message, "Name: mydata01")
		assert.Contains(t, resp.Message, "Access Tier: Cool")
		assert.Contains(t, resp.Message, "Estimated Monthly Cost")
		require.NotNil(t, resp.CostEstimate)
		require.NotNil(t, resp.ResourceSummary)
		assert.Equal(t, "eastus", resp.ResourceSummary["region"])
		assert.Equal(t, []string{"yes", "terraform", "no", "edit"}, resp.Options)
	})

	t.Run("yes answers with an in-progress message", func(t *testing.T) {
		resp := send(t, e, id, "yes")
		assert.Equal(t, string(models.StateCreating), resp.State)
		assert.Contains(t, resp.Message, "Creating resource via Azure SDK")
	})

	t.Run("next turn performs the creation", func(t *testing.T) {
		resp := send(t, e, id, "")
		assert.Equal(t, string(models.StateCompleted), resp.State)
		assert.Contains(t, resp.Message, "Resource Created Successfully")
		require.NotNil(t, resp.CreatedResource)
		assert.True(t, resp.CreatedResource.Success)
		assert.Contains(t, resp.CreatedResource.ResourceID, "/resourceGroups/demo-rg/providers/Microsoft.Storage/storageAccounts/mydata01")

		// Secrets live in the structured result, never the transcript
		assert.NotEmpty(t, resp.CreatedResource.Details["connection_string"])
		assert.NotContains(t, resp.Message, resp.CreatedResource.Details["connection_string"])
		assert.Contains(t, resp.Message, "Connection string generated")
	})

	t.Run("completed state offers a restart", func(t *testing.T) {
		resp := send(t, e, id, "thanks")
		assert.Contains(t, resp.Message, "Type 'restart' to create another resource")

		resp = send(t, e, id, "another")
		assert.Equal(t, string(models.StateResourceSelection), resp.State)
		assert.Contains(t, resp.Message, "Let's create another resource!")
	})
}

func TestEngine_InvalidConfigAnswerRetries(t *testing.T) {
	e := newTestEngine(t)
	id := "retry"

	send(t, e, id, "hi")
	send(t, e, id, "storage")
	send(t, e, id, testSubscription)
	send(t, e, id, "new:rg")
	send(t, e, id, "eastus")

	resp := send(t, e, id, "THIS_IS_NOT_VALID")
	assert.Contains(t, resp.Message, "❌")
	assert.Contains(t, resp.Message, "Please try again")
	assert.Equal(t, string(models.StateResourceConfig), resp.State)

	// The same question is still pending
	resp = send(t, e, id, "mydata01")
	assert.Contains(t, resp.Message, "redundancy")
}

func TestEngine_ConfirmationBranches(t *testing.T) {
	walkToConfirmation := func(t *testing.T, e *Engine, id string) {
		send(t, e, id, "hi")
		send(t, e, id, "vnet")
		send(t, e, id, testSubscription)
		send(t, e, id, "new:net-rg")
		send(t, e, id, "westeurope")
		send(t, e, id, "core-vnet")
		send(t, e, id, "")
		send(t, e, id, "")
		resp := send(t, e, id, "")
		require.Equal(t, string(models.StateConfirmation), resp.State)
	}

	t.Run("terraform returns generated code and completes", func(t *testing.T) {
		e := newTestEngine(t)
		walkToConfirmation(t, e, "tf")

		resp := send(t, e, "tf", "terraform")
		assert.Equal(t, string(models.StateCompleted), resp.State)
		assert.Contains(t, resp.Message, "```hcl")
		assert.Contains(t, resp.Message, "terraform init")
		assert.Contains(t, resp.TerraformCode, `resource "azurerm_virtual_network" "vnet"`)
		assert.Contains(t, resp.TerraformCode, "core-vnet")
	})

	t.Run("no cancels and restarts selection", func(t *testing.T) {
		e := newTestEngine(t)
		walkToConfirmation(t, e, "cancel")

		resp := send(t, e, "cancel", "no")
		assert.Contains(t, resp.Message, "Resource creation cancelled")
		assert.Equal(t, string(models.StateResourceSelection), resp.State)
	})

	t.Run("edit clears answers and restarts the questionnaire", func(t *testing.T) {
		e := newTestEngine(t)
		walkToConfirmation(t, e, "edit")

		resp := send(t, e, "edit", "edit")
		assert.Equal(t, string(models.StateResourceConfig), resp.State)
		assert.Contains(t, resp.Message, "name your Virtual Network")
	})

	t.Run("unknown choice re-prompts with the options", func(t *testing.T) {
		e := newTestEngine(t)
		walkToConfirmation(t, e, "huh")

		resp := send(t, e, "huh", "maybe")
		assert.Equal(t, string(models.StateConfirmation), resp.State)
		assert.Contains(t, resp.Message, "Please respond with")
	})
}

func TestEngine_VMDefaultsWalk(t *testing.T) {
	e := newTestEngine(t)
	id := "vm-defaults"

	send(t, e, id, "hi")
	send(t, e, id, "virtual machine")
	send(t, e, id, testSubscription)
	send(t, e, id, "new:vm-rg")
	send(t, e, id, "eastus")
	send(t, e, id, "web-01")

	// Empty input accepts the default for every remaining question:
	// size, os image, disk type, admin username, public IP.
	var resp *models.ChatResponse
	for i := 0; i < 5; i++ {
		resp = send(t, e, id, "")
	}
	require.Equal(t, string(models.StateConfirmation), resp.State, resp.Message)

	cfg, ok := resp.ResourceSummary["configuration"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "web-01", cfg["name"])
	assert.Equal(t, "Standard_B2s", cfg["size"])
	assert.Equal(t, "Ubuntu2204", cfg["os_image"])
	assert.Equal(t, "azureuser", cfg["admin_username"])
	assert.Equal(t, true, cfg["create_public_ip"])

	require.NotNil(t, resp.CostEstimate)
	assert.InDelta(t, 35.22, resp.CostEstimate.EstimatedMonthlyCost, 0.001)
}

func TestEngine_NoQuestionsSkipsStraightToConfirmation(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	sess, err := e.store.GetOrCreate(ctx, "zero-q")
	require.NoError(t, err)
	sess.State = models.StateRegion
	sess.ResourceType = models.ResourceType("loadbalancer")
	sess.SubscriptionID = testSubscription
	sess.ResourceGroup = "lb-rg"
	sess.CreateNewRG = true
	require.NoError(t, e.store.Put(ctx, sess))

	// A type with no registered questions never enters the
	// questionnaire; a valid region lands directly on confirmation.
	resp := send(t, e, "zero-q", "eastus")
	assert.Equal(t, string(models.StateConfirmation), resp.State)
	require.NotNil(t, resp.CostEstimate)
	assert.Equal(t, []string{"yes", "terraform", "no", "edit"}, resp.Options)
}

func TestEngine_EditKeepsIdentityMetadata(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	id := "edit-meta"

	sess, err := e.store.GetOrCreate(ctx, id)
	require.NoError(t, err)
	sess.CollectedParams["_user_id"] = "u-1"
	sess.CollectedParams["_username"] = "alice"
	require.NoError(t, e.store.Put(ctx, sess))

	send(t, e, id, "hi")
	send(t, e, id, "vnet")
	send(t, e, id, testSubscription)
	send(t, e, id, "new:net-rg")
	send(t, e, id, "westeurope")
	send(t, e, id, "core-vnet")
	send(t, e, id, "")
	send(t, e, id, "")
	resp := send(t, e, id, "")
	require.Equal(t, string(models.StateConfirmation), resp.State)

	resp = send(t, e, id, "edit")
	require.Equal(t, string(models.StateResourceConfig), resp.State)

	sess, err = e.store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "u-1", sess.CollectedParams["_user_id"])
	assert.Equal(t, "alice", sess.CollectedParams["_username"])
	assert.NotContains(t, sess.CollectedParams, "name")
	assert.NotContains(t, sess.CollectedParams, "address_space")
}

func TestEngine_ExecutionFailures(t *testing.T) {
	walkToCreating := func(t *testing.T, e *Engine, id string) {
		send(t, e, id, "hi")
		send(t, e, id, "vnet")
		send(t, e, id, testSubscription)
		send(t, e, id, "existing-rg")
		send(t, e, id, "eastus")
		send(t, e, id, "core-vnet")
		send(t, e, id, "")
		send(t, e, id, "")
		send(t, e, id, "")
		resp := send(t, e, id, "yes")
		require.Equal(t, string(models.StateCreating), resp.State)
	}

	t.Run("provisioner error transitions to error state", func(t *testing.T) {
		e := newTestEngine(t)
		e.provisioner = &failingProvisioner{err: errors.New("arm throttled")}
		walkToCreating(t, e, "err")

		resp := send(t, e, "err", "")
		assert.Equal(t, string(models.StateError), resp.State)
		assert.Contains(t, resp.Message, "An error occurred")
		assert.Equal(t, "arm throttled", resp.Error)

		// Restart recovers from the error state
		resp = send(t, e, "err", "restart")
		assert.Equal(t, string(models.StateResourceSelection), resp.State)
	})

	t.Run("unsuccessful result reports the failure", func(t *testing.T) {
		e := newTestEngine(t)
		e.provisioner = &unsuccessfulProvisioner{}
		walkToCreating(t, e, "fail")

		resp := send(t, e, "fail", "")
		assert.Equal(t, string(models.StateError), resp.State)
		assert.Contains(t, resp.Message, "Resource Creation Failed")
		assert.Equal(t, "quota exceeded", resp.Error)
	})
}

func TestEngine_RestartFromAnyState(t *testing.T) {
	e := newTestEngine(t)
	id := "restart"

	send(t, e, id, "hi")
	send(t, e, id, "aks")
	send(t, e, id, testSubscription)

	for _, keyword := range []string{"restart", "reset", "start over"} {
		resp := send(t, e, id, keyword)
		assert.Contains(t, resp.Message, "Session reset.", keyword)
		assert.Equal(t, string(models.StateResourceSelection), resp.State)
		// Walk forward again so the next keyword resets mid-flow
		send(t, e, id, "aks")
	}
}

func TestEngine_SessionPersistsAcrossTurns(t *testing.T) {
	store := session.NewMemoryStore(0)
	sim := provision.NewSimulated()
	sim.Delay = 0
	e := NewEngine(Options{
		Store:       store,
		Estimator:   pricing.NewEstimator(),
		Generator:   terraform.NewGenerator(),
		Provisioner: sim,
		RGEnsurer:   sim,
	})

	send(t, e, "p1", "hi")
	send(t, e, "p1", "mysql")

	sess, err := store.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, models.ResourceTypeMySQL, sess.ResourceType)
	assert.Equal(t, models.StateSubscription, sess.State)
	assert.Len(t, sess.Messages, 4, "two user turns and two assistant replies")
	assert.Equal(t, "user", sess.Messages[0].Role)
	assert.Equal(t, "assistant", sess.Messages[1].Role)
}

func TestEngine_ReleaseSession(t *testing.T) {
	e := newTestEngine(t)
	send(t, e, "gone", "hi")

	e.mu.Lock()
	_, held := e.locks["gone"]
	e.mu.Unlock()
	require.True(t, held)

	e.ReleaseSession("gone")

	e.mu.Lock()
	_, held = e.locks["gone"]
	e.mu.Unlock()
	assert.False(t, held)
}

func TestEngine_ConcurrentMessagesSameSession(t *testing.T) {
	e := newTestEngine(t)

	done := make(chan bool)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := e.ProcessMessage(context.Background(), "conc", "vm")
			assert.NoError(t, err)
			done <- true
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
