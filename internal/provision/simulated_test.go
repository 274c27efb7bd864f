package provision

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammybawa/Azure-Integration-App/internal/models"
)

const testSubscription = "12345678-1234-1234-1234-123456789012"

func TestSimulated_CreateVM(t *testing.T) {
	p := NewSimulated()
	p.Delay = 0

	result, err := p.Create(context.Background(), Request{
		ResourceType:   models.ResourceTypeVirtualMachine,
		SubscriptionID: testSubscription,
		ResourceGroup:  "my-rg",
		Region:         "eastus",
		Config: map[string]interface{}{
			"name":             "web-01",
			"size":             "Standard_B2s",
			"admin_username":   "deploy",
			"create_public_ip": true,
			"generate_ssh_key": true,
		},
	})
	require.NoError(t, err)
	require.True(t, result.Success)

	t.Run("resource id follows the ARM convention", func(t *testing.T) {
		assert.Equal(t,
			"/subscriptions/"+testSubscription+"/resourceGroups/my-rg/providers/Microsoft.Compute/virtualMachines/web-01",
			result.ResourceID)
		assert.Equal(t, "web-01", result.ResourceName)
		assert.Equal(t, "Virtual Machine", result.ResourceType)
		assert.Equal(t, "eastus", result.Region)
	})

	t.Run("generates a real ssh key pair", func(t *testing.T) {
		pub := result.Details["ssh_public_key"]
		priv := result.Details["private_key"]
		assert.True(t, strings.HasPrefix(pub, "ssh-ed25519 "), pub)
		assert.Contains(t, priv, "BEGIN OPENSSH PRIVATE KEY")
	})

	t.Run("public ip is pending assignment", func(t *testing.T) {
		assert.Equal(t, "pending-assignment", result.Details["public_ip"])
	})
}

func TestSimulated_CreateDatabases(t *testing.T) {
	p := NewSimulated()
	p.Delay = 0
	ctx := context.Background()

	t.Run("postgresql gets an fqdn and generated password", func(t *testing.T) {
		result, err := p.Create(ctx, Request{
			ResourceType:   models.ResourceTypePostgreSQL,
			SubscriptionID: testSubscription,
			ResourceGroup:  "rg",
			Region:         "westeurope",
			Config:         map[string]interface{}{"name": "orders-db", "admin_username": "pgadmin"},
		})
		require.NoError(t, err)
		require.True(t, result.Success)

		assert.Equal(t, "orders-db.postgres.database.azure.com", result.Details["fqdn"])
		assert.Equal(t, "pgadmin", result.Details["admin_username"])
		assert.Len(t, result.Details["admin_password"], 24)
	})

	t.Run("sql database id nests under its server", func(t *testing.T) {
		result, err := p.Create(ctx, Request{
			ResourceType:   models.ResourceTypeSQLDatabase,
			SubscriptionID: testSubscription,
			ResourceGroup:  "rg",
			Region:         "eastus",
			Config:         map[string]interface{}{"name": "appdb", "server_name": "appdb-server"},
		})
		require.NoError(t, err)

		assert.Equal(t,
			"/subscriptions/"+testSubscription+"/resourceGroups/rg/providers/Microsoft.Sql/servers/appdb-server/databases/appdb",
			result.ResourceID)
		assert.Equal(t, "appdb-server.database.windows.net", result.Details["server_fqdn"])
	})

	t.Run("cosmos db gets endpoint and connection string", func(t *testing.T) {
		result, err := p.Create(ctx, Request{
			ResourceType:   models.ResourceTypeCosmosDB,
			SubscriptionID: testSubscription,
			ResourceGroup:  "rg",
			Region:         "eastus",
			Config:         map[string]interface{}{"name": "catalog"},
		})
		require.NoError(t, err)

		assert.Equal(t, "https://catalog.documents.azure.com:443/", result.Details["endpoint"])
		assert.Contains(t, result.Details["connection_string"], "AccountEndpoint=https://catalog.documents.azure.com")
	})
}

func TestSimulated_CreateStorage(t *testing.T) {
	p := NewSimulated()
	p.Delay = 0

	result, err := p.Create(context.Background(), Request{
		ResourceType:   models.ResourceTypeStorageAccount,
		SubscriptionID: testSubscription,
		ResourceGroup:  "rg",
		Region:         "eastus",
		Config:         map[string]interface{}{"name": "mydata01"},
	})
	require.NoError(t, err)

	assert.Equal(t, "https://mydata01.blob.core.windows.net/", result.Details["blob_endpoint"])
	assert.Contains(t, result.Details["connection_string"], "AccountName=mydata01;AccountKey=")
}

func TestSimulated_CreateAKS(t *testing.T) {
	p := NewSimulated()
	p.Delay = 0

	result, err := p.Create(context.Background(), Request{
		ResourceType:   models.ResourceTypeAKSCluster,
		SubscriptionID: testSubscription,
		ResourceGroup:  "rg",
		Region:         "eastus",
		Config: map[string]interface{}{
			"name":       "prod",
			"dns_prefix": "prod-dns",
			"node_count": 5,
		},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.Details["fqdn"], "prod-dns-"))
	assert.True(t, strings.HasSuffix(result.Details["fqdn"], ".hcp.eastus.azmk8s.io"))
	assert.Equal(t, "5", result.Details["node_count"])
}

func TestSimulated_UnsupportedType(t *testing.T) {
	p := NewSimulated()
	p.Delay = 0

	result, err := p.Create(context.Background(), Request{
		ResourceType:   models.ResourceType("mainframe"),
		SubscriptionID: testSubscription,
		ResourceGroup:  "rg",
		Region:         "eastus",
	})
	require.NoError(t, err, "unsupported types are a result failure, not an error")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "unsupported resource type")
}

func TestSimulated_ContextCancellation(t *testing.T) {
	p := NewSimulated()
	p.Delay = 5 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Create(ctx, Request{
		ResourceType:   models.ResourceTypeVirtualNetwork,
		SubscriptionID: testSubscription,
		ResourceGroup:  "rg",
		Region:         "eastus",
		Config:         map[string]interface{}{"name": "v"},
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSimulated_EnsureResourceGroup(t *testing.T) {
	p := NewSimulated()

	assert.NoError(t, p.EnsureResourceGroup(context.Background(), testSubscription, "new-rg", "eastus"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, p.EnsureResourceGroup(ctx, testSubscription, "new-rg", "eastus"))
}
