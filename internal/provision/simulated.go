package provision

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"fmt"
	"log"
	"math/big"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/ssh"

	"github.com/ammybawa/Azure-Integration-App/internal/models"
)

var tracer = otel.Tracer("provisioner")

var resourceProviders = map[models.ResourceType]string{
	models.ResourceTypeVirtualMachine: "Microsoft.Compute/virtualMachines",
	models.ResourceTypeVirtualNetwork: "Microsoft.Network/virtualNetworks",
	models.ResourceTypeStorageAccount: "Microsoft.Storage/storageAccounts",
	models.ResourceTypeAKSCluster:     "Microsoft.ContainerService/managedClusters",
	models.ResourceTypePostgreSQL:     "Microsoft.DBforPostgreSQL/flexibleServers",
	models.ResourceTypeMySQL:          "Microsoft.DBforMySQL/flexibleServers",
	models.ResourceTypeSQLDatabase:    "Microsoft.Sql/servers",
	models.ResourceTypeCosmosDB:       "Microsoft.DocumentDB/databaseAccounts",
}

// Simulated fabricates creation results in the real ARM resource ID
// format without calling Azure. It generates genuine SSH key pairs and
// admin passwords so downstream handling of secrets is exercised
// end to end.
type Simulated struct {
	// Delay approximates provisioning latency so timeout and
	// cancellation paths behave like the real backend.
	Delay time.Duration
}

// NewSimulated creates the simulated provisioner
func NewSimulated() *Simulated {
	return &Simulated{Delay: 100 * time.Millisecond}
}

// EnsureResourceGroup records the request and succeeds. The simulated
// backend has no state to create.
func (s *Simulated) EnsureResourceGroup(ctx context.Context, subscriptionID, name, region string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log.Printf(`{"level":"info","component":"provisioner","msg":"simulated resource group ensured","resource_group":"%s","region":"%s"}`, name, region)
	return nil
}

// Create builds a creation result for the requested resource. The
// resource ID follows the ARM convention so clients can treat simulated
// and real results identically.
func (s *Simulated) Create(ctx context.Context, req Request) (*models.CreationResult, error) {
	ctx, span := tracer.Start(ctx, "provision.simulated_create")
	defer span.End()
	span.SetAttributes(
		attribute.String("resource_type", string(req.ResourceType)),
		attribute.String("resource_group", req.ResourceGroup),
		attribute.String("region", req.Region),
	)

	provider, ok := resourceProviders[req.ResourceType]
	if !ok {
		return &models.CreationResult{
			Success:      false,
			ResourceType: string(req.ResourceType),
			Region:       req.Region,
			Error:        fmt.Sprintf("unsupported resource type: %s", req.ResourceType),
		}, nil
	}

	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	name := stringConfig(req.Config, "name", "unnamed")
	result := &models.CreationResult{
		Success:      true,
		ResourceID:   fmt.Sprintf("/subscriptions/%s/resourceGroups/%s/providers/%s/%s", req.SubscriptionID, req.ResourceGroup, provider, name),
		ResourceName: name,
		ResourceType: req.ResourceType.DisplayName(),
		Region:       req.Region,
		Details:      map[string]string{},
	}

	switch req.ResourceType {
	case models.ResourceTypeVirtualMachine:
		result.Details["size"] = stringConfig(req.Config, "size", "Standard_B2s")
		result.Details["os_image"] = stringConfig(req.Config, "os_image", "Ubuntu2204")
		result.Details["admin_username"] = stringConfig(req.Config, "admin_username", "azureuser")
		if boolConfig(req.Config, "create_public_ip", true) {
			result.Details["public_ip"] = "pending-assignment"
		}
		if boolConfig(req.Config, "generate_ssh_key", true) {
			pub, priv, err := generateSSHKeyPair()
			if err != nil {
				return nil, fmt.Errorf("generate ssh key pair: %w", err)
			}
			result.Details["ssh_public_key"] = pub
			result.Details["private_key"] = priv
		}

	case models.ResourceTypeVirtualNetwork:
		result.Details["address_space"] = stringConfig(req.Config, "address_space", "10.0.0.0/16")

	case models.ResourceTypeStorageAccount:
		result.Details["blob_endpoint"] = fmt.Sprintf("https://%s.blob.core.windows.net/", name)
		result.Details["connection_string"] = fmt.Sprintf("DefaultEndpointsProtocol=https;AccountName=%s;AccountKey=%s;EndpointSuffix=core.windows.net", name, randomToken(64))

	case models.ResourceTypeAKSCluster:
		result.Details["fqdn"] = fmt.Sprintf("%s-%s.hcp.%s.azmk8s.io", stringConfig(req.Config, "dns_prefix", name), randomToken(6), req.Region)
		result.Details["node_count"] = fmt.Sprintf("%d", intConfig(req.Config, "node_count", 3))
		result.Details["kubernetes_version"] = stringConfig(req.Config, "kubernetes_version", "1.28")

	case models.ResourceTypePostgreSQL:
		result.Details["fqdn"] = fmt.Sprintf("%s.postgres.database.azure.com", name)
		result.Details["admin_username"] = stringConfig(req.Config, "admin_username", "pgadmin")
		result.Details["admin_password"] = randomPassword(24)

	case models.ResourceTypeMySQL:
		result.Details["fqdn"] = fmt.Sprintf("%s.mysql.database.azure.com", name)
		result.Details["admin_username"] = stringConfig(req.Config, "admin_username", "mysqladmin")
		result.Details["admin_password"] = randomPassword(24)

	case models.ResourceTypeSQLDatabase:
		server := stringConfig(req.Config, "server_name", name+"-server")
		result.ResourceID = fmt.Sprintf("/subscriptions/%s/resourceGroups/%s/providers/Microsoft.Sql/servers/%s/databases/%s", req.SubscriptionID, req.ResourceGroup, server, name)
		result.Details["server_fqdn"] = fmt.Sprintf("%s.database.windows.net", server)
		result.Details["tier"] = stringConfig(req.Config, "tier", "Basic")
		result.Details["admin_username"] = stringConfig(req.Config, "admin_username", "sqladmin")
		result.Details["admin_password"] = randomPassword(24)

	case models.ResourceTypeCosmosDB:
		result.Details["endpoint"] = fmt.Sprintf("https://%s.documents.azure.com:443/", name)
		result.Details["api_type"] = stringConfig(req.Config, "api_type", "SQL")
		result.Details["connection_string"] = fmt.Sprintf("AccountEndpoint=https://%s.documents.azure.com:443/;AccountKey=%s;", name, randomToken(64))
	}

	log.Printf(`{"level":"info","component":"provisioner","msg":"simulated resource created","resource_type":"%s","name":"%s"}`, req.ResourceType, name)
	return result, nil
}

func generateSSHKeyPair() (publicKey, privateKey string, err error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", "", err
	}

	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		return "", "", err
	}

	block, err := ssh.MarshalPrivateKey(priv, "")
	if err != nil {
		return "", "", err
	}

	return string(ssh.MarshalAuthorizedKey(sshPub)), string(pem.EncodeToMemory(block)), nil
}

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!#$%&*()-_=+"
const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomFrom(alphabet string, length int) string {
	out := make([]byte, length)
	max := big.NewInt(int64(len(alphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			panic(err)
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out)
}

func randomPassword(length int) string {
	return randomFrom(passwordAlphabet, length)
}

func randomToken(length int) string {
	return randomFrom(tokenAlphabet, length)
}

func stringConfig(config map[string]interface{}, key, fallback string) string {
	if v, ok := config[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func intConfig(config map[string]interface{}, key string, fallback int) int {
	switch v := config[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return fallback
}

func boolConfig(config map[string]interface{}, key string, fallback bool) bool {
	if v, ok := config[key].(bool); ok {
		return v
	}
	return fallback
}
