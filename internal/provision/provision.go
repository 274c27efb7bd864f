// Package provision creates Azure resources from assembled
// configurations. The simulated provisioner is the default backend; the
// ARM-backed resource group ensurer is used when real credentials are
// configured.
package provision

import (
	"context"

	"github.com/ammybawa/Azure-Integration-App/internal/models"
)

// Request carries everything a provisioner needs to create one resource.
type Request struct {
	ResourceType  models.ResourceType
	SubscriptionID string
	ResourceGroup string
	Region        string
	Config        map[string]interface{}
}

// Provisioner creates a single Azure resource. Implementations must
// honor context cancellation and report failures through the result's
// Error field rather than panicking.
type Provisioner interface {
	Create(ctx context.Context, req Request) (*models.CreationResult, error)
}

// ResourceGroupEnsurer creates a resource group if it does not already
// exist.
type ResourceGroupEnsurer interface {
	EnsureResourceGroup(ctx context.Context, subscriptionID, name, region string) error
}
