package provision

import (
	"context"
	"fmt"
	"log"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
)

// ARMResourceGroups ensures resource groups through the Azure Resource
// Manager API. Credentials come from the default chain (environment,
// workload identity, managed identity, CLI).
type ARMResourceGroups struct {
	credential azcore.TokenCredential
}

// NewARMResourceGroups builds the ensurer using the default Azure
// credential chain.
func NewARMResourceGroups() (*ARMResourceGroups, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("build azure credential: %w", err)
	}
	return &ARMResourceGroups{credential: cred}, nil
}

// EnsureResourceGroup creates or updates the resource group in the
// given subscription. CreateOrUpdate is idempotent, so an existing
// group with the same name is left as is.
func (a *ARMResourceGroups) EnsureResourceGroup(ctx context.Context, subscriptionID, name, region string) error {
	client, err := armresources.NewResourceGroupsClient(subscriptionID, a.credential, nil)
	if err != nil {
		return fmt.Errorf("build resource groups client: %w", err)
	}

	_, err = client.CreateOrUpdate(ctx, name, armresources.ResourceGroup{
		Location: to.Ptr(region),
		Tags: map[string]*string{
			"ManagedBy": to.Ptr("azure-integration-app"),
		},
	}, nil)
	if err != nil {
		return fmt.Errorf("create resource group %s: %w", name, err)
	}

	log.Printf(`{"level":"info","component":"provisioner","msg":"resource group ensured","resource_group":"%s","region":"%s"}`, name, region)
	return nil
}
