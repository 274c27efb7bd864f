package models

// ResourceType identifies the kind of Azure resource being configured
type ResourceType string

const (
	ResourceTypeVirtualMachine ResourceType = "vm"
	ResourceTypeVirtualNetwork ResourceType = "vnet"
	ResourceTypeStorageAccount ResourceType = "storage"
	ResourceTypeAKSCluster     ResourceType = "aks"
	ResourceTypePostgreSQL     ResourceType = "postgresql"
	ResourceTypeMySQL          ResourceType = "mysql"
	ResourceTypeSQLDatabase    ResourceType = "sqldb"
	ResourceTypeCosmosDB       ResourceType = "cosmosdb"
)

// DisplayName returns the human-readable name for a resource type
func (rt ResourceType) DisplayName() string {
	switch rt {
	case ResourceTypeVirtualMachine:
		return "Virtual Machine"
	case ResourceTypeVirtualNetwork:
		return "Virtual Network"
	case ResourceTypeStorageAccount:
		return "Storage Account"
	case ResourceTypeAKSCluster:
		return "AKS Cluster"
	case ResourceTypePostgreSQL:
		return "PostgreSQL Database"
	case ResourceTypeMySQL:
		return "MySQL Database"
	case ResourceTypeSQLDatabase:
		return "Azure SQL Database"
	case ResourceTypeCosmosDB:
		return "Cosmos DB"
	}
	return "Resource"
}

// CreationResult is the outcome reported by a provisioning collaborator.
// Expected failures (auth, name conflicts, quota) are captured in Error;
// the collaborator never panics past this boundary.
type CreationResult struct {
	Success      bool              `json:"success"`
	ResourceID   string            `json:"resource_id,omitempty"`
	ResourceName string            `json:"resource_name,omitempty"`
	ResourceType string            `json:"resource_type,omitempty"`
	Region       string            `json:"region,omitempty"`
	Details      map[string]string `json:"details,omitempty"`
	Error        string            `json:"error,omitempty"`
}

// CostItem is one line of a cost estimate breakdown
type CostItem struct {
	Component   string  `json:"component"`
	Details     string  `json:"details"`
	MonthlyCost float64 `json:"monthly_cost"`
}

// CostEstimate is the monthly cost projection shown at confirmation
type CostEstimate struct {
	ResourceType          string     `json:"resource_type"`
	EstimatedMonthlyCost  float64    `json:"estimated_monthly_cost"`
	Currency              string     `json:"currency"`
	Breakdown             []CostItem `json:"breakdown"`
	Disclaimer            string     `json:"disclaimer"`
}
