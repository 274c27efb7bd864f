package pricing

import (
	"fmt"
	"math"

	"github.com/ammybawa/Azure-Integration-App/internal/models"
)

const defaultDisclaimer = "Estimates are approximate and may vary based on actual usage."

// Approximate monthly USD prices. These are static estimates; the retail
// client can refresh individual figures from the Azure Retail Prices API.
var (
	vmSizeMonthly = map[string]float64{
		"Standard_B1s":    7.59,
		"Standard_B2s":    30.37,
		"Standard_B2ms":   60.74,
		"Standard_D2s_v3": 70.08,
		"Standard_D4s_v3": 140.16,
		"Standard_D8s_v3": 280.32,
		"Standard_E2s_v3": 91.98,
		"Standard_E4s_v3": 183.96,
		"Standard_F2s_v2": 62.05,
		"Standard_F4s_v2": 123.37,
	}

	storageSKUPerGB = map[string]float64{
		"Standard_LRS":   0.018,
		"Standard_GRS":   0.036,
		"Standard_RAGRS": 0.043,
		"Standard_ZRS":   0.023,
		"Premium_LRS":    0.15,
		"Premium_ZRS":    0.188,
	}

	diskTypePerGB = map[string]float64{
		"Standard_LRS":    0.04,
		"StandardSSD_LRS": 0.075,
		"Premium_LRS":     0.132,
	}

	postgresSKUMonthly = map[string]float64{
		"Standard_B1ms":   12.41,
		"Standard_B2s":    24.82,
		"Standard_D2s_v3": 98.55,
		"Standard_D4s_v3": 197.10,
		"Standard_E2s_v3": 130.34,
	}

	mysqlSKUMonthly = map[string]float64{
		"Standard_B1ms":    12.41,
		"Standard_B2s":     24.82,
		"Standard_D2ds_v4": 98.55,
		"Standard_D4ds_v4": 197.10,
		"Standard_E2ds_v4": 130.34,
	}

	sqlTierMonthly = map[string]float64{
		"Basic":            4.99,
		"Standard":         14.72,
		"Premium":          465.00,
		"GeneralPurpose":   330.91,
		"BusinessCritical": 661.82,
	}
)

const (
	publicIPMonthly        = 3.65  // Standard SKU
	loadBalancerMonthly    = 18.25 // Standard SKU base
	dbStoragePerGB         = 0.115 // flexible server storage
	dbBackupPerGB          = 0.095
	cosmosRUPer100PerHour  = 0.008
	cosmosStoragePerGB     = 0.25
	hoursPerMonth          = 730
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func configString(config map[string]interface{}, key, fallback string) string {
	if v, ok := config[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func configInt(config map[string]interface{}, key string, fallback int) int {
	switch v := config[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return fallback
}

func configBool(config map[string]interface{}, key string, fallback bool) bool {
	if v, ok := config[key].(bool); ok {
		return v
	}
	return fallback
}

// Estimator produces monthly cost projections from the static tables.
// Estimation is pure and never touches the network; it is called inline
// in the confirmation transition.
type Estimator struct{}

// NewEstimator creates a cost estimator
func NewEstimator() *Estimator {
	return &Estimator{}
}

// Estimate returns the projected monthly cost for a resource
// configuration. Unknown resource types yield a zero estimate with an
// explanatory disclaimer.
func (e *Estimator) Estimate(rt models.ResourceType, config map[string]interface{}) models.CostEstimate {
	switch rt {
	case models.ResourceTypeVirtualMachine:
		return e.estimateVM(
			configString(config, "size", "Standard_B2s"),
			configString(config, "os_disk_type", "Standard_LRS"),
			configBool(config, "create_public_ip", true),
		)
	case models.ResourceTypeVirtualNetwork:
		return e.estimateVNet()
	case models.ResourceTypeStorageAccount:
		return e.estimateStorage(
			configString(config, "sku", "Standard_LRS"),
			configInt(config, "estimated_storage_gb", 100),
		)
	case models.ResourceTypeAKSCluster:
		return e.estimateAKS(
			configInt(config, "node_count", 3),
			configString(config, "node_vm_size", "Standard_D2s_v3"),
		)
	case models.ResourceTypePostgreSQL:
		return e.estimatePostgreSQL(
			configString(config, "sku", "Standard_B1ms"),
			configInt(config, "storage_gb", 32),
		)
	case models.ResourceTypeMySQL:
		return e.estimateMySQL(
			configString(config, "sku", "Standard_B1ms"),
			configInt(config, "storage_gb", 32),
		)
	case models.ResourceTypeSQLDatabase:
		return e.estimateSQLDatabase(configString(config, "tier", "Basic"))
	case models.ResourceTypeCosmosDB:
		return e.estimateCosmosDB(configBool(config, "enable_free_tier", false), 400, 5)
	}

	return models.CostEstimate{
		ResourceType:         string(rt),
		EstimatedMonthlyCost: 0,
		Currency:             "USD",
		Breakdown:            []models.CostItem{},
		Disclaimer:           "Cost estimation not available for this resource type.",
	}
}

func (e *Estimator) estimateVM(size, osDiskType string, hasPublicIP bool) models.CostEstimate {
	const osDiskSizeGB = 30

	vmCost, ok := vmSizeMonthly[size]
	if !ok {
		vmCost = 50.0
	}
	breakdown := []models.CostItem{
		{Component: "VM Compute", Details: size, MonthlyCost: vmCost},
	}
	total := vmCost

	perGB, ok := diskTypePerGB[osDiskType]
	if !ok {
		perGB = 0.04
	}
	diskCost := perGB * osDiskSizeGB
	breakdown = append(breakdown, models.CostItem{
		Component:   "OS Disk",
		Details:     fmt.Sprintf("%d GB (%s)", osDiskSizeGB, osDiskType),
		MonthlyCost: round2(diskCost),
	})
	total += diskCost

	if hasPublicIP {
		breakdown = append(breakdown, models.CostItem{
			Component:   "Public IP",
			Details:     "Standard SKU",
			MonthlyCost: publicIPMonthly,
		})
		total += publicIPMonthly
	}

	return models.CostEstimate{
		ResourceType:         "Virtual Machine",
		EstimatedMonthlyCost: round2(total),
		Currency:             "USD",
		Breakdown:            breakdown,
		Disclaimer:           defaultDisclaimer,
	}
}

func (e *Estimator) estimateVNet() models.CostEstimate {
	return models.CostEstimate{
		ResourceType:         "Virtual Network",
		EstimatedMonthlyCost: 0,
		Currency:             "USD",
		Breakdown: []models.CostItem{
			{Component: "Virtual Network", Details: "No charge for VNet itself", MonthlyCost: 0},
			{Component: "VNet Peering (if used)", Details: "~$0.01/GB data transfer", MonthlyCost: 0},
		},
		Disclaimer: "VNets are free. Costs apply for peering, VPN gateways, and data transfer.",
	}
}

func (e *Estimator) estimateStorage(sku string, estimatedGB int) models.CostEstimate {
	perGB, ok := storageSKUPerGB[sku]
	if !ok {
		perGB = 0.02
	}
	storageCost := perGB * float64(estimatedGB)
	opsCost := float64(estimatedGB) * 0.001

	return models.CostEstimate{
		ResourceType:         "Storage Account",
		EstimatedMonthlyCost: round2(storageCost + opsCost),
		Currency:             "USD",
		Breakdown: []models.CostItem{
			{Component: "Blob Storage", Details: fmt.Sprintf("%d GB (%s)", estimatedGB, sku), MonthlyCost: round2(storageCost)},
			{Component: "Operations & Bandwidth", Details: "Usage-based (estimate)", MonthlyCost: round2(opsCost)},
		},
		Disclaimer: "Storage costs vary based on actual usage, operations, and data transfer.",
	}
}

func (e *Estimator) estimateAKS(nodeCount int, nodeVMSize string) models.CostEstimate {
	breakdown := []models.CostItem{
		{Component: "AKS Management (Free)", Details: "No uptime SLA", MonthlyCost: 0},
	}
	total := 0.0

	nodeCost, ok := vmSizeMonthly[nodeVMSize]
	if !ok {
		nodeCost = 70.0
	}
	nodesCost := nodeCost * float64(nodeCount)
	breakdown = append(breakdown, models.CostItem{
		Component:   "Node Pool VMs",
		Details:     fmt.Sprintf("%dx %s", nodeCount, nodeVMSize),
		MonthlyCost: round2(nodesCost),
	})
	total += nodesCost

	breakdown = append(breakdown, models.CostItem{
		Component:   "Load Balancer",
		Details:     "Standard SKU (estimated)",
		MonthlyCost: loadBalancerMonthly,
	})
	total += loadBalancerMonthly

	diskCost := 0.04 * 128 * float64(nodeCount)
	breakdown = append(breakdown, models.CostItem{
		Component:   "Node OS Disks",
		Details:     fmt.Sprintf("%dx 128GB Standard", nodeCount),
		MonthlyCost: round2(diskCost),
	})
	total += diskCost

	return models.CostEstimate{
		ResourceType:         "AKS Cluster",
		EstimatedMonthlyCost: round2(total),
		Currency:             "USD",
		Breakdown:            breakdown,
		Disclaimer:           "AKS costs vary based on node scaling, storage, and network usage.",
	}
}

func (e *Estimator) estimatePostgreSQL(sku string, storageGB int) models.CostEstimate {
	computeCost, ok := postgresSKUMonthly[sku]
	if !ok {
		computeCost = 12.41
	}
	storageCost := dbStoragePerGB * float64(storageGB)
	backupCost := dbBackupPerGB * float64(storageGB)

	return models.CostEstimate{
		ResourceType:         "PostgreSQL Database",
		EstimatedMonthlyCost: round2(computeCost + storageCost + backupCost),
		Currency:             "USD",
		Breakdown: []models.CostItem{
			{Component: "Compute", Details: sku, MonthlyCost: computeCost},
			{Component: "Storage", Details: fmt.Sprintf("%d GB", storageGB), MonthlyCost: round2(storageCost)},
			{Component: "Backup Storage", Details: "Estimated", MonthlyCost: round2(backupCost)},
		},
		Disclaimer: "Costs may vary based on actual compute usage and data transfer.",
	}
}

func (e *Estimator) estimateMySQL(sku string, storageGB int) models.CostEstimate {
	computeCost, ok := mysqlSKUMonthly[sku]
	if !ok {
		computeCost = 12.41
	}
	storageCost := dbStoragePerGB * float64(storageGB)

	return models.CostEstimate{
		ResourceType:         "MySQL Database",
		EstimatedMonthlyCost: round2(computeCost + storageCost),
		Currency:             "USD",
		Breakdown: []models.CostItem{
			{Component: "Compute", Details: sku, MonthlyCost: computeCost},
			{Component: "Storage", Details: fmt.Sprintf("%d GB", storageGB), MonthlyCost: round2(storageCost)},
		},
		Disclaimer: "Costs may vary based on actual compute usage and data transfer.",
	}
}

func (e *Estimator) estimateSQLDatabase(tier string) models.CostEstimate {
	cost, ok := sqlTierMonthly[tier]
	if !ok {
		cost = 4.99
	}
	return models.CostEstimate{
		ResourceType:         "Azure SQL Database",
		EstimatedMonthlyCost: round2(cost),
		Currency:             "USD",
		Breakdown: []models.CostItem{
			{Component: "SQL Database", Details: tier + " tier", MonthlyCost: cost},
		},
		Disclaimer: "Costs may vary based on DTU/vCore usage and data storage.",
	}
}

func (e *Estimator) estimateCosmosDB(freeTier bool, estimatedRUs, estimatedGB int) models.CostEstimate {
	var breakdown []models.CostItem
	var ruCost, storageCost float64

	if freeTier {
		breakdown = append(breakdown, models.CostItem{
			Component:   "Free Tier Discount",
			Details:     "First 400 RU/s + 5 GB free",
			MonthlyCost: 0,
		})
		ruCost = math.Max(0, float64(estimatedRUs-400)) * cosmosRUPer100PerHour / 100 * hoursPerMonth
		storageCost = math.Max(0, float64(estimatedGB-5)) * cosmosStoragePerGB
	} else {
		ruCost = float64(estimatedRUs) * cosmosRUPer100PerHour / 100 * hoursPerMonth
		storageCost = float64(estimatedGB) * cosmosStoragePerGB
	}

	breakdown = append(breakdown,
		models.CostItem{Component: "Request Units", Details: fmt.Sprintf("%d RU/s", estimatedRUs), MonthlyCost: round2(ruCost)},
		models.CostItem{Component: "Storage", Details: fmt.Sprintf("%d GB", estimatedGB), MonthlyCost: round2(storageCost)},
	)

	return models.CostEstimate{
		ResourceType:         "Cosmos DB",
		EstimatedMonthlyCost: round2(ruCost + storageCost),
		Currency:             "USD",
		Breakdown:            breakdown,
		Disclaimer:           "Costs scale with request units and storage. Free tier limited to one account per subscription.",
	}
}
