package schema

import (
	"regexp"
	"strings"

	"github.com/ammybawa/Azure-Integration-App/internal/models"
)

// Option sets shared between questions, provisioning, and pricing

var VMSizes = []string{
	"Standard_B1s",
	"Standard_B2s",
	"Standard_B2ms",
	"Standard_D2s_v3",
	"Standard_D4s_v3",
	"Standard_D8s_v3",
	"Standard_E2s_v3",
	"Standard_E4s_v3",
	"Standard_F2s_v2",
	"Standard_F4s_v2",
}

// OSImage maps a friendly image name to its Azure marketplace reference
type OSImage struct {
	Publisher string
	Offer     string
	SKU       string
	Version   string
}

// OSImageNames is the selectable image set, in menu order
var OSImageNames = []string{
	"Ubuntu2204",
	"Ubuntu2004",
	"WindowsServer2022",
	"WindowsServer2019",
	"RHEL8",
	"Debian11",
}

// OSImages resolves image names to marketplace references
var OSImages = map[string]OSImage{
	"Ubuntu2204":        {Publisher: "Canonical", Offer: "0001-com-ubuntu-server-jammy", SKU: "22_04-lts-gen2", Version: "latest"},
	"Ubuntu2004":        {Publisher: "Canonical", Offer: "0001-com-ubuntu-server-focal", SKU: "20_04-lts-gen2", Version: "latest"},
	"WindowsServer2022": {Publisher: "MicrosoftWindowsServer", Offer: "WindowsServer", SKU: "2022-datacenter-g2", Version: "latest"},
	"WindowsServer2019": {Publisher: "MicrosoftWindowsServer", Offer: "WindowsServer", SKU: "2019-datacenter-g2", Version: "latest"},
	"RHEL8":             {Publisher: "RedHat", Offer: "RHEL", SKU: "8-lvm-gen2", Version: "latest"},
	"Debian11":          {Publisher: "Debian", Offer: "debian-11", SKU: "11-gen2", Version: "latest"},
}

var StorageSKUs = []string{
	"Standard_LRS",
	"Standard_GRS",
	"Standard_RAGRS",
	"Standard_ZRS",
	"Premium_LRS",
	"Premium_ZRS",
}

var StorageKinds = []string{
	"StorageV2",
	"Storage",
	"BlobStorage",
	"BlockBlobStorage",
	"FileStorage",
}

var AccessTiers = []string{"Hot", "Cool"}

var AKSVMSizes = []string{
	"Standard_D2s_v3",
	"Standard_D4s_v3",
	"Standard_D8s_v3",
	"Standard_D2s_v4",
	"Standard_D4s_v4",
	"Standard_E2s_v3",
	"Standard_E4s_v3",
	"Standard_B2s",
	"Standard_B4ms",
	"Standard_F4s_v2",
}

var K8sVersions = []string{"1.28", "1.27", "1.26"}

var NetworkPlugins = []string{"azure", "kubenet"}

var PostgreSQLSKUs = []string{
	"Standard_B1ms",
	"Standard_B2s",
	"Standard_D2s_v3",
	"Standard_D4s_v3",
	"Standard_E2s_v3",
}

var PostgreSQLVersions = []string{"16", "15", "14", "13", "12"}

var MySQLSKUs = []string{
	"Standard_B1ms",
	"Standard_B2s",
	"Standard_D2ds_v4",
	"Standard_D4ds_v4",
	"Standard_E2ds_v4",
}

var MySQLVersions = []string{"8.0.21", "5.7"}

var SQLTiers = []string{
	"Basic",
	"Standard",
	"Premium",
	"GeneralPurpose",
	"BusinessCritical",
}

var CosmosConsistencyLevels = []string{
	"Eventual",
	"ConsistentPrefix",
	"Session",
	"BoundedStaleness",
	"Strong",
}

// AzureRegions is the full recognized region set
var AzureRegions = []string{
	"eastus", "eastus2", "westus", "westus2", "westus3",
	"centralus", "northcentralus", "southcentralus", "westcentralus",
	"canadacentral", "canadaeast", "brazilsouth",
	"northeurope", "westeurope", "uksouth", "ukwest",
	"francecentral", "germanywestcentral", "norwayeast", "switzerlandnorth",
	"uaenorth", "southafricanorth",
	"australiaeast", "australiasoutheast",
	"centralindia", "southindia",
	"japaneast", "japanwest", "koreacentral",
	"southeastasia", "eastasia",
}

// PopularRegions is the short curated list offered for index selection
var PopularRegions = []string{
	"eastus", "westus2", "westeurope", "northeurope", "southeastasia", "australiaeast",
}

// Charset patterns referenced by question validators
var (
	cidrPattern                  = regexp.MustCompile(`^[^/]+/[^/]+$`)
	lowerAlnumPattern            = regexp.MustCompile(`^[a-z0-9]+$`)
	alnumHyphenPattern           = regexp.MustCompile(`^[A-Za-z0-9-]+$`)
	alnumHyphenUnderscorePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	lowerAlnumHyphenPattern      = regexp.MustCompile(`^[a-z0-9-]+$`)
)

var vmQuestions = []Question{
	{
		Key:        "name",
		Prompt:     "What would you like to name your Virtual Machine?",
		Validators: []Validator{{Kind: ValidatorLengthRange, Min: 1, Max: 64}},
		Error:      "VM name must be between 1 and 64 characters.",
	},
	{
		Key:     "size",
		Prompt:  "Select a VM size:",
		Options: VMSizes,
		Default: "Standard_B2s",
	},
	{
		Key:     "os_image",
		Prompt:  "Select an operating system:",
		Options: OSImageNames,
		Default: "Ubuntu2204",
	},
	{
		Key:     "os_disk_type",
		Prompt:  "Select OS disk type:",
		Options: []string{"Standard_LRS", "StandardSSD_LRS", "Premium_LRS"},
		Default: "Standard_LRS",
	},
	{
		Key:    "admin_username",
		Prompt: "Enter admin username:",
		Validators: []Validator{
			{Kind: ValidatorLengthRange, Min: 1, Max: 64},
			{Kind: ValidatorNotReserved, Reserved: []string{"admin", "administrator", "root"}},
		},
		Error:   "Username must be 1-64 characters and cannot be 'admin', 'administrator', or 'root'.",
		Default: "azureuser",
	},
	{
		Key:       "create_public_ip",
		Prompt:    "Create a public IP address for remote access?",
		Options:   []string{"yes", "no"},
		Default:   "yes",
		Transform: TransformYesNoBool,
	},
}

var vnetQuestions = []Question{
	{
		Key:        "name",
		Prompt:     "What would you like to name your Virtual Network?",
		Validators: []Validator{{Kind: ValidatorLengthRange, Min: 2, Max: 64}},
		Error:      "VNet name must be between 2 and 64 characters.",
	},
	{
		Key:        "address_space",
		Prompt:     "Enter the address space (CIDR notation, e.g., 10.0.0.0/16):",
		Validators: []Validator{{Kind: ValidatorCharset, Pattern: cidrPattern}},
		Error:      "Please enter a valid CIDR notation (e.g., 10.0.0.0/16).",
		Default:    "10.0.0.0/16",
	},
	{
		Key:     "subnet_name",
		Prompt:  "Enter the name for the default subnet:",
		Default: "default",
	},
	{
		Key:        "subnet_prefix",
		Prompt:     "Enter the subnet address prefix (e.g., 10.0.0.0/24):",
		Validators: []Validator{{Kind: ValidatorCharset, Pattern: cidrPattern}},
		Error:      "Please enter a valid CIDR notation (e.g., 10.0.0.0/24).",
		Default:    "10.0.0.0/24",
	},
}

var storageQuestions = []Question{
	{
		Key:    "name",
		Prompt: "Enter a name for your Storage Account (3-24 chars, lowercase letters and numbers only):",
		Validators: []Validator{
			{Kind: ValidatorLengthRange, Min: 3, Max: 24},
			{Kind: ValidatorCharset, Pattern: lowerAlnumPattern},
		},
		Error: "Storage account name must be 3-24 characters, lowercase letters and numbers only.",
	},
	{
		Key:     "sku",
		Prompt:  "Select storage redundancy (SKU):",
		Options: StorageSKUs,
		Default: "Standard_LRS",
	},
	{
		Key:     "kind",
		Prompt:  "Select storage account kind:",
		Options: StorageKinds,
		Default: "StorageV2",
	},
	{
		Key:     "access_tier",
		Prompt:  "Select access tier:",
		Options: AccessTiers,
		Default: "Hot",
	},
}

var aksQuestions = []Question{
	{
		Key:    "name",
		Prompt: "What would you like to name your AKS cluster?",
		Validators: []Validator{
			{Kind: ValidatorLengthRange, Min: 1, Max: 63},
			{Kind: ValidatorCharset, Pattern: alnumHyphenUnderscorePattern},
		},
		Error: "AKS name must be 1-63 characters, alphanumeric, hyphens, and underscores only.",
	},
	{
		Key:    "dns_prefix",
		Prompt: "Enter a DNS prefix for the cluster:",
		Validators: []Validator{
			{Kind: ValidatorLengthRange, Min: 1, Max: 63},
			{Kind: ValidatorCharset, Pattern: alnumHyphenPattern},
		},
		Error: "DNS prefix must be alphanumeric with optional hyphens.",
	},
	{
		Key:     "kubernetes_version",
		Prompt:  "Select Kubernetes version:",
		Options: K8sVersions,
		Default: "1.28",
	},
	{
		Key:        "node_count",
		Prompt:     "How many nodes in the default node pool? (1-100):",
		Validators: []Validator{{Kind: ValidatorNumericRange, Min: 1, Max: 100}},
		Error:      "Node count must be between 1 and 100.",
		Default:    "3",
		Transform:  TransformInt,
	},
	{
		Key:     "node_vm_size",
		Prompt:  "Select VM size for nodes:",
		Options: AKSVMSizes,
		Default: "Standard_D2s_v3",
	},
	{
		Key:     "network_plugin",
		Prompt:  "Select network plugin:",
		Options: NetworkPlugins,
		Default: "azure",
	},
}

var postgresQuestions = []Question{
	{
		Key:    "name",
		Prompt: "Enter a name for your PostgreSQL server (3-63 chars, lowercase, hyphens allowed):",
		Validators: []Validator{
			{Kind: ValidatorLengthRange, Min: 3, Max: 63},
			{Kind: ValidatorCharset, Pattern: alnumHyphenPattern},
		},
		Error: "Server name must be 3-63 characters, lowercase letters, numbers, and hyphens.",
	},
	{
		Key:     "version",
		Prompt:  "Select PostgreSQL version:",
		Options: PostgreSQLVersions,
		Default: "15",
	},
	{
		Key:     "sku",
		Prompt:  "Select compute tier/SKU:",
		Options: PostgreSQLSKUs,
		Default: "Standard_B1ms",
	},
	{
		Key:        "storage_gb",
		Prompt:     "Storage size in GB (32-16384):",
		Validators: []Validator{{Kind: ValidatorNumericRange, Min: 32, Max: 16384}},
		Error:      "Storage must be between 32 and 16384 GB.",
		Default:    "32",
		Transform:  TransformInt,
	},
	{
		Key:    "admin_username",
		Prompt: "Enter admin username:",
		Validators: []Validator{
			{Kind: ValidatorLengthRange, Min: 1, Max: 64},
			{Kind: ValidatorNotReserved, Reserved: []string{"admin", "administrator", "root", "postgres", "azure_superuser"}},
		},
		Error:   "Username cannot be reserved words like admin, postgres, root, etc.",
		Default: "pgadmin",
	},
}

var mysqlQuestions = []Question{
	{
		Key:    "name",
		Prompt: "Enter a name for your MySQL server (3-63 chars, lowercase, hyphens allowed):",
		Validators: []Validator{
			{Kind: ValidatorLengthRange, Min: 3, Max: 63},
			{Kind: ValidatorCharset, Pattern: alnumHyphenPattern},
		},
		Error: "Server name must be 3-63 characters, lowercase letters, numbers, and hyphens.",
	},
	{
		Key:     "version",
		Prompt:  "Select MySQL version:",
		Options: MySQLVersions,
		Default: "8.0.21",
	},
	{
		Key:     "sku",
		Prompt:  "Select compute tier/SKU:",
		Options: MySQLSKUs,
		Default: "Standard_B1ms",
	},
	{
		Key:        "storage_gb",
		Prompt:     "Storage size in GB (20-16384):",
		Validators: []Validator{{Kind: ValidatorNumericRange, Min: 20, Max: 16384}},
		Error:      "Storage must be between 20 and 16384 GB.",
		Default:    "32",
		Transform:  TransformInt,
	},
	{
		Key:    "admin_username",
		Prompt: "Enter admin username:",
		Validators: []Validator{
			{Kind: ValidatorLengthRange, Min: 1, Max: 64},
			{Kind: ValidatorNotReserved, Reserved: []string{"admin", "administrator", "root", "mysql", "azure_superuser"}},
		},
		Error:   "Username cannot be reserved words like admin, mysql, root, etc.",
		Default: "mysqladmin",
	},
}

var sqldbQuestions = []Question{
	{
		Key:        "name",
		Prompt:     "Enter a name for your SQL Database:",
		Validators: []Validator{{Kind: ValidatorLengthRange, Min: 1, Max: 128}},
		Error:      "Database name must be 1-128 characters.",
	},
	{
		Key:    "server_name",
		Prompt: "Enter a name for the SQL Server (will be created):",
		Validators: []Validator{
			{Kind: ValidatorLengthRange, Min: 1, Max: 63},
			{Kind: ValidatorCharset, Pattern: alnumHyphenPattern},
		},
		Error: "Server name must be 1-63 characters, lowercase letters, numbers, and hyphens.",
	},
	{
		Key:     "tier",
		Prompt:  "Select pricing tier:",
		Options: SQLTiers,
		Default: "Basic",
	},
	{
		Key:    "admin_username",
		Prompt: "Enter admin username:",
		Validators: []Validator{
			{Kind: ValidatorLengthRange, Min: 1, Max: 64},
			{Kind: ValidatorNotReserved, Reserved: []string{"admin", "administrator", "sa", "root"}},
		},
		Error:   "Username cannot be reserved words like admin, sa, root.",
		Default: "sqladmin",
	},
}

var cosmosQuestions = []Question{
	{
		Key:    "name",
		Prompt: "Enter a name for your Cosmos DB account (3-44 chars, lowercase):",
		Validators: []Validator{
			{Kind: ValidatorLengthRange, Min: 3, Max: 44},
			{Kind: ValidatorCharset, Pattern: lowerAlnumHyphenPattern},
		},
		Error: "Account name must be 3-44 characters, lowercase letters, numbers, and hyphens.",
	},
	{
		Key:     "api_type",
		Prompt:  "Select API type:",
		Options: []string{"SQL", "MongoDB", "Cassandra", "Table", "Gremlin"},
		Default: "SQL",
	},
	{
		Key:     "consistency_level",
		Prompt:  "Select default consistency level:",
		Options: CosmosConsistencyLevels,
		Default: "Session",
	},
	{
		Key:       "enable_free_tier",
		Prompt:    "Enable free tier? (400 RU/s and 5 GB free per account):",
		Options:   []string{"yes", "no"},
		Default:   "no",
		Transform: TransformYesNoBool,
	},
}

var questionsByType = map[models.ResourceType][]Question{
	models.ResourceTypeVirtualMachine: vmQuestions,
	models.ResourceTypeVirtualNetwork: vnetQuestions,
	models.ResourceTypeStorageAccount: storageQuestions,
	models.ResourceTypeAKSCluster:     aksQuestions,
	models.ResourceTypePostgreSQL:     postgresQuestions,
	models.ResourceTypeMySQL:          mysqlQuestions,
	models.ResourceTypeSQLDatabase:    sqldbQuestions,
	models.ResourceTypeCosmosDB:       cosmosQuestions,
}

// QuestionsFor returns the ordered question sequence for a resource
// type, or an empty slice for unknown types
func QuestionsFor(rt models.ResourceType) []Question {
	return questionsByType[rt]
}

// resourceKeyword pairs a selection keyword with its resource type;
// matching precedence follows slice order
type resourceKeyword struct {
	key  string
	name string
	rt   models.ResourceType
}

var resourceKeywords = []resourceKeyword{
	{"vm", "Virtual Machine", models.ResourceTypeVirtualMachine},
	{"vnet", "Virtual Network", models.ResourceTypeVirtualNetwork},
	{"storage", "Storage Account", models.ResourceTypeStorageAccount},
	{"aks", "AKS Cluster", models.ResourceTypeAKSCluster},
	{"postgresql", "PostgreSQL Database", models.ResourceTypePostgreSQL},
	{"mysql", "MySQL Database", models.ResourceTypeMySQL},
	{"sqldb", "Azure SQL Database", models.ResourceTypeSQLDatabase},
	{"cosmosdb", "Cosmos DB", models.ResourceTypeCosmosDB},
}

// ParseResourceSelection resolves free text to a resource type. Direct
// key/name substring matches take precedence, then category keyword
// fallbacks in a fixed order; a bare "database"/"db" mention defaults to
// PostgreSQL. Returns "" when nothing matches.
func ParseResourceSelection(input string) models.ResourceType {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return ""
	}

	for _, rk := range resourceKeywords {
		if strings.Contains(input, rk.key) || strings.Contains(input, strings.ToLower(rk.name)) {
			return rk.rt
		}
	}

	switch {
	case strings.Contains(input, "virtual machine"):
		return models.ResourceTypeVirtualMachine
	case strings.Contains(input, "virtual network"),
		strings.Contains(input, "network") && strings.Contains(input, "vn"):
		return models.ResourceTypeVirtualNetwork
	case strings.Contains(input, "blob"):
		return models.ResourceTypeStorageAccount
	case strings.Contains(input, "kubernetes"), strings.Contains(input, "k8s"):
		return models.ResourceTypeAKSCluster
	case strings.Contains(input, "postgres"), strings.Contains(input, "pgsql"):
		return models.ResourceTypePostgreSQL
	case strings.Contains(input, "sql") && !strings.Contains(input, "cosmos"):
		// "nosql" also lands here; the match order is a documented
		// contract, so keep it ahead of the cosmos branch.
		return models.ResourceTypeSQLDatabase
	case strings.Contains(input, "cosmos"), strings.Contains(input, "documentdb"), strings.Contains(input, "nosql"):
		return models.ResourceTypeCosmosDB
	case strings.Contains(input, "database"), strings.Contains(input, "db"):
		// Generic database mention defaults to the first database variant
		return models.ResourceTypePostgreSQL
	}

	return ""
}

// ResourceTypePrompt is the selection menu shown when asking for a
// resource type
func ResourceTypePrompt() string {
	lines := []string{
		"**Compute & Networking:**",
		"  1. Virtual Machine (VM)",
		"  2. Virtual Network (VNet)",
		"  3. AKS Cluster (Kubernetes)",
		"",
		"**Storage:**",
		"  4. Storage Account",
		"",
		"**Databases:**",
		"  5. PostgreSQL Database",
		"  6. MySQL Database",
		"  7. Azure SQL Database",
		"  8. Cosmos DB (NoSQL)",
	}
	return "What type of Azure resource would you like to create?\n\n" + strings.Join(lines, "\n")
}

// IsValidRegion reports whether the (already lowercased) region name is
// in the recognized set
func IsValidRegion(region string) bool {
	for _, r := range AzureRegions {
		if r == region {
			return true
		}
	}
	return false
}
