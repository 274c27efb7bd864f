// Package terraform renders HCL configurations for the supported Azure
// resource types. The output is meant to be handed to the user for
// review and applied by their own tooling.
package terraform

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/ammybawa/Azure-Integration-App/internal/models"
)

type imageReference struct {
	Publisher string
	Offer     string
	SKU       string
	Version   string
}

var osImageRefs = map[string]imageReference{
	"Ubuntu2204":        {"Canonical", "0001-com-ubuntu-server-jammy", "22_04-lts-gen2", "latest"},
	"Ubuntu2004":        {"Canonical", "0001-com-ubuntu-server-focal", "20_04-lts-gen2", "latest"},
	"WindowsServer2022": {"MicrosoftWindowsServer", "WindowsServer", "2022-datacenter-g2", "latest"},
	"RHEL8":             {"RedHat", "RHEL", "8-lvm-gen2", "latest"},
}

var storageAccountTiers = map[string]string{
	"Standard_LRS":   "Standard",
	"Standard_GRS":   "Standard",
	"Standard_RAGRS": "Standard",
	"Standard_ZRS":   "Standard",
	"Premium_LRS":    "Premium",
	"Premium_ZRS":    "Premium",
}

var storageReplication = map[string]string{
	"Standard_LRS":   "LRS",
	"Standard_GRS":   "GRS",
	"Standard_RAGRS": "RAGRS",
	"Standard_ZRS":   "ZRS",
	"Premium_LRS":    "LRS",
	"Premium_ZRS":    "ZRS",
}

var cosmosCapabilities = map[string]string{
	"MongoDB":   "EnableMongo",
	"Cassandra": "EnableCassandra",
	"Table":     "EnableTable",
	"Gremlin":   "EnableGremlin",
}

const providerTemplate = `terraform {
  required_providers {
{{- range .ExtraProviders}}
    {{.Name}} = {
      source  = "hashicorp/{{.Name}}"
      version = "~> {{.Version}}"
    }
{{- end}}
    azurerm = {
      source  = "hashicorp/azurerm"
      version = "~> 3.0"
    }
  }
}

provider "azurerm" {
  features {}

  # Authentication using Service Principal
  # Set these via environment variables:
  # ARM_CLIENT_ID, ARM_CLIENT_SECRET, ARM_TENANT_ID, ARM_SUBSCRIPTION_ID
}
`

const resourceGroupTemplate = `
resource "azurerm_resource_group" "rg" {
  name     = "{{.ResourceGroup}}"
  location = "{{.Region}}"

  tags = {
    Environment = "Production"
    ManagedBy   = "Terraform"
  }
}
`

const existingResourceGroupTemplate = `
# Using existing resource group
data "azurerm_resource_group" "rg" {
  name = "{{.ResourceGroup}}"
}
`

const vmTemplate = `
# Virtual Network for VM
resource "azurerm_virtual_network" "vnet_{{.Name}}" {
  name                = "{{.Name}}-vnet"
  address_space       = ["10.0.0.0/16"]
  location            = {{.RegionRef}}
  resource_group_name = {{.RGRef}}
}

# Subnet
resource "azurerm_subnet" "subnet_{{.Name}}" {
  name                 = "default"
  resource_group_name  = {{.RGRef}}
  virtual_network_name = azurerm_virtual_network.vnet_{{.Name}}.name
  address_prefixes     = ["10.0.1.0/24"]
}
{{if .CreatePublicIP}}
# Public IP
resource "azurerm_public_ip" "pip_{{.Name}}" {
  name                = "{{.Name}}-pip"
  location            = {{.RegionRef}}
  resource_group_name = {{.RGRef}}
  allocation_method   = "Static"
  sku                 = "Standard"
}
{{end}}
# Network Security Group
resource "azurerm_network_security_group" "nsg_{{.Name}}" {
  name                = "{{.Name}}-nsg"
  location            = {{.RegionRef}}
  resource_group_name = {{.RGRef}}

  security_rule {
    name                       = "{{if .IsLinux}}SSH{{else}}RDP{{end}}"
    priority                   = 1001
    direction                  = "Inbound"
    access                     = "Allow"
    protocol                   = "Tcp"
    source_port_range          = "*"
    destination_port_range     = "{{if .IsLinux}}22{{else}}3389{{end}}"
    source_address_prefix      = "*"
    destination_address_prefix = "*"
  }
}

# Network Interface
resource "azurerm_network_interface" "nic_{{.Name}}" {
  name                = "{{.Name}}-nic"
  location            = {{.RegionRef}}
  resource_group_name = {{.RGRef}}

  ip_configuration {
    name                          = "internal"
    subnet_id                     = azurerm_subnet.subnet_{{.Name}}.id
    private_ip_address_allocation = "Dynamic"{{if .CreatePublicIP}}
    public_ip_address_id          = azurerm_public_ip.pip_{{.Name}}.id{{end}}
  }
}

# NIC-NSG Association
resource "azurerm_network_interface_security_group_association" "nsg_assoc_{{.Name}}" {
  network_interface_id      = azurerm_network_interface.nic_{{.Name}}.id
  network_security_group_id = azurerm_network_security_group.nsg_{{.Name}}.id
}
{{if .IsLinux}}
# SSH Key
resource "tls_private_key" "ssh_{{.Name}}" {
  algorithm = "RSA"
  rsa_bits  = 4096
}

# Virtual Machine
resource "azurerm_linux_virtual_machine" "vm_{{.Name}}" {
  name                = "{{.Name}}"
  resource_group_name = {{.RGRef}}
  location            = {{.RegionRef}}
  size                = "{{.Size}}"
  admin_username      = "{{.AdminUsername}}"

  network_interface_ids = [
    azurerm_network_interface.nic_{{.Name}}.id,
  ]

  admin_ssh_key {
    username   = "{{.AdminUsername}}"
    public_key = tls_private_key.ssh_{{.Name}}.public_key_openssh
  }

  os_disk {
    caching              = "ReadWrite"
    storage_account_type = "{{.OSDiskType}}"
    name                 = "{{.Name}}-osdisk"
  }

  source_image_reference {
    publisher = "{{.Image.Publisher}}"
    offer     = "{{.Image.Offer}}"
    sku       = "{{.Image.SKU}}"
    version   = "{{.Image.Version}}"
  }

  tags = {
    Environment = "Production"
    ManagedBy   = "Terraform"
  }
}

# Output the private key (save securely!)
output "private_key_{{.Name}}" {
  value     = tls_private_key.ssh_{{.Name}}.private_key_pem
  sensitive = true
}
{{else}}
# Windows Virtual Machine
resource "azurerm_windows_virtual_machine" "vm_{{.Name}}" {
  name                = "{{.Name}}"
  resource_group_name = {{.RGRef}}
  location            = {{.RegionRef}}
  size                = "{{.Size}}"
  admin_username      = "{{.AdminUsername}}"
  admin_password      = "ChangeMe123!" # Change this!

  network_interface_ids = [
    azurerm_network_interface.nic_{{.Name}}.id,
  ]

  os_disk {
    caching              = "ReadWrite"
    storage_account_type = "{{.OSDiskType}}"
    name                 = "{{.Name}}-osdisk"
  }

  source_image_reference {
    publisher = "{{.Image.Publisher}}"
    offer     = "{{.Image.Offer}}"
    sku       = "{{.Image.SKU}}"
    version   = "{{.Image.Version}}"
  }

  tags = {
    Environment = "Production"
    ManagedBy   = "Terraform"
  }
}
{{end}}{{if .CreatePublicIP}}
output "public_ip_{{.Name}}" {
  value = azurerm_public_ip.pip_{{.Name}}.ip_address
}
{{end}}`

const vnetTemplate = `
# Virtual Network
resource "azurerm_virtual_network" "vnet" {
  name                = "{{.Name}}"
  address_space       = ["{{.AddressSpace}}"]
  location            = {{.RegionRef}}
  resource_group_name = {{.RGRef}}

  tags = {
    Environment = "Production"
    ManagedBy   = "Terraform"
  }
}
{{range .Subnets}}
resource "azurerm_subnet" "subnet_{{.Name}}" {
  name                 = "{{.Name}}"
  resource_group_name  = {{$.RGRef}}
  virtual_network_name = azurerm_virtual_network.vnet.name
  address_prefixes     = ["{{.AddressPrefix}}"]
}
{{end}}
output "vnet_id" {
  value = azurerm_virtual_network.vnet.id
}
`

const storageTemplate = `
# Storage Account
resource "azurerm_storage_account" "storage" {
  name                     = "{{.Name}}"
  resource_group_name      = {{.RGRef}}
  location                 = {{.RegionRef}}
  account_tier             = "{{.AccountTier}}"
  account_replication_type = "{{.Replication}}"
  account_kind             = "{{.Kind}}"
  access_tier              = "{{.AccessTier}}"

  enable_https_traffic_only = true
  min_tls_version           = "TLS1_2"

  blob_properties {
    versioning_enabled = true
  }

  tags = {
    Environment = "Production"
    ManagedBy   = "Terraform"
  }
}

output "storage_account_name" {
  value = azurerm_storage_account.storage.name
}

output "storage_account_primary_connection_string" {
  value     = azurerm_storage_account.storage.primary_connection_string
  sensitive = true
}

output "storage_account_primary_blob_endpoint" {
  value = azurerm_storage_account.storage.primary_blob_endpoint
}
`

const aksTemplate = `
# AKS Cluster
resource "azurerm_kubernetes_cluster" "aks" {
  name                = "{{.Name}}"
  location            = {{.RegionRef}}
  resource_group_name = {{.RGRef}}
  dns_prefix          = "{{.DNSPrefix}}"
  kubernetes_version  = "{{.KubernetesVersion}}"

  default_node_pool {
    name                = "nodepool1"
    node_count          = {{.NodeCount}}
    vm_size             = "{{.NodeVMSize}}"
    os_disk_size_gb     = 128
    type                = "VirtualMachineScaleSets"
    enable_auto_scaling = false
  }

  identity {
    type = "SystemAssigned"
  }

  network_profile {
    network_plugin    = "{{.NetworkPlugin}}"
    load_balancer_sku = "standard"
  }

  role_based_access_control_enabled = {{.EnableRBAC}}

  tags = {
    Environment = "Production"
    ManagedBy   = "Terraform"
  }
}

output "aks_cluster_name" {
  value = azurerm_kubernetes_cluster.aks.name
}

output "aks_cluster_id" {
  value = azurerm_kubernetes_cluster.aks.id
}

output "kube_config" {
  value     = azurerm_kubernetes_cluster.aks.kube_config_raw
  sensitive = true
}

output "aks_fqdn" {
  value = azurerm_kubernetes_cluster.aks.fqdn
}
`

const postgresTemplate = `
# Random password for PostgreSQL
resource "random_password" "pg_password" {
  length           = 24
  special          = true
  override_special = "!#$%&*()-_=+[]:?"
}

# PostgreSQL Flexible Server
resource "azurerm_postgresql_flexible_server" "postgres" {
  name                   = "{{.Name}}"
  resource_group_name    = {{.RGRef}}
  location               = {{.RegionRef}}
  version                = "{{.Version}}"
  administrator_login    = "{{.AdminUsername}}"
  administrator_password = random_password.pg_password.result
  zone                   = "1"

  storage_mb = {{.StorageMB}}

  sku_name = "{{.SKU}}"

  tags = {
    Environment = "Production"
    ManagedBy   = "Terraform"
  }
}

# Firewall rule to allow Azure services
resource "azurerm_postgresql_flexible_server_firewall_rule" "allow_azure" {
  name             = "AllowAzureServices"
  server_id        = azurerm_postgresql_flexible_server.postgres.id
  start_ip_address = "0.0.0.0"
  end_ip_address   = "0.0.0.0"
}

output "postgresql_fqdn" {
  value = azurerm_postgresql_flexible_server.postgres.fqdn
}

output "postgresql_admin_username" {
  value = azurerm_postgresql_flexible_server.postgres.administrator_login
}

output "postgresql_admin_password" {
  value     = random_password.pg_password.result
  sensitive = true
}
`

const mysqlTemplate = `
# Random password for MySQL
resource "random_password" "mysql_password" {
  length           = 24
  special          = true
  override_special = "!#$%&*()-_=+[]:?"
}

# MySQL Flexible Server
resource "azurerm_mysql_flexible_server" "mysql" {
  name                   = "{{.Name}}"
  resource_group_name    = {{.RGRef}}
  location               = {{.RegionRef}}
  version                = "{{.Version}}"
  administrator_login    = "{{.AdminUsername}}"
  administrator_password = random_password.mysql_password.result
  zone                   = "1"

  storage {
    size_gb = {{.StorageGB}}
  }

  sku_name = "{{.SKU}}"

  tags = {
    Environment = "Production"
    ManagedBy   = "Terraform"
  }
}

# Firewall rule to allow Azure services
resource "azurerm_mysql_flexible_server_firewall_rule" "allow_azure" {
  name                = "AllowAzureServices"
  resource_group_name = {{.RGRef}}
  server_name         = azurerm_mysql_flexible_server.mysql.name
  start_ip_address    = "0.0.0.0"
  end_ip_address      = "0.0.0.0"
}

output "mysql_fqdn" {
  value = azurerm_mysql_flexible_server.mysql.fqdn
}

output "mysql_admin_username" {
  value = azurerm_mysql_flexible_server.mysql.administrator_login
}

output "mysql_admin_password" {
  value     = random_password.mysql_password.result
  sensitive = true
}
`

const sqlDatabaseTemplate = `
# Random password for SQL Server
resource "random_password" "sql_password" {
  length           = 24
  special          = true
  override_special = "!#$%&*()-_=+[]:?"
}

# Azure SQL Server
resource "azurerm_mssql_server" "sql_server" {
  name                         = "{{.ServerName}}"
  resource_group_name          = {{.RGRef}}
  location                     = {{.RegionRef}}
  version                      = "12.0"
  administrator_login          = "{{.AdminUsername}}"
  administrator_login_password = random_password.sql_password.result

  tags = {
    Environment = "Production"
    ManagedBy   = "Terraform"
  }
}

# Firewall rule to allow Azure services
resource "azurerm_mssql_firewall_rule" "allow_azure" {
  name             = "AllowAzureServices"
  server_id        = azurerm_mssql_server.sql_server.id
  start_ip_address = "0.0.0.0"
  end_ip_address   = "0.0.0.0"
}

# Azure SQL Database
resource "azurerm_mssql_database" "db" {
  name         = "{{.DatabaseName}}"
  server_id    = azurerm_mssql_server.sql_server.id
  collation    = "SQL_Latin1_General_CP1_CI_AS"
  license_type = "LicenseIncluded"
  sku_name     = "{{.Tier}}"

  tags = {
    Environment = "Production"
    ManagedBy   = "Terraform"
  }
}

output "sql_server_fqdn" {
  value = azurerm_mssql_server.sql_server.fully_qualified_domain_name
}

output "sql_database_name" {
  value = azurerm_mssql_database.db.name
}

output "sql_admin_username" {
  value = azurerm_mssql_server.sql_server.administrator_login
}

output "sql_admin_password" {
  value     = random_password.sql_password.result
  sensitive = true
}
`

const cosmosTemplate = `
# Cosmos DB Account
resource "azurerm_cosmosdb_account" "cosmos" {
  name                = "{{.Name}}"
  location            = {{.RegionRef}}
  resource_group_name = {{.RGRef}}
  offer_type          = "Standard"
  kind                = "GlobalDocumentDB"
  enable_free_tier    = {{.EnableFreeTier}}

  consistency_policy {
    consistency_level = "{{.ConsistencyLevel}}"
  }

  geo_location {
    location          = {{.RegionRef}}
    failover_priority = 0
  }
{{- if .Capability}}

  capabilities {
    name = "{{.Capability}}"
  }
{{- end}}

  tags = {
    Environment = "Production"
    ManagedBy   = "Terraform"
  }
}

output "cosmosdb_endpoint" {
  value = azurerm_cosmosdb_account.cosmos.endpoint
}

output "cosmosdb_primary_key" {
  value     = azurerm_cosmosdb_account.cosmos.primary_key
  sensitive = true
}

output "cosmosdb_connection_string" {
  value     = azurerm_cosmosdb_account.cosmos.primary_sql_connection_string
  sensitive = true
}
`

var templates = template.Must(template.New("provider").Parse(providerTemplate))

func init() {
	template.Must(templates.New("resource_group").Parse(resourceGroupTemplate))
	template.Must(templates.New("existing_resource_group").Parse(existingResourceGroupTemplate))
	template.Must(templates.New("vm").Parse(vmTemplate))
	template.Must(templates.New("vnet").Parse(vnetTemplate))
	template.Must(templates.New("storage").Parse(storageTemplate))
	template.Must(templates.New("aks").Parse(aksTemplate))
	template.Must(templates.New("postgresql").Parse(postgresTemplate))
	template.Must(templates.New("mysql").Parse(mysqlTemplate))
	template.Must(templates.New("sql_database").Parse(sqlDatabaseTemplate))
	template.Must(templates.New("cosmosdb").Parse(cosmosTemplate))
}

// Generator renders complete Terraform configurations.
type Generator struct{}

// NewGenerator creates a Terraform generator
func NewGenerator() *Generator {
	return &Generator{}
}

type extraProvider struct {
	Name    string
	Version string
}

// Generate returns a complete Terraform configuration for the resource:
// provider block, resource group (new or data source), the resource
// itself with its dependencies, and outputs.
func (g *Generator) Generate(rt models.ResourceType, resourceGroup, region string, config map[string]interface{}, createNewRG bool) (string, error) {
	var b strings.Builder

	var extras []extraProvider
	switch rt {
	case models.ResourceTypeVirtualMachine:
		extras = append(extras, extraProvider{"tls", "4.0"})
	case models.ResourceTypePostgreSQL, models.ResourceTypeMySQL, models.ResourceTypeSQLDatabase:
		extras = append(extras, extraProvider{"random", "3.0"})
	}
	if err := templates.ExecuteTemplate(&b, "provider", map[string]interface{}{"ExtraProviders": extras}); err != nil {
		return "", err
	}

	rgData := map[string]string{"ResourceGroup": resourceGroup, "Region": region}
	rgRef := "azurerm_resource_group.rg.name"
	regionRef := "azurerm_resource_group.rg.location"
	rgTemplate := "resource_group"
	if !createNewRG {
		rgTemplate = "existing_resource_group"
		rgRef = "data.azurerm_resource_group.rg.name"
		regionRef = "data.azurerm_resource_group.rg.location"
	}
	if err := templates.ExecuteTemplate(&b, rgTemplate, rgData); err != nil {
		return "", err
	}

	var (
		name string
		data interface{}
		tmpl string
	)

	switch rt {
	case models.ResourceTypeVirtualMachine:
		name = stringValue(config, "name", "myvm")
		osImage := stringValue(config, "os_image", "Ubuntu2204")
		image, ok := osImageRefs[osImage]
		if !ok {
			image = osImageRefs["Ubuntu2204"]
		}
		tmpl = "vm"
		data = struct {
			Name, Size, AdminUsername, OSDiskType, RGRef, RegionRef string
			Image                                                   imageReference
			IsLinux, CreatePublicIP                                 bool
		}{
			Name:           name,
			Size:           stringValue(config, "size", "Standard_B2s"),
			AdminUsername:  stringValue(config, "admin_username", "azureuser"),
			OSDiskType:     stringValue(config, "os_disk_type", "Standard_LRS"),
			RGRef:          rgRef,
			RegionRef:      regionRef,
			Image:          image,
			IsLinux:        !strings.Contains(osImage, "Windows"),
			CreatePublicIP: boolValue(config, "create_public_ip", true),
		}

	case models.ResourceTypeVirtualNetwork:
		tmpl = "vnet"
		data = struct {
			Name, AddressSpace, RGRef, RegionRef string
			Subnets                              []subnetSpec
		}{
			Name:         stringValue(config, "name", "myvnet"),
			AddressSpace: stringValue(config, "address_space", "10.0.0.0/16"),
			RGRef:        rgRef,
			RegionRef:    regionRef,
			Subnets:      subnetSpecs(config),
		}

	case models.ResourceTypeStorageAccount:
		sku := stringValue(config, "sku", "Standard_LRS")
		accountTier, ok := storageAccountTiers[sku]
		if !ok {
			accountTier = "Standard"
		}
		replication, ok := storageReplication[sku]
		if !ok {
			replication = "LRS"
		}
		tmpl = "storage"
		data = struct {
			Name, AccountTier, Replication, Kind, AccessTier, RGRef, RegionRef string
		}{
			Name:        stringValue(config, "name", "mystorageaccount"),
			AccountTier: accountTier,
			Replication: replication,
			Kind:        stringValue(config, "kind", "StorageV2"),
			AccessTier:  stringValue(config, "access_tier", "Hot"),
			RGRef:       rgRef,
			RegionRef:   regionRef,
		}

	case models.ResourceTypeAKSCluster:
		name = stringValue(config, "name", "myakscluster")
		tmpl = "aks"
		data = struct {
			Name, DNSPrefix, KubernetesVersion, NodeVMSize, NetworkPlugin, RGRef, RegionRef string
			NodeCount                                                                       int
			EnableRBAC                                                                      bool
		}{
			Name:              name,
			DNSPrefix:         stringValue(config, "dns_prefix", name),
			KubernetesVersion: stringValue(config, "kubernetes_version", "1.28"),
			NodeVMSize:        stringValue(config, "node_vm_size", "Standard_D2s_v3"),
			NetworkPlugin:     stringValue(config, "network_plugin", "azure"),
			RGRef:             rgRef,
			RegionRef:         regionRef,
			NodeCount:         intValue(config, "node_count", 3),
			EnableRBAC:        boolValue(config, "enable_rbac", true),
		}

	case models.ResourceTypePostgreSQL:
		tmpl = "postgresql"
		data = struct {
			Name, Version, SKU, AdminUsername, RGRef, RegionRef string
			StorageMB                                           int
		}{
			Name:          stringValue(config, "name", "mypostgres"),
			Version:       stringValue(config, "version", "15"),
			SKU:           stringValue(config, "sku", "Standard_B1ms"),
			AdminUsername: stringValue(config, "admin_username", "pgadmin"),
			RGRef:         rgRef,
			RegionRef:     regionRef,
			StorageMB:     intValue(config, "storage_gb", 32) * 1024,
		}

	case models.ResourceTypeMySQL:
		tmpl = "mysql"
		data = struct {
			Name, Version, SKU, AdminUsername, RGRef, RegionRef string
			StorageGB                                           int
		}{
			Name:          stringValue(config, "name", "mymysql"),
			Version:       stringValue(config, "version", "8.0.21"),
			SKU:           stringValue(config, "sku", "Standard_B1ms"),
			AdminUsername: stringValue(config, "admin_username", "mysqladmin"),
			RGRef:         rgRef,
			RegionRef:     regionRef,
			StorageGB:     intValue(config, "storage_gb", 32),
		}

	case models.ResourceTypeSQLDatabase:
		dbName := stringValue(config, "name", "mydb")
		tmpl = "sql_database"
		data = struct {
			DatabaseName, ServerName, Tier, AdminUsername, RGRef, RegionRef string
		}{
			DatabaseName:  dbName,
			ServerName:    stringValue(config, "server_name", dbName+"-server"),
			Tier:          stringValue(config, "tier", "Basic"),
			AdminUsername: stringValue(config, "admin_username", "sqladmin"),
			RGRef:         rgRef,
			RegionRef:     regionRef,
		}

	case models.ResourceTypeCosmosDB:
		tmpl = "cosmosdb"
		data = struct {
			Name, ConsistencyLevel, Capability, RGRef, RegionRef string
			EnableFreeTier                                       bool
		}{
			Name:             stringValue(config, "name", "mycosmos"),
			ConsistencyLevel: stringValue(config, "consistency_level", "Session"),
			Capability:       cosmosCapabilities[stringValue(config, "api_type", "SQL")],
			RGRef:            rgRef,
			RegionRef:        regionRef,
			EnableFreeTier:   boolValue(config, "enable_free_tier", false),
		}

	default:
		return "", fmt.Errorf("no terraform template for resource type %q", rt)
	}

	if err := templates.ExecuteTemplate(&b, tmpl, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

type subnetSpec struct {
	Name          string
	AddressPrefix string
}

func subnetSpecs(config map[string]interface{}) []subnetSpec {
	raw, ok := config["subnets"].([]interface{})
	if !ok {
		if typed, ok := config["subnets"].([]map[string]interface{}); ok {
			for _, m := range typed {
				raw = append(raw, m)
			}
		}
	}
	if len(raw) == 0 {
		return []subnetSpec{{Name: "default", AddressPrefix: "10.0.0.0/24"}}
	}

	specs := make([]subnetSpec, 0, len(raw))
	for i, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		spec := subnetSpec{
			Name:          fmt.Sprintf("subnet%d", i),
			AddressPrefix: fmt.Sprintf("10.0.%d.0/24", i),
		}
		if v, ok := m["name"].(string); ok && v != "" {
			spec.Name = v
		}
		if v, ok := m["address_prefix"].(string); ok && v != "" {
			spec.AddressPrefix = v
		}
		specs = append(specs, spec)
	}
	return specs
}

func stringValue(config map[string]interface{}, key, fallback string) string {
	if v, ok := config[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func intValue(config map[string]interface{}, key string, fallback int) int {
	switch v := config[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return fallback
}

func boolValue(config map[string]interface{}, key string, fallback bool) bool {
	if v, ok := config[key].(bool); ok {
		return v
	}
	return fallback
}
