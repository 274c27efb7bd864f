package schema

import (
	"github.com/ammybawa/Azure-Integration-App/internal/models"
)

func stringOr(answers map[string]interface{}, key, fallback string) string {
	if v, ok := answers[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func intOr(answers map[string]interface{}, key string, fallback int) int {
	switch v := answers[key].(type) {
	case int:
		return v
	case float64:
		// JSON round-trips through persisted stores decode numbers as float64
		return int(v)
	}
	return fallback
}

func boolOr(answers map[string]interface{}, key string, fallback bool) bool {
	if v, ok := answers[key].(bool); ok {
		return v
	}
	return fallback
}

// BuildConfig converts collected answers into the canonical
// configuration object for a resource type, back-filling documented
// defaults for any key absent from the answer map. Pure and idempotent;
// unknown resource types return the answer map unchanged.
func BuildConfig(rt models.ResourceType, answers map[string]interface{}) map[string]interface{} {
	switch rt {
	case models.ResourceTypeVirtualMachine:
		return map[string]interface{}{
			"name":             answers["name"],
			"size":             stringOr(answers, "size", "Standard_B2s"),
			"os_image":         stringOr(answers, "os_image", "Ubuntu2204"),
			"os_disk_type":     stringOr(answers, "os_disk_type", "Standard_LRS"),
			"admin_username":   stringOr(answers, "admin_username", "azureuser"),
			"create_public_ip": boolOr(answers, "create_public_ip", true),
			"generate_ssh_key": true,
		}

	case models.ResourceTypeVirtualNetwork:
		return map[string]interface{}{
			"name":          answers["name"],
			"address_space": stringOr(answers, "address_space", "10.0.0.0/16"),
			"subnets": []map[string]interface{}{
				{
					"name":           stringOr(answers, "subnet_name", "default"),
					"address_prefix": stringOr(answers, "subnet_prefix", "10.0.0.0/24"),
				},
			},
		}

	case models.ResourceTypeStorageAccount:
		return map[string]interface{}{
			"name":              answers["name"],
			"sku":               stringOr(answers, "sku", "Standard_LRS"),
			"kind":              stringOr(answers, "kind", "StorageV2"),
			"access_tier":       stringOr(answers, "access_tier", "Hot"),
			"enable_https_only": true,
		}

	case models.ResourceTypeAKSCluster:
		return map[string]interface{}{
			"name":               answers["name"],
			"dns_prefix":         stringOr(answers, "dns_prefix", stringOr(answers, "name", "")),
			"kubernetes_version": stringOr(answers, "kubernetes_version", "1.28"),
			"node_count":         intOr(answers, "node_count", 3),
			"node_vm_size":       stringOr(answers, "node_vm_size", "Standard_D2s_v3"),
			"network_plugin":     stringOr(answers, "network_plugin", "azure"),
			"enable_rbac":        true,
		}

	case models.ResourceTypePostgreSQL:
		return map[string]interface{}{
			"name":           answers["name"],
			"version":        stringOr(answers, "version", "15"),
			"sku":            stringOr(answers, "sku", "Standard_B1ms"),
			"storage_gb":     intOr(answers, "storage_gb", 32),
			"admin_username": stringOr(answers, "admin_username", "pgadmin"),
		}

	case models.ResourceTypeMySQL:
		return map[string]interface{}{
			"name":           answers["name"],
			"version":        stringOr(answers, "version", "8.0.21"),
			"sku":            stringOr(answers, "sku", "Standard_B1ms"),
			"storage_gb":     intOr(answers, "storage_gb", 32),
			"admin_username": stringOr(answers, "admin_username", "mysqladmin"),
		}

	case models.ResourceTypeSQLDatabase:
		return map[string]interface{}{
			"name":           answers["name"],
			"server_name":    answers["server_name"],
			"tier":           stringOr(answers, "tier", "Basic"),
			"admin_username": stringOr(answers, "admin_username", "sqladmin"),
		}

	case models.ResourceTypeCosmosDB:
		return map[string]interface{}{
			"name":              answers["name"],
			"api_type":          stringOr(answers, "api_type", "SQL"),
			"consistency_level": stringOr(answers, "consistency_level", "Session"),
			"enable_free_tier":  boolOr(answers, "enable_free_tier", false),
		}
	}

	out := make(map[string]interface{}, len(answers))
	for k, v := range answers {
		out[k] = v
	}
	return out
}
