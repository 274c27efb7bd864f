package conversation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ammybawa/Azure-Integration-App/internal/models"
)

// Keys never shown to the user in summaries or creation details.
var hiddenConfigKeys = map[string]bool{
	"generate_ssh_key": true,
}

var secretDetailKeys = map[string]bool{
	"private_key":       true,
	"connection_string": true,
	"admin_password":    true,
}

// configKeyOrder fixes the display order of configuration keys so
// summaries are deterministic. Keys not listed come last, sorted.
var configKeyOrder = map[models.ResourceType][]string{
	models.ResourceTypeVirtualMachine: {"name", "size", "os_image", "os_disk_type", "admin_username", "create_public_ip"},
	models.ResourceTypeVirtualNetwork: {"name", "address_space", "subnets"},
	models.ResourceTypeStorageAccount: {"name", "sku", "kind", "access_tier", "enable_https_only"},
	models.ResourceTypeAKSCluster:     {"name", "dns_prefix", "kubernetes_version", "node_count", "node_vm_size", "network_plugin", "enable_rbac"},
	models.ResourceTypePostgreSQL:     {"name", "version", "sku", "storage_gb", "admin_username"},
	models.ResourceTypeMySQL:          {"name", "version", "sku", "storage_gb", "admin_username"},
	models.ResourceTypeSQLDatabase:    {"name", "server_name", "tier", "admin_username"},
	models.ResourceTypeCosmosDB:       {"name", "api_type", "consistency_level", "enable_free_tier"},
}

func orderedConfigKeys(rt models.ResourceType, config map[string]interface{}) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, k := range configKeyOrder[rt] {
		if _, ok := config[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range config {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// titleKey turns a snake_case config key into a display label, e.g.
// "node_vm_size" -> "Node Vm Size".
func titleKey(key string) string {
	parts := strings.Split(key, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

func maskSubscription(subID string) string {
	if len(subID) < 12 {
		return subID
	}
	return subID[:8] + "..." + subID[len(subID)-4:]
}

func confirmationMessage(sess *models.Session, config map[string]interface{}, estimate *models.CostEstimate) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📋 **%s Configuration Summary**\n\n", sess.ResourceType.DisplayName())
	fmt.Fprintf(&b, "**Subscription:** %s\n", maskSubscription(sess.SubscriptionID))
	fmt.Fprintf(&b, "**Resource Group:** %s", sess.ResourceGroup)
	if sess.CreateNewRG {
		b.WriteString(" (new)")
	}
	fmt.Fprintf(&b, "\n**Region:** %s\n\n", sess.Region)

	b.WriteString("**Configuration:**\n")
	for _, key := range orderedConfigKeys(sess.ResourceType, config) {
		if strings.HasPrefix(key, "_") || hiddenConfigKeys[key] {
			continue
		}
		value := config[key]
		switch v := value.(type) {
		case []map[string]interface{}:
			fmt.Fprintf(&b, "• %s:\n", titleKey(key))
			for _, item := range v {
				writeNestedItem(&b, item)
			}
		case []interface{}:
			fmt.Fprintf(&b, "• %s:\n", titleKey(key))
			for _, item := range v {
				if m, ok := item.(map[string]interface{}); ok {
					writeNestedItem(&b, m)
				} else {
					fmt.Fprintf(&b, "  - %v\n", item)
				}
			}
		default:
			fmt.Fprintf(&b, "• %s: %v\n", titleKey(key), value)
		}
	}

	fmt.Fprintf(&b, "\n💰 **Estimated Monthly Cost:** $%.2f\n", estimate.EstimatedMonthlyCost)

	if len(estimate.Breakdown) > 0 {
		b.WriteString("\nCost Breakdown:\n")
		for _, item := range estimate.Breakdown {
			fmt.Fprintf(&b, "  • %s: $%.2f\n", item.Component, item.MonthlyCost)
		}
	}

	fmt.Fprintf(&b, "\n⚠️ %s\n\n", estimate.Disclaimer)
	b.WriteString("**Proceed with resource creation?**\n")
	b.WriteString("• Type 'yes' to create via Azure SDK\n")
	b.WriteString("• Type 'terraform' to generate Terraform code\n")
	b.WriteString("• Type 'no' to cancel\n")
	b.WriteString("• Type 'edit' to modify configuration")

	return b.String()
}

func writeNestedItem(b *strings.Builder, item map[string]interface{}) {
	keys := make([]string, 0, len(item))
	for k := range item {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "  - %s: %v\n", k, item[k])
	}
}

func creationSuccessMessage(result *models.CreationResult) string {
	var b strings.Builder

	b.WriteString("✅ **Resource Created Successfully!**\n\n")
	fmt.Fprintf(&b, "**Resource ID:** %s\n", result.ResourceID)
	fmt.Fprintf(&b, "**Name:** %s\n", result.ResourceName)
	fmt.Fprintf(&b, "**Type:** %s\n", result.ResourceType)
	fmt.Fprintf(&b, "**Region:** %s\n\n", result.Region)

	if len(result.Details) > 0 {
		b.WriteString("**Details:**\n")
		keys := make([]string, 0, len(result.Details))
		for k := range result.Details {
			if secretDetailKeys[k] {
				continue
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "• %s: %s\n", titleKey(k), result.Details[k])
		}

		// Secrets are never echoed into the transcript; the client
		// reads them once from the structured result.
		if _, ok := result.Details["private_key"]; ok {
			b.WriteString("\n⚠️ **SSH Private Key generated.** Save it securely - it won't be shown again.\n")
		}
		if _, ok := result.Details["connection_string"]; ok {
			b.WriteString("\n⚠️ **Connection string generated.** Store it securely.\n")
		}
		if _, ok := result.Details["admin_password"]; ok {
			b.WriteString("\n⚠️ **Admin password generated.** Store it securely.\n")
		}
	}

	b.WriteString("\nType 'restart' to create another resource.")
	return b.String()
}
