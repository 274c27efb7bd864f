package helpers

import (
	"fmt"

	"github.com/google/uuid"
)

// TestUser represents a test user fixture
type TestUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Default test fixtures
var (
	DefaultAdminPassword = "Admin@123456"

	DefaultTestUser = TestUser{
		Username: "testuser",
		Password: "test-password-123",
	}
)

// UniqueUsername returns a username that will not collide with rows left
// over from earlier runs against the same database.
func UniqueUsername(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString()[:8])
}

// UniqueSessionID returns a fresh session identifier
func UniqueSessionID() string {
	return uuid.NewString()
}

// StorageAccountScript is the user side of a full conversation that
// provisions a storage account: resource type, subscription, resource
// group, region, then one answer per configuration question in order
// (name, sku, kind, access tier).
func StorageAccountScript(name string) []string {
	return []string{
		"storage account",
		"12345678-1234-1234-1234-123456789012",
		"new:integration-rg",
		"eastus",
		name,
		"Standard_LRS",
		"StorageV2",
		"Hot",
	}
}

// VirtualNetworkScript walks a virtual network to confirmation using
// defaults for everything but the name.
func VirtualNetworkScript(name string) []string {
	return []string{
		"virtual network",
		"12345678-1234-1234-1234-123456789012",
		"new:integration-rg",
		"eastus",
		name,
		"", // address space default
		"", // subnet name default
		"", // subnet prefix default
	}
}
