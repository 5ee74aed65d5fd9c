package gateway

import (
	"testing"
)

func TestRegistry_AddRemove(t *testing.T) {
	registry := NewRegistry()

	conn := testConn("conn-1")

	// Add connection
	registry.Add(conn)

	// Verify connection exists
	retrieved, exists := registry.Get("conn-1")
	if !exists {
		t.Error("Expected connection to exist")
	}
	if retrieved.ID != "conn-1" {
		t.Errorf("Expected connection ID %s, got %s", "conn-1", retrieved.ID)
	}

	// Verify count
	if registry.Count() != 1 {
		t.Errorf("Expected 1 connection, got %d", registry.Count())
	}

	// Remove connection
	if !registry.Remove("conn-1") {
		t.Error("Expected Remove to report the connection as present")
	}

	// Verify connection removed
	_, exists = registry.Get("conn-1")
	if exists {
		t.Error("Expected connection to be removed")
	}

	if registry.Count() != 0 {
		t.Errorf("Expected 0 connections, got %d", registry.Count())
	}

	// Removing again reports absence
	if registry.Remove("conn-1") {
		t.Error("Expected Remove of an absent connection to return false")
	}
}

func TestRegistry_GetAll(t *testing.T) {
	registry := NewRegistry()

	registry.Add(testConn("conn-1"))
	registry.Add(testConn("conn-2"))

	all := registry.GetAll()
	if len(all) != 2 {
		t.Errorf("Expected 2 connections, got %d", len(all))
	}
}

func TestRegistry_GetMissing(t *testing.T) {
	registry := NewRegistry()

	if _, exists := registry.Get("ghost"); exists {
		t.Error("Expected missing connection to not exist")
	}
}
