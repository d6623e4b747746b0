package app

import (
	"context"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestNewDependencies_Memory(t *testing.T) {
	logger := log.WithField("test", "dependencies")

	cfg := DefaultConfig()
	deps, err := NewDependencies(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("NewDependencies failed: %v", err)
	}
	defer deps.Close()

	if deps.Users == nil {
		t.Error("Users should not be nil")
	}
	if deps.Products == nil {
		t.Error("Products should not be nil")
	}
	if deps.Carts == nil {
		t.Error("Carts should not be nil")
	}
	if deps.Orders == nil {
		t.Error("Orders should not be nil")
	}
	if deps.Checkout == nil {
		t.Error("Checkout should not be nil")
	}
	if deps.Outbox == nil {
		t.Error("Outbox should not be nil")
	}
	if deps.Store != nil {
		t.Error("Store must be nil for memory driver")
	}
	if deps.Logger == nil {
		t.Error("Logger should not be nil")
	}
}

func TestNewDependencies_EmptyDriverDefaultsToMemory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StorageDriver = ""

	deps, err := NewDependencies(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewDependencies failed: %v", err)
	}
	defer deps.Close()

	if deps.Logger == nil {
		t.Error("Logger should be initialized even when nil is passed")
	}
}

func TestNewDependencies_UnsupportedDriver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StorageDriver = "invalid-driver"

	_, err := NewDependencies(context.Background(), cfg, nil)
	if err == nil || !strings.Contains(err.Error(), "unsupported storage driver") {
		t.Fatalf("expected unsupported storage driver error, got %v", err)
	}
}

func TestNewDependencies_PostgresRequiresDSN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StorageDriver = StorageDriverPostgres
	cfg.PostgresDSN = ""

	_, err := NewDependencies(context.Background(), cfg, nil)
	if err == nil || !strings.Contains(err.Error(), "DSN is empty") {
		t.Fatalf("expected empty DSN error, got %v", err)
	}
}
