package memory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/storage/memory"
)

func newUser() domain.User {
	now := time.Now().UTC()
	return domain.User{
		ID:           "user-1",
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Role:         domain.RoleMember,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository_CreateGet(t *testing.T) {
	repo := memory.NewUserRepository()
	user := newUser()

	if err := repo.Create(user); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.Get(user.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Email != user.Email {
		t.Fatalf("expected email %s, got %s", user.Email, stored.Email)
	}

	if _, err := repo.Get("missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_EmailTaken(t *testing.T) {
	repo := memory.NewUserRepository()
	if err := repo.Create(newUser()); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	dup := newUser()
	dup.ID = "user-2"
	dup.Email = "ALICE@example.com"
	if err := repo.Create(dup); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserRepository_GetByEmail_CaseInsensitive(t *testing.T) {
	repo := memory.NewUserRepository()
	if err := repo.Create(newUser()); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.GetByEmail("Alice@Example.COM")
	if err != nil {
		t.Fatalf("get by email failed: %v", err)
	}
	if stored.ID != "user-1" {
		t.Fatalf("expected user-1, got %s", stored.ID)
	}
}
