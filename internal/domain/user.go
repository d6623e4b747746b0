package domain

import "time"

// Role определяет уровень доступа пользователя.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleMember Role = "Member"
)

// User — зарегистрированный аккаунт магазина.
type User struct {
	ID    string
	Name  string
	Email string
	// PasswordHash — bcrypt-хэш пароля; исходный пароль нигде не хранится.
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
