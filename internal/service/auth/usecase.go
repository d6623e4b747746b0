package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

const (
	bcryptCost        = 10
	defaultTokenTTL   = time.Hour
	minPasswordLength = 6
)

// Claims — полезная нагрузка access-токена.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Usecase реализует регистрацию, вход и разбор токенов.
type Usecase struct {
	users    domain.UserRepository
	secret   []byte
	tokenTTL time.Duration
	logger   *log.Entry
}

// NewUsecase конструирует auth-сервис. ttl <= 0 заменяется часом.
func NewUsecase(users domain.UserRepository, secret string, ttl time.Duration, logger *log.Entry) *Usecase {
	if logger == nil {
		logger = log.WithField("component", "auth-usecase")
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &Usecase{
		users:    users,
		secret:   []byte(secret),
		tokenTTL: ttl,
		logger:   logger,
	}
}

// Register создаёт аккаунт с bcrypt-хэшем пароля.
func (u *Usecase) Register(name, email, password string, role domain.Role) (domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return domain.User{}, domain.ErrNameRequired
	}
	if email == "" {
		return domain.User{}, domain.ErrEmailRequired
	}
	if len(password) < minPasswordLength {
		return domain.User{}, domain.ErrPasswordTooShort
	}
	if role == "" {
		role = domain.RoleMember
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.users.Create(user); err != nil {
		return domain.User{}, err
	}

	u.logger.WithField("user_id", user.ID).Info("пользователь зарегистрирован")
	return user, nil
}

// Login проверяет учётные данные и выпускает подписанный токен.
// Отсутствующий аккаунт и неверный пароль дают одинаковую ошибку.
func (u *Usecase) Login(email, password string) (string, domain.User, error) {
	user, err := u.users.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.User{}, domain.ErrInvalidCredentials
		}
		return "", domain.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.User{}, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	claims := Claims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(u.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(u.secret)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("sign token: %w", err)
	}

	return token, user, nil
}

// ParseToken валидирует токен и возвращает его владельца.
// Любая ошибка разбора означает «гость», решение за вызывающей стороной.
func (u *Usecase) ParseToken(tokenString string) (domain.User, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return u.secret, nil
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return domain.User{}, domain.ErrInvalidCredentials
	}

	return u.users.Get(claims.Subject)
}
