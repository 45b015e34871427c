package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

const tokenTTL = 24 * time.Hour

type AuthService interface {
	Authenticate(ctx context.Context, name, password string) (*entity.User, error)
	IsAdmin(apiKey string) bool

	GenerateToken(name string) (string, error)
	VerifyToken(token string) (string, error)
}

type authService struct {
	adminKeyHash []byte
	secretKey    string
	userRepo     userRepo
}

func NewAuthService(adminKey, secretKey string, userRepo userRepo) AuthService {
	return &authService{
		adminKeyHash: HashKey(adminKey),
		secretKey:    secretKey,
		userRepo:     userRepo,
	}
}

// HashKey - hashes api keys and user passwords.
func HashKey(key string) []byte {
	sum := sha256.Sum256([]byte(key))
	return sum[:]
}

// Authenticate - checks user credentials in constant time. A missing user
// and a wrong password are indistinguishable to the caller.
func (that *authService) Authenticate(ctx context.Context, name, password string) (*entity.User, error) {
	user, err := that.userRepo.Find(ctx, name)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	if subtle.ConstantTimeCompare(HashKey(password), user.PasswordHash) != 1 {
		return nil, apperror.ErrUnauthorized
	}

	return user, nil
}

func (that *authService) IsAdmin(apiKey string) bool {
	return subtle.ConstantTimeCompare(HashKey(apiKey), that.adminKeyHash) == 1
}

func (that *authService) GenerateToken(name string) (string, error) {
	claims := jwt.MapClaims{
		"sub": name,
		"exp": jwt.NewNumericDate(time.Now().Add(tokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(that.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken - validates a token and returns the user name it was issued to.
func (that *authService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method", apperror.ErrUnauthorized)
		}
		return []byte(that.secretKey), nil
	})
	if err != nil || !token.Valid {
		return "", apperror.ErrUnauthorized
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", apperror.ErrUnauthorized
	}

	return subject, nil
}
