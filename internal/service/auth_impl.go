package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"rehab-server/internal/config"
	"rehab-server/internal/domain"
	"rehab-server/internal/models"
	"rehab-server/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "rehab-server-auth"

// Compile-time check to ensure authServiceImpl implements AuthService
var _ AuthService = (*authServiceImpl)(nil)

// authServiceImpl implements the AuthService interface. Tokens are
// stateless: подпись и срок действия проверяются без обращения к хранилищу,
// logout - это удаление токена на клиенте.
type authServiceImpl struct {
	userRepo repository.UserRepository
	cfg      *config.Config
	logger   *zap.Logger
}

// NewAuthService creates a new instance of authServiceImpl.
func NewAuthService(userRepo repository.UserRepository, cfg *config.Config, logger *zap.Logger) AuthService {
	return &authServiceImpl{
		userRepo: userRepo,
		cfg:      cfg,
		logger:   logger.Named("AuthService"),
	}
}

// SignUp creates a new user and issues their first session token.
func (s *authServiceImpl) SignUp(ctx context.Context, email, password string) (string, error) {
	// Приводим email к нижнему регистру и убираем пробелы
	email = strings.ToLower(strings.TrimSpace(email))

	logFields := []zap.Field{zap.String("email", email)}
	s.logger.Info("Signing up new user", logFields...)

	if _, err := mail.ParseAddress(email); err != nil {
		s.logger.Warn("Signup attempt with invalid email format", append(logFields, zap.Error(err))...)
		return "", models.NewValidationError("A valid email is required")
	}
	if password == "" {
		s.logger.Warn("Signup attempt with empty password", logFields...)
		return "", models.NewValidationError("Password is required")
	}

	// Предварительная проверка - только для быстрого ответа. Гонку между
	// проверкой и INSERT закрывает уникальный индекс в репозитории.
	existingUser, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, models.ErrUserNotFound) {
		s.logger.Error("Error checking existing email during signup", append(logFields, zap.Error(err))...)
		return "", fmt.Errorf("error checking existing email: %w", err)
	}
	if existingUser != nil {
		s.logger.Warn("Signup attempt for existing email", logFields...)
		return "", models.ErrEmailAlreadyExists
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		s.logger.Error("Failed to hash password during signup", append(logFields, zap.Error(err))...)
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hashedPassword,
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if !errors.Is(err, models.ErrEmailAlreadyExists) {
			s.logger.Error("Failed to create user via repository", append(logFields, zap.Error(err))...)
		}
		// Ошибка уникальности уже обработана репозиторием, не оборачиваем
		return "", err
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		s.logger.Error("Failed to issue token after signup", zap.Error(err), zap.String("userID", user.ID.String()))
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User signed up successfully", zap.String("userID", user.ID.String()), zap.String("email", user.Email))
	return token, nil
}

// SignIn authenticates a user and returns a fresh session token.
func (s *authServiceImpl) SignIn(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.logger.Info("Signin attempt", zap.String("email", email))

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			s.logger.Warn("Signin failed: user not found", zap.String("email", email))
			return "", models.ErrInvalidCredentials
		}
		s.logger.Error("Signin failed: error getting user from repository", zap.Error(err), zap.String("email", email))
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	if !checkPasswordHash(password, user.PasswordHash) {
		s.logger.Warn("Signin failed: invalid password", zap.String("email", email), zap.String("userID", user.ID.String()))
		return "", models.ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		s.logger.Error("Failed to issue token during signin", zap.Error(err), zap.String("userID", user.ID.String()))
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User signed in successfully", zap.String("userID", user.ID.String()))
	return token, nil
}

// VerifyToken parses and validates a session token string.
func (s *authServiceImpl) VerifyToken(ctx context.Context, tokenString string) (*domain.Claims, error) {
	s.logger.Debug("Verifying session token") // Не логируем сам токен
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			s.logger.Debug("Session token verification failed: expired")
			return nil, models.ErrTokenExpired
		}
		if errors.Is(err, jwt.ErrTokenMalformed) {
			s.logger.Warn("Session token verification failed: malformed")
			return nil, models.ErrTokenMalformed
		}
		s.logger.Warn("Failed to parse session token", zap.Error(err))
		return nil, models.ErrTokenInvalid // Общая ошибка на остальные случаи парсинга
	}

	if claims, ok := token.Claims.(*domain.Claims); ok && token.Valid {
		s.logger.Debug("Session token verified successfully", zap.String("userID", claims.UserID.String()))
		return claims, nil
	}

	s.logger.Warn("Session token verification failed (invalid claims type or signature)")
	return nil, models.ErrTokenInvalid
}

// --- Helper Functions ---

// hashPassword generates a bcrypt hash. The digest embeds its own salt and
// cost, so verification needs no external state.
func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// checkPasswordHash compares a plain text password with a stored hash.
// bcrypt сам извлечет соль из хеша и выполнит безопасное сравнение.
func checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// issueToken signs a new session token for the user, valid for cfg.TokenTTL
// from issuance.
func (s *authServiceImpl) issueToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := &domain.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signedToken, nil
}
