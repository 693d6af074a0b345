package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"anoa.com/weddingsalon/internal/entity"
	"anoa.com/weddingsalon/internal/modules/user/dto"
	"anoa.com/weddingsalon/internal/modules/user/repository"
	"anoa.com/weddingsalon/pkg/apperror"
	"anoa.com/weddingsalon/pkg/ratelimit"
	"anoa.com/weddingsalon/pkg/validator"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const registerAction = "register"

var (
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid credentials", apperror.ErrUnauthorized)
	ErrInvalidToken       = apperror.New(http.StatusUnauthorized, "invalid or expired token", apperror.ErrUnauthorized)
	ErrPasswordMismatch   = apperror.NewFieldError("confirm_password", "passwords do not match", nil)
	ErrInvalidEmail       = apperror.NewFieldError("email", "invalid email address", nil)
	ErrUsernameTaken      = apperror.NewFieldError("username", "a user with this username already exists", apperror.ErrConflict)
	ErrEmailTaken         = apperror.NewFieldError("email", "a user with this email already exists", apperror.ErrConflict)
	ErrAccountTaken       = apperror.New(http.StatusConflict, "a user with this username or email already exists", apperror.ErrConflict)
	ErrUserNotFound       = fmt.Errorf("user not found: %w", apperror.ErrNotFound)
)

type AuthService interface {
	// Register creates a USER account and signs it in. clientIP scopes the
	// registration rate limit.
	Register(ctx context.Context, input dto.RegisterInput, clientIP string) (*dto.AuthResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	// ParseToken returns the user id a valid session token was issued for.
	ParseToken(token string) (uuid.UUID, error)
}

type Options struct {
	Secret        string
	TokenTTL      time.Duration
	RegisterLimit time.Duration
}

type authService struct {
	repo        repository.UserRepository
	redisClient *redis.Client
	opts        Options
	now         func() time.Time
}

// NewAuthService builds the auth service. A nil redisClient disables the
// registration rate limit.
func NewAuthService(repo repository.UserRepository, redisClient *redis.Client, opts Options) AuthService {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	return &authService{
		repo:        repo,
		redisClient: redisClient,
		opts:        opts,
		now:         time.Now,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput, clientIP string) (*dto.AuthResponse, error) {
	allowed, err := ratelimit.CheckAndSet(ctx, s.redisClient, clientIP, registerAction, s.opts.RegisterLimit)
	if err != nil {
		slog.WarnContext(ctx, "rate limit check failed", "action", registerAction, "error", err)
		allowed = true
	}
	if !allowed {
		ttl, _ := ratelimit.TTL(ctx, s.redisClient, clientIP, registerAction)
		return nil, apperror.New(http.StatusTooManyRequests,
			fmt.Sprintf("too many registration attempts, retry in %d seconds", int(ttl.Seconds())+1),
			apperror.ErrRateLimitExceeded)
	}

	user, err := s.register(ctx, input)
	if err != nil {
		// rejected attempts release the slot
		if clearErr := ratelimit.Clear(ctx, s.redisClient, clientIP, registerAction); clearErr != nil {
			slog.WarnContext(ctx, "failed to clear rate limit", "action", registerAction, "error", clearErr)
		}
		return nil, err
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	return s.buildAuthResponse(user)
}

func (s *authService) register(ctx context.Context, input dto.RegisterInput) (*entity.User, error) {
	if input.Password != input.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if !validator.IsValidEmail(input.Email) {
		return nil, ErrInvalidEmail
	}

	if _, err := s.repo.FindByUsername(ctx, input.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashed),
		Role:         entity.RoleUser,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAccountTaken
		}
		return nil, err
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return dto.ToUserResponse(user), nil
}

func (s *authService) ParseToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.opts.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

func (s *authService) buildAuthResponse(user *entity.User) (*dto.AuthResponse, error) {
	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.opts.TokenTTL.Seconds()),
		User:        dto.ToUserResponse(user),
	}, nil
}

func (s *authService) generateToken(user *entity.User) (string, error) {
	now := s.now()

	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.TokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.opts.Secret))
}
