package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"club-manager-backend/cmd/club-manager/model"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type Claims struct {
	Username string     `json:"username"`
	Name     string     `json:"name"`
	Role     model.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthService checks credentials against the stored user list and issues
// HS256 session tokens.
type AuthService struct {
	users  Collection[model.User]
	secret []byte
	expiry time.Duration
	logger *zap.Logger
	opts   options
}

func NewAuthService(users Collection[model.User], secret string, expiry time.Duration, logger *zap.Logger, opts ...Option) *AuthService {
	return &AuthService{
		users:  users,
		secret: []byte(secret),
		expiry: expiry,
		logger: logger,
		opts:   newOptions(opts),
	}
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (model.LoginResponse, error) {

	users, err := load(ctx, s.users)
	if err != nil {
		return model.LoginResponse{}, err
	}

	var user *model.User
	for i := range users {
		if users[i].Username == username {
			user = &users[i]
			break
		}
	}

	if user == nil {
		s.logger.Info("login failed", zap.String("username", username), zap.String("reason", "unknown user"))
		return model.LoginResponse{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("login failed", zap.String("username", username), zap.String("reason", "password mismatch"))
		return model.LoginResponse{}, ErrInvalidCredentials
	}

	actor := user.Actor()
	token, err := s.IssueToken(actor)
	if err != nil {
		return model.LoginResponse{}, err
	}

	s.logger.Info("login", zap.String("user_id", actor.ID), zap.String("role", string(actor.Role)))

	return model.LoginResponse{
		Token: token,
		User:  actor,
	}, nil
}

func (s *AuthService) IssueToken(actor model.Actor) (string, error) {

	now := s.opts.now()
	claims := Claims{
		Username: actor.Username,
		Name:     actor.Name,
		Role:     actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken verifies a session token and returns the actor it was issued to.
func (s *AuthService) ParseToken(tokenString string) (model.Actor, error) {

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.opts.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return model.Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return model.Actor{}, ErrInvalidToken
	}

	return model.Actor{
		ID:       claims.Subject,
		Username: claims.Username,
		Name:     claims.Name,
		Role:     claims.Role.Normalize(),
	}, nil
}
