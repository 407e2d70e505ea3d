package auth

import (
	"context"
	"errors"
	"time"

	"github.com/igor-olikh/drive-pilot/internal/db"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type Service struct {
	secret []byte
	db     db.Querier
}

type Claims struct {
	OperatorID string `json:"operator_id"`
	jwt.RegisteredClaims
}

func NewService(secret string, q db.Querier) *Service {
	return &Service{
		secret: []byte(secret),
		db:     q,
	}
}

var (
	hashPasswordFn    = bcrypt.GenerateFromPassword
	signTokenFn       = (*Service).signToken
	parseWithClaimsFn = jwt.ParseWithClaims
)

func (s *Service) Register(ctx context.Context, req RegisterRequest) (Operator, TokenResponse, error) {
	if req.Email == "" || req.Password == "" {
		return Operator{}, TokenResponse{}, errors.New("email and password required")
	}
	hash, err := hashPasswordFn([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return Operator{}, TokenResponse{}, err
	}

	op := Operator{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO operators (id, email, password_hash)
		VALUES ($1,$2,$3)
		RETURNING created_at, updated_at
	`, op.ID, op.Email, op.PasswordHash)
	if err := row.Scan(&op.CreatedAt, &op.UpdatedAt); err != nil {
		return Operator{}, TokenResponse{}, err
	}

	tokens, err := s.GenerateTokens(ctx, op.ID)
	if err != nil {
		return Operator{}, TokenResponse{}, err
	}
	return op, tokens, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (Operator, TokenResponse, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at, updated_at
		FROM operators WHERE email = $1
	`, req.Email)

	var op Operator
	if err := row.Scan(&op.ID, &op.Email, &op.PasswordHash, &op.CreatedAt, &op.UpdatedAt); err != nil {
		return Operator{}, TokenResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(req.Password)); err != nil {
		return Operator{}, TokenResponse{}, errors.New("invalid credentials")
	}

	tokens, err := s.GenerateTokens(ctx, op.ID)
	if err != nil {
		return Operator{}, TokenResponse{}, err
	}
	return op, tokens, nil
}

func (s *Service) GenerateTokens(ctx context.Context, operatorID string) (TokenResponse, error) {
	access, err := signTokenFn(s, operatorID, accessTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	refresh, err := signTokenFn(s, operatorID, refreshTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	if err := s.saveRefreshToken(ctx, refresh, operatorID, refreshTokenTTL); err != nil {
		return TokenResponse{}, err
	}

	return TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}

func (s *Service) ValidateRefreshToken(ctx context.Context, token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}

	operatorID, expiresAt, err := s.lookupRefreshToken(ctx, token)
	if err != nil || operatorID != claims.OperatorID || time.Now().After(expiresAt) {
		return "", errors.New("refresh token invalid")
	}
	return claims.OperatorID, nil
}

func (s *Service) ValidateAccessToken(token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}
	return claims.OperatorID, nil
}

func (s *Service) signToken(operatorID string, ttl time.Duration) (string, error) {
	claims := Claims{
		OperatorID: operatorID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parseToken(token string) (*Claims, error) {
	parsed, err := parseWithClaimsFn(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}

func (s *Service) saveRefreshToken(ctx context.Context, token, operatorID string, ttl time.Duration) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO refresh_tokens (id, operator_id, token, expires_at)
		VALUES ($1,$2,$3,$4)
	`, uuid.NewString(), operatorID, token, time.Now().Add(ttl))
	return err
}

func (s *Service) lookupRefreshToken(ctx context.Context, token string) (string, time.Time, error) {
	row := s.db.QueryRow(ctx, `
		SELECT operator_id, expires_at
		FROM refresh_tokens
		WHERE token = $1 AND revoked_at IS NULL
	`, token)
	var operatorID string
	var expiresAt time.Time
	if err := row.Scan(&operatorID, &expiresAt); err != nil {
		return "", time.Time{}, err
	}
	return operatorID, expiresAt, nil
}
