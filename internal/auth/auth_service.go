package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	autherrors "go-hrms/internal/auth/errors"
	"go-hrms/internal/company"
	"go-hrms/internal/events"
	"go-hrms/internal/leavebalance"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/rbac"
	"go-hrms/internal/shared/contextutil"
	"go-hrms/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (LoginResponse, error)
	Me(ctx context.Context, companyID, userID string) (AuthResponse, error)
}

type service struct {
	db          *sql.DB
	userRepo    user.Repository
	balanceRepo leavebalance.Repository
	companyRepo company.Repository
	outboxRepo  kafka.OutboxRepository
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	userRepo user.Repository,
	balanceRepo leavebalance.Repository,
	companyRepo company.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{
		db:          db,
		userRepo:    userRepo,
		balanceRepo: balanceRepo,
		companyRepo: companyRepo,
		outboxRepo:  outboxRepo,
		logger:      l,
	}
}

// Register creates an unapproved Employee account. Role, team and
// reporting line are set later, once, by HR. The welcome mail rides
// the outbox so registration never blocks on SMTP.
func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	companyUUID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return AuthResponse{}, autherrors.ErrCompanyNotFound
	}
	if _, err := s.companyRepo.FindByID(ctx, req.CompanyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, autherrors.ErrCompanyNotFound
		}
		return AuthResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	u := &user.User{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashed),
		Role:      rbac.RoleEmployee,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AuthResponse{}, err
	}
	defer tx.Rollback()

	if err := s.userRepo.WithTx(tx).Create(ctx, u); err != nil {
		return AuthResponse{}, user.MapRepositoryError(err)
	}
	if _, err := s.balanceRepo.WithTx(tx).GetOrCreate(ctx, companyUUID, u.ID); err != nil {
		return AuthResponse{}, err
	}

	event := events.UserRegisteredEvent{
		EventType:  "user_registered",
		UserID:     u.ID.String(),
		CompanyID:  u.CompanyID.String(),
		Username:   u.Username,
		Email:      u.Email,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return AuthResponse{}, err
	}
	outbox := kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "user",
		AggregateID:   u.ID.String(),
		EventType:     event.EventType,
		Topic:         events.UserRegisteredTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
	if err := kafka.ValidateOutboxEvent(outbox); err != nil {
		return AuthResponse{}, err
	}
	if err := s.outboxRepo.WithTx(tx).Create(ctx, outbox); err != nil {
		return AuthResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return AuthResponse{}, fmt.Errorf("commit registration: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", u.ID.String()),
		zap.String("company_id", u.CompanyID.String()))
	return mapToAuthResponse(u), nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	u, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}
	if !u.IsApproved {
		return LoginResponse{}, autherrors.ErrNotApproved
	}

	accessToken, err := s.generateToken(u.ID.String(), u.CompanyID.String(), u.Role, 15*time.Minute)
	if err != nil {
		return LoginResponse{}, autherrors.ErrTokenGenerationFailed
	}
	refreshToken, err := s.generateToken(u.ID.String(), u.CompanyID.String(), u.Role, 7*24*time.Hour)
	if err != nil {
		return LoginResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         mapToAuthResponse(u),
	}, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return LoginResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return LoginResponse{}, autherrors.ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok {
		return LoginResponse{}, autherrors.ErrInvalidToken
	}
	companyID, ok := claims["company_id"].(string)
	if !ok {
		return LoginResponse{}, autherrors.ErrInvalidToken
	}

	u, err := s.userRepo.FindByIDAndCompany(ctx, companyID, userID)
	if err != nil {
		return LoginResponse{}, autherrors.ErrInvalidRefreshToken
	}
	if !u.IsApproved {
		return LoginResponse{}, autherrors.ErrNotApproved
	}

	accessToken, err := s.generateToken(u.ID.String(), u.CompanyID.String(), u.Role, 15*time.Minute)
	if err != nil {
		return LoginResponse{}, autherrors.ErrTokenGenerationFailed
	}
	newRefreshToken, err := s.generateToken(u.ID.String(), u.CompanyID.String(), u.Role, 7*24*time.Hour)
	if err != nil {
		return LoginResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		User:         mapToAuthResponse(u),
	}, nil
}

func (s *service) Me(ctx context.Context, companyID, userID string) (AuthResponse, error) {
	u, err := s.userRepo.FindByIDAndCompany(ctx, companyID, userID)
	if err != nil {
		return AuthResponse{}, user.MapRepositoryError(err)
	}
	return mapToAuthResponse(u), nil
}

func (s *service) generateToken(userID, companyID, role string, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    userID,
		"company_id": companyID,
		"role":       role,
		"exp":        time.Now().Add(expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func mapToAuthResponse(u *user.User) AuthResponse {
	return AuthResponse{
		ID:         u.ID.String(),
		CompanyID:  u.CompanyID.String(),
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		IsApproved: u.IsApproved,
	}
}
