package team

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	teamerrors "go-hrms/internal/team/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const teamAllKeyPrefix = "teams:all:"

//go:generate mockgen -source=team_service.go -destination=mock/team_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateTeamRequest) (TeamResponse, error)
	GetAll(ctx context.Context, companyID string) ([]TeamResponse, error)
	GetByID(ctx context.Context, companyID, id string) (TeamResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("team.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("team.service")
	}
	return &service{db: db, repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateTeamRequest) (TeamResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return TeamResponse{}, teamerrors.ErrInvalidCompanyID
	}

	t := &Team{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		Name:      req.Name,
	}

	if err := s.repo.GetOrCreate(ctx, t); err != nil {
		s.logger.Error("create team failed", zap.Error(err))
		return TeamResponse{}, err
	}

	// Listing cache is stale now.
	if s.rdb != nil {
		s.rdb.Del(ctx, teamAllKeyPrefix+companyID)
	}

	return mapToResponse(*t), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]TeamResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return nil, teamerrors.ErrInvalidCompanyID
	}

	cacheKey := fmt.Sprintf("%s%s", teamAllKeyPrefix, companyID)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var resp []TeamResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		teams, err := s.repo.FindAllByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}

		resp := make([]TeamResponse, len(teams))
		for i, t := range teams {
			resp[i] = mapToResponse(t)
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 30*time.Minute)
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]TeamResponse), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (TeamResponse, error) {
	t, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TeamResponse{}, teamerrors.ErrTeamNotFound
		}
		return TeamResponse{}, err
	}
	return mapToResponse(*t), nil
}

func mapToResponse(t Team) TeamResponse {
	return TeamResponse{
		ID:        t.ID.String(),
		CompanyID: t.CompanyID.String(),
		Name:      t.Name,
	}
}
