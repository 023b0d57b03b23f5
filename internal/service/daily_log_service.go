package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Tomlord1122/tracker-backend/internal/analytics"
	"github.com/Tomlord1122/tracker-backend/internal/cache"
	"github.com/Tomlord1122/tracker-backend/internal/domain"
	"github.com/Tomlord1122/tracker-backend/internal/repository"
)

// DailyLogService stores one question log per profile and day.
type DailyLogService struct {
	*KeyedCollection[domain.DailyLog, *domain.DailyLog]
}

func NewDailyLogService(repo repository.KeyedRepository[domain.DailyLog], c cache.Cache, logger *zap.Logger) *DailyLogService {
	return &DailyLogService{
		KeyedCollection: NewKeyedCollection[domain.DailyLog]("daily-logs", true, repo, c, logger),
	}
}

// Summary totals the profile's questions for the week ending today and
// for all time.
func (s *DailyLogService) Summary(ctx context.Context, p domain.Profile, today domain.Date) (analytics.DailyLogSummary, error) {
	logs, err := s.List(ctx, &p)
	if err != nil {
		return analytics.DailyLogSummary{}, err
	}
	return analytics.SummarizeDailyLogs(logs, today), nil
}
