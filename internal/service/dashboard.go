package service

import (
	"context"

	"github.com/akhaled-dev/restodesk/internal/models"
	"github.com/akhaled-dev/restodesk/internal/rpc"
)

// Dashboard fetches the landing-page aggregates.
type Dashboard struct {
	rpc rpc.Caller
}

func NewDashboard(caller rpc.Caller) *Dashboard {
	return &Dashboard{rpc: caller}
}

// Stats returns today's headline numbers. A null reply yields zeroed
// stats rather than an error so the page still renders.
func (s *Dashboard) Stats(ctx context.Context) (*models.DashboardStats, error) {
	data, callErr := s.rpc.Call(ctx, "get_dashboard_stats", nil)
	if callErr != nil {
		return nil, callErr
	}
	stats, err := decodeObject[models.DashboardStats]("get_dashboard_stats", data)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = &models.DashboardStats{}
	}
	return stats, nil
}
