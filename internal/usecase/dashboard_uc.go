package usecase

import (
	"context"
	"time"

	"github.com/boscoapparel/shop/internal/domain"
)

type DashboardUC struct {
	Stats  domain.StatsRepo
	Orders domain.OrderRepo
}

func (uc *DashboardUC) SalesStats(ctx context.Context) (*domain.SalesStats, error) {
	return uc.Stats.SalesStats(ctx)
}

func (uc *DashboardUC) GraphStats(ctx context.Context) (*domain.GraphStats, error) {
	return uc.Stats.GraphStats(ctx, time.Now())
}

// RecentOrders returns the latest orders with shipping data attached for the
// dashboard table.
func (uc *DashboardUC) RecentOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 10
	}
	list, _, err := uc.Orders.List(ctx, domain.OrderFilter{Page: 1, Limit: limit})
	return list, err
}
