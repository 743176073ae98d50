package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/boscoapparel/shop/internal/domain"
)

// StatsRepo serves the dashboard read models straight from SQL. Everything
// here is read-only and idempotent.
type StatsRepo struct{ db *gorm.DB }

func NewStatsRepo(db *gorm.DB) *StatsRepo { return &StatsRepo{db: db} }

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Chart palettes the admin UI keys its legends on.
var (
	categoryColors = [5]string{"#8884d8", "#82ca9d", "#ffc658", "#ff7300", "#00C49F"}
	paymentColors  = [4]string{"#8884d8", "#82ca9d", "#ffc658", "#ff7300"}
)

func (r *StatsRepo) SalesStats(ctx context.Context) (*domain.SalesStats, error) {
	db := r.db.WithContext(ctx)
	out := &domain.SalesStats{MonthlySales: []domain.MonthlyStat{}}

	if err := db.Model(&domain.Order{}).Count(&out.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Order{}).
		Select("COALESCE(SUM(total), 0)").Scan(&out.TotalSales).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Order{}).
		Where("payment_status = ?", domain.PaymentPaid).Count(&out.PaidOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Order{}).
		Where("payment_status = ?", domain.PaymentPending).Count(&out.PendingOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Order{}).
		Where("status = ?", domain.OrderCancelled).Count(&out.CancelledOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Raw(`SELECT EXTRACT(MONTH FROM created_at)::int AS month,
			COALESCE(SUM(total), 0) AS total, COUNT(*) AS count
		FROM orders GROUP BY 1 ORDER BY 1`).Scan(&out.MonthlySales).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *StatsRepo) GraphStats(ctx context.Context, now time.Time) (*domain.GraphStats, error) {
	db := r.db.WithContext(ctx)
	out := &domain.GraphStats{
		// growth computation is a known follow-up; the UI shows this as-is
		TotalSales:         domain.SalesTotals{Change: "+12.5%"},
		TopSellingProducts: "N/A",
	}

	if err := db.Model(&domain.Order{}).Count(&out.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Order{}).
		Select("COUNT(DISTINCT shipping_data_id)").Scan(&out.ActiveCustomers).Error; err != nil {
		return nil, err
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	startOfYear := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	for _, span := range []struct {
		since time.Time
		dst   *float64
	}{
		{startOfDay, &out.TotalSales.Daily},
		{startOfMonth, &out.TotalSales.Monthly},
		{startOfYear, &out.TotalSales.Yearly},
	} {
		if err := db.Model(&domain.Order{}).
			Where("created_at >= ?", span.since).
			Select("COALESCE(SUM(total), 0)").Scan(span.dst).Error; err != nil {
			return nil, err
		}
	}

	var monthly []struct {
		Month   int
		Revenue float64
	}
	if err := db.Raw(`SELECT EXTRACT(MONTH FROM created_at)::int AS month,
			COALESCE(SUM(total), 0) AS revenue
		FROM orders GROUP BY 1 ORDER BY 1`).Scan(&monthly).Error; err != nil {
		return nil, err
	}
	out.Revenue = make([]domain.RevenuePoint, 12)
	for i, name := range monthNames {
		out.Revenue[i] = domain.RevenuePoint{Month: name}
		for _, m := range monthly {
			if m.Month == i+1 {
				out.Revenue[i].Revenue = m.Revenue
			}
		}
	}

	var cats []struct {
		Name  string
		Count int64
	}
	if err := db.Raw(`SELECT c.name AS name, COUNT(p.id) AS count
		FROM categories c LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.id, c.name ORDER BY c.name`).Scan(&cats).Error; err != nil {
		return nil, err
	}
	out.Categories = make([]domain.ChartSlice, 0, len(cats))
	for i, c := range cats {
		out.Categories = append(out.Categories, domain.ChartSlice{
			Name: c.Name, Value: c.Count, Color: categoryColors[i%len(categoryColors)],
		})
	}

	var pays []struct {
		PaymentType string
		Count       int64
	}
	if err := db.Raw(`SELECT payment_type, COUNT(*) AS count
		FROM orders GROUP BY payment_type ORDER BY payment_type`).Scan(&pays).Error; err != nil {
		return nil, err
	}
	out.PaymentMethods = make([]domain.ChartSlice, 0, len(pays))
	for i, p := range pays {
		name := p.PaymentType
		switch p.PaymentType {
		case string(domain.PaymentCOD):
			name = "Cash on Delivery"
		case string(domain.PaymentBank):
			name = "Bank Transfer"
		}
		out.PaymentMethods = append(out.PaymentMethods, domain.ChartSlice{
			Name: name, Value: p.Count, Color: paymentColors[i%len(paymentColors)],
		})
	}

	var top struct{ Name string }
	err := db.Raw(`SELECT p.name FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		GROUP BY p.id, p.name ORDER BY SUM(oi.qty) DESC LIMIT 1`).Scan(&top).Error
	if err != nil {
		return nil, err
	}
	if top.Name != "" {
		out.TopSellingProducts = top.Name
	}
	return out, nil
}
