package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"umkm-pos/internal/model"
	"umkm-pos/internal/repository"
)

var ErrInvalidRange = errors.New("range must be one of 7d, 1m, 3m, 6m, 12m")

// Metric is one dashboard figure with its change against the previous period.
type Metric struct {
	Value         decimal.Decimal `json:"value"`
	Previous      decimal.Decimal `json:"previous"`
	ChangePercent float64         `json:"change_percent"`
	IsPositive    bool            `json:"is_positive"`
}

func newMetric(current, previous decimal.Decimal) Metric {
	m := Metric{Value: current, Previous: previous, IsPositive: !current.LessThan(previous)}
	if !previous.IsZero() {
		pct, _ := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(1).Float64()
		m.ChangePercent = pct
	}
	return m
}

// DashboardMetrics compares today with yesterday.
type DashboardMetrics struct {
	Date               string `json:"date"`
	TotalSales         Metric `json:"total_sales"`
	TransactionCount   Metric `json:"transaction_count"`
	AverageTransaction Metric `json:"average_transaction"`
	Profit             Metric `json:"profit"`
}

type SalesReport struct {
	Range       string                  `json:"range"`
	From        time.Time               `json:"from"`
	To          time.Time               `json:"to"`
	Summary     repository.SalesSummary `json:"summary"`
	Profit      decimal.Decimal         `json:"profit"`
	Daily       []repository.DailySales `json:"daily"`
	TopProducts []repository.TopProduct `json:"top_products"`
}

type DashboardService interface {
	Metrics(ctx context.Context, actor Actor) (*DashboardMetrics, error)
	Alerts(ctx context.Context, actor Actor) ([]StockSummary, error)
	TopProducts(ctx context.Context, actor Actor, days int) ([]repository.TopProduct, error)
	SalesReport(ctx context.Context, actor Actor, rangeKey string) (*SalesReport, error)
}

type dashboardService struct {
	transactionRepo repository.TransactionRepository
	inventoryRepo   repository.InventoryRepository
	now             func() time.Time
}

func NewDashboardService(transactionRepo repository.TransactionRepository, inventoryRepo repository.InventoryRepository) DashboardService {
	return &dashboardService{
		transactionRepo: transactionRepo,
		inventoryRepo:   inventoryRepo,
		now:             time.Now,
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.In(jakarta).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, jakarta)
}

// profit is revenue net of tax minus cost of goods.
func profit(s *repository.SalesSummary) decimal.Decimal {
	return s.Revenue.Sub(s.Tax).Sub(s.Cost)
}

func average(s *repository.SalesSummary) decimal.Decimal {
	if s.Count == 0 {
		return decimal.Zero
	}
	return s.Revenue.Div(decimal.NewFromInt(s.Count)).Round(0)
}

func (s *dashboardService) Metrics(ctx context.Context, actor Actor) (*DashboardMetrics, error) {
	today := startOfDay(s.now())
	tomorrow := today.AddDate(0, 0, 1)
	yesterday := today.AddDate(0, 0, -1)

	cur, err := s.transactionRepo.Summary(ctx, actor.CompanyID, today, tomorrow)
	if err != nil {
		return nil, err
	}
	prev, err := s.transactionRepo.Summary(ctx, actor.CompanyID, yesterday, today)
	if err != nil {
		return nil, err
	}

	return &DashboardMetrics{
		Date:               today.Format("2006-01-02"),
		TotalSales:         newMetric(cur.Revenue, prev.Revenue),
		TransactionCount:   newMetric(decimal.NewFromInt(cur.Count), decimal.NewFromInt(prev.Count)),
		AverageTransaction: newMetric(average(cur), average(prev)),
		Profit:             newMetric(profit(cur), profit(prev)),
	}, nil
}

// Alerts lists variations that are out of stock or below their minimum.
func (s *dashboardService) Alerts(ctx context.Context, actor Actor) ([]StockSummary, error) {
	levels, err := s.inventoryRepo.StockLevels(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	var out []StockSummary
	for _, l := range levels {
		if sum := newStockSummary(l); sum.Status != model.StockTersedia {
			out = append(out, sum)
		}
	}
	return out, nil
}

func (s *dashboardService) TopProducts(ctx context.Context, actor Actor, days int) ([]repository.TopProduct, error) {
	if days <= 0 {
		days = 7
	}
	to := startOfDay(s.now()).AddDate(0, 0, 1)
	return s.transactionRepo.TopProducts(ctx, actor.CompanyID, to.AddDate(0, 0, -days), to, 5)
}

// ReportRange resolves a range key to its start relative to the end of today.
func ReportRange(key string, now time.Time) (from, to time.Time, err error) {
	to = startOfDay(now).AddDate(0, 0, 1)
	switch key {
	case "7d", "":
		from = to.AddDate(0, 0, -7)
	case "1m":
		from = to.AddDate(0, -1, 0)
	case "3m":
		from = to.AddDate(0, -3, 0)
	case "6m":
		from = to.AddDate(0, -6, 0)
	case "12m":
		from = to.AddDate(-1, 0, 0)
	default:
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	return from, to, nil
}

func (s *dashboardService) SalesReport(ctx context.Context, actor Actor, rangeKey string) (*SalesReport, error) {
	from, to, err := ReportRange(rangeKey, s.now())
	if err != nil {
		return nil, err
	}
	if rangeKey == "" {
		rangeKey = "7d"
	}

	summary, err := s.transactionRepo.Summary(ctx, actor.CompanyID, from, to)
	if err != nil {
		return nil, err
	}
	daily, err := s.transactionRepo.DailySales(ctx, actor.CompanyID, from, to)
	if err != nil {
		return nil, err
	}
	top, err := s.transactionRepo.TopProducts(ctx, actor.CompanyID, from, to, 10)
	if err != nil {
		return nil, err
	}

	return &SalesReport{
		Range:       rangeKey,
		From:        from,
		To:          to,
		Summary:     *summary,
		Profit:      profit(summary),
		Daily:       daily,
		TopProducts: top,
	}, nil
}
