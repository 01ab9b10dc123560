package service

import (
	"context"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"umkm-pos/internal/model"
	"umkm-pos/internal/repository"
)

type fakeTransactions struct {
	repository.TransactionRepository
	byDay map[string]*repository.SalesSummary
}

func (f *fakeTransactions) Summary(_ context.Context, _ uuid.UUID, from, _ time.Time) (*repository.SalesSummary, error) {
	if s, ok := f.byDay[from.Format("2006-01-02")]; ok {
		return s, nil
	}
	return &repository.SalesSummary{}, nil
}

type fakeLevels struct {
	repository.InventoryRepository
	levels []repository.StockLevel
}

func (f *fakeLevels) StockLevels(context.Context, uuid.UUID) ([]repository.StockLevel, error) {
	return f.levels, nil
}

func TestDashboardMetrics(t *testing.T) {
	c := qt.New(t)
	txs := &fakeTransactions{byDay: map[string]*repository.SalesSummary{
		"2026-03-15": {Count: 4, Revenue: decimal.NewFromInt(222000), Tax: decimal.NewFromInt(22000), Cost: decimal.NewFromInt(150000)},
		"2026-03-14": {Count: 2, Revenue: decimal.NewFromInt(111000), Tax: decimal.NewFromInt(11000), Cost: decimal.NewFromInt(75000)},
	}}
	svc := &dashboardService{
		transactionRepo: txs,
		// 20:00 UTC on the 14th is already the 15th in Jakarta.
		now: func() time.Time { return time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC) },
	}

	m, err := svc.Metrics(context.Background(), Actor{CompanyID: uuid.New()})
	c.Assert(err, qt.IsNil)
	c.Assert(m.Date, qt.Equals, "2026-03-15")
	c.Assert(m.TotalSales.Value.Equal(decimal.NewFromInt(222000)), qt.IsTrue)
	c.Assert(m.TotalSales.ChangePercent, qt.Equals, 100.0)
	c.Assert(m.TransactionCount.Value.Equal(decimal.NewFromInt(4)), qt.IsTrue)
	c.Assert(m.AverageTransaction.Value.Equal(decimal.NewFromInt(55500)), qt.IsTrue)
	c.Assert(m.Profit.Value.Equal(decimal.NewFromInt(50000)), qt.IsTrue)
	c.Assert(m.Profit.Previous.Equal(decimal.NewFromInt(25000)), qt.IsTrue)
}

func TestDashboardAlerts(t *testing.T) {
	c := qt.New(t)
	levels := &fakeLevels{levels: []repository.StockLevel{
		{ProductName: "Beras", Total: 0, MinStock: 10},
		{ProductName: "Gula", Total: 5, MinStock: 10},
		{ProductName: "Kopi", Total: 40, MinStock: 10},
	}}
	svc := NewDashboardService(nil, levels)

	alerts, err := svc.Alerts(context.Background(), Actor{CompanyID: uuid.New()})
	c.Assert(err, qt.IsNil)
	c.Assert(alerts, qt.HasLen, 2)
	c.Assert(alerts[0].Status, qt.Equals, model.StockHabis)
	c.Assert(alerts[1].Status, qt.Equals, model.StockRendah)
}
