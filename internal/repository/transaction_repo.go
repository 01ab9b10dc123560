package repository

import (
	"context"
	"time"

	"umkm-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionFilter struct {
	Status model.PaymentStatus
	From   time.Time
	To     time.Time
	Limit  int
}

// SalesSummary aggregates paid transactions over a period.
type SalesSummary struct {
	Count   int64           `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
	Tax     decimal.Decimal `json:"tax"`
	Cost    decimal.Decimal `json:"cost"`
}

// DailySales is one point of the sales chart.
type DailySales struct {
	Date    string          `json:"date"`
	Count   int64           `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type TopProduct struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type TransactionRepository interface {
	Create(ctx context.Context, transaction *model.Transaction) error
	FindAll(ctx context.Context, companyID uuid.UUID, filter TransactionFilter) ([]model.Transaction, error)
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Transaction, error)
	Summary(ctx context.Context, companyID uuid.UUID, from, to time.Time) (*SalesSummary, error)
	DailySales(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]DailySales, error)
	TopProducts(ctx context.Context, companyID uuid.UUID, from, to time.Time, limit int) ([]TopProduct, error)
	WithTx(tx *gorm.DB) TransactionRepository
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) WithTx(tx *gorm.DB) TransactionRepository {
	return &transactionRepo{tx}
}

func (r *transactionRepo) Create(ctx context.Context, transaction *model.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *transactionRepo) FindAll(ctx context.Context, companyID uuid.UUID, filter TransactionFilter) ([]model.Transaction, error) {
	q := r.db.WithContext(ctx).
		Scopes(forCompany(companyID)).
		Preload("Items")
	if filter.Status != "" {
		q = q.Where("payment_status = ?", filter.Status)
	}
	if !filter.From.IsZero() {
		q = q.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("created_at < ?", filter.To)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var transactions []model.Transaction
	err := q.Order("created_at DESC").Limit(limit).Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.WithContext(ctx).
		Scopes(forCompany(companyID)).
		Preload("Items").
		Preload("User").
		First(&transaction, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) Summary(ctx context.Context, companyID uuid.UUID, from, to time.Time) (*SalesSummary, error) {
	var summary SalesSummary
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select(`COUNT(*) as count,
			COALESCE(SUM(total_amount), 0) as revenue,
			COALESCE(SUM(tax_amount), 0) as tax`).
		Scopes(forCompany(companyID)).
		Where("payment_status = ? AND created_at >= ? AND created_at < ?", model.PaymentPaid, from, to).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}

	// Cost of goods sold, from the product cost at query time.
	err = r.db.WithContext(ctx).
		Table("transaction_items AS ti").
		Select("COALESCE(SUM(ti.quantity * p.cost), 0)").
		Joins("JOIN transactions t ON t.id = ti.transaction_id").
		Joins("JOIN products p ON p.id = ti.product_id").
		Where("t.company_id = ? AND t.payment_status = ? AND t.created_at >= ? AND t.created_at < ?",
			companyID, model.PaymentPaid, from, to).
		Scan(&summary.Cost).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *transactionRepo) DailySales(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]DailySales, error) {
	rows, err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select(`TO_CHAR(DATE(created_at), 'YYYY-MM-DD') as date,
			COUNT(*) as count,
			COALESCE(SUM(total_amount), 0) as revenue`).
		Scopes(forCompany(companyID)).
		Where("payment_status = ? AND created_at >= ? AND created_at < ?", model.PaymentPaid, from, to).
		Group("DATE(created_at)").
		Order("DATE(created_at) ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []DailySales
	for rows.Next() {
		var d DailySales
		if err := rows.Scan(&d.Date, &d.Count, &d.Revenue); err != nil {
			return nil, err
		}
		results = append(results, d)
	}
	return results, rows.Err()
}

func (r *transactionRepo) TopProducts(ctx context.Context, companyID uuid.UUID, from, to time.Time, limit int) ([]TopProduct, error) {
	if limit <= 0 {
		limit = 5
	}
	var out []TopProduct
	err := r.db.WithContext(ctx).
		Table("transaction_items AS ti").
		Select(`ti.product_id, MAX(ti.product_name) as product_name,
			SUM(ti.quantity) as quantity,
			COALESCE(SUM(ti.total_price), 0) as revenue`).
		Joins("JOIN transactions t ON t.id = ti.transaction_id").
		Where("t.company_id = ? AND t.payment_status = ? AND t.created_at >= ? AND t.created_at < ?",
			companyID, model.PaymentPaid, from, to).
		Group("ti.product_id").
		Order("quantity DESC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}
