package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"umkm-pos/internal/cart"
	"umkm-pos/internal/model"
	"umkm-pos/internal/repository"
	"umkm-pos/internal/ws"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrPaymentMethod       = errors.New("payment method is required")
)

type CheckoutRequest struct {
	Items         []cart.Item         `json:"items" validate:"required,min=1,dive"`
	PaymentMethod model.PaymentMethod `json:"payment_method" validate:"omitempty,oneof=CASH TRANSFER QRIS CARD"`
	LocationName  string              `json:"location_name" validate:"max=100"`
	Notes         *string             `json:"notes,omitempty"`
}

type QuoteRequest struct {
	Items []cart.Item `json:"items" validate:"required,min=1,dive"`
}

type SalesService interface {
	Quote(ctx context.Context, actor Actor, req *QuoteRequest) (*cart.Quote, error)
	// Checkout records a paid sale and takes the sold units out of store stock.
	Checkout(ctx context.Context, actor Actor, req *CheckoutRequest) (*model.Transaction, error)
	// Hold saves the cart as an unpaid transaction without touching stock.
	Hold(ctx context.Context, actor Actor, req *CheckoutRequest) (*model.Transaction, error)
	List(ctx context.Context, actor Actor, filter repository.TransactionFilter) ([]model.Transaction, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*model.Transaction, error)
}

type salesService struct {
	db              *gorm.DB
	productRepo     repository.ProductRepository
	inventoryRepo   repository.InventoryRepository
	transactionRepo repository.TransactionRepository
	hub             Broadcaster
	taxRate         decimal.Decimal
	log             zerolog.Logger
	now             func() time.Time
}

func NewSalesService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	inventoryRepo repository.InventoryRepository,
	transactionRepo repository.TransactionRepository,
	hub Broadcaster,
	taxRate decimal.Decimal,
	log zerolog.Logger,
) SalesService {
	return &salesService{
		db:              db,
		productRepo:     productRepo,
		inventoryRepo:   inventoryRepo,
		transactionRepo: transactionRepo,
		hub:             hub,
		taxRate:         taxRate,
		log:             log.With().Str("service", "sales").Logger(),
		now:             time.Now,
	}
}

// price loads the catalog rows for items and builds the priced cart.
func (s *salesService) price(ctx context.Context, products repository.ProductRepository, actor Actor, items []cart.Item) (*cart.Cart, error) {
	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(items))
	for _, it := range items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}
	rows, err := products.FindByIDs(ctx, actor.CompanyID, ids)
	if err != nil {
		return nil, err
	}
	return cart.Build(s.taxRate, rows, items)
}

func (s *salesService) Quote(ctx context.Context, actor Actor, req *QuoteRequest) (*cart.Quote, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	c, err := s.price(ctx, s.productRepo, actor, req.Items)
	if err != nil {
		return nil, err
	}
	q := c.Quote()
	return &q, nil
}

func (s *salesService) Checkout(ctx context.Context, actor Actor, req *CheckoutRequest) (*model.Transaction, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.PaymentMethod == "" {
		return nil, ErrPaymentMethod
	}
	return s.record(ctx, actor, req, model.PaymentPaid)
}

func (s *salesService) Hold(ctx context.Context, actor Actor, req *CheckoutRequest) (*model.Transaction, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = model.PaymentCash
	}
	return s.record(ctx, actor, req, model.PaymentHeld)
}

func (s *salesService) record(ctx context.Context, actor Actor, req *CheckoutRequest, status model.PaymentStatus) (*model.Transaction, error) {
	req.LocationName = strings.TrimSpace(req.LocationName)

	var trx *model.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := s.price(ctx, s.productRepo.WithTx(tx), actor, req.Items)
		if err != nil {
			return err
		}

		trx = s.newTransaction(actor, c, req, status)
		if status == model.PaymentPaid {
			if err := s.takeStock(ctx, s.inventoryRepo.WithTx(tx), actor, trx); err != nil {
				return err
			}
		}
		return s.transactionRepo.WithTx(tx).Create(ctx, trx)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", actor.UserID.String()).
		Str("transaction_number", trx.TransactionNumber).
		Str("status", string(status)).
		Str("total", trx.TotalAmount.String()).
		Msg("Transaction recorded")

	s.hub.Publish(actor.CompanyID, ws.Event{
		Type:   ws.EventTransactionCreated,
		Action: string(status),
		Data: map[string]interface{}{
			"id":                 trx.ID,
			"transaction_number": trx.TransactionNumber,
			"total_amount":       trx.TotalAmount,
			"items":              len(trx.Items),
		},
		User:    actor.eventUser(),
		Message: fmt.Sprintf("%s mencatat transaksi %s", actor.Email, trx.TransactionNumber),
	})
	return trx, nil
}

func (s *salesService) newTransaction(actor Actor, c *cart.Cart, req *CheckoutRequest, status model.PaymentStatus) *model.Transaction {
	id := uuid.New()
	now := s.now().In(jakarta)
	q := c.Quote()

	trx := &model.Transaction{
		CompanyID:         actor.CompanyID,
		UserID:            actor.UserID,
		TransactionNumber: fmt.Sprintf("TRX-%s-%s", now.Format("20060102"), strings.ToUpper(id.String()[:8])),
		PaymentMethod:     req.PaymentMethod,
		PaymentStatus:     status,
		LocationName:      strPtr(req.LocationName),
		Subtotal:          q.Subtotal,
		TaxAmount:         q.Tax.Round(2),
		DiscountAmount:    decimal.Zero,
		TotalAmount:       q.Subtotal.Add(q.Tax.Round(2)),
		Notes:             req.Notes,
	}
	trx.ID = id
	trx.CreatedBy = actor.audit()
	trx.UpdatedBy = actor.audit()

	for _, l := range q.Lines {
		item := model.TransactionItem{
			TransactionID: id,
			ProductID:     l.ProductID,
			VariationID:   l.VariationID,
			ProductName:   l.ProductName,
			VariationName: l.VariationName,
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice,
			IsWholesale:   l.IsWholesale,
			TotalPrice:    l.LineTotal,
		}
		item.CreatedBy = actor.audit()
		item.UpdatedBy = actor.audit()
		trx.Items = append(trx.Items, item)
	}
	return trx
}

// takeStock decrements store inventory for every item, spreading a line over
// several store records when one is not enough. Rows are locked in variation
// order so concurrent checkouts cannot deadlock.
func (s *salesService) takeStock(ctx context.Context, inv repository.InventoryRepository, actor Actor, trx *model.Transaction) error {
	items := append([]model.TransactionItem(nil), trx.Items...)
	sort.Slice(items, func(i, j int) bool {
		return items[i].VariationID.String() < items[j].VariationID.String()
	})

	for _, item := range items {
		records, err := inv.LockRecords(ctx, actor.CompanyID, item.VariationID, model.LocationStore, derefStr(trx.LocationName))
		if err != nil {
			return err
		}
		if available := model.TotalQuantity(records); available < item.Quantity {
			return fmt.Errorf("%w: %s (%s) tersedia %d, diminta %d",
				ErrInsufficientStock, item.ProductName, item.VariationName, available, item.Quantity)
		}

		remaining := item.Quantity
		for i := range records {
			if remaining == 0 {
				break
			}
			rec := &records[i]
			take := remaining
			if rec.Quantity < take {
				take = rec.Quantity
			}
			if take == 0 {
				continue
			}
			previous := rec.Quantity
			rec.Quantity -= take
			rec.UpdatedBy = actor.audit()
			remaining -= take

			if err := inv.Save(ctx, rec); err != nil {
				return err
			}
			movement := &model.InventoryTransaction{
				CompanyID:        actor.CompanyID,
				ProductID:        item.ProductID,
				VariationID:      item.VariationID,
				LocationType:     rec.LocationType,
				LocationName:     rec.LocationName,
				TransactionType:  model.InvTxSale,
				Quantity:         take,
				PreviousQuantity: previous,
				ReferenceID:      &trx.ID,
			}
			movement.CreatedBy = actor.audit()
			movement.UpdatedBy = actor.audit()
			if err := inv.CreateMovement(ctx, movement); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *salesService) List(ctx context.Context, actor Actor, filter repository.TransactionFilter) ([]model.Transaction, error) {
	return s.transactionRepo.FindAll(ctx, actor.CompanyID, filter)
}

func (s *salesService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*model.Transaction, error) {
	trx, err := s.transactionRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, notFound(err, ErrTransactionNotFound)
	}
	return trx, nil
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
