package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/domain"
	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/store"
	"github.com/nimbuzyn/nimbuzyn/pkg/idx"
	"github.com/nimbuzyn/nimbuzyn/pkg/slogx"
)

type InventoryService struct {
	Store store.Store
}

// ProductInput carries the writable product fields. Profit is not among
// them: it is derived from sale and net on every write.
type ProductInput struct {
	Code      string
	Name      string
	Quantity  int64
	NetValue  float64
	SaleValue float64
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Code) == "" || strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: code and name are required", ErrInvalidInput)
	}
	if in.Quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative", ErrInvalidInput)
	}
	if in.NetValue < 0 || in.SaleValue < 0 {
		return fmt.Errorf("%w: values cannot be negative", ErrInvalidInput)
	}
	return nil
}

// CreateProduct adds an inventory row. Code uniqueness is per owner, so two
// users can both have a product "P1".
func (s *InventoryService) CreateProduct(ctx context.Context, ownerID string, in ProductInput) (domain.Product, error) {
	log := slogx.FromContext(ctx)

	if err := in.validate(); err != nil {
		return domain.Product{}, err
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:        idx.New().String(),
		OwnerID:   ownerID,
		Code:      strings.TrimSpace(in.Code),
		Name:      strings.TrimSpace(in.Name),
		Quantity:  in.Quantity,
		NetValue:  in.NetValue,
		SaleValue: in.SaleValue,
		CreatedAt: now,
		UpdatedAt: now,
	}
	product.ProfitValue = product.UnitProfit()

	if err := s.Store.Products().CreateProduct(ctx, product); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Product{}, ErrDuplicateCode
		}
		return domain.Product{}, err
	}

	log.Info("product created",
		slog.String("product_id", product.ID),
		slog.String("owner_id", ownerID),
		slog.String("code", product.Code),
	)
	return product, nil
}

// ProductUpdate is a partial update; nil fields keep their current value.
type ProductUpdate struct {
	Code      *string
	Name      *string
	Quantity  *int64
	NetValue  *float64
	SaleValue *float64
}

// UpdateProduct applies the non-nil fields and recomputes the derived profit
// from the resulting values. Read-modify-write runs in one transaction.
func (s *InventoryService) UpdateProduct(ctx context.Context, ownerID, productID string, upd ProductUpdate) (domain.Product, error) {
	var product domain.Product

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		product, err = tx.Products().GetProduct(ctx, ownerID, productID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}

		if upd.Code != nil {
			product.Code = strings.TrimSpace(*upd.Code)
		}
		if upd.Name != nil {
			product.Name = strings.TrimSpace(*upd.Name)
		}
		if upd.Quantity != nil {
			product.Quantity = *upd.Quantity
		}
		if upd.NetValue != nil {
			product.NetValue = *upd.NetValue
		}
		if upd.SaleValue != nil {
			product.SaleValue = *upd.SaleValue
		}

		if err := (ProductInput{
			Code:      product.Code,
			Name:      product.Name,
			Quantity:  product.Quantity,
			NetValue:  product.NetValue,
			SaleValue: product.SaleValue,
		}).validate(); err != nil {
			return err
		}

		product.ProfitValue = product.UnitProfit()
		product.UpdatedAt = time.Now().UTC()

		if err := tx.Products().UpdateProduct(ctx, product); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrDuplicateCode
			}
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

// DeleteProduct removes the row; no history is retained.
func (s *InventoryService) DeleteProduct(ctx context.Context, ownerID, productID string) error {
	err := s.Store.Products().DeleteProduct(ctx, ownerID, productID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// ListProducts returns the owner's whole inventory, name order.
func (s *InventoryService) ListProducts(ctx context.Context, ownerID string) ([]domain.Product, error) {
	return s.Store.Products().ListProducts(ctx, ownerID)
}

// Search matches query case-insensitively against product code and name.
// An empty query returns everything, same as ListProducts.
func (s *InventoryService) Search(ctx context.Context, ownerID, query string) ([]domain.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ListProducts(ctx, ownerID)
	}
	return s.Store.Products().SearchProducts(ctx, ownerID, query)
}

// Summary aggregates the owner's inventory on demand. A non-empty OutOfStock
// list is the persistent stock alert; it clears only when quantity updates
// bring those products back above zero.
func (s *InventoryService) Summary(ctx context.Context, ownerID string) (domain.InventorySummary, error) {
	return s.Store.Products().SummarizeInventory(ctx, ownerID)
}
