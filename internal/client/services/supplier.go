package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/streamstock/internal/client/models"
)

// SupplierService manages a supplier's products and stock.
type SupplierService struct {
	api Requester
}

func NewSupplierService(api Requester) *SupplierService {
	return &SupplierService{api: api}
}

func (s *SupplierService) MyProducts(ctx context.Context) ([]models.Product, error) {
	var list models.List[models.Product]
	if err := s.api.Do(ctx, http.MethodGet, "/api/products/provider/me", nil, nil, &list); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return list, nil
}

func (s *SupplierService) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	var out models.Product
	if err := s.api.Do(ctx, http.MethodPost, "/api/products", nil, in, &out); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &out, nil
}

func (s *SupplierService) UpdateProduct(ctx context.Context, id int64, in models.ProductInput) (*models.Product, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	var out models.Product
	if err := s.api.Do(ctx, http.MethodPut, idPath("/api/products/%d", id), nil, in, &out); err != nil {
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}
	return &out, nil
}

func (s *SupplierService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.api.Do(ctx, http.MethodDelete, idPath("/api/products/%d", id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return nil
}

// RenewProduct extends the publication window of a product.
func (s *SupplierService) RenewProduct(ctx context.Context, id int64) (*models.Product, error) {
	var out models.Product
	if err := s.api.Do(ctx, http.MethodPatch, idPath("/api/products/%d/renew", id), nil, nil, &out); err != nil {
		return nil, fmt.Errorf("renew product %d: %w", id, err)
	}
	return &out, nil
}

func (s *SupplierService) MyStocks(ctx context.Context) ([]models.Stock, error) {
	var list models.List[models.Stock]
	if err := s.api.Do(ctx, http.MethodGet, "/api/stocks/provider/me", nil, nil, &list); err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	return list, nil
}

// CreateStocks uploads in as one batch. A profile-type entry is expanded
// into profiles numbered 1..profiles (see models.ExpandStock).
func (s *SupplierService) CreateStocks(ctx context.Context, in models.StockInput, profiles int) ([]models.Stock, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	batch := models.ExpandStock(in, profiles)
	if len(batch) == 0 {
		return nil, fmt.Errorf("create stock: no profiles requested")
	}

	body := struct {
		Stocks []models.StockInput `json:"stocks"`
	}{Stocks: batch}

	var created models.List[models.Stock]
	if err := s.api.Do(ctx, http.MethodPost, "/api/stocks/batch", nil, body, &created); err != nil {
		return nil, fmt.Errorf("create stock: %w", err)
	}
	return created, nil
}

func (s *SupplierService) UpdateStock(ctx context.Context, id int64, in models.StockInput) (*models.Stock, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	var out models.Stock
	if err := s.api.Do(ctx, http.MethodPut, idPath("/api/stocks/%d", id), nil, in, &out); err != nil {
		return nil, fmt.Errorf("update stock %d: %w", id, err)
	}
	return &out, nil
}

func (s *SupplierService) SetStockStatus(ctx context.Context, id int64, status string) error {
	body := struct {
		Status string `json:"status" validate:"required"`
	}{Status: status}
	if err := validateInput(body); err != nil {
		return err
	}
	if err := s.api.Do(ctx, http.MethodPatch, idPath("/api/stocks/%d/status", id), nil, body, nil); err != nil {
		return fmt.Errorf("set stock %d status: %w", id, err)
	}
	return nil
}

func (s *SupplierService) RemoveStock(ctx context.Context, id int64) error {
	if err := s.api.Do(ctx, http.MethodDelete, idPath("/api/stocks/remove/%d", id), nil, nil, nil); err != nil {
		return fmt.Errorf("remove stock %d: %w", id, err)
	}
	return nil
}

func (s *SupplierService) Sales(ctx context.Context, page, size int) (*models.Page[models.Sale], error) {
	var out models.Page[models.Sale]
	if err := s.api.Do(ctx, http.MethodGet, "/api/stocks/provider/sales", pageQuery(page, size), nil, &out); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return &out, nil
}
