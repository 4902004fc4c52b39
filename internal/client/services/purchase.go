package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/streamstock/internal/client/models"
)

// PurchaseService buys stock and lists what the customer owns.
type PurchaseService struct {
	api Requester
}

func NewPurchaseService(api Requester) *PurchaseService {
	return &PurchaseService{api: api}
}

// Purchase buys one stock item of productID. The response carries the
// delivered credentials.
func (s *PurchaseService) Purchase(ctx context.Context, productID int64, req models.PurchaseRequest) (*models.Purchase, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}

	var out models.Purchase
	if err := s.api.Do(ctx, http.MethodPost, idPath("/api/stocks/products/%d/purchase", productID), nil, req, &out); err != nil {
		return nil, fmt.Errorf("purchase product %d: %w", productID, err)
	}
	return &out, nil
}

func (s *PurchaseService) Purchases(ctx context.Context, page, size int) (*models.Page[models.Purchase], error) {
	var out models.Page[models.Purchase]
	if err := s.api.Do(ctx, http.MethodGet, "/api/stocks/purchases", pageQuery(page, size), nil, &out); err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	return &out, nil
}
