package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/dmitrijs2005/streamstock/internal/client/models"
)

// CatalogService reads the public storefront.
type CatalogService struct {
	api Requester
}

func NewCatalogService(api Requester) *CatalogService {
	return &CatalogService{api: api}
}

// Categories returns every category sorted by name. activeOnly drops
// inactive ones.
func (s *CatalogService) Categories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	var list models.List[models.Category]
	if err := s.api.Do(ctx, http.MethodGet, "/api/categories", nil, nil, &list); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	out := make([]models.Category, 0, len(list))
	for _, c := range list {
		if activeOnly && !c.Active() {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// ActiveProducts lists products on sale, all of them for categoryID 0.
func (s *CatalogService) ActiveProducts(ctx context.Context, categoryID int64) ([]models.Product, error) {
	path := "/api/categories/products/active"
	if categoryID > 0 {
		path = idPath("/api/categories/products/%d/active", categoryID)
	}

	var list models.List[models.Product]
	if err := s.api.Do(ctx, http.MethodGet, path, nil, nil, &list); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return list, nil
}

// ExchangeRate returns the current PEN per USD rate.
func (s *CatalogService) ExchangeRate(ctx context.Context) (float64, error) {
	var raw json.RawMessage
	if err := s.api.Do(ctx, http.MethodGet, "/api/categories/exchange/current", nil, nil, &raw); err != nil {
		return 0, fmt.Errorf("exchange rate: %w", err)
	}

	var body struct {
		Rate  *models.Amount `json:"rate"`
		Value *models.Amount `json:"value"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		var bare models.Amount
		if json.Unmarshal(raw, &bare) != nil {
			return 0, fmt.Errorf("exchange rate: %w", err)
		}
		return float64(bare), nil
	}
	switch {
	case body.Rate != nil:
		return float64(*body.Rate), nil
	case body.Value != nil:
		return float64(*body.Value), nil
	}
	return 0, fmt.Errorf("exchange rate: no rate in response")
}
