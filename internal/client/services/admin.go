package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/streamstock/internal/client/models"
)

// AdminService groups the back-office operations.
type AdminService struct {
	api Requester
}

func NewAdminService(api Requester) *AdminService {
	return &AdminService{api: api}
}

// CreateCategory adds a category. New categories start inactive unless in
// says otherwise.
func (s *AdminService) CreateCategory(ctx context.Context, in models.CategoryInput) error {
	if in.Status == "" {
		in.Status = "inactive"
	}
	if err := validateInput(in); err != nil {
		return err
	}
	if err := s.api.Do(ctx, http.MethodPost, "/api/categories", nil, in, nil); err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (s *AdminService) UpdateCategory(ctx context.Context, id int64, in models.CategoryInput) error {
	in.Status = ""
	if err := validateInput(in); err != nil {
		return err
	}
	if err := s.api.Do(ctx, http.MethodPut, idPath("/api/categories/%d", id), nil, in, nil); err != nil {
		return fmt.Errorf("update category %d: %w", id, err)
	}
	return nil
}

func (s *AdminService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.api.Do(ctx, http.MethodDelete, idPath("/api/categories/%d", id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return nil
}

// SetCategoryStatus switches a category between active and inactive.
func (s *AdminService) SetCategoryStatus(ctx context.Context, id int64, active bool) error {
	status := "inactive"
	if active {
		status = "active"
	}
	q := url.Values{"status": {status}}
	if err := s.api.Do(ctx, http.MethodPatch, idPath("/api/categories/%d/status", id), q, nil, nil); err != nil {
		return fmt.Errorf("set category %d status: %w", id, err)
	}
	return nil
}

// PendingWithdrawals lists supplier requests waiting for a decision.
func (s *AdminService) PendingWithdrawals(ctx context.Context) ([]models.Transaction, error) {
	var list models.List[models.Transaction]
	if err := s.api.Do(ctx, http.MethodGet, "/api/wallet/admin/pending-provider", nil, nil, &list); err != nil {
		return nil, fmt.Errorf("list pending withdrawals: %w", err)
	}
	return list, nil
}

func (s *AdminService) Approve(ctx context.Context, id int64) error {
	if err := s.api.Do(ctx, http.MethodPost, idPath("/api/wallet/admin/approve/%d", id), nil, struct{}{}, nil); err != nil {
		return fmt.Errorf("approve %d: %w", id, err)
	}
	return nil
}

func (s *AdminService) Reject(ctx context.Context, id int64) error {
	if err := s.api.Do(ctx, http.MethodPost, idPath("/api/wallet/admin/reject/%d", id), nil, struct{}{}, nil); err != nil {
		return fmt.Errorf("reject %d: %w", id, err)
	}
	return nil
}

// FinanceTransactions pages through every wallet movement.
func (s *AdminService) FinanceTransactions(ctx context.Context, page int) (*models.Page[models.Transaction], error) {
	var out models.Page[models.Transaction]
	if err := s.api.Do(ctx, http.MethodGet, "/api/wallet/transactions", pageQuery(page, 0), nil, &out); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return &out, nil
}
