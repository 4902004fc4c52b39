package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/streamstock/internal/client/models"
)

// WalletService covers balance, top-ups and supplier withdrawals.
type WalletService struct {
	api Requester
}

func NewWalletService(api Requester) *WalletService {
	return &WalletService{api: api}
}

// Me returns the current user, balance included.
func (s *WalletService) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := s.api.Do(ctx, http.MethodGet, "/api/users/me", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &out, nil
}

// Recharge requests a top-up. It stays pending until an admin approves it.
func (s *WalletService) Recharge(ctx context.Context, amount float64, isSoles bool) error {
	in := models.WalletRequest{Amount: amount, IsSoles: isSoles}
	if err := validateInput(in); err != nil {
		return err
	}
	if err := s.api.Do(ctx, http.MethodPost, "/api/wallet/recharge", nil, in, nil); err != nil {
		return fmt.Errorf("recharge: %w", err)
	}
	return nil
}

// Withdraw asks for a supplier payout in dollars.
func (s *WalletService) Withdraw(ctx context.Context, amount float64) error {
	in := models.WalletRequest{Amount: amount}
	if err := validateInput(in); err != nil {
		return err
	}
	if err := s.api.Do(ctx, http.MethodPost, "/api/wallet/provider/withdraw", nil, in, nil); err != nil {
		return fmt.Errorf("withdraw: %w", err)
	}
	return nil
}

// Transactions lists completed wallet movements.
func (s *WalletService) Transactions(ctx context.Context) ([]models.Transaction, error) {
	var list models.List[models.Transaction]
	q := url.Values{"status": {"complete"}}
	if err := s.api.Do(ctx, http.MethodGet, "/api/wallet/user/transactions", q, nil, &list); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return list, nil
}

// Pending lists requests still waiting for approval.
func (s *WalletService) Pending(ctx context.Context) ([]models.Transaction, error) {
	var list models.List[models.Transaction]
	if err := s.api.Do(ctx, http.MethodGet, "/api/wallet/user/pending", nil, nil, &list); err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	return list, nil
}
