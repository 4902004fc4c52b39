package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/streamstock/internal/client/client"
	"github.com/dmitrijs2005/streamstock/internal/client/models"
	"github.com/dmitrijs2005/streamstock/internal/client/session"
	"github.com/dmitrijs2005/streamstock/internal/client/token"
)

const (
	RoleUser   = "user"
	RoleSeller = "seller"
)

// AuthService manages the session of one area.
type AuthService struct {
	api   Requester
	store *token.Store
	area  client.Area
	sink  session.Sink
}

func NewAuthService(api Requester, store *token.Store, area client.Area, sink session.Sink) *AuthService {
	if sink == nil {
		sink = session.Nop
	}
	return &AuthService{api: api, store: store, area: area, sink: sink}
}

// Login exchanges credentials for an access token and stores it. A token
// whose role does not belong to the area is discarded with
// client.ErrRoleMismatch.
func (s *AuthService) Login(ctx context.Context, username, password string) error {
	in := models.LoginRequest{Username: username, Password: password}
	if err := validateInput(in); err != nil {
		return err
	}

	var resp models.TokenResponse
	if err := s.api.Do(ctx, http.MethodPost, "/api/auth/login", nil, in, &resp); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	claims := token.DecodeJWT(resp.AccessToken)
	if claims == nil {
		return fmt.Errorf("login: %w", client.ErrUnauthorized)
	}
	if s.area.Role != "" && token.RoleOf(claims) != s.area.Role {
		if err := s.store.Clear(ctx); err != nil {
			return err
		}
		return fmt.Errorf("login: %w", client.ErrRoleMismatch)
	}

	if err := s.store.SetTokenFromJWT(ctx, resp.AccessToken); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Register creates an account. role is RoleUser for customers and RoleSeller
// for suppliers.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) error {
	if err := validateInput(req); err != nil {
		return err
	}
	if err := s.api.Do(ctx, http.MethodPost, "/api/auth/register", nil, req, nil); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// Logout forgets the stored token and signals the end of the session.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	s.sink.NotifyLoggedOut(ctx)
	return nil
}

// LoggedIn reports whether a usable token is stored.
func (s *AuthService) LoggedIn(ctx context.Context) bool {
	return !s.store.IsExpired(ctx, 0)
}

// Role returns the role of the stored token.
func (s *AuthService) Role(ctx context.Context) string {
	return s.store.Role(ctx)
}
