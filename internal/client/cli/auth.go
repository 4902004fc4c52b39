package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/streamstock/internal/client/models"
	"github.com/dmitrijs2005/streamstock/internal/client/services"
	"github.com/dmitrijs2005/streamstock/internal/common"
)

// Register prompts for the account details and creates a customer account,
// or a seller account in the supplier area.
//
// The password byte slice is wiped before returning. Any I/O or service
// error is returned unchanged.
func (a *App) Register(ctx context.Context, _ []string) error {
	userName, err := a.prompt("Enter username")
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	phone, err := a.prompt("Enter phone")
	if err != nil {
		return err
	}
	referrer, err := a.prompt("Referral code (optional)")
	if err != nil {
		return err
	}

	req := models.RegisterRequest{
		Username: userName,
		Password: string(password),
		Phone:    phone,
		Role:     services.RoleUser,
	}
	if a.area.Name == areaSupplier {
		req.Role = services.RoleSeller
	}
	if referrer != "" {
		req.ReferrerCode = &referrer
	}

	if err := a.svc.Auth.Register(ctx, req); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Account created, you can login now.")
	return nil
}

// Login prompts for credentials and opens a session in the current area.
// An account whose role does not belong to the area is refused and nothing
// is stored.
func (a *App) Login(ctx context.Context, _ []string) error {
	userName, err := a.prompt("Enter username")
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.svc.Auth.Login(ctx, userName, string(password)); err != nil {
		a.log.Warn(ctx, "login failed", "area", a.area.Name, "error", err)
		return err
	}

	a.startSession(userName)
	a.log.Info(ctx, "logged in", "area", a.area.Name, "role", a.svc.Auth.Role(ctx))
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout forgets the stored token. The local state is reset first so the
// logout notification this triggers is not reported as an expired session.
func (a *App) Logout(ctx context.Context, _ []string) error {
	a.endSession()
	if err := a.svc.Auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
