package cli

import (
	"context"
	"fmt"
)

func (a *App) Balance(ctx context.Context, _ []string) error {
	me, err := a.svc.Wallet.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s: balance %s\n", me.Username, money(me.Balance))
	return nil
}

// Recharge asks for a top-up in dollars or soles. It stays pending until an
// admin approves it.
func (a *App) Recharge(ctx context.Context, _ []string) error {
	amount, err := GetAmount(a.reader, "Amount", 0, a.out)
	if err != nil {
		return err
	}
	soles, err := GetYesNo(a.reader, "Amount is in soles (PEN)?", false, a.out)
	if err != nil {
		return err
	}
	if err := a.svc.Wallet.Recharge(ctx, amount, soles); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Recharge requested, waiting for approval.")
	return nil
}

func (a *App) Withdraw(ctx context.Context, _ []string) error {
	amount, err := GetAmount(a.reader, "Amount (USD)", 0, a.out)
	if err != nil {
		return err
	}
	if err := a.svc.Wallet.Withdraw(ctx, amount); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Withdrawal requested, waiting for approval.")
	return nil
}

func (a *App) Transactions(ctx context.Context, _ []string) error {
	list, err := a.svc.Wallet.Transactions(ctx)
	if err != nil {
		return err
	}
	a.printTable(transactionHeaders, transactionRows(list))
	return nil
}

func (a *App) Pending(ctx context.Context, _ []string) error {
	list, err := a.svc.Wallet.Pending(ctx)
	if err != nil {
		return err
	}
	a.printTable(transactionHeaders, transactionRows(list))
	return nil
}
