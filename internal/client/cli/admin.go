package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/streamstock/internal/client/models"
)

func (a *App) categoryInput(ctx context.Context) (models.CategoryInput, error) {
	var in models.CategoryInput
	var err error

	if in.Name, err = a.prompt("Category name"); err != nil {
		return in, err
	}
	if in.Description, err = a.prompt("Description (optional)"); err != nil {
		return in, err
	}
	if in.ImageURL, err = a.imageInput(ctx); err != nil {
		return in, err
	}
	return in, nil
}

func (a *App) AddCategory(ctx context.Context, _ []string) error {
	in, err := a.categoryInput(ctx)
	if err != nil {
		return err
	}
	if err := a.svc.Admin.CreateCategory(ctx, in); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Category %q created (inactive)\n", in.Name)
	return nil
}

func (a *App) EditCategory(ctx context.Context, args []string) error {
	categoryID, err := idArg(args)
	if err != nil {
		return err
	}
	in, err := a.categoryInput(ctx)
	if err != nil {
		return err
	}
	if err := a.svc.Admin.UpdateCategory(ctx, categoryID, in); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Category %d updated\n", categoryID)
	return nil
}

func (a *App) DeleteCategory(ctx context.Context, args []string) error {
	categoryID, err := idArg(args)
	if err != nil {
		return err
	}
	if err := a.svc.Admin.DeleteCategory(ctx, categoryID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Category %d deleted\n", categoryID)
	return nil
}

func (a *App) CategoryStatus(ctx context.Context, args []string) error {
	if len(args) < 2 || (args[1] != "on" && args[1] != "off") {
		return errUsage
	}
	categoryID, err := idArg(args)
	if err != nil {
		return err
	}
	if err := a.svc.Admin.SetCategoryStatus(ctx, categoryID, args[1] == "on"); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Category %d switched %s\n", categoryID, args[1])
	return nil
}

func (a *App) Withdrawals(ctx context.Context, _ []string) error {
	list, err := a.svc.Admin.PendingWithdrawals(ctx)
	if err != nil {
		return err
	}
	a.printTable(transactionHeaders, transactionRows(list))
	return nil
}

func (a *App) Approve(ctx context.Context, args []string) error {
	txID, err := idArg(args)
	if err != nil {
		return err
	}
	if err := a.svc.Admin.Approve(ctx, txID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Request %d approved\n", txID)
	return nil
}

func (a *App) Reject(ctx context.Context, args []string) error {
	txID, err := idArg(args)
	if err != nil {
		return err
	}
	if err := a.svc.Admin.Reject(ctx, txID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Request %d rejected\n", txID)
	return nil
}

func (a *App) Finance(ctx context.Context, args []string) error {
	page, err := pageArg(args)
	if err != nil {
		return err
	}
	res, err := a.svc.Admin.FinanceTransactions(ctx, page)
	if err != nil {
		return err
	}
	a.printTable(transactionHeaders, transactionRows(res.Content))
	a.printPageFooter(res.Number, res.TotalPages)
	return nil
}
