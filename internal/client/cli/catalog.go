package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/streamstock/internal/client/models"
	"github.com/dmitrijs2005/streamstock/internal/common"
)

// Categories lists categories. Admins see inactive ones too.
func (a *App) Categories(ctx context.Context, _ []string) error {
	list, err := a.svc.Catalog.Categories(ctx, a.area.Name != areaAdmin)
	if err != nil {
		return err
	}
	a.printTable([]string{"ID", "Name", "Status"}, categoryRows(list))
	return nil
}

func (a *App) Products(ctx context.Context, args []string) error {
	categoryID, err := idArg(args)
	if err != nil {
		return err
	}
	list, err := a.svc.Catalog.ActiveProducts(ctx, categoryID)
	if err != nil {
		return err
	}
	a.printTable(productHeaders, productRows(list))
	return nil
}

func (a *App) Rate(ctx context.Context, _ []string) error {
	rate, err := a.svc.Catalog.ExchangeRate(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "1 USD = %.2f PEN\n", rate)
	return nil
}

// Buy purchases one product and prints the delivered credentials.
func (a *App) Buy(ctx context.Context, args []string) error {
	productID, err := idArg(args)
	if err != nil {
		return err
	}

	clientName, err := a.prompt("Client name")
	if err != nil {
		return err
	}
	clientPhone, err := a.prompt("Client phone")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Confirm with your account password.")
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	p, err := a.svc.Purchase.Purchase(ctx, productID, models.PurchaseRequest{
		ClientName:  clientName,
		ClientPhone: clientPhone,
		Password:    string(password),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Purchased %s\n", p.ProductName)
	a.printTable([]string{"Username", "Password", "URL", "Ends"},
		[][]string{{p.Username, p.Password, p.URL, p.EndAt}})
	return nil
}

func (a *App) Purchases(ctx context.Context, args []string) error {
	page, err := pageArg(args)
	if err != nil {
		return err
	}
	res, err := a.svc.Purchase.Purchases(ctx, page, 0)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(res.Content))
	for _, p := range res.Content {
		rows = append(rows, []string{id(p.ID), p.ProductName, p.Username, p.Password, p.EndAt, p.Status})
	}
	a.printTable([]string{"ID", "Product", "Username", "Password", "Ends", "Status"}, rows)
	a.printPageFooter(res.Number, res.TotalPages)
	return nil
}
