package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/streamstock/internal/client/models"
)

// imageInput asks for an image. A http(s) URL is used as is; anything else
// is taken as a local file and uploaded.
func (a *App) imageInput(ctx context.Context) (string, error) {
	s, err := a.prompt("Image file or URL (empty to skip)")
	if err != nil || s == "" {
		return "", err
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return s, nil
	}
	if a.svc.Media == nil {
		return "", fmt.Errorf("upload %s: image upload unavailable", s)
	}
	url, err := a.svc.Media.Upload(ctx, s)
	if err != nil {
		return "", err
	}
	fmt.Fprintln(a.out, "Uploaded:", url)
	return url, nil
}

func (a *App) productInput(ctx context.Context) (models.ProductInput, error) {
	var in models.ProductInput
	var err error

	if in.Name, err = a.prompt("Product name"); err != nil {
		return in, err
	}
	if in.CategoryID, err = GetInt64(a.reader, "Category ID", 0, a.out); err != nil {
		return in, err
	}
	days, err := GetInt64(a.reader, "Duration in days", 30, a.out)
	if err != nil {
		return in, err
	}
	in.Days = int(days)
	if in.SalePrice, err = GetAmount(a.reader, "Sale price (USD)", 0, a.out); err != nil {
		return in, err
	}
	if in.IsRenewable, err = GetYesNo(a.reader, "Renewable?", false, a.out); err != nil {
		return in, err
	}
	if in.IsRenewable {
		if in.RenewalPrice, err = GetAmount(a.reader, "Renewal price (USD)", in.SalePrice, a.out); err != nil {
			return in, err
		}
	}
	if in.IsOnRequest, err = GetYesNo(a.reader, "Delivered on request?", false, a.out); err != nil {
		return in, err
	}
	if in.IsOnRequest {
		if in.RequestDetail, err = GetMultiline(a.reader, "What the buyer must provide", a.out); err != nil {
			return in, err
		}
	}
	if in.ProductDetail, err = GetMultiline(a.reader, "Product details", a.out); err != nil {
		return in, err
	}
	if in.Terms, err = GetMultiline(a.reader, "Terms", a.out); err != nil {
		return in, err
	}
	if in.ImageURL, err = a.imageInput(ctx); err != nil {
		return in, err
	}
	return in, nil
}

func (a *App) MyProducts(ctx context.Context, _ []string) error {
	list, err := a.svc.Supplier.MyProducts(ctx)
	if err != nil {
		return err
	}
	a.printTable(productHeaders, productRows(list))
	return nil
}

func (a *App) AddProduct(ctx context.Context, _ []string) error {
	in, err := a.productInput(ctx)
	if err != nil {
		return err
	}
	p, err := a.svc.Supplier.CreateProduct(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Product %d created\n", p.ID)
	return nil
}

func (a *App) EditProduct(ctx context.Context, args []string) error {
	productID, err := idArg(args)
	if err != nil {
		return err
	}
	in, err := a.productInput(ctx)
	if err != nil {
		return err
	}
	if _, err := a.svc.Supplier.UpdateProduct(ctx, productID, in); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Product %d updated\n", productID)
	return nil
}

func (a *App) DeleteProduct(ctx context.Context, args []string) error {
	productID, err := idArg(args)
	if err != nil {
		return err
	}
	if err := a.svc.Supplier.DeleteProduct(ctx, productID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Product %d deleted\n", productID)
	return nil
}

func (a *App) RenewProduct(ctx context.Context, args []string) error {
	productID, err := idArg(args)
	if err != nil {
		return err
	}
	p, err := a.svc.Supplier.RenewProduct(ctx, productID)
	if err != nil {
		return err
	}
	if p.PublishEnd != "" {
		fmt.Fprintf(a.out, "Product %d renewed until %s\n", productID, p.PublishEnd)
		return nil
	}
	fmt.Fprintf(a.out, "Product %d renewed\n", productID)
	return nil
}

// stockInput prompts for one stock entry. For a shared account it also
// returns how many profiles to create.
func (a *App) stockInput() (models.StockInput, int, error) {
	var in models.StockInput
	var err error

	if in.ProductID, err = GetInt64(a.reader, "Product ID", 0, a.out); err != nil {
		return in, 0, err
	}
	kind, err := a.prompt("Type: CUENTA (whole account) or PERFIL (shared profiles)")
	if err != nil {
		return in, 0, err
	}
	if in.Tipo, err = models.ParseStockType(kind); err != nil {
		return in, 0, err
	}
	if in.Username, err = a.prompt("Account username or email"); err != nil {
		return in, 0, err
	}
	if in.Password, err = a.prompt("Account password"); err != nil {
		return in, 0, err
	}
	if in.URL, err = a.prompt("Login URL (optional)"); err != nil {
		return in, 0, err
	}

	profiles := 1
	if in.Tipo == models.StockProfile {
		if in.Pin, err = a.prompt("Profile PIN (optional)"); err != nil {
			return in, 0, err
		}
		n, err := GetInt64(a.reader, fmt.Sprintf("Number of profiles (1-%d)", models.MaxProfiles), 1, a.out)
		if err != nil {
			return in, 0, err
		}
		profiles = int(n)
	}
	return in, profiles, nil
}

func (a *App) Stocks(ctx context.Context, _ []string) error {
	list, err := a.svc.Supplier.MyStocks(ctx)
	if err != nil {
		return err
	}
	a.printTable(stockHeaders, stockRows(list))
	return nil
}

func (a *App) AddStock(ctx context.Context, _ []string) error {
	in, profiles, err := a.stockInput()
	if err != nil {
		return err
	}
	created, err := a.svc.Supplier.CreateStocks(ctx, in, profiles)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d stock item(s) created\n", len(created))
	return nil
}

func (a *App) EditStock(ctx context.Context, args []string) error {
	stockID, err := idArg(args)
	if err != nil {
		return err
	}
	in, _, err := a.stockInput()
	if err != nil {
		return err
	}
	if in.Tipo == models.StockProfile {
		n, err := GetInt64(a.reader, "Profile number", 1, a.out)
		if err != nil {
			return err
		}
		num := int(n)
		in.NumeroPerfil = &num
	}
	if _, err := a.svc.Supplier.UpdateStock(ctx, stockID, in); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Stock %d updated\n", stockID)
	return nil
}

func (a *App) StockStatus(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	stockID, err := idArg(args)
	if err != nil {
		return err
	}
	if err := a.svc.Supplier.SetStockStatus(ctx, stockID, args[1]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Stock %d is now %s\n", stockID, args[1])
	return nil
}

func (a *App) RemoveStock(ctx context.Context, args []string) error {
	stockID, err := idArg(args)
	if err != nil {
		return err
	}
	if err := a.svc.Supplier.RemoveStock(ctx, stockID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Stock %d removed\n", stockID)
	return nil
}

func (a *App) Sales(ctx context.Context, args []string) error {
	page, err := pageArg(args)
	if err != nil {
		return err
	}
	res, err := a.svc.Supplier.Sales(ctx, page, 0)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(res.Content))
	for _, s := range res.Content {
		rows = append(rows, []string{id(s.ID), s.ProductName, s.BuyerName, s.ClientName, money(s.SalePrice), s.SoldAt, s.Status})
	}
	a.printTable([]string{"ID", "Product", "Buyer", "Client", "Price", "Sold", "Status"}, rows)
	a.printPageFooter(res.Number, res.TotalPages)
	return nil
}
