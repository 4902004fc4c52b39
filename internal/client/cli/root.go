package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/streamstock/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.area.Name
	if a.userName != "" {
		s = a.userName + " " + s
	}
	return fmt.Sprintf("(%s)", s)
}

// Root greets the user, resumes a stored session if there is one and runs
// the REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	printlnFn(fmt.Sprintf("Welcome to streamstock, %s area (type 'help' for commands)", a.area.Name))

	if a.svc.Auth != nil && a.svc.Auth.LoggedIn(ctx) {
		a.startSession("")
		a.log.Debug(ctx, "resumed stored session", "area", a.area.Name, "role", a.svc.Auth.Role(ctx))
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) prompt(text string) (string, error) {
	return getSimpleText(a.reader, text, a.out)
}

// idArg parses the first argument as an entity ID.
func idArg(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, errUsage
	}
	n, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q is not an id", common.ErrorValidation, args[0])
	}
	return n, nil
}

// pageArg parses an optional 1-based page number and returns it 0-based.
func pageArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q is not a page number", common.ErrorValidation, args[0])
	}
	return n - 1, nil
}

const (
	areaCustomer = "customer"
	areaAdmin    = "admin"
	areaSupplier = "supplier"
)

func (a *App) commands() []command {
	return []command{
		{name: "register", usage: "register", areas: []string{areaCustomer, areaSupplier}, access: signedOut, run: a.Register},
		{name: "login", usage: "login", access: signedOut, run: a.Login},
		{name: "logout", usage: "logout", access: signedIn, run: a.Logout},

		{name: "categories", aliases: []string{"cats"}, usage: "categories", run: a.Categories},
		{name: "products", usage: "products <category id>", areas: []string{areaCustomer}, run: a.Products},
		{name: "rate", usage: "rate", areas: []string{areaCustomer, areaSupplier}, run: a.Rate},
		{name: "buy", usage: "buy <product id>", areas: []string{areaCustomer}, access: signedIn, run: a.Buy},
		{name: "purchases", usage: "purchases [page]", areas: []string{areaCustomer}, access: signedIn, run: a.Purchases},

		{name: "balance", aliases: []string{"me"}, usage: "balance", areas: []string{areaCustomer, areaSupplier}, access: signedIn, run: a.Balance},
		{name: "recharge", usage: "recharge", areas: []string{areaCustomer}, access: signedIn, run: a.Recharge},
		{name: "withdraw", usage: "withdraw", areas: []string{areaSupplier}, access: signedIn, run: a.Withdraw},
		{name: "transactions", aliases: []string{"txs"}, usage: "transactions", areas: []string{areaCustomer, areaSupplier}, access: signedIn, run: a.Transactions},
		{name: "pending", usage: "pending", areas: []string{areaCustomer, areaSupplier}, access: signedIn, run: a.Pending},

		{name: "myproducts", usage: "myproducts", areas: []string{areaSupplier}, access: signedIn, run: a.MyProducts},
		{name: "addproduct", usage: "addproduct", areas: []string{areaSupplier}, access: signedIn, run: a.AddProduct},
		{name: "editproduct", usage: "editproduct <id>", areas: []string{areaSupplier}, access: signedIn, run: a.EditProduct},
		{name: "delproduct", usage: "delproduct <id>", areas: []string{areaSupplier}, access: signedIn, run: a.DeleteProduct},
		{name: "renew", usage: "renew <product id>", areas: []string{areaSupplier}, access: signedIn, run: a.RenewProduct},
		{name: "stocks", usage: "stocks", areas: []string{areaSupplier}, access: signedIn, run: a.Stocks},
		{name: "addstock", usage: "addstock", areas: []string{areaSupplier}, access: signedIn, run: a.AddStock},
		{name: "editstock", usage: "editstock <id>", areas: []string{areaSupplier}, access: signedIn, run: a.EditStock},
		{name: "stockstatus", usage: "stockstatus <id> <status>", areas: []string{areaSupplier}, access: signedIn, run: a.StockStatus},
		{name: "rmstock", usage: "rmstock <id>", areas: []string{areaSupplier}, access: signedIn, run: a.RemoveStock},
		{name: "sales", usage: "sales [page]", areas: []string{areaSupplier}, access: signedIn, run: a.Sales},

		{name: "addcategory", usage: "addcategory", areas: []string{areaAdmin}, access: signedIn, run: a.AddCategory},
		{name: "editcategory", usage: "editcategory <id>", areas: []string{areaAdmin}, access: signedIn, run: a.EditCategory},
		{name: "delcategory", usage: "delcategory <id>", areas: []string{areaAdmin}, access: signedIn, run: a.DeleteCategory},
		{name: "catstatus", usage: "catstatus <id> on|off", areas: []string{areaAdmin}, access: signedIn, run: a.CategoryStatus},
		{name: "withdrawals", usage: "withdrawals", areas: []string{areaAdmin}, access: signedIn, run: a.Withdrawals},
		{name: "approve", usage: "approve <id>", areas: []string{areaAdmin}, access: signedIn, run: a.Approve},
		{name: "reject", usage: "reject <id>", areas: []string{areaAdmin}, access: signedIn, run: a.Reject},
		{name: "finance", usage: "finance [page]", areas: []string{areaAdmin}, access: signedIn, run: a.Finance},
	}
}
