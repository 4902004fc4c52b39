package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/streamstock/internal/client/client"
	"github.com/dmitrijs2005/streamstock/internal/client/models"
	"github.com/dmitrijs2005/streamstock/internal/logging"
)

func newTestApp(area client.Area, input string, svc Services) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &App{
		area:   area,
		log:    logging.Nop(),
		svc:    svc,
		reader: bufio.NewReader(strings.NewReader(input)),
		out:    out,
	}, out
}

func silencePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

type fakeAuth struct {
	loggedIn bool
	role     string

	loginUser, loginPass string
	loginErr             error
	registered           *models.RegisterRequest
	logoutCalls          int
}

func (f *fakeAuth) Login(_ context.Context, user, pass string) error {
	f.loginUser, f.loginPass = user, pass
	if f.loginErr == nil {
		f.loggedIn = true
	}
	return f.loginErr
}

func (f *fakeAuth) Register(_ context.Context, req models.RegisterRequest) error {
	f.registered = &req
	return nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalls++
	f.loggedIn = false
	return nil
}

func (f *fakeAuth) LoggedIn(context.Context) bool { return f.loggedIn }
func (f *fakeAuth) Role(context.Context) string   { return f.role }

type fakeCatalog struct {
	activeOnly *bool
	categoryID int64
	products   []models.Product
	err        error
}

func (f *fakeCatalog) Categories(_ context.Context, activeOnly bool) ([]models.Category, error) {
	f.activeOnly = &activeOnly
	return []models.Category{{ID: 1, Name: "Netflix", Status: "active"}}, f.err
}

func (f *fakeCatalog) ActiveProducts(_ context.Context, categoryID int64) ([]models.Product, error) {
	f.categoryID = categoryID
	return f.products, f.err
}

func (f *fakeCatalog) ExchangeRate(context.Context) (float64, error) { return 3.75, f.err }

type fakePurchase struct {
	productID int64
	req       models.PurchaseRequest
	page      int
}

func (f *fakePurchase) Purchase(_ context.Context, productID int64, req models.PurchaseRequest) (*models.Purchase, error) {
	f.productID, f.req = productID, req
	return &models.Purchase{ID: 5, ProductName: "Netflix 1 mes", Username: "acc@mail.com", Password: "pw123"}, nil
}

func (f *fakePurchase) Purchases(_ context.Context, page, _ int) (*models.Page[models.Purchase], error) {
	f.page = page
	return &models.Page[models.Purchase]{
		Content:    []models.Purchase{{ID: 5, ProductName: "Netflix 1 mes"}},
		Number:     page,
		TotalPages: 2,
	}, nil
}

type fakeSupplier struct {
	calls    []string
	product  models.ProductInput
	stock    models.StockInput
	profiles int
	status   string
	lastID   int64
}

func (f *fakeSupplier) record(name string, id int64) {
	f.calls = append(f.calls, name)
	f.lastID = id
}

func (f *fakeSupplier) MyProducts(context.Context) ([]models.Product, error) {
	f.record("myproducts", 0)
	return []models.Product{{ID: 1, Name: "Disney+"}}, nil
}

func (f *fakeSupplier) CreateProduct(_ context.Context, in models.ProductInput) (*models.Product, error) {
	f.record("create", 0)
	f.product = in
	return &models.Product{ID: 9, Name: in.Name}, nil
}

func (f *fakeSupplier) UpdateProduct(_ context.Context, id int64, in models.ProductInput) (*models.Product, error) {
	f.record("update", id)
	f.product = in
	return &models.Product{ID: id}, nil
}

func (f *fakeSupplier) DeleteProduct(_ context.Context, id int64) error {
	f.record("delete", id)
	return nil
}

func (f *fakeSupplier) RenewProduct(_ context.Context, id int64) (*models.Product, error) {
	f.record("renew", id)
	return &models.Product{ID: id, PublishEnd: "2026-04-01"}, nil
}

func (f *fakeSupplier) MyStocks(context.Context) ([]models.Stock, error) {
	f.record("stocks", 0)
	return nil, nil
}

func (f *fakeSupplier) CreateStocks(_ context.Context, in models.StockInput, profiles int) ([]models.Stock, error) {
	f.record("createstocks", 0)
	f.stock, f.profiles = in, profiles
	return make([]models.Stock, len(models.ExpandStock(in, profiles))), nil
}

func (f *fakeSupplier) UpdateStock(_ context.Context, id int64, in models.StockInput) (*models.Stock, error) {
	f.record("updatestock", id)
	f.stock = in
	return &models.Stock{ID: id}, nil
}

func (f *fakeSupplier) SetStockStatus(_ context.Context, id int64, status string) error {
	f.record("status", id)
	f.status = status
	return nil
}

func (f *fakeSupplier) RemoveStock(_ context.Context, id int64) error {
	f.record("remove", id)
	return nil
}

func (f *fakeSupplier) Sales(_ context.Context, page, _ int) (*models.Page[models.Sale], error) {
	f.record("sales", int64(page))
	return &models.Page[models.Sale]{Content: []models.Sale{{ID: 1, ProductName: "Disney+", SalePrice: 4}}, TotalPages: 1}, nil
}

type fakeWallet struct {
	recharged *models.WalletRequest
	withdrawn float64
}

func (f *fakeWallet) Me(context.Context) (*models.User, error) {
	return &models.User{Username: "ana", Balance: 25.4}, nil
}

func (f *fakeWallet) Recharge(_ context.Context, amount float64, isSoles bool) error {
	f.recharged = &models.WalletRequest{Amount: amount, IsSoles: isSoles}
	return nil
}

func (f *fakeWallet) Withdraw(_ context.Context, amount float64) error {
	f.withdrawn = amount
	return nil
}

func (f *fakeWallet) Transactions(context.Context) ([]models.Transaction, error) {
	return []models.Transaction{{ID: 1, Type: "RECHARGE", Amount: 10, Status: "COMPLETE"}}, nil
}

func (f *fakeWallet) Pending(context.Context) ([]models.Transaction, error) { return nil, nil }

type fakeAdmin struct {
	calls    []string
	category models.CategoryInput
	active   bool
	lastID   int64
}

func (f *fakeAdmin) record(name string, id int64) {
	f.calls = append(f.calls, name)
	f.lastID = id
}

func (f *fakeAdmin) CreateCategory(_ context.Context, in models.CategoryInput) error {
	f.record("create", 0)
	f.category = in
	return nil
}

func (f *fakeAdmin) UpdateCategory(_ context.Context, id int64, in models.CategoryInput) error {
	f.record("update", id)
	f.category = in
	return nil
}

func (f *fakeAdmin) DeleteCategory(_ context.Context, id int64) error {
	f.record("delete", id)
	return nil
}

func (f *fakeAdmin) SetCategoryStatus(_ context.Context, id int64, active bool) error {
	f.record("status", id)
	f.active = active
	return nil
}

func (f *fakeAdmin) PendingWithdrawals(context.Context) ([]models.Transaction, error) {
	f.record("pending", 0)
	return []models.Transaction{{ID: 8, Username: "prov", Amount: 30}}, nil
}

func (f *fakeAdmin) Approve(_ context.Context, id int64) error {
	f.record("approve", id)
	return nil
}

func (f *fakeAdmin) Reject(_ context.Context, id int64) error {
	f.record("reject", id)
	return nil
}

func (f *fakeAdmin) FinanceTransactions(_ context.Context, page int) (*models.Page[models.Transaction], error) {
	f.record("finance", int64(page))
	return &models.Page[models.Transaction]{Number: page, TotalPages: 4}, nil
}

type fakeUploader struct {
	enabled bool
	path    string
	err     error
}

func (f *fakeUploader) Enabled() bool { return f.enabled }

func (f *fakeUploader) Upload(_ context.Context, path string) (string, error) {
	f.path = path
	if f.err != nil {
		return "", f.err
	}
	return "https://cdn.example.com/products/x.png", nil
}
