package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/streamstock/internal/client/client"
	"github.com/dmitrijs2005/streamstock/internal/client/config"
	"github.com/dmitrijs2005/streamstock/internal/client/models"
	"github.com/dmitrijs2005/streamstock/internal/client/session"
	"github.com/dmitrijs2005/streamstock/internal/logging"
)

// AuthService is the session surface the REPL drives.
type AuthService interface {
	Login(ctx context.Context, username, password string) error
	Register(ctx context.Context, req models.RegisterRequest) error
	Logout(ctx context.Context) error
	LoggedIn(ctx context.Context) bool
	Role(ctx context.Context) string
}

type CatalogService interface {
	Categories(ctx context.Context, activeOnly bool) ([]models.Category, error)
	ActiveProducts(ctx context.Context, categoryID int64) ([]models.Product, error)
	ExchangeRate(ctx context.Context) (float64, error)
}

type PurchaseService interface {
	Purchase(ctx context.Context, productID int64, req models.PurchaseRequest) (*models.Purchase, error)
	Purchases(ctx context.Context, page, size int) (*models.Page[models.Purchase], error)
}

type SupplierService interface {
	MyProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, in models.ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	RenewProduct(ctx context.Context, id int64) (*models.Product, error)
	MyStocks(ctx context.Context) ([]models.Stock, error)
	CreateStocks(ctx context.Context, in models.StockInput, profiles int) ([]models.Stock, error)
	UpdateStock(ctx context.Context, id int64, in models.StockInput) (*models.Stock, error)
	SetStockStatus(ctx context.Context, id int64, status string) error
	RemoveStock(ctx context.Context, id int64) error
	Sales(ctx context.Context, page, size int) (*models.Page[models.Sale], error)
}

type WalletService interface {
	Me(ctx context.Context) (*models.User, error)
	Recharge(ctx context.Context, amount float64, isSoles bool) error
	Withdraw(ctx context.Context, amount float64) error
	Transactions(ctx context.Context) ([]models.Transaction, error)
	Pending(ctx context.Context) ([]models.Transaction, error)
}

type AdminService interface {
	CreateCategory(ctx context.Context, in models.CategoryInput) error
	UpdateCategory(ctx context.Context, id int64, in models.CategoryInput) error
	DeleteCategory(ctx context.Context, id int64) error
	SetCategoryStatus(ctx context.Context, id int64, active bool) error
	PendingWithdrawals(ctx context.Context) ([]models.Transaction, error)
	Approve(ctx context.Context, id int64) error
	Reject(ctx context.Context, id int64) error
	FinanceTransactions(ctx context.Context, page int) (*models.Page[models.Transaction], error)
}

// ImageUploader turns a local image into a public URL.
type ImageUploader interface {
	Enabled() bool
	Upload(ctx context.Context, path string) (string, error)
}

// Services bundles what one App needs. Fields the area does not use may be nil.
type Services struct {
	Auth     AuthService
	Catalog  CatalogService
	Purchase PurchaseService
	Supplier SupplierService
	Wallet   WalletService
	Admin    AdminService
	Media    ImageUploader
}

type App struct {
	config *config.Config
	area   client.Area
	bus    *session.Bus
	log    logging.Logger
	svc    Services
	reader *bufio.Reader
	out    io.Writer

	mu       sync.Mutex
	userName string
	loggedIn bool
}

func NewApp(c *config.Config, area client.Area, bus *session.Bus, svc Services, log logging.Logger) *App {
	if log == nil {
		log = logging.Nop()
	}
	return &App{
		config: c,
		area:   area,
		bus:    bus,
		log:    log,
		svc:    svc,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.bus != nil {
		ch, unsubscribe := a.bus.Subscribe(a.area.LogoutTopic)
		defer unsubscribe()
		go a.StartLogoutWatcher(ctx, ch)
	}
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loggedIn
}

func (a *App) areaName() string {
	return a.area.Name
}

func (a *App) startSession(userName string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loggedIn = true
	a.userName = userName
}

// endSession forgets the local session state and reports whether there was
// one.
func (a *App) endSession() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	was := a.loggedIn
	a.loggedIn = false
	a.userName = ""
	return was
}

// StartLogoutWatcher resets the prompt whenever ch signals that the area's
// session ended, e.g. after a failed token refresh. It returns when ctx is
// done.
func (a *App) StartLogoutWatcher(ctx context.Context, ch <-chan struct{}) {
	for {
		select {
		case <-ch:
			if a.endSession() {
				a.log.Info(ctx, "session ended", "area", a.area.Name)
				printlnFn("Your session has ended, please login again.")
			}
		case <-ctx.Done():
			return
		}
	}
}
