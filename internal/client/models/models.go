// Package models defines the marketplace payloads exchanged with the API.
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Amount is a money value. The backend serialises BigDecimal sometimes as a
// number and sometimes as a string.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("amount %s: %w", b, err)
	}
	*a = Amount(f)
	return nil
}

func (a Amount) String() string {
	return strconv.FormatFloat(float64(a), 'f', 2, 64)
}

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Status      string `json:"status,omitempty"`
}

// Active reports whether the category is shown in the storefront.
func (c Category) Active() bool {
	return strings.EqualFold(c.Status, "active")
}

type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

type Product struct {
	ID             int64   `json:"id"`
	ProviderID     int64   `json:"providerId,omitempty"`
	ProviderName   string  `json:"providerName,omitempty"`
	CategoryID     int64   `json:"categoryId,omitempty"`
	CategoryName   string  `json:"categoryName,omitempty"`
	Name           string  `json:"name"`
	Terms          string  `json:"terms,omitempty"`
	ProductDetail  string  `json:"productDetail,omitempty"`
	RequestDetail  string  `json:"requestDetail,omitempty"`
	Days           int     `json:"days,omitempty"`
	SalePrice      Amount  `json:"salePrice"`
	RenewalPrice   Amount  `json:"renewalPrice,omitempty"`
	IsRenewable    bool    `json:"isRenewable"`
	IsOnRequest    bool    `json:"isOnRequest"`
	Active         *bool   `json:"active,omitempty"`
	ImageURL       string  `json:"imageUrl,omitempty"`
	CreatedAt      string  `json:"createdAt,omitempty"`
	PublishStart   string  `json:"publishStart,omitempty"`
	PublishEnd     string  `json:"publishEnd,omitempty"`
	DaysRemaining  *int    `json:"daysRemaining,omitempty"`
	StockResponses []Stock `json:"stockResponses,omitempty"`
}

// UnmarshalJSON also accepts the {"product": {...}, "stockResponses": [...]}
// wrapper some listing endpoints return.
func (p *Product) UnmarshalJSON(b []byte) error {
	type plain Product

	var wrapped struct {
		Product        *plain  `json:"product"`
		StockResponses []Stock `json:"stockResponses"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return err
	}
	if wrapped.Product != nil {
		*p = Product(*wrapped.Product)
		if len(wrapped.StockResponses) > 0 {
			p.StockResponses = wrapped.StockResponses
		}
		return nil
	}

	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = Product(v)
	return nil
}

// InStock is the number of stock items attached to the listing.
func (p Product) InStock() int {
	return len(p.StockResponses)
}

type ProductInput struct {
	Name          string  `json:"name" validate:"required"`
	CategoryID    int64   `json:"categoryId" validate:"required,gt=0"`
	Terms         string  `json:"terms,omitempty"`
	ProductDetail string  `json:"productDetail,omitempty"`
	RequestDetail string  `json:"requestDetail,omitempty"`
	Days          int     `json:"days" validate:"gte=0"`
	SalePrice     float64 `json:"salePrice" validate:"gte=0"`
	RenewalPrice  float64 `json:"renewalPrice" validate:"gte=0"`
	IsRenewable   bool    `json:"isRenewable"`
	IsOnRequest   bool    `json:"isOnRequest"`
	ImageURL      string  `json:"imageUrl,omitempty" validate:"omitempty,url"`
}

type StockType string

const (
	// StockAccount is a whole account.
	StockAccount StockType = "CUENTA"
	// StockProfile is one profile of a shared account.
	StockProfile StockType = "PERFIL"

	// MaxProfiles caps how many profiles one account is split into.
	MaxProfiles = 7
)

func ParseStockType(s string) (StockType, error) {
	switch t := StockType(strings.ToUpper(strings.TrimSpace(s))); t {
	case StockAccount, StockProfile:
		return t, nil
	}
	return "", fmt.Errorf("unknown stock type %q", s)
}

type Stock struct {
	ID           int64     `json:"id"`
	ProductID    int64     `json:"productId"`
	ProductName  string    `json:"productName,omitempty"`
	Username     string    `json:"username"`
	Password     string    `json:"password,omitempty"`
	URL          string    `json:"url,omitempty"`
	Tipo         StockType `json:"tipo"`
	NumeroPerfil *int      `json:"numeroPerfil,omitempty"`
	Pin          string    `json:"pin,omitempty"`
	Status       string    `json:"status,omitempty"`
}

type StockInput struct {
	ProductID    int64     `json:"productId" validate:"required,gt=0"`
	Username     string    `json:"username" validate:"required"`
	Password     string    `json:"password,omitempty"`
	URL          string    `json:"url,omitempty" validate:"omitempty,url"`
	Tipo         StockType `json:"tipo" validate:"required,oneof=CUENTA PERFIL"`
	NumeroPerfil *int      `json:"numeroPerfil"`
	Pin          string    `json:"pin,omitempty"`
}

// ExpandStock turns one form entry into the batch the backend expects: an
// account stays a single item, a shared account becomes profiles 1..n with n
// capped at MaxProfiles.
func ExpandStock(in StockInput, profiles int) []StockInput {
	if in.Tipo != StockProfile {
		in.NumeroPerfil = nil
		return []StockInput{in}
	}

	n := min(profiles, MaxProfiles)
	out := make([]StockInput, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		item := in
		num := i
		item.NumeroPerfil = &num
		out = append(out, item)
	}
	return out
}

type PurchaseRequest struct {
	ClientName  string `json:"clientName" validate:"required"`
	ClientPhone string `json:"clientPhone" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

// Purchase is a stock item bought by the current customer, credentials
// included.
type Purchase struct {
	ID           int64  `json:"id"`
	ProductName  string `json:"productName"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	URL          string `json:"url,omitempty"`
	StartAt      string `json:"startAt,omitempty"`
	EndAt        string `json:"endAt,omitempty"`
	ClientName   string `json:"clientName,omitempty"`
	ClientPhone  string `json:"clientPhone,omitempty"`
	ProviderName string `json:"providerName,omitempty"`
	Status       string `json:"status,omitempty"`
}

// Sale is a stock item the current supplier sold.
type Sale struct {
	ID          int64  `json:"id"`
	ProductName string `json:"productName"`
	Username    string `json:"username,omitempty"`
	BuyerName   string `json:"buyerUsername,omitempty"`
	ClientName  string `json:"clientName,omitempty"`
	ClientPhone string `json:"clientPhone,omitempty"`
	SalePrice   Amount `json:"salePrice"`
	SoldAt      string `json:"soldAt,omitempty"`
	EndAt       string `json:"endAt,omitempty"`
	Status      string `json:"status,omitempty"`
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
	Balance  Amount `json:"balance"`
}

type Transaction struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"userId,omitempty"`
	Username    string `json:"username,omitempty"`
	Type        string `json:"type"`
	Amount      Amount `json:"amount"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

type WalletRequest struct {
	Amount  float64 `json:"amount" validate:"gt=0"`
	IsSoles bool    `json:"isSoles"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username     string  `json:"username" validate:"required,min=3"`
	Password     string  `json:"password" validate:"required,min=8"`
	Phone        string  `json:"phone" validate:"required"`
	Role         string  `json:"role" validate:"required,oneof=user seller"`
	ReferrerCode *string `json:"referrerCode"`
}

type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}
