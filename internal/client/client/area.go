package client

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/streamstock/internal/client/session"
)

// Area is one independent session context of the marketplace. Each area has
// its own token record and logout topic.
type Area struct {
	Name string
	// Role the stored token must carry; empty accepts any.
	Role string
	// RefreshOnUnauthorized enables refresh-and-retry on 401. When false a
	// 401 ends the session.
	RefreshOnUnauthorized bool
	ForbiddenEndsSession  bool
	LogoutTopic           string
}

var (
	Customer = Area{
		Name:                  "customer",
		RefreshOnUnauthorized: true,
		LogoutTopic:           session.TopicLogout,
	}
	Admin = Area{
		Name:                 "admin",
		Role:                 "ADMIN",
		ForbiddenEndsSession: true,
		LogoutTopic:          session.TopicAdminLogout,
	}
	Supplier = Area{
		Name:                 "supplier",
		Role:                 "PROVIDER",
		ForbiddenEndsSession: true,
		LogoutTopic:          session.TopicSupplierLogout,
	}
)

// Areas lists the known areas.
func Areas() []Area {
	return []Area{Customer, Admin, Supplier}
}

// AreaByName resolves a configured area name, case-insensitively.
func AreaByName(name string) (Area, error) {
	for _, a := range Areas() {
		if strings.EqualFold(a.Name, name) {
			return a, nil
		}
	}
	return Area{}, fmt.Errorf("unknown area %q", name)
}
