// Package app wires repositories and services into a runnable set. The API
// server feeds it gorm repositories; forgectl feeds it proxy repositories
// backed by a remote API server. The service layer is identical either way.
package app

import (
	"gorm.io/gorm"

	"github.com/adrianfloca/marketforge-backend/internal/buyers"
	"github.com/adrianfloca/marketforge-backend/internal/cart"
	"github.com/adrianfloca/marketforge-backend/internal/contracts"
	"github.com/adrianfloca/marketforge-backend/internal/notifications"
	"github.com/adrianfloca/marketforge-backend/internal/orders"
	"github.com/adrianfloca/marketforge-backend/internal/products"
	"github.com/adrianfloca/marketforge-backend/internal/sellers"
	"github.com/adrianfloca/marketforge-backend/internal/tracking"
	"github.com/adrianfloca/marketforge-backend/internal/users"
	"github.com/adrianfloca/marketforge-backend/internal/waitlist"
	"github.com/adrianfloca/marketforge-backend/internal/wallets"
	"github.com/adrianfloca/marketforge-backend/pkg/config"
	"github.com/adrianfloca/marketforge-backend/pkg/proxy"
)

// Repos groups one repository per aggregate.
type Repos struct {
	Users         users.Repository
	Sellers       sellers.Repository
	Buyers        buyers.Repository
	Notifications notifications.Repository
	Products      products.Repository
	Orders        orders.Repository
	Contracts     contracts.Repository
	Tracking      tracking.Repository
	Cart          cart.Repository
	Waitlist      waitlist.Repository
	Wallets       wallets.Repository
}

// Services groups one service per aggregate.
type Services struct {
	Users         users.Service
	Sellers       sellers.Service
	Buyers        buyers.Service
	Notifications notifications.Service
	Products      products.Service
	Orders        orders.Service
	Contracts     contracts.Service
	Tracking      tracking.Service
	Cart          cart.Service
	Waitlist      waitlist.Service
	Wallets       wallets.Service
}

// NewLocalRepos builds the gorm-backed repository set.
func NewLocalRepos(db *gorm.DB) Repos {
	return Repos{
		Users:         users.NewRepository(db),
		Sellers:       sellers.NewRepository(db),
		Buyers:        buyers.NewRepository(db),
		Notifications: notifications.NewRepository(db),
		Products:      products.NewRepository(db),
		Orders:        orders.NewRepository(db),
		Contracts:     contracts.NewRepository(db),
		Tracking:      tracking.NewRepository(db),
		Cart:          cart.NewRepository(db),
		Waitlist:      waitlist.NewRepository(db),
		Wallets:       wallets.NewRepository(db),
	}
}

// NewProxyRepos builds the repository set against a remote API server.
func NewProxyRepos(client *proxy.Client) Repos {
	return Repos{
		Users:         users.NewProxyRepository(client),
		Sellers:       sellers.NewProxyRepository(client),
		Buyers:        buyers.NewProxyRepository(client),
		Notifications: notifications.NewProxyRepository(client),
		Products:      products.NewProxyRepository(client),
		Orders:        orders.NewProxyRepository(client),
		Contracts:     contracts.NewProxyRepository(client),
		Tracking:      tracking.NewProxyRepository(client),
		Cart:          cart.NewProxyRepository(client),
		Waitlist:      waitlist.NewProxyRepository(client),
		Wallets:       wallets.NewProxyRepository(client),
	}
}

// BuildServices assembles the service layer on top of a repository set.
func BuildServices(repos Repos, cfg *config.Config) (Services, error) {
	var svc Services
	var err error

	svc.Notifications, err = notifications.NewService(repos.Notifications)
	if err != nil {
		return svc, err
	}

	svc.Users, err = users.NewService(users.ServiceParams{
		Repo:     repos.Users,
		Password: cfg.Password,
	})
	if err != nil {
		return svc, err
	}

	svc.Sellers, err = sellers.NewService(sellers.ServiceParams{
		SellerRepo: repos.Sellers,
		UserRepo:   repos.Users,
	})
	if err != nil {
		return svc, err
	}

	svc.Buyers, err = buyers.NewService(buyers.ServiceParams{
		BuyerRepo:     repos.Buyers,
		UserRepo:      repos.Users,
		SellerRepo:    repos.Sellers,
		Notifications: svc.Notifications,
	})
	if err != nil {
		return svc, err
	}

	svc.Waitlist, err = waitlist.NewService(waitlist.ServiceParams{
		Repo:          repos.Waitlist,
		Notifications: svc.Notifications,
	})
	if err != nil {
		return svc, err
	}

	svc.Products, err = products.NewService(products.ServiceParams{
		Repo:      repos.Products,
		Announcer: svc.Waitlist,
	})
	if err != nil {
		return svc, err
	}

	svc.Cart, err = cart.NewService(cart.ServiceParams{
		Repo:        repos.Cart,
		ProductRepo: repos.Products,
	})
	if err != nil {
		return svc, err
	}

	svc.Orders, err = orders.NewService(orders.ServiceParams{
		Repo:        repos.Orders,
		ProductRepo: repos.Products,
	})
	if err != nil {
		return svc, err
	}

	svc.Contracts, err = contracts.NewService(contracts.ServiceParams{
		Repo:          repos.Contracts,
		OrderRepo:     repos.Orders,
		Notifications: svc.Notifications,
	})
	if err != nil {
		return svc, err
	}

	svc.Tracking, err = tracking.NewService(tracking.ServiceParams{
		Repo:          repos.Tracking,
		OrderRepo:     repos.Orders,
		Notifications: svc.Notifications,
	})
	if err != nil {
		return svc, err
	}

	svc.Wallets, err = wallets.NewService(wallets.ServiceParams{
		Repo:          repos.Wallets,
		Notifications: svc.Notifications,
	})
	if err != nil {
		return svc, err
	}

	return svc, nil
}
