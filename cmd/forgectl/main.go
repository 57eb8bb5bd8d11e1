// forgectl runs marketplace operations against a remote API server through
// the proxy repositories, exercising the same service layer the server runs
// locally.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/adrianfloca/marketforge-backend/internal/app"
	"github.com/adrianfloca/marketforge-backend/internal/notifications"
	"github.com/adrianfloca/marketforge-backend/internal/products"
	"github.com/adrianfloca/marketforge-backend/pkg/config"
	"github.com/adrianfloca/marketforge-backend/pkg/logger"
	"github.com/adrianfloca/marketforge-backend/pkg/proxy"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "forgectl"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "", "operation: product|products|order|orders|buyer-profile|seller-info|notifications|waitlist-position|contract-chain|wallet")
	id := flag.Int64("id", 0, "record id (product, order, contract)")
	user := flag.Int64("user", 0, "user id (buyer or seller operations)")
	product := flag.Int64("product", 0, "product id (waitlist operations)")
	seller := flag.Int64("seller", 0, "filter products by seller id")
	limit := flag.Int("limit", 20, "page size for list operations")
	cursor := flag.String("cursor", "", "pagination cursor")
	flag.Parse()

	cfg, err := config.Load()
	fatalIf(logg, "failed to load config", err)

	logg = logger.New(logger.Options{
		ServiceName: "forgectl",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	client, err := proxy.NewClient(cfg.Remote, logg)
	fatalIf(logg, "failed to create remote client", err)

	svc, err := app.BuildServices(app.NewProxyRepos(client), cfg)
	fatalIf(logg, "failed to create services", err)

	ctx := context.Background()
	out, err := run(ctx, svc, runParams{
		Cmd:     *cmd,
		ID:      *id,
		User:    *user,
		Product: *product,
		Seller:  *seller,
		Limit:   *limit,
		Cursor:  *cursor,
	})
	if err != nil {
		logg.Error(ctx, "operation failed", err)
		os.Exit(1)
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	fatalIf(logg, "failed to encode result", err)
	fmt.Println(string(encoded))
}

type runParams struct {
	Cmd     string
	ID      int64
	User    int64
	Product int64
	Seller  int64
	Limit   int
	Cursor  string
}

func run(ctx context.Context, svc app.Services, params runParams) (any, error) {
	switch params.Cmd {
	case "product":
		return svc.Products.GetProduct(ctx, params.ID)

	case "products":
		listParams := products.ListParams{Limit: params.Limit, Cursor: params.Cursor}
		if params.Seller > 0 {
			listParams.SellerID = &params.Seller
		}
		return svc.Products.ListProducts(ctx, listParams)

	case "order":
		return svc.Orders.GetOrder(ctx, params.ID)

	case "orders":
		return svc.Orders.ListOrders(ctx, params.User)

	case "buyer-profile":
		return svc.Buyers.GetProfile(ctx, params.User)

	case "seller-info":
		return svc.Sellers.GetSellerInfo(ctx, params.User)

	case "notifications":
		return svc.Notifications.List(ctx, notifications.ListParams{
			RecipientID: params.User,
			Limit:       params.Limit,
			Cursor:      params.Cursor,
		})

	case "waitlist-position":
		position, err := svc.Waitlist.Position(ctx, params.Product, params.User)
		if err != nil {
			return nil, err
		}
		return map[string]int{"position": position}, nil

	case "contract-chain":
		return svc.Contracts.ContractChain(ctx, params.ID)

	case "wallet":
		return svc.Wallets.GetWallet(ctx, params.User)

	default:
		return nil, fmt.Errorf("unknown -cmd value: %q", params.Cmd)
	}
}

func fatalIf(logg *logger.Logger, msg string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), msg, err)
	os.Exit(1)
}
