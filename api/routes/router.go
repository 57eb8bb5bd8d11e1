package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adrianfloca/marketforge-backend/api/controllers"
	"github.com/adrianfloca/marketforge-backend/api/middleware"
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
	"github.com/adrianfloca/marketforge-backend/pkg/auth/session"
	"github.com/adrianfloca/marketforge-backend/pkg/config"
	"github.com/adrianfloca/marketforge-backend/pkg/db"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	"github.com/adrianfloca/marketforge-backend/pkg/logger"
	"github.com/adrianfloca/marketforge-backend/pkg/metrics"
	"github.com/adrianfloca/marketforge-backend/pkg/redis"
)

type sessionManager interface {
	session.Checker
	Create(context.Context, string, int64) error
	Revoke(context.Context, string) error
}

// RouterParams collects everything the HTTP surface needs. Raw repositories
// sit alongside their services because the remote repository wire endpoints
// bypass service orchestration on purpose.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *redis.Client
	Metrics  *metrics.HTTPMetrics
	Registry *prometheus.Registry
	Sessions sessionManager

	UserRepo         users.Repository
	UserService      users.Service
	SellerRepo       sellers.Repository
	SellerService    sellers.Service
	BuyerRepo        buyers.Repository
	BuyerService     buyers.Service
	NotificationRepo notifications.Repository
	Notifications    notifications.Service
	ProductRepo      products.Repository
	ProductService   products.Service
	OrderRepo        orders.Repository
	OrderService     orders.Service
	ContractRepo     contracts.Repository
	ContractService  contracts.Service
	TrackingRepo     tracking.Repository
	TrackingService  tracking.Service
	CartRepo         cart.Repository
	CartService      cart.Service
	WaitlistRepo     waitlist.Repository
	WaitlistService  waitlist.Service
	WalletRepo       wallets.Repository
	WalletService    wallets.Service
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(params.Metrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterUsernameLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.DB, params.Redis))
	})

	if params.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, params.Redis, logg)).
			Post("/register", controllers.AuthRegister(params.UserService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, params.Redis, logg)).
			Post("/login", controllers.AuthLogin(params.UserService, params.Sessions, cfg, logg))
		r.Post("/logout", controllers.AuthLogout(params.Sessions, cfg, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(middleware.AuthParams{
			JWT:          cfg.JWT,
			ServiceToken: cfg.Remote.Token,
			Sessions:     params.Sessions,
			Logger:       logg,
		}))

		admin := middleware.RequireRole(string(enums.UserRoleAdmin), logg)
		seller := middleware.RequireRole(string(enums.UserRoleSeller), logg)

		r.Route("/users", func(r chi.Router) {
			r.With(admin).Post("/", controllers.UserCreate(params.UserRepo, logg))
			r.With(admin).Get("/", controllers.UserList(params.UserService, logg))
			r.Get("/by-username/{username}", controllers.UserByUsername(params.UserService, logg))
			r.With(admin).Get("/by-email/{email}", controllers.UserByEmail(params.UserRepo, logg))

			r.Route("/records", func(r chi.Router) {
				r.Use(admin)
				r.Get("/{userID}", controllers.UserRecordDetail(params.UserRepo, logg))
				r.Get("/by-username/{username}", controllers.UserRecordByUsername(params.UserRepo, logg))
				r.Get("/by-email/{email}", controllers.UserRecordByEmail(params.UserRepo, logg))
			})

			r.Route("/{userID}", func(r chi.Router) {
				r.Get("/", controllers.UserDetail(params.UserService, logg))
				r.With(admin).Put("/", controllers.UserUpdate(params.UserRepo, logg))
				r.With(admin).Delete("/", controllers.UserDelete(params.UserService, logg))
				r.With(admin).Patch("/role", controllers.UserAssignRole(params.UserService, logg))
				r.With(admin).Patch("/ban", controllers.UserSetBan(params.UserRepo, logg))
				r.With(admin).Post("/login-failure", controllers.UserRecordLoginFailure(params.UserRepo, logg))
				r.With(admin).Post("/login-success", controllers.UserRecordLoginSuccess(params.UserRepo, logg))

				r.Route("/notifications", func(r chi.Router) {
					r.Get("/", controllers.NotificationList(params.Notifications, logg))
					r.Patch("/read-all", controllers.NotificationMarkAllRead(params.Notifications, logg))
					r.Patch("/{notificationID}/read", controllers.NotificationMarkRead(params.NotificationRepo, logg))
				})
			})
		})

		r.With(admin).Post("/notifications", controllers.NotificationCreate(params.NotificationRepo, logg))

		r.Route("/sellers", func(r chi.Router) {
			r.With(admin).Post("/", controllers.SellerCreate(params.SellerRepo, logg))
			r.Post("/profile", controllers.SellerOnboard(params.SellerService, logg))
			r.With(seller).Put("/profile", controllers.SellerUpdateProfile(params.SellerService, logg))

			r.Route("/{userID}", func(r chi.Router) {
				r.Get("/", controllers.SellerDetail(params.SellerRepo, logg))
				r.Get("/info", controllers.SellerInfo(params.SellerService, logg))
				r.With(admin).Put("/", controllers.SellerUpdate(params.SellerRepo, logg))
				r.With(admin).Delete("/", controllers.SellerDelete(params.SellerRepo, logg))
				r.With(admin).Patch("/trust-score", controllers.SellerUpdateTrustScore(params.SellerService, logg))
				r.With(admin).Patch("/followers", controllers.SellerAdjustFollowers(params.SellerRepo, logg))
			})
		})

		r.Route("/buyers", func(r chi.Router) {
			r.With(admin).Post("/", controllers.BuyerCreate(params.BuyerRepo, logg))
			r.Post("/profile", controllers.BuyerOnboard(params.BuyerService, logg))
			r.Put("/profile", controllers.BuyerUpdateProfile(params.BuyerService, logg))
			r.Get("/by-shipping-address", controllers.BuyerSearchByShippingAddress(params.BuyerService, logg))

			r.Route("/linkages", func(r chi.Router) {
				r.With(admin).Post("/", controllers.LinkageCreate(params.BuyerRepo, logg))
				r.Post("/request", controllers.BuyerRequestLinkage(params.BuyerService, logg))
				r.Get("/between", controllers.LinkageBetween(params.BuyerRepo, logg))
				r.Route("/{linkageID}", func(r chi.Router) {
					r.Get("/", controllers.LinkageDetail(params.BuyerRepo, logg))
					r.With(admin).Patch("/status", controllers.LinkageSetStatus(params.BuyerRepo, logg))
					r.Post("/respond", controllers.BuyerRespondLinkage(params.BuyerService, logg))
				})
			})

			r.Post("/followings/{sellerID}", controllers.BuyerFollowSeller(params.BuyerService, logg))
			r.Delete("/followings/{sellerID}", controllers.BuyerUnfollowSeller(params.BuyerService, logg))

			r.Route("/{userID}", func(r chi.Router) {
				r.Get("/", controllers.BuyerDetail(params.BuyerRepo, logg))
				r.With(admin).Put("/", controllers.BuyerUpdate(params.BuyerRepo, logg))
				r.With(admin).Delete("/", controllers.BuyerDelete(params.BuyerRepo, logg))
				r.Get("/profile", controllers.BuyerProfile(params.BuyerService, logg))
				r.Get("/linkages", controllers.BuyerListLinkages(params.BuyerService, logg))

				r.Get("/followings", controllers.BuyerListFollowedSellers(params.BuyerService, logg))
				r.With(admin).Post("/followings/{sellerID}", controllers.FollowingCreate(params.BuyerRepo, logg))
				r.With(admin).Delete("/followings/{sellerID}", controllers.FollowingDelete(params.BuyerRepo, logg))

				r.Route("/cart", func(r chi.Router) {
					r.Get("/", controllers.CartLines(params.CartRepo, logg))
					r.Delete("/", controllers.CartClear(params.CartRepo, logg))
					r.Get("/total", controllers.CartTotal(params.CartRepo, logg))
					r.Get("/summary", controllers.CartSummary(params.CartService, logg))
					r.Post("/items", controllers.CartAddItem(params.CartService, logg))
					r.Put("/items/{productID}", controllers.CartSetQuantity(params.CartService, logg))
					r.Delete("/items/{productID}", controllers.CartRemoveItem(params.CartRepo, logg))
				})

				r.Route("/wallet", func(r chi.Router) {
					r.Post("/", controllers.WalletCreate(params.WalletService, logg))
					r.Get("/", controllers.WalletDetail(params.WalletService, logg))
					r.Post("/credit", controllers.WalletCredit(params.WalletService, logg))
					r.Post("/debit", controllers.WalletDebit(params.WalletService, logg))
				})
				r.Post("/cards", controllers.CardCreate(params.WalletService, logg))
				r.Get("/cards", controllers.CardList(params.WalletService, logg))

				r.Get("/orders", controllers.OrderListByBuyer(params.OrderService, logg))
				r.Get("/orders/search", controllers.OrderSearch(params.OrderService, logg))
				r.Get("/order-histories", controllers.OrderHistoryList(params.OrderService, logg))
				r.Get("/waitlists", controllers.WaitlistProducts(params.WaitlistService, logg))
			})
		})

		r.Route("/cards/{cardID}", func(r chi.Router) {
			r.Get("/", controllers.CardDetail(params.WalletService, logg))
			r.Post("/credit", controllers.CardCredit(params.WalletService, logg))
			r.Post("/debit", controllers.CardDebit(params.WalletService, logg))
			r.Delete("/", controllers.CardDelete(params.WalletRepo, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.With(admin).Post("/", controllers.ProductCreate(params.ProductRepo, logg))
			r.Get("/", controllers.ProductList(params.ProductService, logg))

			r.Route("/{productID}", func(r chi.Router) {
				r.Get("/", controllers.ProductDetail(params.ProductService, logg))
				r.With(admin).Put("/", controllers.ProductUpdate(params.ProductRepo, logg))
				r.Delete("/", controllers.ProductDelete(params.ProductService, logg))

				r.Route("/waitlist", func(r chi.Router) {
					r.With(admin).Post("/", controllers.WaitlistEnqueue(params.WaitlistRepo, logg))
					r.Get("/", controllers.WaitlistBuyers(params.WaitlistService, logg))
					r.Post("/join", controllers.WaitlistJoin(params.WaitlistService, logg))
					r.Post("/leave", controllers.WaitlistLeave(params.WaitlistService, logg))
					r.With(admin).Delete("/{buyerID}", controllers.WaitlistDequeue(params.WaitlistRepo, logg))
					r.Get("/{buyerID}/position", controllers.WaitlistPosition(params.WaitlistService, logg))
				})
			})
		})

		r.Route("/listings", func(r chi.Router) {
			r.Use(seller)
			r.Post("/", controllers.ListingPublish(params.ProductService, logg))
			r.Put("/{productID}", controllers.ListingRevise(params.ProductService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(admin).Post("/", controllers.OrderPlace(params.OrderRepo, logg))
			r.Post("/checkout", controllers.OrderCheckout(params.OrderService, logg))

			r.Route("/{orderID}", func(r chi.Router) {
				r.Get("/", controllers.OrderDetail(params.OrderService, logg))
				r.Get("/tracking", controllers.TrackingByOrder(params.TrackingService, logg))
				r.Post("/tracking", controllers.TrackingStart(params.TrackingService, logg))
				r.Get("/contracts", controllers.ContractListByOrder(params.ContractService, logg))
				r.Post("/contracts", controllers.ContractOpen(params.ContractService, logg))
			})
		})

		r.Get("/order-summaries/{summaryID}", controllers.OrderSummaryDetail(params.OrderService, logg))
		r.Get("/order-histories/{historyID}/products", controllers.OrderHistoryProducts(params.OrderService, logg))

		r.Route("/contracts", func(r chi.Router) {
			r.With(admin).Post("/", controllers.ContractCreate(params.ContractRepo, logg))

			r.Route("/{contractID}", func(r chi.Router) {
				r.Get("/", controllers.ContractDetail(params.ContractService, logg))
				r.Get("/chain", controllers.ContractChain(params.ContractService, logg))
				r.With(admin).Post("/renew", controllers.ContractRenewRaw(params.ContractRepo, logg))
				r.Post("/renewal", controllers.ContractRenew(params.ContractService, logg))
				r.Post("/expire", controllers.ContractExpire(params.ContractService, logg))
				r.With(admin).Patch("/status", controllers.ContractSetStatus(params.ContractRepo, logg))
				r.Post("/pdf", controllers.ContractAttachPDF(params.ContractService, logg))
			})
		})

		r.Get("/predefined-contracts", controllers.PredefinedContractList(params.ContractService, logg))
		r.Get("/predefined-contracts/{templateID}", controllers.PredefinedContractDetail(params.ContractService, logg))
		r.Get("/contract-pdfs/{pdfID}", controllers.ContractPDFDetail(params.ContractService, logg))

		r.Route("/tracked-orders", func(r chi.Router) {
			r.With(admin).Post("/", controllers.TrackedOrderCreate(params.TrackingRepo, logg))

			r.Route("/{trackedOrderID}", func(r chi.Router) {
				r.Get("/", controllers.TrackedOrderDetail(params.TrackingRepo, logg))
				r.With(admin).Patch("/delivery", controllers.TrackedOrderUpdateDelivery(params.TrackingRepo, logg))
				r.Patch("/reschedule", controllers.TrackingReschedule(params.TrackingService, logg))

				r.Route("/checkpoints", func(r chi.Router) {
					r.With(admin).Post("/", controllers.CheckpointAppend(params.TrackingRepo, logg))
					r.Get("/", controllers.CheckpointList(params.TrackingService, logg))
					r.Get("/latest", controllers.CheckpointLatest(params.TrackingRepo, logg))
					r.Post("/advance", controllers.CheckpointAdvance(params.TrackingService, logg))
					r.With(admin).Post("/revert", controllers.CheckpointRevert(params.TrackingService, logg))
				})
			})
		})
	})

	return r
}
