package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rekhigroup/livplus-backend/api/controllers"
	"github.com/rekhigroup/livplus-backend/api/middleware"
	"github.com/rekhigroup/livplus-backend/internal/auth"
	"github.com/rekhigroup/livplus-backend/internal/cart"
	charge "github.com/rekhigroup/livplus-backend/internal/charges"
	"github.com/rekhigroup/livplus-backend/internal/community"
	inquiry "github.com/rekhigroup/livplus-backend/internal/inquiries"
	order "github.com/rekhigroup/livplus-backend/internal/orders"
	product "github.com/rekhigroup/livplus-backend/internal/products"
	promo "github.com/rekhigroup/livplus-backend/internal/promos"
	slide "github.com/rekhigroup/livplus-backend/internal/slides"
	user "github.com/rekhigroup/livplus-backend/internal/users"
	"github.com/rekhigroup/livplus-backend/pkg/config"
	"github.com/rekhigroup/livplus-backend/pkg/db"
	"github.com/rekhigroup/livplus-backend/pkg/enums"
	"github.com/rekhigroup/livplus-backend/pkg/logger"
	"github.com/rekhigroup/livplus-backend/pkg/metrics"
	"github.com/rekhigroup/livplus-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs. The zero value of any
// optional field disables the feature it backs.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Database db.Pinger
	Redis    *redis.Client
	Sessions middleware.SessionChecker
	Metrics  *metrics.HTTPMetrics
	Registry *prometheus.Registry

	Auth      auth.Service
	Users     user.Service
	Products  product.Service
	Promos    promo.Service
	Charges   charge.Service
	Slides    slide.Service
	Community community.Service
	Inquiries inquiry.Service
	Cart      cart.Service
	Orders    order.Service
}

// NewRouter wires middleware and the full route table.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.LoginPolicy(cfg.AuthRateLimit)
	registerPolicy := middleware.RegisterPolicy(cfg.AuthRateLimit)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg.App.Env))
		r.Get("/ready", controllers.HealthReady(cfg.App.Env, deps.Database, deps.Redis, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// storefront reads need no session
		r.Get("/products", controllers.ListProducts(deps.Products, logg))
		r.Get("/products/{slug}", controllers.GetProductBySlug(deps.Products, logg))
		r.Get("/products/{slug}/reviews", controllers.ListProductReviews(deps.Products, logg))
		r.Get("/slides", controllers.ListHeroSlides(deps.Slides, logg))
		r.Get("/community", controllers.ListCommunityThreads(deps.Community, logg))
		r.Get("/community/{threadId}", controllers.GetCommunityThread(deps.Community, logg))
		r.Get("/community/{threadId}/replies", controllers.ListCommunityReplies(deps.Community, logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(
				middleware.AuthRateLimit(deps.Redis, registerPolicy, logg),
				middleware.Idempotency(deps.Redis, logg),
			).Post("/register", controllers.AuthRegister(deps.Auth, logg))
			r.With(middleware.AuthRateLimit(deps.Redis, loginPolicy, logg)).
				Post("/login", controllers.AuthLogin(deps.Auth, logg))
			r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg)).
				Post("/logout", controllers.AuthLogout(deps.Auth, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Use(middleware.Idempotency(deps.Redis, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(deps.Cart, logg))
				r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
				r.Patch("/items/{productId}", controllers.CartSetQuantity(deps.Cart, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(deps.Cart, logg))
				r.Delete("/", controllers.CartClear(deps.Cart, logg))
				r.Post("/promo", controllers.CartApplyPromo(deps.Cart, logg))
				r.Delete("/promo", controllers.CartRemovePromo(deps.Cart, logg))
			})

			r.Post("/checkout", controllers.Checkout(deps.Orders, logg))
			r.Get("/orders", controllers.ListMyOrders(deps.Orders, logg))
			r.Get("/orders/{orderId}", controllers.GetMyOrder(deps.Orders, logg))

			r.Post("/community", controllers.CreateCommunityThread(deps.Community, logg))
			r.Post("/community/{threadId}/replies", controllers.CreateCommunityReply(deps.Community, logg))
			r.Post("/community/{threadId}/like", controllers.LikeCommunityThread(deps.Community, logg))
			r.Post("/community/{threadId}/view", controllers.RecordCommunityThreadView(deps.Community, logg))

			r.Post("/products/{slug}/reviews", controllers.CreateProductReview(deps.Products, logg))
			r.Post("/inquiries", controllers.CreateInquiry(deps.Inquiries, logg))

			r.Get("/profile", controllers.GetProfile(deps.Users, logg))
			r.Patch("/profile", controllers.UpdateProfile(deps.Users, logg))

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

				r.Route("/products", func(r chi.Router) {
					r.Get("/", controllers.AdminListProducts(deps.Products, logg))
					r.Post("/", controllers.AdminCreateProduct(deps.Products, logg))
					r.Get("/{productId}", controllers.AdminGetProduct(deps.Products, logg))
					r.Patch("/{productId}", controllers.AdminUpdateProduct(deps.Products, logg))
					r.Delete("/{productId}", controllers.AdminDeleteProduct(deps.Products, logg))
					r.Post("/{productId}/promo-codes", controllers.AdminAttachPromoCode(deps.Products, logg))
					r.Delete("/{productId}/promo-codes", controllers.AdminDetachPromoCode(deps.Products, logg))
				})

				r.Route("/promo-codes", func(r chi.Router) {
					r.Get("/", controllers.AdminListPromoCodes(deps.Promos, logg))
					r.Post("/", controllers.AdminCreatePromoCode(deps.Promos, logg))
					r.Patch("/{promoId}", controllers.AdminUpdatePromoCode(deps.Promos, logg))
					r.Delete("/{promoId}", controllers.AdminDeletePromoCode(deps.Promos, logg))
				})

				r.Route("/checkout-charges", func(r chi.Router) {
					r.Get("/", controllers.AdminListCheckoutCharges(deps.Charges, logg))
					r.Post("/", controllers.AdminCreateCheckoutCharge(deps.Charges, logg))
					r.Patch("/{chargeId}", controllers.AdminUpdateCheckoutCharge(deps.Charges, logg))
					r.Delete("/{chargeId}", controllers.AdminDeleteCheckoutCharge(deps.Charges, logg))
				})

				r.Route("/slides", func(r chi.Router) {
					r.Post("/", controllers.AdminCreateHeroSlide(deps.Slides, logg))
					r.Patch("/{slideId}", controllers.AdminUpdateHeroSlide(deps.Slides, logg))
					r.Delete("/{slideId}", controllers.AdminDeleteHeroSlide(deps.Slides, logg))
				})

				r.Get("/orders", controllers.AdminListOrders(deps.Orders, logg))
				r.Patch("/orders/{orderId}/status", controllers.AdminUpdateOrderStatus(deps.Orders, logg))
				r.Get("/inquiries", controllers.AdminListInquiries(deps.Inquiries, logg))
			})
		})
	})

	return r
}
