package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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
	pkgauth "github.com/rekhigroup/livplus-backend/pkg/auth"
	"github.com/rekhigroup/livplus-backend/pkg/config"
	"github.com/rekhigroup/livplus-backend/pkg/db/models"
	"github.com/rekhigroup/livplus-backend/pkg/enums"
	"github.com/rekhigroup/livplus-backend/pkg/logger"
	"github.com/rekhigroup/livplus-backend/pkg/pagination"
)

type stubAuthService struct{}

func (stubAuthService) Register(context.Context, auth.RegisterInput) (*auth.Session, error) {
	panic("unimplemented")
}

func (stubAuthService) Login(context.Context, auth.Credentials) (*auth.Session, error) {
	panic("unimplemented")
}

func (stubAuthService) Logout(context.Context, string) error { panic("unimplemented") }

type stubUserService struct{}

func (stubUserService) Create(context.Context, user.CreateInput) (*models.User, error) {
	panic("unimplemented")
}

func (stubUserService) GetByID(context.Context, uuid.UUID) (*models.User, error) {
	panic("unimplemented")
}

func (stubUserService) GetByEmail(context.Context, string) (*models.User, error) {
	panic("unimplemented")
}

func (stubUserService) UpdateProfile(context.Context, uuid.UUID, user.ProfileUpdateInput) (*models.User, error) {
	panic("unimplemented")
}

func (stubUserService) TouchLastLogin(context.Context, uuid.UUID) error { panic("unimplemented") }

func (stubUserService) SeedAdmin(context.Context, config.AdminSeedConfig) error {
	panic("unimplemented")
}

type stubProductService struct{}

func (stubProductService) List(context.Context, product.ListFilters) ([]models.Product, error) {
	return []models.Product{}, nil
}

func (stubProductService) ListPage(context.Context, pagination.Params) ([]models.Product, error) {
	return []models.Product{}, nil
}

func (stubProductService) GetByID(context.Context, uuid.UUID) (*models.Product, error) {
	panic("unimplemented")
}

func (stubProductService) GetBySlug(context.Context, string) (*models.Product, error) {
	panic("unimplemented")
}

func (stubProductService) IDsWithPromoCode(context.Context, string) ([]uuid.UUID, error) {
	panic("unimplemented")
}

func (stubProductService) Create(context.Context, product.CreateProductInput) (*models.Product, error) {
	panic("unimplemented")
}

func (stubProductService) Update(context.Context, uuid.UUID, product.UpdateProductInput) (*models.Product, error) {
	panic("unimplemented")
}

func (stubProductService) Delete(context.Context, uuid.UUID) error { panic("unimplemented") }

func (stubProductService) AttachPromoCode(context.Context, uuid.UUID, string) error {
	panic("unimplemented")
}

func (stubProductService) DetachPromoCode(context.Context, uuid.UUID, string) error {
	panic("unimplemented")
}

func (stubProductService) AddReview(context.Context, uuid.UUID, product.ReviewInput) (*models.ProductReview, error) {
	panic("unimplemented")
}

type stubPromoService struct{}

func (stubPromoService) List(context.Context) ([]models.PromoCode, error) {
	return []models.PromoCode{}, nil
}

func (stubPromoService) GetByID(context.Context, uuid.UUID) (*models.PromoCode, error) {
	panic("unimplemented")
}

func (stubPromoService) FindByCode(context.Context, string) (*models.PromoCode, error) {
	panic("unimplemented")
}

func (stubPromoService) Create(context.Context, promo.CreateInput) (*models.PromoCode, error) {
	panic("unimplemented")
}

func (stubPromoService) Update(context.Context, uuid.UUID, promo.UpdateInput) (*models.PromoCode, error) {
	panic("unimplemented")
}

func (stubPromoService) Delete(context.Context, uuid.UUID) error { panic("unimplemented") }

type stubChargeService struct{}

func (stubChargeService) List(context.Context) ([]models.CheckoutCharge, error) {
	return []models.CheckoutCharge{}, nil
}

func (stubChargeService) GetByID(context.Context, uuid.UUID) (*models.CheckoutCharge, error) {
	panic("unimplemented")
}

func (stubChargeService) Create(context.Context, charge.CreateInput) (*models.CheckoutCharge, error) {
	panic("unimplemented")
}

func (stubChargeService) Update(context.Context, uuid.UUID, charge.UpdateInput) (*models.CheckoutCharge, error) {
	panic("unimplemented")
}

func (stubChargeService) Delete(context.Context, uuid.UUID) error { panic("unimplemented") }

type stubSlideService struct{}

func (stubSlideService) List(context.Context) ([]models.HeroSlide, error) {
	return []models.HeroSlide{}, nil
}

func (stubSlideService) GetByID(context.Context, uuid.UUID) (*models.HeroSlide, error) {
	panic("unimplemented")
}

func (stubSlideService) Create(context.Context, slide.CreateInput) (*models.HeroSlide, error) {
	panic("unimplemented")
}

func (stubSlideService) Update(context.Context, uuid.UUID, slide.UpdateInput) (*models.HeroSlide, error) {
	panic("unimplemented")
}

func (stubSlideService) Delete(context.Context, uuid.UUID) error { panic("unimplemented") }

type stubCommunityService struct{}

func (stubCommunityService) ListThreads(context.Context) ([]models.CommunityThread, error) {
	return []models.CommunityThread{}, nil
}

func (stubCommunityService) GetThread(context.Context, uuid.UUID) (*models.CommunityThread, error) {
	panic("unimplemented")
}

func (stubCommunityService) CreateThread(context.Context, community.ThreadInput) (*models.CommunityThread, error) {
	panic("unimplemented")
}

func (stubCommunityService) ListReplies(context.Context, uuid.UUID) ([]models.CommunityReply, error) {
	panic("unimplemented")
}

func (stubCommunityService) AddReply(context.Context, uuid.UUID, community.ReplyInput) (*models.CommunityReply, error) {
	panic("unimplemented")
}

func (stubCommunityService) LikeThread(context.Context, uuid.UUID) error { panic("unimplemented") }

func (stubCommunityService) RecordView(context.Context, uuid.UUID) error { panic("unimplemented") }

type stubInquiryService struct{}

func (stubInquiryService) Create(context.Context, inquiry.CreateInput) (*models.Inquiry, error) {
	panic("unimplemented")
}

func (stubInquiryService) List(context.Context) ([]models.Inquiry, error) {
	return []models.Inquiry{}, nil
}

func (stubInquiryService) ListByProduct(context.Context, uuid.UUID) ([]models.Inquiry, error) {
	panic("unimplemented")
}

type stubCartService struct{}

func (stubCartService) GetCart(context.Context, string) (*cart.View, error) {
	return &cart.View{Items: []cart.LineItem{}}, nil
}

func (stubCartService) AddItem(context.Context, string, uuid.UUID, int) (*cart.View, error) {
	panic("unimplemented")
}

func (stubCartService) RemoveItem(context.Context, string, uuid.UUID) (*cart.View, error) {
	panic("unimplemented")
}

func (stubCartService) SetQuantity(context.Context, string, uuid.UUID, int) (*cart.View, error) {
	panic("unimplemented")
}

func (stubCartService) Clear(context.Context, string) error { panic("unimplemented") }

func (stubCartService) ApplyPromoCode(context.Context, string, string) (*cart.View, error) {
	panic("unimplemented")
}

func (stubCartService) RemovePromoCode(context.Context, string) (*cart.View, error) {
	panic("unimplemented")
}

type stubOrderService struct{}

func (stubOrderService) PlaceOrder(context.Context, uuid.UUID, order.PlaceOrderInput) (*models.Order, error) {
	panic("unimplemented")
}

func (stubOrderService) GetForUser(context.Context, uuid.UUID, uuid.UUID) (*models.Order, error) {
	panic("unimplemented")
}

func (stubOrderService) ListForUser(context.Context, uuid.UUID) ([]models.Order, error) {
	return []models.Order{}, nil
}

func (stubOrderService) ListPage(context.Context, pagination.Params) ([]models.Order, error) {
	return []models.Order{}, nil
}

func (stubOrderService) UpdateStatus(context.Context, uuid.UUID, enums.OrderStatus) (*models.Order, error) {
	panic("unimplemented")
}

type stubSessionChecker struct{}

func (stubSessionChecker) Has(context.Context, string) (bool, error) { return true, nil }

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Env:  "test",
			Port: "0",
		},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "livplus-test",
			ExpirationMinutes: 5,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})

	return NewRouter(Deps{
		Config:   cfg,
		Logger:   logg,
		Database: stubPinger{},
		Sessions: stubSessionChecker{},

		Auth:      stubAuthService{},
		Users:     stubUserService{},
		Products:  stubProductService{},
		Promos:    stubPromoService{},
		Charges:   stubChargeService{},
		Slides:    stubSlideService{},
		Community: stubCommunityService{},
		Inquiries: stubInquiryService{},
		Cart:      stubCartService{},
		Orders:    stubOrderService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()

	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    uuid.NewString(),
	})
	require.NoError(t, err)
	return token
}

func TestPublicRoutesServeWithoutCredentials(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	paths := []string{
		"/health/live",
		"/api/v1/products",
		"/api/v1/slides",
		"/api/v1/community",
	}

	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, "path %s", path)
	}
}

func TestHealthLiveReportsEnvironment(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-LivPlus-Env"))
}

func TestPrivateGroupRejectsMissingToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	paths := []string{
		"/api/v1/cart",
		"/api/v1/orders",
		"/api/v1/profile",
	}

	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "path %s", path)
	}
}

func TestPrivateGroupRejectsGarbageToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPrivateGroupAcceptsValidToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)
	token := buildToken(t, cfg, enums.UserRoleUser)

	for _, path := range []string{"/api/v1/cart", "/api/v1/orders"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, "path %s", path)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	userToken := buildToken(t, cfg, enums.UserRoleUser)
	adminToken := buildToken(t, cfg, enums.UserRoleAdmin)

	paths := []string{
		"/api/v1/admin/orders",
		"/api/v1/admin/products",
		"/api/v1/admin/promo-codes",
		"/api/v1/admin/checkout-charges",
		"/api/v1/admin/inquiries",
	}

	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+userToken)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code, "path %s as user", path)

		req = httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+adminToken)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "path %s as admin", path)
	}
}

func TestExpiredTokenIsRejected(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now().Add(-time.Hour), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleUser,
		JTI:    uuid.NewString(),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
