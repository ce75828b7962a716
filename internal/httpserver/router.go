package httpserver

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-api/internal/domain"
	cartsvc "storefront-api/internal/service/cart"
	ordersvc "storefront-api/internal/service/order"
)

type ProductService interface {
	List(ctx context.Context, categoryID *string) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
}

type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
}

type CouponService interface {
	Validate(ctx context.Context, code string, cartSubtotal int64) (*domain.Coupon, int64, error)
	ListVisible(ctx context.Context) ([]domain.Coupon, error)
}

type CartService interface {
	Create(ctx context.Context) (*cartsvc.View, error)
	Get(ctx context.Context, id string) (*cartsvc.View, error)
	Dispatch(ctx context.Context, id string, actions []cartsvc.ActionInput) (*cartsvc.View, error)
}

type OrderService interface {
	Create(ctx context.Context, in ordersvc.CreateInput) (*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, to domain.OrderStatus) (*domain.Order, error)
}

// Deps carries the services the routes need.
type Deps struct {
	ProductSvc  ProductService
	CategorySvc CategoryService
	CouponSvc   CouponService
	CartSvc     CartService
	OrderSvc    OrderService
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(corsOrigins) > 0 {
		corsCfg.AllowOrigins = corsOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Idempotency-Key")
	corsCfg.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/products", listProductsHandler(logger, deps.ProductSvc))
	router.GET("/products/:id", getProductHandler(logger, deps.ProductSvc))
	router.GET("/categories", listCategoriesHandler(logger, deps.CategorySvc))

	router.GET("/coupons", listCouponsHandler(logger, deps.CouponSvc))
	router.POST("/coupons/validate", validateCouponHandler(logger, deps.CouponSvc))

	router.POST("/carts", createCartHandler(logger, deps.CartSvc))
	router.GET("/carts/:id", getCartHandler(logger, deps.CartSvc))
	router.POST("/carts/:id", updateCartHandler(logger, deps.CartSvc))

	router.POST("/orders", createOrderHandler(logger, deps.OrderSvc))
	router.GET("/orders", listOrdersHandler(logger, deps.OrderSvc))
	router.GET("/orders/:id", getOrderHandler(logger, deps.OrderSvc))
	router.PATCH("/orders/:id/status", updateOrderStatusHandler(logger, deps.OrderSvc))

	return router, nil
}
