package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/service"
	"storefront/internal/store"
	"storefront/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	checkout *service.CheckoutService
	products *service.ProductService
	env      string
}

// NewHandler creates a new HTTP handler
func NewHandler(checkout *service.CheckoutService, products *service.ProductService, env string) *Handler {
	return &Handler{
		checkout: checkout,
		products: products,
		env:      env,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/", h.index)
	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		products := api.Group("/products")
		{
			products.GET("", h.listProducts)
			products.GET("/category/:category", h.listProductsByCategory)
			products.GET("/:id", h.getProduct)
		}

		checkout := api.Group("/checkout")
		{
			checkout.POST("", h.processCheckout)
			checkout.POST("/validate", h.validateCart)
			checkout.GET("/orders/:email", h.getUserOrders)
		}

		fakestore := api.Group("/fakestore")
		{
			fakestore.GET("/products", h.getExternalProducts)
			fakestore.GET("/categories", h.getExternalCategories)
			fakestore.POST("/import", h.importExternalProducts)
		}
	}
}

func (h *Handler) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the Storefront API",
		"status":  "Running",
		"endpoints": gin.H{
			"products":   "/api/products",
			"checkout":   "/api/checkout",
			"fakeStore":  "/api/fakestore",
			"userOrders": "/api/checkout/orders/:email",
		},
	})
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// processCheckout handles POST /api/checkout
func (h *Handler) processCheckout(c *gin.Context) {
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Cart is empty or invalid",
		})
		return
	}

	receipt, err := h.checkout.Checkout(c.Request.Context(), &req)
	if err != nil {
		h.checkoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Checkout processed successfully",
		"receipt": receipt,
	})
}

// validateCart handles POST /api/checkout/validate
func (h *Handler) validateCart(c *gin.Context) {
	var req struct {
		CartItems []models.CartLine `json:"cartItems"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.CartItems == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid cart data",
		})
		return
	}

	results := h.checkout.ValidateCart(c.Request.Context(), req.CartItems)

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"validationResults": results,
	})
}

// getUserOrders handles GET /api/checkout/orders/:email
func (h *Handler) getUserOrders(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Email is required",
		})
		return
	}

	history, err := h.checkout.OrderHistory(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "No orders found for this email",
			})
			return
		}
		h.internalError(c, "Failed to fetch orders", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    history,
	})
}

// listProducts handles GET /api/products?source=db|api|both
func (h *Handler) listProducts(c *gin.Context) {
	listing, err := h.products.List(c.Request.Context(), c.Query("source"))
	if err != nil {
		h.internalError(c, "Failed to fetch products", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"count":     listing.Count,
		"source":    listing.Source,
		"breakdown": listing.Breakdown,
		"data":      listing.Data,
	})
}

// getProduct handles GET /api/products/:id
func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		var notFound *catalog.NotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Product not found",
			})
			return
		}
		h.internalError(c, "Failed to fetch product", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// listProductsByCategory handles GET /api/products/category/:category
func (h *Handler) listProductsByCategory(c *gin.Context) {
	category := c.Param("category")
	listing, err := h.products.ListByCategory(c.Request.Context(), category, c.Query("source"))
	if err != nil {
		h.internalError(c, "Failed to fetch products by category", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"count":    listing.Count,
		"category": category,
		"source":   listing.Source,
		"data":     listing.Data,
	})
}

// getExternalProducts handles GET /api/fakestore/products
func (h *Handler) getExternalProducts(c *gin.Context) {
	products, err := h.products.ExternalProducts(c.Request.Context())
	if err != nil {
		h.internalError(c, "Failed to fetch products from Fake Store API", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(products),
		"data":    products,
		"source":  "Fake Store API",
	})
}

// getExternalCategories handles GET /api/fakestore/categories
func (h *Handler) getExternalCategories(c *gin.Context) {
	categories, err := h.products.ExternalCategories(c.Request.Context())
	if err != nil {
		h.internalError(c, "Failed to fetch categories from Fake Store API", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(categories),
		"data":    categories,
	})
}

// importExternalProducts handles POST /api/fakestore/import?clear=true
func (h *Handler) importExternalProducts(c *gin.Context) {
	clearFirst := c.Query("clear") == "true"

	imported, err := h.products.Import(c.Request.Context(), clearFirst)
	if err != nil {
		h.internalError(c, "Failed to import products", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Products imported successfully from Fake Store API",
		"count":   len(imported),
		"data":    imported,
	})
}

// checkoutError maps the checkout error taxonomy onto status codes:
// invalid input and insufficient stock are 400, unresolvable products are
// 404, everything else is 500.
func (h *Handler) checkoutError(c *gin.Context, err error) {
	var invalid *service.InvalidInputError
	if errors.As(err, &invalid) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": invalid.Message,
		})
		return
	}

	var stock *service.InsufficientStockError
	if errors.As(err, &stock) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": stock.Error(),
		})
		return
	}

	var notFound *catalog.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": notFound.Error(),
		})
		return
	}

	h.internalError(c, "Checkout processing failed", err)
}

// internalError answers 500 with a generic message; the underlying error
// text is exposed only outside production.
func (h *Handler) internalError(c *gin.Context, message string, err error) {
	util.GetLogger().Error(message, zap.Error(err))

	resp := gin.H{
		"success": false,
		"message": message,
	}
	if h.env != "production" {
		resp["error"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, resp)
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
