package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authService *services.AuthService,
	users *store.UserStore,
	authHandler *handlers.AuthHandler,
	productHandler *handlers.ProductHandler,
	shoppingHandler *handlers.ShoppingHandler,
	messageHandler *handlers.MessageHandler,
	adminHandler *handlers.AdminHandler,
	healthHandler *handlers.HealthHandler,
	realtimeHandler *handlers.RealtimeHandler,
) {
	// Realtime channel; the token is checked before the upgrade
	app.Get("/ws", realtimeHandler.Authenticate, realtimeHandler.Serve())

	api := app.Group("/api")

	// General API rate limiter per IP
	if cfg.RateLimitMax > 0 {
		api.Use(limiter.New(limiter.Config{
			Max:               cfg.RateLimitMax,
			Expiration:        cfg.RateLimitWindow,
			LimiterMiddleware: limiter.SlidingWindow{},
			KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		}))
	}

	api.Get("/health", healthHandler.Check)
	api.Get("/categories", adminHandler.Categories)

	// Every authenticated chain resolves the caller's current role
	roles := middleware.ResolveRole(users, cfg)
	protected := middleware.JWTProtected(cfg)
	optional := middleware.OptionalAuth(cfg)

	// Stricter per-IP limit shared by register and login
	strict := authLimiter(cfg.AuthRateLimitMax)
	auth := api.Group("/auth")
	auth.Post("/register", strict, authHandler.Register)
	auth.Post("/login", strict, authHandler.Login)
	auth.Post("/verify", authHandler.Verify)
	auth.Get("/me", protected, roles, authHandler.Me)
	auth.Put("/profile", protected, roles, authHandler.UpdateProfile)

	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/seller/:sellerId", optional, roles, productHandler.BySeller)
	products.Get("/:id", optional, roles, productHandler.Get)
	products.Post("/", protected, roles, productHandler.Create)
	products.Put("/:id", protected, roles, productHandler.Update)
	products.Delete("/:id", protected, roles, productHandler.Delete)

	favorites := api.Group("/favorites", protected, roles)
	favorites.Get("/", shoppingHandler.Favorites)
	favorites.Post("/:productId", shoppingHandler.AddFavorite)
	favorites.Delete("/:productId", shoppingHandler.RemoveFavorite)

	cart := api.Group("/cart", protected, roles)
	cart.Get("/", shoppingHandler.Cart)
	cart.Post("/", shoppingHandler.AddToCart)
	cart.Delete("/", shoppingHandler.ClearCart)
	cart.Delete("/:productId", shoppingHandler.RemoveFromCart)

	// Fixed paths go before /:conversationId
	messages := api.Group("/messages", protected, roles)
	messages.Post("/", messageHandler.Send)
	messages.Get("/user/conversations", messageHandler.Conversations)
	messages.Get("/presence/:userId", messageHandler.Presence)
	messages.Put("/:id/read", messageHandler.MarkRead)
	messages.Get("/:conversationId", messageHandler.Conversation)

	// Admin panel (protected + admin required)
	admin := api.Group("/admin", protected, middleware.AdminRequired(authService, users, cfg))
	admin.Get("/stats", adminHandler.Stats)
	admin.Get("/products/pending", adminHandler.Pending)
	admin.Put("/products/:id/approve", adminHandler.Approve)
	admin.Put("/products/:id/reject", adminHandler.Reject)
	admin.Delete("/products/:id", adminHandler.DeleteProduct)
	admin.Get("/users", adminHandler.Users)
	admin.Put("/users/:id/role", adminHandler.ChangeRole)
	admin.Delete("/users/:id", adminHandler.DeleteUser)
	admin.Get("/categories", adminHandler.Categories)
	admin.Post("/categories", adminHandler.CreateCategory)
	admin.Delete("/categories/:id", adminHandler.DeleteCategory)
	admin.Get("/moderation/history", adminHandler.History)
}

func authLimiter(max int) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}
