package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Health   *handlers.HealthHandler
	Bookings *handlers.BookingHandler
	Reviews  *handlers.ReviewHandler
	Users    *handlers.UserHandler
	Provider *handlers.ProviderHandler
	Settings *handlers.SettingsHandler
}

// Limits are requests per minute per IP. Zero disables the limiter.
type Limits struct {
	API  int
	Auth int
}

var DefaultLimits = Limits{API: 60, Auth: 10}

func Setup(app *fiber.App, cfg *config.Config, resolver middleware.CallerResolver, h Handlers, limits Limits) {
	api := app.Group("/api")
	if limits.API > 0 {
		api.Use(rateLimit(limits.API))
	}

	api.Get("/health", h.Health.Check)
	api.Get("/settings", h.Settings.GetSettings)

	// Auth: public, with a stricter limit
	auth := api.Group("/auth")
	if limits.Auth > 0 {
		auth.Use(rateLimit(limits.Auth))
	}
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)

	protected := []fiber.Handler{middleware.JWTProtected(cfg), middleware.ResolveCaller(resolver)}
	authed := func(extra ...fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, protected...), extra...)
	}
	anyone := middleware.Authorize()
	customer := middleware.Authorize(models.RoleCustomer)
	provider := middleware.Authorize(models.RoleServiceProvider)
	providerOrAdmin := middleware.Authorize(models.RoleServiceProvider, models.RoleAdmin)
	admin := middleware.Authorize(models.RoleAdmin)

	api.Post("/auth/logout", authed(anyone, h.Auth.Logout)...)

	// Bookings
	api.Post("/bookings", authed(customer, h.Bookings.Create)...)
	api.Get("/bookings", authed(anyone, h.Bookings.List)...)
	api.Get("/bookings/:id", authed(anyone, h.Bookings.Get)...)
	api.Put("/bookings/:id/status", authed(anyone, h.Bookings.UpdateStatus)...)
	api.Put("/bookings/:id/amount", authed(admin, h.Bookings.AdjustAmount)...)
	api.Put("/bookings/:id/commission-paid", authed(admin, h.Bookings.MarkCommissionPaid)...)

	// Reviews
	api.Get("/reviews/provider/:providerId", h.Reviews.ListForProvider)
	api.Get("/reviews/listing/:listingId", h.Reviews.ListForListing)
	api.Get("/reviews/:id", h.Reviews.Get)
	api.Post("/reviews", authed(customer, h.Reviews.Create)...)
	api.Put("/reviews/:id", authed(customer, h.Reviews.Update)...)
	api.Delete("/reviews/:id", authed(customer, h.Reviews.Delete)...)

	// Providers and listings
	api.Get("/providers/:id", h.Provider.GetProvider)
	api.Put("/providers/:id/commission", authed(admin, h.Provider.UpdateCommission)...)
	api.Post("/listings", authed(provider, h.Provider.CreateListing)...)
	api.Get("/listings/:id", h.Provider.GetListing)
	api.Put("/listings/:id/status", authed(providerOrAdmin, h.Provider.SetListingStatus)...)

	// User administration
	api.Get("/users", authed(admin, h.Users.List)...)
	api.Get("/users/:id", authed(admin, h.Users.Get)...)
	api.Delete("/users/:id", authed(admin, h.Users.Delete)...)
	api.Put("/users/:id/status", authed(admin, h.Users.ToggleStatus)...)

	// Admin panel
	adminGroup := api.Group("/admin", authed(admin)...)
	adminGroup.Get("/commissions", h.Bookings.CommissionSummary)
	adminGroup.Put("/settings/:key", h.Settings.SetSetting)
	adminGroup.Delete("/settings/:key", h.Settings.DeleteSetting)
}

func rateLimit(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}
