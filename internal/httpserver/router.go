package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/handsnminds/platform/internal/auth"
	middleware "github.com/handsnminds/platform/internal/middleware/auth"
)

type Deps struct {
	AuthHandler       *AuthHTTP
	CartHandler       *CartHTTP
	FavoritesHandler  *FavoritesHTTP
	CatalogHandler    *CatalogHTTP
	EventHandler      *EventHTTP
	WorkshopHandler   *WorkshopHTTP
	DonationHandler   *DonationHTTP
	NewsletterHandler *NewsletterHTTP
	SearchHandler     *SearchHTTP
	SessionHandler    *SessionWS
	ExportHandler     *ExportHTTP
	JWTSecret         []byte
	Auth              *auth.Service
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMW := middleware.NewAutoRefreshMiddleware(d.JWTSecret, d.Auth)

	e.POST("/auth/register", d.AuthHandler.Register)
	e.POST("/auth/login", d.AuthHandler.Login)
	e.POST("/auth/refresh", d.AuthHandler.Refresh)

	private := e.Group("/auth")
	private.Use(authMW.RequireAuth)
	private.POST("/logout", d.AuthHandler.LogOut)
	private.GET("/me", d.AuthHandler.Me)

	products := e.Group("/catalog/products")
	products.GET("/search", d.SearchHandler.SearchProducts)
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)
	products.POST("/:id/reviews", d.CatalogHandler.CreateReview, authMW.RequireAuth)

	cart := e.Group("/cart")
	cart.Use(authMW.RequireAuth)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("/items", d.CartHandler.AddToCart)
	cart.PATCH("/items/:product_id", d.CartHandler.UpdateQuantity)
	cart.DELETE("/items/:product_id", d.CartHandler.DeleteFromCart)
	cart.DELETE("", d.CartHandler.ClearCart)

	favorites := e.Group("/favorites")
	favorites.Use(authMW.RequireAuth)
	favorites.GET("", d.FavoritesHandler.GetFavorites)
	favorites.POST("/:product_id", d.FavoritesHandler.AddFavorite)
	favorites.DELETE("/:product_id", d.FavoritesHandler.RemoveFavorite)
	favorites.DELETE("", d.FavoritesHandler.ClearFavorites)

	events := e.Group("/events")
	events.GET("", d.EventHandler.GetEvents)
	events.GET("/:id", d.EventHandler.GetEvent)
	events.POST("/:id/register", d.EventHandler.RegisterForEvent, authMW.RequireAuth)

	workshops := e.Group("/workshops")
	workshops.GET("", d.WorkshopHandler.GetWorkshops)
	workshops.GET("/:id", d.WorkshopHandler.GetWorkshop)
	workshops.POST("/slots/:slot_id/register", d.WorkshopHandler.RegisterForSlot, authMW.RequireAuth)

	e.POST("/donations", d.DonationHandler.ProcessDonation)
	e.POST("/newsletter/subscribe", d.NewsletterHandler.Subscribe)

	e.GET("/ws/session", d.SessionHandler.Stream, authMW.RequireAuth)

	seller := e.Group("/seller", authMW.RequireSeller)
	seller.GET("/products", d.CatalogHandler.GetSellerProducts)
	seller.POST("/products", d.CatalogHandler.CreateProduct)

	instructor := e.Group("/instructor", authMW.RequireInstructor)
	instructor.POST("/workshops", d.WorkshopHandler.CreateWorkshop)
	instructor.GET("/workshops/slots/:slot_id/registrations", d.WorkshopHandler.GetSlotRegistrations)

	admin := e.Group("/admin", authMW.RequireAdmin)
	admin.GET("/donations", d.DonationHandler.GetDonations)
	admin.GET("/donations/total", d.DonationHandler.GetTotal)
	admin.GET("/newsletter/subscribers", d.NewsletterHandler.GetSubscribers)
	admin.GET("/export/donations", d.ExportHandler.ExportDonations)
	admin.GET("/export/registrations", d.ExportHandler.ExportRegistrations)
}
