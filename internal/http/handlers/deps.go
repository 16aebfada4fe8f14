package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"bookery/internal/repos"
	"bookery/internal/services"
)

type Deps struct {
	Auth *services.AuthService

	AuthHandler       *AuthHandler
	BookHandler       *BookHandler
	CategoryHandler   *CategoryHandler
	BookDetailHandler *BookDetailHandler
	OrderHandler      *OrderHandler
	PurchaseHandler   *PurchaseHandler
	CartHandler       *CartHandler
	ReviewHandler     *ReviewHandler
	WishlistHandler   *WishlistHandler
}

func NewDeps(db *sqlx.DB) *Deps {
	userRepo := repos.NewUserRepo(db)
	bookRepo := repos.NewBookRepo(db)
	catRepo := repos.NewCategoryRepo(db)
	detailRepo := repos.NewBookDetailRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	purchaseRepo := repos.NewPurchaseRepo(db)
	cartRepo := repos.NewCartRepo(db)
	reviewRepo := repos.NewReviewRepo(db)
	wishRepo := repos.NewWishlistRepo(db)

	authSvc := &services.AuthService{Users: userRepo}
	catalogSvc := services.NewCatalogService(catRepo, bookRepo, detailRepo)
	orderSvc := services.NewOrderService(orderRepo)
	purchaseSvc := services.NewPurchaseService(purchaseRepo)
	cartSvc := services.NewCartService(cartRepo)
	reviewSvc := services.NewReviewService(reviewRepo)
	wishSvc := services.NewWishlistService(wishRepo)

	return &Deps{
		Auth:              authSvc,
		AuthHandler:       &AuthHandler{Auth: authSvc},
		BookHandler:       &BookHandler{Catalog: catalogSvc},
		CategoryHandler:   &CategoryHandler{Catalog: catalogSvc},
		BookDetailHandler: &BookDetailHandler{Catalog: catalogSvc},
		OrderHandler:      &OrderHandler{Order: orderSvc, Users: userRepo},
		PurchaseHandler:   &PurchaseHandler{Purchase: purchaseSvc},
		CartHandler:       &CartHandler{Cart: cartSvc, Users: userRepo, Books: bookRepo},
		ReviewHandler:     &ReviewHandler{Review: reviewSvc, Users: userRepo, Books: bookRepo},
		WishlistHandler:   &WishlistHandler{Wish: wishSvc, Users: userRepo, Books: bookRepo},
	}
}

// Register wires the API routes. Catalog reads and auth are public;
// everything registered after the RequireUser middleware needs a bearer
// token.
func Register(app *fiber.App, d *Deps) {
	api := app.Group("/api/v1")

	// Public
	api.Post("/register", d.AuthHandler.Register)
	api.Post("/login", d.AuthHandler.Login)
	api.Get("/books", d.BookHandler.Index)
	api.Get("/books/:id", d.BookHandler.Show)
	api.Get("/books/:id/reviews", d.ReviewHandler.ForBook)
	api.Get("/books/:id/detail", d.BookDetailHandler.ForBook)
	api.Get("/categories", d.CategoryHandler.Index)
	api.Get("/categories/:id", d.CategoryHandler.Show)
	api.Get("/categories/:id/books", d.CategoryHandler.Books)

	// Protected
	api.Use(RequireUser(d.Auth))

	api.Post("/logout", d.AuthHandler.Logout)

	api.Post("/books", d.BookHandler.Store)
	api.Put("/books/:id", d.BookHandler.Update)
	api.Delete("/books/:id", d.BookHandler.Destroy)

	api.Post("/categories", d.CategoryHandler.Store)
	api.Put("/categories/:id", d.CategoryHandler.Update)
	api.Delete("/categories/:id", d.CategoryHandler.Destroy)

	api.Get("/book-details", d.BookDetailHandler.Index)
	api.Get("/book-details/:id", d.BookDetailHandler.Show)
	api.Post("/book-details", d.BookDetailHandler.Store)
	api.Put("/book-details/:id", d.BookDetailHandler.Update)
	api.Delete("/book-details/:id", d.BookDetailHandler.Destroy)

	api.Get("/orders", d.OrderHandler.Index)
	api.Get("/orders/:id", d.OrderHandler.Show)
	api.Post("/orders", d.OrderHandler.Store)
	api.Put("/orders/:id", d.OrderHandler.Update)
	api.Delete("/orders/:id", d.OrderHandler.Destroy)

	api.Get("/purchases", d.PurchaseHandler.Index)
	api.Get("/purchases/:id", d.PurchaseHandler.Show)
	api.Post("/purchases", d.PurchaseHandler.Store)
	api.Put("/purchases/:id", d.PurchaseHandler.Update)
	api.Delete("/purchases/:id", d.PurchaseHandler.Destroy)

	api.Get("/carts", d.CartHandler.Index)
	api.Get("/carts/:id", d.CartHandler.Show)
	api.Post("/carts", d.CartHandler.Store)
	api.Put("/carts/:id", d.CartHandler.Update)
	api.Delete("/carts/:id", d.CartHandler.Destroy)
	api.Get("/users/:id/cart", d.CartHandler.UserCart)
	api.Delete("/users/:id/cart", d.CartHandler.ClearUserCart)

	api.Get("/reviews", d.ReviewHandler.Index)
	api.Get("/reviews/:id", d.ReviewHandler.Show)
	api.Post("/reviews", d.ReviewHandler.Store)
	api.Put("/reviews/:id", d.ReviewHandler.Update)
	api.Delete("/reviews/:id", d.ReviewHandler.Destroy)

	api.Get("/wishlists", d.WishlistHandler.Index)
	api.Get("/wishlists/check", d.WishlistHandler.Check)
	api.Get("/wishlists/:id", d.WishlistHandler.Show)
	api.Post("/wishlists", d.WishlistHandler.Store)
	api.Delete("/wishlists/:id", d.WishlistHandler.Destroy)
	api.Get("/users/:id/wishlist", d.WishlistHandler.UserWishlist)
}
