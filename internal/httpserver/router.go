package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/kstrelkov/webshop/internal/middleware/auth"
	"github.com/kstrelkov/webshop/internal/models"
)

type Deps struct {
	JWTSecret []byte
	ImagesDir string

	Auth     *AuthHTTP
	Users    *UserHTTP
	Products *ProductHTTP
	Images   *ProductImageHTTP
	Cats     *CategoryHTTP
	Ratings  *RatingHTTP
	Cart     *CartHTTP
	Search   *SearchHTTP
}

// errorHandler keeps middleware and routing errors on the same response
// envelope the handlers use.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		message = fmt.Sprint(httpErr.Message)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, Envelope{Success: false, Message: message})
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = errorHandler

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	e.Static("/images", d.ImagesDir)

	api := e.Group("/api")

	// public
	api.POST("/register", d.Auth.Register)
	api.POST("/login", d.Auth.Login)
	api.POST("/refresh", d.Auth.Refresh)

	api.GET("/products", d.Products.GetProducts)
	api.GET("/product/:id", d.Products.GetProduct)
	api.GET("/latest", d.Products.GetLatest)
	api.GET("/latest-sale", d.Products.GetLatestSale)
	api.GET("/top-rated", d.Products.GetTopRated)
	api.GET("/search", d.Search.Search)

	api.GET("/categories", d.Cats.List)
	api.GET("/category/:id", d.Cats.Get)

	api.GET("/product/:id/ratings", d.Ratings.GetProductRatings)
	api.GET("/product/:id/rating-stats", d.Ratings.GetProductRatingStats)

	// authenticated
	authed := api.Group("", authmw.RequireAuth(d.JWTSecret))

	authed.GET("/logout", d.Auth.Logout)
	authed.GET("/user", d.Users.AuthUser)
	authed.GET("/user/:id", d.Users.GetUser)

	authed.POST("/rating", d.Ratings.Store)
	authed.GET("/product/:id/user-rating", d.Ratings.GetUserRating)
	authed.DELETE("/rating/:id", d.Ratings.Destroy)

	authed.GET("/cart", d.Cart.GetCart)
	authed.POST("/cart", d.Cart.AddToCart)
	authed.PUT("/cart/:id", d.Cart.UpdateCartItem)
	authed.DELETE("/cart/:id", d.Cart.RemoveCartItem)
	authed.DELETE("/cart", d.Cart.ClearCart)
	authed.GET("/cart/count", d.Cart.CartCount)

	// catalog management: admins are managers too
	manager := authed.Group("", authmw.RequireRole(models.RoleManager, models.RoleAdmin))

	manager.POST("/product/add", d.Products.CreateProduct)
	manager.POST("/product/edit/:id", d.Products.UpdateProduct)
	manager.DELETE("/product/:id", d.Products.DeleteProduct)

	manager.POST("/product-img/add", d.Images.Upload)
	manager.DELETE("/product-img/:id", d.Images.Delete)

	manager.POST("/category/add", d.Cats.Create)
	manager.POST("/category/edit/:id", d.Cats.Update)
	manager.DELETE("/category/:id", d.Cats.Delete)

	// user administration
	admin := authed.Group("", authmw.RequireRole(models.RoleAdmin))

	admin.GET("/users", d.Users.GetUsers)
	admin.POST("/user/add", d.Users.AddUser)
	admin.POST("/user/edit/:id", d.Users.EditUser)
	admin.DELETE("/user/:id", d.Users.DeleteUser)
}
