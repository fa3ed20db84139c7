package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Controllers groups the HTTP handlers the router mounts. Interfaces keep
// the package free of module imports.
type MenuController interface {
	GetMenu(w http.ResponseWriter, r *http.Request)
	GetFullMenu(w http.ResponseWriter, r *http.Request)
	CreateItem(w http.ResponseWriter, r *http.Request)
	UpdateItem(w http.ResponseWriter, r *http.Request)
	SetAvailability(w http.ResponseWriter, r *http.Request)
}

type CartController interface {
	GetCart(w http.ResponseWriter, r *http.Request)
	AddItem(w http.ResponseWriter, r *http.Request)
	SetQuantity(w http.ResponseWriter, r *http.Request)
	RemoveLine(w http.ResponseWriter, r *http.Request)
}

type CheckoutController interface {
	Start(w http.ResponseWriter, r *http.Request)
	SubmitContact(w http.ResponseWriter, r *http.Request)
	SubmitFulfillment(w http.ResponseWriter, r *http.Request)
	SelectPayment(w http.ResponseWriter, r *http.Request)
	GetQuote(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)
	Abandon(w http.ResponseWriter, r *http.Request)
}

type OrderController interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	Events(w http.ResponseWriter, r *http.Request)
}

type AuthController interface {
	Register(w http.ResponseWriter, r *http.Request)
	SignIn(w http.ResponseWriter, r *http.Request)
	SignInAdmin(w http.ResponseWriter, r *http.Request)
	SignOut(w http.ResponseWriter, r *http.Request)
	CreateAdmin(w http.ResponseWriter, r *http.Request)
}

type ReportingController interface {
	Summary(w http.ResponseWriter, r *http.Request)
	TopItems(w http.ResponseWriter, r *http.Request)
	Customers(w http.ResponseWriter, r *http.Request)
}

func NewRouter(
	menu MenuController,
	carts CartController,
	checkouts CheckoutController,
	orders OrderController,
	auth AuthController,
	reports ReportingController,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/menu", menu.GetMenu)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", carts.GetCart)
		r.Post("/items", carts.AddItem)
		r.Put("/items/{lineId}/quantity", carts.SetQuantity)
		r.Delete("/items/{lineId}", carts.RemoveLine)
	})

	r.Route("/checkout", func(r chi.Router) {
		r.Post("/", checkouts.Start)
		r.Post("/contact", checkouts.SubmitContact)
		r.Post("/fulfillment", checkouts.SubmitFulfillment)
		r.Post("/payment", checkouts.SelectPayment)
		r.Get("/quote", checkouts.GetQuote)
		r.Post("/submit", checkouts.Submit)
		r.Delete("/", checkouts.Abandon)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", orders.List)
		r.Get("/{orderId}", orders.Get)
		r.Patch("/{orderId}/status", orders.UpdateStatus)
		r.Get("/{orderId}/events", orders.Events)
	})
	r.Get("/my/orders", orders.History)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", auth.Register)
		r.Post("/sign-in", auth.SignIn)
		r.Post("/admin/sign-in", auth.SignInAdmin)
		r.Post("/sign-out", auth.SignOut)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Get("/menu", menu.GetFullMenu)
		r.Post("/menu/items", menu.CreateItem)
		r.Put("/menu/items/{itemId}", menu.UpdateItem)
		r.Patch("/menu/items/{itemId}/availability", menu.SetAvailability)
		r.Post("/users", auth.CreateAdmin)
	})

	r.Route("/reports", func(r chi.Router) {
		r.Get("/summary", reports.Summary)
		r.Get("/top-items", reports.TopItems)
		r.Get("/customers", reports.Customers)
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request handled",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("elapsed", time.Since(start)),
			)
		})
	}
}
