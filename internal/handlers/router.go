package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"kingtires/internal/middleware"
)

// Router bundles everything the HTTP surface needs
type Router struct {
	Products *ProductHandler
	Carts    *CartHandler
	Sessions *SessionHandler
	Tickets  *TicketHandler
	Auth     *middleware.AuthMiddleware

	// Metrics serves the metrics endpoint; nil disables it
	Metrics http.Handler

	// Healthcheck reports readiness; nil means always ready
	Healthcheck func() error
}

// Handler assembles the HTTP routes
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.RecoverMiddleware)
	r.Use(rt.Auth.LoadUser)

	r.Get("/healthz", rt.health)
	if rt.Metrics != nil {
		r.Handle("/metrics", rt.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/register", rt.Sessions.Register)
			r.Post("/login", rt.Sessions.Login)
			r.Post("/logout", rt.Sessions.Logout)
			r.With(rt.Auth.RequireAuth).Get("/current", rt.Sessions.Current)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", rt.Products.ListProducts)
			r.Get("/{pid}", rt.Products.GetProduct)

			r.Group(func(r chi.Router) {
				r.Use(rt.Auth.RequireAdmin)
				r.Post("/", rt.Products.CreateProduct)
				r.Put("/{pid}", rt.Products.UpdateProduct)
				r.Delete("/{pid}", rt.Products.DeleteProduct)
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", rt.Carts.GetCurrentCart)
			r.Post("/products/{pid}", rt.Carts.AddProductToCurrentCart)
		})

		r.Route("/carts", func(r chi.Router) {
			r.Post("/", rt.Carts.CreateCart)
			r.Get("/{cid}", rt.Carts.GetCart)
			r.Put("/{cid}", rt.Carts.ReplaceItems)
			r.Delete("/{cid}", rt.Carts.ClearCart)
			r.Post("/{cid}/products/{pid}", rt.Carts.AddProduct)
			r.Put("/{cid}/products/{pid}", rt.Carts.UpdateQuantity)
			r.Delete("/{cid}/products/{pid}", rt.Carts.RemoveProduct)

			r.With(rt.Auth.RequireAuth).Post("/{cid}/purchase", rt.Carts.Purchase)
		})

		r.With(rt.Auth.RequireAuth).Get("/tickets/{code}", rt.Tickets.GetByCode)
		r.With(rt.Auth.RequireAuth).Get("/users/me/tickets", rt.Tickets.MyTickets)
	})

	return r
}

func (rt *Router) health(w http.ResponseWriter, r *http.Request) {
	if rt.Healthcheck != nil {
		if err := rt.Healthcheck(); err != nil {
			respondError(w, http.StatusServiceUnavailable, "unhealthy")
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
