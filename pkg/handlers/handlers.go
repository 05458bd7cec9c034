// Package handlers wires the HTTP surface: one sub-handler per resource,
// mounted on a chi router.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ficore-africa/ficore-credits/pkg/guard"
	"github.com/ficore-africa/ficore-credits/pkg/handlers/credits"
	"github.com/ficore-africa/ficore-credits/pkg/handlers/grocery"
	"github.com/ficore-africa/ficore-credits/pkg/handlers/reports"
	"github.com/ficore-africa/ficore-credits/pkg/handlers/users"
	"github.com/ficore-africa/ficore-credits/pkg/notify"
	"github.com/ficore-africa/ficore-credits/pkg/storage"
)

// ApiHandler aggregates the per-resource handlers behind one router.
type ApiHandler struct {
	Users   *users.UsersHandler
	Credits *credits.CreditsHandler
	Grocery *grocery.GroceryHandler
	Reports *reports.ReportsHandler
}

// NewApiHandler creates an ApiHandler with its resource handlers.
func NewApiHandler(store storage.Storage, g *guard.Guard, publisher notify.Publisher) *ApiHandler {
	return &ApiHandler{
		Users:   users.NewUsersHandler(store),
		Credits: credits.NewCreditsHandler(store, publisher),
		Grocery: grocery.NewGroceryHandler(store, store, g, publisher),
		Reports: reports.NewReportsHandler(store, g),
	}
}

// RegisterRoutes mounts every endpoint on the given router.
func (h *ApiHandler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.Users.CreateUser)

		r.Route("/{userId}", func(r chi.Router) {
			r.Get("/", withUser(h.Users.GetUserById))
			r.Delete("/", withUser(h.Users.DeleteUser))

			r.Get("/balance", withUser(h.Credits.GetBalance))
			r.Post("/topup", withUser(h.Credits.TopUp))
			r.Get("/transactions", withUser(h.Credits.ListTransactions))
			r.Post("/reports", withUser(h.Reports.GenerateReport))

			r.Route("/grocery-lists", func(r chi.Router) {
				r.Post("/", withUser(h.Grocery.CreateList))
				r.Get("/", withUser(h.Grocery.ListLists))

				r.Route("/{listId}", func(r chi.Router) {
					r.Get("/", withUserAndList(h.Grocery.GetList))
					r.Put("/", withUserAndList(h.Grocery.SaveList))
					r.Delete("/", withUserAndList(h.Grocery.DeleteList))
					r.Post("/export", withUserAndList(h.Grocery.ExportList))

					r.Route("/items", func(r chi.Router) {
						r.Post("/", withUserAndList(h.Grocery.AddItem))

						r.Route("/{itemId}", func(r chi.Router) {
							r.Put("/", withUserListAndItem(h.Grocery.UpdateItem))
							r.Delete("/", withUserListAndItem(h.Grocery.DeleteItem))
						})
					})
				})
			})
		})
	})
}

func withUser(fn func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn(w, r, chi.URLParam(r, "userId"))
	}
}

func withUserAndList(fn func(http.ResponseWriter, *http.Request, string, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn(w, r, chi.URLParam(r, "userId"), chi.URLParam(r, "listId"))
	}
}

func withUserListAndItem(fn func(http.ResponseWriter, *http.Request, string, string, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn(w, r, chi.URLParam(r, "userId"), chi.URLParam(r, "listId"), chi.URLParam(r, "itemId"))
	}
}
