// internal/handlers/router.go
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jason-s-yu/codenames/internal/middleware"
)

// NewRouter wires every HTTP route onto a chi mux. The server binary and the
// handler tests share this wiring.
func NewRouter(gs *GameServer) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.LogMiddleware(gs.Logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/create", CreateUserHandler)
		r.Post("/login", LoginHandler)
		r.Post("/guest", GuestLoginHandler)
		r.Post("/claim", ClaimEphemeralHandler)
	})

	r.Route("/lobbies", func(r chi.Router) {
		r.Get("/", ListLobbiesHandler(gs))
		r.Post("/create", CreateLobbyHandler(gs))
		r.Post("/join", JoinLobbyHandler(gs))
		r.Post("/{id}/seat", AssignSeatHandler(gs))
		r.Get("/{id}/qr", LobbyQRHandler(gs))
	})

	r.Route("/games", func(r chi.Router) {
		r.Post("/create", CreateGameHandler(gs))
		r.Get("/{id}", GetGameHandler(gs))
		r.Post("/{id}/clue", ClueHandler(gs))
		r.Post("/{id}/guess", GuessHandler(gs))
	})

	return r
}
