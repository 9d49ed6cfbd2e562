// internal/httpserver/server.go
//
// HTTP adapter for the room engine.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Room endpoints (require a bearer token): mounted under /rooms/{scope}.
//   - JWT verification: the token's "id" claim is the acting player.
//
// Notes:
//   - Tokens are issued by the surrounding application; this server only
//     verifies them (HS256, JWT_SECRET).
//   - Every mutating request goes through the room dispatcher, so HTTP events
//     interleave with chat events in strict arrival order.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/room-bot/internal/apperr"
	"github.com/robalobadob/wordle/apps/room-bot/internal/room"
)

// Submitter applies events in order. *room.Dispatcher implements it.
type Submitter interface {
	Submit(ctx context.Context, ev room.Event) ([]room.Effect, error)
}

// Rooms answers read-only queries. *room.Controller implements it.
type Rooms interface {
	Snapshot(ctx context.Context, scopeID string) (room.View, error)
	Board(ctx context.Context, scopeID, playerID string) (room.Board, error)
}

// WordStats reports dictionary size. *words.Dictionary implements it.
type WordStats interface {
	Len() int
	Stats() map[int]int
}

// Options configures the server.
type Options struct {
	JWTSecret    string // HS256 secret for actor tokens
	ClientOrigin string // CORS origin; defaults to http://localhost:5173
}

// Server bundles the router and the engine handles.
type Server struct {
	r      *chi.Mux
	events Submitter
	rooms  Rooms
	words  WordStats
	secret []byte
	origin string
}

// New constructs a Server, installs middleware, and registers routes.
func New(events Submitter, rooms Rooms, ws WordStats, opts Options) *Server {
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	s := &Server{
		r:      chi.NewRouter(),
		events: events,
		rooms:  rooms,
		words:  ws,
		secret: []byte(opts.JWTSecret),
		origin: opts.ClientOrigin,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"wordle-rooms","endpoints":["/health","/debug/words","/rooms/{scope}"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"words": s.words.Len(), "byLength": s.words.Stats()})
	})

	// Rooms: REQUIRE AUTH (the token names the actor)
	s.r.Route("/rooms/{scope}", func(r chi.Router) {
		r.Use(s.requireActor())
		s.mountRooms(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Router exposes the internal router (served by main, used by tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", s.origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ---------------------------- auth middleware ------------------------------

// actor is placed into request context by requireActor.
type actor struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
}

// ctxActorKey is the context key type for storing actor.
type ctxActorKey struct{}

// requireActor enforces a valid JWT and injects the actor into the request context.
func (s *Server) requireActor() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearer(r)
			if tokenStr == "" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
				return
			}
			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				return s.secret, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_token"})
				return
			}
			id, _ := claims["id"].(string)
			if id == "" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_token"})
				return
			}
			username, _ := claims["username"].(string)
			ctx := context.WithValue(r.Context(), ctxActorKey{}, &actor{ID: id, Username: username})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// currentActor returns the actor injected by requireActor.
func currentActor(r *http.Request) *actor {
	a, _ := r.Context().Value(ctxActorKey{}).(*actor)
	return a
}

// bearer extracts a bearer token from the Authorization header.
func bearer(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}

// ------------------------------- responses ---------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

// errorRes is the body of every failed room request.
type errorRes struct {
	Error   string `json:"error"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// writeError maps engine errors onto HTTP statuses by kind.
func writeError(w http.ResponseWriter, err error) {
	status, msg := http.StatusInternalServerError, "internal error"
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindState:
		status = http.StatusConflict
	case apperr.KindConfiguration:
		status = http.StatusServiceUnavailable
	default:
		log.Error().Err(err).Msg("room request failed")
	}
	if status != http.StatusInternalServerError {
		msg = err.Error()
	}
	writeJSON(w, status, errorRes{Error: apperr.CodeOf(err), Kind: apperr.KindOf(err).String(), Message: msg})
}
