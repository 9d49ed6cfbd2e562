// internal/httpserver/routes_rooms.go
//
// HTTP routes for rooms. Each scope (chat channel, or any caller-chosen id)
// holds at most one room:
//   - POST /rooms/{scope}/create  {name, mode}  → open a room, caller is host
//   - POST /rooms/{scope}/join                  → join before the start
//   - POST /rooms/{scope}/start                 → host starts the round
//   - POST /rooms/{scope}/guess   {guess}       → submit a guess
//   - POST /rooms/{scope}/end                   → host ends the room
//   - GET  /rooms/{scope}                       → room summary (no target)
//   - GET  /rooms/{scope}/board                 → caller's own board
//
// Mutating routes answer {"effects": [...]}, the same effects a chat
// adapter would render.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/wordle/apps/room-bot/internal/room"
)

// mountRooms registers the /rooms/{scope} routes.
func (s *Server) mountRooms(r chi.Router) {
	r.Get("/", s.handleSnapshot)
	r.Get("/board", s.handleBoard)
	r.Post("/create", s.handleEvent(room.EventCreate))
	r.Post("/join", s.handleEvent(room.EventJoin))
	r.Post("/start", s.handleEvent(room.EventStart))
	r.Post("/guess", s.handleEvent(room.EventGuess))
	r.Post("/end", s.handleEvent(room.EventEnd))
}

// eventReq is the optional JSON body of a room event.
type eventReq struct {
	Name  string `json:"name"`  // create
	Mode  string `json:"mode"`  // create: "random" | "daily"
	Guess string `json:"guess"` // guess
}

// eventRes is returned by every successful room event.
type eventRes struct {
	Effects []room.Effect `json:"effects"`
}

// handleEvent decodes the body, submits the event as the token's actor, and
// returns the resulting effects.
func (s *Server) handleEvent(typ room.EventType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		me := currentActor(r)
		if me == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}

		var req eventReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_json"})
			return
		}

		effects, err := s.events.Submit(r.Context(), room.Event{
			Type:    typ,
			ScopeID: chi.URLParam(r, "scope"),
			ActorID: me.ID,
			Payload: room.Payload{Name: req.Name, Mode: req.Mode, Text: req.Guess},
		})
		if err != nil {
			writeError(w, err)
			return
		}
		if effects == nil {
			effects = []room.Effect{}
		}
		writeJSON(w, http.StatusOK, eventRes{Effects: effects})
	}
}

// handleSnapshot returns the room summary for the scope.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	v, err := s.rooms.Snapshot(r.Context(), chi.URLParam(r, "scope"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// handleBoard returns the caller's board in the scope.
func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	me := currentActor(r)
	if me == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	b, err := s.rooms.Board(r.Context(), chi.URLParam(r, "scope"), me.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}
