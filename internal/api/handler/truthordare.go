package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/partygames/internal/api/middleware"
	"github.com/mcoot/partygames/internal/api/request"
	"github.com/mcoot/partygames/internal/api/response"
	"github.com/mcoot/partygames/internal/api/sse"
	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/services/truthordare"
)

// TruthOrDareHandler handles truth-or-dare session endpoints
type TruthOrDareHandler struct {
	controller *truthordare.Controller
	hubs       *sse.HubManager
}

// NewTruthOrDareHandler creates a new truth-or-dare handler
func NewTruthOrDareHandler(controller *truthordare.Controller, hubs *sse.HubManager) *TruthOrDareHandler {
	return &TruthOrDareHandler{
		controller: controller,
		hubs:       hubs,
	}
}

func sessionID(r *http.Request) model.SessionID {
	return model.SessionID(mux.Vars(r)["id"])
}

// Create handles POST /api/v1/truth-or-dare/sessions
func (h *TruthOrDareHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, err := h.controller.CreateSession(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionFromModel(session))
}

// Get handles GET /api/v1/truth-or-dare/sessions/{id}
func (h *TruthOrDareHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.controller.GetSession(r.Context(), sessionID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// Events handles GET /api/v1/truth-or-dare/sessions/{id}/events, streaming
// a session snapshot after every change
func (h *TruthOrDareHandler) Events(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)

	// Subscribe before reading so no change falls between snapshot and stream
	hub, client := h.hubs.Subscribe(id)

	session, err := h.controller.GetSession(r.Context(), id)
	if err != nil {
		hub.Unregister(client)
		WriteError(w, err)
		return
	}

	initial, err := json.Marshal(response.SessionFromModel(session))
	if err != nil {
		hub.Unregister(client)
		WriteError(w, err)
		return
	}

	sse.ServeSSE(w, r, hub, client, string(initial))
}

// Delete handles DELETE /api/v1/truth-or-dare/sessions/{id}
func (h *TruthOrDareHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.DeleteSession(r.Context(), sessionID(r)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// SelectMode handles PUT /api/v1/truth-or-dare/sessions/{id}/mode
func (h *TruthOrDareHandler) SelectMode(w http.ResponseWriter, r *http.Request) {
	var req request.SelectModeRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	session, err := h.controller.SelectMode(r.Context(), sessionID(r), model.Mode(req.Mode))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// SetPlayerCount handles PUT /api/v1/truth-or-dare/sessions/{id}/player-count
func (h *TruthOrDareHandler) SetPlayerCount(w http.ResponseWriter, r *http.Request) {
	var req request.PlayerCountRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	session, err := h.controller.SetPlayerCount(r.Context(), sessionID(r), req.Count)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// AddPlayer handles POST /api/v1/truth-or-dare/sessions/{id}/players
func (h *TruthOrDareHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	var req request.AddPlayerRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	var link *model.UserID
	if req.LinkSelf {
		user := middleware.GetUser(r.Context())
		if user == nil {
			WriteError(w, NewUnauthorizedError())
			return
		}
		link = &user.ID
	}

	session, err := h.controller.AddPlayer(r.Context(), sessionID(r), req.Name, link)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// Draw handles POST /api/v1/truth-or-dare/sessions/{id}/challenge
func (h *TruthOrDareHandler) Draw(w http.ResponseWriter, r *http.Request) {
	var req request.ChallengeRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	locale, err := model.ParseLocale(req.Locale)
	if err != nil {
		WriteError(w, err)
		return
	}

	session, err := h.controller.RequestChallenge(r.Context(), sessionID(r), model.ChallengeType(req.Type), locale)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// Resolve handles POST /api/v1/truth-or-dare/sessions/{id}/resolve
func (h *TruthOrDareHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req request.ResolveRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.controller.ResolveChallenge(r.Context(), sessionID(r), model.Outcome(req.Outcome), middleware.Identity(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ResolveResponseFromResult(result))
}
