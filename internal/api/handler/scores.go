package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/partygames/internal/api/middleware"
	"github.com/mcoot/partygames/internal/api/request"
	"github.com/mcoot/partygames/internal/api/response"
	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/services/ledger"
)

// ScoreHandler handles score ledger endpoints
type ScoreHandler struct {
	ledgerService *ledger.Service
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(ledgerService *ledger.Service) *ScoreHandler {
	return &ScoreHandler{
		ledgerService: ledgerService,
	}
}

// Append handles POST /api/v1/scores. The entry is linked only when
// identityId names the authenticated caller; otherwise it is stored unlinked.
func (h *ScoreHandler) Append(w http.ResponseWriter, r *http.Request) {
	var req request.AppendScoreRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	entry := ledger.Entry{
		PlayerName: req.PlayerName,
		Points:     *req.Points,
		GameType:   req.GameType,
	}
	if user := middleware.GetUser(r.Context()); user != nil && req.IdentityID != nil && model.UserID(*req.IdentityID) == user.ID {
		entry.UserID = &user.ID
	}

	recorded, err := h.ledgerService.Append(r.Context(), entry)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.ScoreEntryFromModel(recorded))
}

// Leaderboard handles GET /api/v1/scores?limit=N
func (h *ScoreHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := ledger.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			WriteError(w, NewInvalidRequestError("limit must be a positive integer"))
			return
		}
		limit = n
	}

	board, err := h.ledgerService.Leaderboard(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(board))
}

// Mine handles GET /api/v1/scores/me
func (h *ScoreHandler) Mine(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	total, err := h.ledgerService.TotalForUser(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserTotal{UserID: int64(user.ID), Total: total})
}
