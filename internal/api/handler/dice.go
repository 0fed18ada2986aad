package handler

import (
	"net/http"

	"github.com/mcoot/partygames/internal/api/response"
	"github.com/mcoot/partygames/internal/services/dice"
)

// DiceHandler handles the dice game endpoint
type DiceHandler struct {
	diceService *dice.Service
}

// NewDiceHandler creates a new dice handler
func NewDiceHandler(diceService *dice.Service) *DiceHandler {
	return &DiceHandler{diceService: diceService}
}

// Roll handles GET /api/v1/dice/roll
func (h *DiceHandler) Roll(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.DiceRollFromService(h.diceService.Roll()))
}
