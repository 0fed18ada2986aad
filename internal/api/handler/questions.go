package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/partygames/internal/api/request"
	"github.com/mcoot/partygames/internal/api/response"
	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/services/questions"
)

// maxImportBytes bounds an uploaded question file
const maxImportBytes = 4 << 20

// QuestionHandler handles question bank endpoints
type QuestionHandler struct {
	questionService *questions.Service
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questionService *questions.Service) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
	}
}

// ListEligible handles GET /api/v1/questions/{type}/{mode}
func (h *QuestionHandler) ListEligible(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	t, err := model.ParseChallengeType(vars["type"])
	if err != nil {
		WriteError(w, err)
		return
	}
	m, err := model.ParseMode(vars["mode"])
	if err != nil {
		WriteError(w, err)
		return
	}

	qs, err := h.questionService.ListEligible(r.Context(), t, m)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.QuestionsFromModel(qs))
}

// List handles GET /api/v1/questions
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseQuestionFilter(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	qs, err := h.questionService.List(r.Context(), filter)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.QuestionsFromModel(qs))
}

func parseQuestionFilter(r *http.Request) (model.QuestionFilter, error) {
	var filter model.QuestionFilter
	query := r.URL.Query()

	if raw := query.Get("type"); raw != "" {
		t, err := model.ParseChallengeType(raw)
		if err != nil {
			return filter, err
		}
		filter.Type = t
	}
	if raw := query.Get("mode"); raw != "" {
		m, err := model.ParseMode(raw)
		if err != nil {
			return filter, err
		}
		filter.Mode = m
	}
	if raw := query.Get("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, NewInvalidRequestError("active must be a boolean")
		}
		filter.Active = &active
	}
	return filter, nil
}

// Create handles POST /api/v1/questions
func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateQuestionRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	q, err := h.questionService.Create(r.Context(), questions.NewQuestion{
		Type:      model.ChallengeType(req.Type),
		Mode:      model.Mode(req.Mode),
		Content:   req.Content,
		ContentEN: req.ContentEN,
		Active:    req.Active,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.QuestionFromModel(q))
}

// Update handles PATCH /api/v1/questions/{id}
func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := questionID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.UpdateQuestionRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	update := model.QuestionUpdate{
		Content:   req.Content,
		ContentEN: req.ContentEN,
		Active:    req.Active,
	}
	if req.Type != nil {
		t := model.ChallengeType(*req.Type)
		update.Type = &t
	}
	if req.Mode != nil {
		m := model.Mode(*req.Mode)
		update.Mode = &m
	}

	q, err := h.questionService.Update(r.Context(), id, update)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.QuestionFromModel(q))
}

// Delete handles DELETE /api/v1/questions/{id}; questions are only deactivated
func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := questionID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.questionService.Deactivate(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Import handles POST /api/v1/questions/import with a YAML question file body
func (h *QuestionHandler) Import(w http.ResponseWriter, r *http.Request) {
	n, err := h.questionService.Import(r.Context(), http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.ImportResult{Imported: n})
}

// Export handles GET /api/v1/questions/export
func (h *QuestionHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.questionService.Export(r.Context(), &buf); err != nil {
		WriteError(w, err)
		return
	}

	response.YAML(w, http.StatusOK, buf.Bytes())
}

func questionID(r *http.Request) (model.QuestionID, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, NewInvalidRequestError("invalid question id")
	}
	return model.QuestionID(id), nil
}
