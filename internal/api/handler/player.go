package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/cs2coach/internal/api/middleware"
	"github.com/mcoot/cs2coach/internal/api/request"
	"github.com/mcoot/cs2coach/internal/api/response"
	"github.com/mcoot/cs2coach/internal/forms"
	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/services/chart"
	"github.com/mcoot/cs2coach/internal/services/stats"
	"github.com/mcoot/cs2coach/internal/services/training"
)

// PlayerHandler handles player and training session endpoints
type PlayerHandler struct {
	training *training.Controller
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(training *training.Controller) *PlayerHandler {
	return &PlayerHandler{
		training: training,
	}
}

// List handles GET /api/v1/players. Coaches may pass ?all=true.
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var (
		players []*model.Player
		err     error
	)
	if r.URL.Query().Get("all") == "true" {
		players, err = h.training.ListAllPlayers(r.Context(), user)
	} else {
		players, err = h.training.ListPlayers(r.Context(), user.ID)
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayersFromModel(players))
}

// Create handles POST /api/v1/players
func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.CreatePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	form := forms.AddPlayer{Name: req.PlayerName}
	var player *model.Player
	err := forms.Submit(form, func() error {
		var err error
		player, err = h.training.CreatePlayer(r.Context(), user.ID, form.Name)
		return err
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.PlayerFromModel(player))
}

// Get handles GET /api/v1/players/{id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	player, err := h.training.GetPlayer(r.Context(), user, playerID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// ListSessions handles GET /api/v1/players/{id}/sessions
func (h *PlayerHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, ok := h.sessions(w, r)
	if !ok {
		return
	}
	response.JSON(w, http.StatusOK, response.SessionsFromModel(sessions))
}

// CreateSession handles POST /api/v1/players/{id}/sessions
func (h *PlayerHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	in := training.SessionInput{
		PlayerID:        playerID(r),
		HSRate:          req.HSRate,
		Accuracy:        req.Accuracy,
		Kills:           req.Kills,
		Deaths:          req.Deaths,
		MapName:         req.MapName,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
		ExerciseType:    req.ExerciseType,
	}
	if req.SessionDate != "" {
		d, err := time.Parse(forms.DateLayout, req.SessionDate)
		if err != nil {
			WriteError(w, NewInvalidRequestError("session_date must be YYYY-MM-DD"))
			return
		}
		in.SessionDate = d
	}

	session, err := h.training.AddSession(r.Context(), user.ID, in)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionFromModel(session))
}

// Stats handles GET /api/v1/players/{id}/stats
func (h *PlayerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	sessions, ok := h.sessions(w, r)
	if !ok {
		return
	}
	response.JSON(w, http.StatusOK, response.Stats{
		PlayerID: string(playerID(r)),
		Summary:  stats.Summarize(sessions),
	})
}

// Chart handles GET /api/v1/players/{id}/chart?metric=&height=
func (h *PlayerHandler) Chart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	metric := model.MetricHSRate
	if raw := q.Get("metric"); raw != "" {
		m, ok := model.ParseMetric(raw)
		if !ok {
			WriteError(w, NewInvalidRequestError("unknown metric"))
			return
		}
		metric = m
	}

	height := chart.DefaultHeight
	if raw := q.Get("height"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 2*chart.Padding {
			WriteError(w, NewInvalidRequestError("invalid height"))
			return
		}
		height = v
	}

	sessions, ok := h.sessions(w, r)
	if !ok {
		return
	}
	response.JSON(w, http.StatusOK, response.ChartFromModel(chart.Build(sessions, metric, height)))
}

// sessions loads the sessions of the player in the path, writing the error if any
func (h *PlayerHandler) sessions(w http.ResponseWriter, r *http.Request) ([]*model.TrainingSession, bool) {
	user := middleware.MustGetUser(r.Context())
	sessions, err := h.training.ListSessions(r.Context(), user, playerID(r))
	if err != nil {
		WriteError(w, err)
		return nil, false
	}
	return sessions, true
}

func playerID(r *http.Request) model.PlayerID {
	return model.PlayerID(mux.Vars(r)["id"])
}
