package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/cs2coach/internal/forms"
	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/services/training"
	"github.com/mcoot/cs2coach/internal/web/middleware"
	"github.com/mcoot/cs2coach/internal/web/templates/pages"
)

// TrainingHandler handles the add player and add session forms
type TrainingHandler struct {
	training *training.Controller
	pages    *PageHandler
	logger   *slog.Logger
}

// NewTrainingHandler creates a new TrainingHandler
func NewTrainingHandler(training *training.Controller, pages *PageHandler, logger *slog.Logger) *TrainingHandler {
	return &TrainingHandler{
		training: training,
		pages:    pages,
		logger:   logger,
	}
}

// AddPlayer creates a player and selects it on the dashboard
func (h *TrainingHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if err := r.ParseForm(); err != nil {
		h.pages.Dashboard(w, r, pages.DashboardData{PlayerError: invalidFormData}, "")
		return
	}
	form := forms.AddPlayerFromValues(r.PostForm)

	var player *model.Player
	err := forms.Submit(form, func() error {
		var err error
		player, err = h.training.CreatePlayer(r.Context(), user.ID, form.Name)
		return err
	})
	if err != nil {
		h.pages.Dashboard(w, r, pages.DashboardData{
			PlayerName:  form.Name,
			PlayerError: err.Error(),
		}, model.PlayerID(r.PostForm.Get("selected")))
		return
	}

	redirectWithFlash(w, r, "success", "Player "+player.PlayerName+" added", "/?player="+string(player.ID))
}

// AddSession records a training session for one of the user's players
func (h *TrainingHandler) AddSession(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if err := r.ParseForm(); err != nil {
		h.pages.Dashboard(w, r, pages.DashboardData{SessionError: invalidFormData}, "")
		return
	}
	form := forms.AddSessionFromValues(r.PostForm)

	in, err := form.Input()
	if err == nil {
		_, err = h.training.AddSession(r.Context(), user.ID, in)
	}
	if err != nil {
		if training.IsNotVisible(err) {
			notFound(w, r)
			return
		}
		h.pages.Dashboard(w, r, pages.DashboardData{
			Session:      form,
			SessionError: err.Error(),
		}, model.PlayerID(form.PlayerID))
		return
	}

	redirectWithFlash(w, r, "success", "Session saved", "/?player="+form.PlayerID)
}
