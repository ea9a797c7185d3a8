package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mcoot/cs2coach/internal/dependencies/clock"
	"github.com/mcoot/cs2coach/internal/forms"
	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/services/auth"
	"github.com/mcoot/cs2coach/internal/services/chart"
	"github.com/mcoot/cs2coach/internal/services/dashboard"
	"github.com/mcoot/cs2coach/internal/services/stats"
	"github.com/mcoot/cs2coach/internal/services/training"
	"github.com/mcoot/cs2coach/internal/services/views"
	"github.com/mcoot/cs2coach/internal/web/middleware"
	"github.com/mcoot/cs2coach/internal/web/templates/pages"
)

// PageHandler renders whichever page the view router selects for a GET
type PageHandler struct {
	authService *auth.Service
	training    *training.Controller
	dashboard   *dashboard.Controller
	clock       clock.Clock
	logger      *slog.Logger
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(authService *auth.Service, training *training.Controller, dashboard *dashboard.Controller, clk clock.Clock, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		authService: authService,
		training:    training,
		dashboard:   dashboard,
		clock:       clk,
		logger:      logger,
	}
}

// View resolves the path against the signed-in user and renders exactly one page
func (h *PageHandler) View(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	page := views.Resolve(r.URL.Path, user)

	switch page.Kind {
	case views.PageInviteSignup:
		h.inviteSignup(w, r, pages.InviteSignupData{Token: page.InviteToken})
	case views.PageForgotPassword:
		render(w, r, http.StatusOK, pages.ForgotPassword(pages.ForgotPasswordData{
			PageData: pageData(r, "Forgot password"),
		}))
	case views.PageResetPassword:
		data := pages.ResetPasswordData{
			PageData: pageData(r, "Reset password"),
			Token:    r.URL.Query().Get("token"),
		}
		if data.Token == "" {
			data.Error = forms.MsgTokenRequired
		}
		render(w, r, http.StatusOK, pages.ResetPassword(data))
	case views.PageSignUp:
		render(w, r, http.StatusOK, pages.SignUp(pages.SignUpData{PageData: pageData(r, "Sign up")}))
	case views.PageAuth:
		render(w, r, http.StatusOK, pages.Auth(pages.AuthData{PageData: pageData(r, "Sign in")}))
	case views.PageAdmin:
		h.admin(w, r, pages.AdminData{})
	case views.PageCoach:
		h.coach(w, r)
	case views.PagePlayer:
		h.player(w, r, page.PlayerID)
	case views.PageProfile:
		render(w, r, http.StatusOK, pages.Profile(pages.ProfileData{PageData: pageData(r, "Profile")}))
	default:
		h.Dashboard(w, r, pages.DashboardData{}, model.PlayerID(r.URL.Query().Get("player")))
	}
}

// Dashboard renders the dashboard for the selected player, or the newest
// when selected is empty. Form state in data is preserved.
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request, data pages.DashboardData, selected model.PlayerID) {
	user := middleware.GetUser(r.Context())

	view, err := h.dashboard.Load(r.Context(), user, selected)
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		notFound(w, r)
		return
	case errors.Is(err, dashboard.ErrStaleSelection):
		renderStatus(w, r, http.StatusConflict, "Selection changed",
			"Another player was selected while this page was loading.")
		return
	case err != nil:
		h.logger.Error("failed to load dashboard", "error", err, "user_id", user.ID)
		serverError(w, r)
		return
	}

	data.PageData = pageData(r, "Dashboard")
	data.View = view
	data.Today = h.clock.Now().Format(forms.DateLayout)
	render(w, r, http.StatusOK, pages.Dashboard(data))
}

func (h *PageHandler) player(w http.ResponseWriter, r *http.Request, id model.PlayerID) {
	user := middleware.GetUser(r.Context())

	player, err := h.training.GetPlayer(r.Context(), user, id)
	if err != nil {
		if training.IsNotVisible(err) {
			notFound(w, r)
			return
		}
		h.logger.Error("failed to load player", "error", err, "player_id", id)
		serverError(w, r)
		return
	}

	sessions, err := h.training.ListSessions(r.Context(), user, id)
	if err != nil {
		h.logger.Error("failed to load sessions", "error", err, "player_id", id)
		serverError(w, r)
		return
	}

	metric, ok := model.ParseMetric(r.URL.Query().Get("metric"))
	if !ok {
		metric = model.MetricHSRate
	}

	render(w, r, http.StatusOK, pages.Player(pages.PlayerData{
		PageData: pageData(r, player.PlayerName),
		Player:   player,
		Sessions: sessions,
		Summary:  stats.Summarize(sessions),
		Chart:    chart.Build(sessions, metric, chart.DefaultHeight),
	}))
}

func (h *PageHandler) coach(w http.ResponseWriter, r *http.Request) {
	players, err := h.training.ListAllPlayers(r.Context(), middleware.GetUser(r.Context()))
	if err != nil {
		if errors.Is(err, model.ErrForbidden) {
			forbidden(w, r)
			return
		}
		h.logger.Error("failed to list players", "error", err)
		serverError(w, r)
		return
	}

	render(w, r, http.StatusOK, pages.Coach(pages.CoachData{
		PageData: pageData(r, "Coach"),
		Players:  players,
	}))
}

func (h *PageHandler) admin(w http.ResponseWriter, r *http.Request, data pages.AdminData) {
	user := middleware.GetUser(r.Context())
	if user == nil || !user.IsAdmin() {
		forbidden(w, r)
		return
	}

	users, err := h.authService.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("failed to list users", "error", err)
		serverError(w, r)
		return
	}

	data.PageData = pageData(r, "Admin")
	data.Users = users
	render(w, r, http.StatusOK, pages.Admin(data))
}

func (h *PageHandler) inviteSignup(w http.ResponseWriter, r *http.Request, data pages.InviteSignupData) {
	data.PageData = pageData(r, "Accept invitation")

	email, role, err := h.authService.InviteDetails(data.Token)
	if err != nil {
		data.Invalid = true
		data.Error = "This invitation link is invalid or has expired."
		render(w, r, http.StatusOK, pages.InviteSignup(data))
		return
	}

	data.Email = email
	data.Role = role
	render(w, r, http.StatusOK, pages.InviteSignup(data))
}
