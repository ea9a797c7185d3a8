package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/cs2coach/internal/api"
	"github.com/mcoot/cs2coach/internal/api/apierr"
	"github.com/mcoot/cs2coach/internal/api/response"
	"github.com/mcoot/cs2coach/internal/factory"
	"github.com/mcoot/cs2coach/internal/model"
	"github.com/mcoot/cs2coach/internal/storage"
	"github.com/mcoot/cs2coach/internal/testutil"
)

const (
	providerKey = "anon-key"
	setupToken  = "setup-secret"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

type failingTimeSource struct{}

func (failingTimeSource) ServerTime(context.Context) (time.Time, error) {
	return time.Time{}, errors.New("connection refused")
}

func newTestServer(t *testing.T, opts ...func(*api.RouterConfig)) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	cfg := api.RouterConfig{
		Logger:             testutil.NopLogger(),
		AuthService:        app.AuthService,
		TrainingController: app.TrainingController,
		TimeSource:         app.TimeSource,
		ProviderKey:        providerKey,
		AdminSetupToken:    setupToken,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &testServer{
		handler: api.NewBackendRouter(cfg),
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	return ts.requestWithHeaders(method, path, body, map[string]string{
		"apikey":        providerKey,
		"Authorization": bearer(token),
	})
}

func (ts *testServer) requestWithHeaders(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func bearer(token string) string {
	if token == "" {
		return ""
	}
	return "Bearer " + token
}

func (ts *testServer) signUpAndLogin(t *testing.T, email, playerName string) (response.AuthResponse, []response.Player) {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"email":       email,
		"password":    "secret123",
		"player_name": playerName,
	}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = ts.request(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var auth response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &auth))

	rr = ts.request(http.MethodGet, "/api/v1/players", nil, auth.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	var players []response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))

	return auth, players
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apierr.APIError {
	t.Helper()
	var body apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Error
}

func TestRootReportsRunning(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.requestWithHeaders(http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Backend running", rr.Body.String())
}

func TestDatabaseTime(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.requestWithHeaders(http.MethodGet, "/api/test", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Now time.Time `json:"now"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.Now.Equal(ts.app.MockClock.Now()))
}

func TestDatabaseTimeFailure(t *testing.T) {
	ts := newTestServer(t, func(cfg *api.RouterConfig) {
		cfg.TimeSource = failingTimeSource{}
	})

	rr := ts.requestWithHeaders(http.MethodGet, "/api/test", nil, nil)
	require.Equal(t, http.StatusInternalServerError, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "connection refused", body["error"])
}

func TestBootstrap(t *testing.T) {
	creds := map[string]string{"email": "boss@example.com", "password": "secret123"}

	t.Run("missing token is forbidden", func(t *testing.T) {
		ts := newTestServer(t)
		rr := ts.requestWithHeaders(http.MethodPost, "/api/admin/bootstrap", creds, nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.JSONEq(t, `{"error":"Forbidden"}`, rr.Body.String())
	})

	t.Run("wrong token is forbidden", func(t *testing.T) {
		ts := newTestServer(t)
		rr := ts.requestWithHeaders(http.MethodPost, "/api/admin/bootstrap", creds, map[string]string{
			"X-Setup-Token": "guess",
		})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("unset server token always forbids", func(t *testing.T) {
		ts := newTestServer(t, func(cfg *api.RouterConfig) { cfg.AdminSetupToken = "" })
		rr := ts.requestWithHeaders(http.MethodPost, "/api/admin/bootstrap", creds, map[string]string{
			"X-Setup-Token": "",
		})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("missing credentials", func(t *testing.T) {
		ts := newTestServer(t)
		rr := ts.requestWithHeaders(http.MethodPost, "/api/admin/bootstrap", map[string]string{"email": "boss@example.com"},
			map[string]string{"X-Setup-Token": setupToken})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error":"email and password required"}`, rr.Body.String())
	})

	t.Run("creates an admin", func(t *testing.T) {
		ts := newTestServer(t)
		rr := ts.requestWithHeaders(http.MethodPost, "/api/admin/bootstrap", creds,
			map[string]string{"X-Setup-Token": setupToken})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var body struct {
			OK     bool   `json:"ok"`
			UserID string `json:"userId"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.True(t, body.OK)

		user, err := ts.app.Storage.GetUser(t.Context(), model.UserID(body.UserID))
		require.NoError(t, err)
		assert.True(t, user.IsAdmin())
	})
}

func TestHealthCheckNeedsNoKey(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.requestWithHeaders(http.MethodGet, "/api/v1/health", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestAPIKeyRequired(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.requestWithHeaders(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "a@example.com", "password": "secret123",
	}, map[string]string{"apikey": "wrong"})

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeInvalidAPIKey, decodeError(t, rr).Code)
}

func TestSignUpCreatesFirstPlayer(t *testing.T) {
	ts := newTestServer(t)

	auth, players := ts.signUpAndLogin(t, "alice@example.com", "Alice")
	assert.NotEmpty(t, auth.SessionToken)
	assert.Equal(t, "alice@example.com", auth.User.Email)
	assert.Equal(t, "Alice", auth.User.PlayerName)

	require.Len(t, players, 1)
	assert.Equal(t, "Alice", players[0].PlayerName)
}

func TestSignUpValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body map[string]string
		want string
	}{
		{"mismatch", map[string]string{"email": "a@example.com", "password": "secret123", "confirm_password": "other123", "player_name": "A"}, "Passwords do not match"},
		{"short", map[string]string{"email": "a@example.com", "password": "abc", "player_name": "A"}, "Password must be at least 6 characters"},
		{"no name", map[string]string{"email": "a@example.com", "password": "secret123", "player_name": "  "}, "Player name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/v1/auth/signup", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tt.want, decodeError(t, rr).Message)
		})
	}

	users, err := ts.app.Storage.ListUsers(t.Context())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestLoginErrorIsVerbatim(t *testing.T) {
	ts := newTestServer(t)
	ts.signUpAndLogin(t, "alice@example.com", "Alice")

	rr := ts.request(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "alice@example.com", "password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid login credentials", decodeError(t, rr).Message)
}

func TestMeRecoverAndLogout(t *testing.T) {
	ts := newTestServer(t)
	auth, _ := ts.signUpAndLogin(t, "alice@example.com", "Alice")

	rr := ts.request(http.MethodGet, "/api/v1/auth/me", nil, auth.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	var me response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &me))
	assert.Equal(t, auth.User.ID, me.ID)

	rr = ts.request(http.MethodPost, "/api/v1/auth/recover", nil, auth.SessionToken)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/auth/logout", nil, auth.SessionToken)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/auth/me", nil, auth.SessionToken)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/players", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeUnauthorized, decodeError(t, rr).Code)
}

func TestPlayersNewestFirst(t *testing.T) {
	ts := newTestServer(t)
	auth, _ := ts.signUpAndLogin(t, "alice@example.com", "Alice")

	ts.app.MockClock.Advance(time.Minute)
	rr := ts.request(http.MethodPost, "/api/v1/players", map[string]string{"player_name": "  Bob "}, auth.SessionToken)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "Bob", created.PlayerName)

	rr = ts.request(http.MethodGet, "/api/v1/players", nil, auth.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	var players []response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))
	require.Len(t, players, 2)
	assert.Equal(t, "Bob", players[0].PlayerName)
	assert.Equal(t, "Alice", players[1].PlayerName)
}

func TestCreatePlayerRequiresName(t *testing.T) {
	ts := newTestServer(t)
	auth, _ := ts.signUpAndLogin(t, "alice@example.com", "Alice")

	rr := ts.request(http.MethodPost, "/api/v1/players", map[string]string{"player_name": ""}, auth.SessionToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Player name is required", decodeError(t, rr).Message)
}

func TestSessionsStatsAndChart(t *testing.T) {
	ts := newTestServer(t)
	auth, players := ts.signUpAndLogin(t, "alice@example.com", "Alice")
	base := "/api/v1/players/" + players[0].ID

	for _, s := range []map[string]any{
		{"session_date": "2024-03-01", "hs_rate": 40.0, "accuracy": 20.0, "kills": 10, "deaths": 5, "map_name": "de_dust2", "duration_minutes": 30},
		{"session_date": "2024-03-03", "hs_rate": 60.0, "accuracy": 30.0, "kills": 20, "deaths": 5, "map_name": "de_inferno", "duration_minutes": 45},
	} {
		rr := ts.request(http.MethodPost, base+"/sessions", s, auth.SessionToken)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}

	rr := ts.request(http.MethodGet, base+"/sessions", nil, auth.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	var sessions []response.TrainingSession
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sessions))
	require.Len(t, sessions, 2)
	assert.Equal(t, "2024-03-03", sessions[0].SessionDate)

	rr = ts.request(http.MethodGet, base+"/stats", nil, auth.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	var summary response.Stats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
	assert.InDelta(t, 50.0, summary.AvgHSRate, 0.0001)
	assert.InDelta(t, 3.0, summary.KDRatio, 0.0001)
	assert.InDelta(t, 25.0, summary.AvgAccuracy, 0.0001)
	assert.Equal(t, 2, summary.SessionCount)

	rr = ts.request(http.MethodGet, base+"/chart?metric=kills", nil, auth.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	var c response.Chart
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &c))
	assert.Equal(t, model.MetricKills, c.Metric)
	assert.Equal(t, 220, c.Height)
	assert.Equal(t, "M 30,190 L 610,30", c.Path)
	require.Len(t, c.Points, 2)
	assert.Equal(t, "3/1", c.Points[0].Label)
}

func TestChartRejectsUnknownMetric(t *testing.T) {
	ts := newTestServer(t)
	auth, players := ts.signUpAndLogin(t, "alice@example.com", "Alice")

	rr := ts.request(http.MethodGet, "/api/v1/players/"+players[0].ID+"/chart?metric=elo", nil, auth.SessionToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSessionValidation(t *testing.T) {
	ts := newTestServer(t)
	auth, players := ts.signUpAndLogin(t, "alice@example.com", "Alice")

	rr := ts.request(http.MethodPost, "/api/v1/players/"+players[0].ID+"/sessions", map[string]any{
		"hs_rate": 40.0, "kills": 10, "deaths": 5,
	}, auth.SessionToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidTraining, decodeError(t, rr).Code)
}

func TestForeignPlayerIsHidden(t *testing.T) {
	ts := newTestServer(t)
	_, alicePlayers := ts.signUpAndLogin(t, "alice@example.com", "Alice")
	bob, _ := ts.signUpAndLogin(t, "bob@example.com", "Bob")

	rr := ts.request(http.MethodGet, "/api/v1/players/"+alicePlayers[0].ID, nil, bob.SessionToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/players/"+alicePlayers[0].ID+"/sessions", map[string]any{
		"hs_rate": 40.0, "kills": 10, "deaths": 5, "map_name": "de_nuke", "duration_minutes": 20,
	}, bob.SessionToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCoachSeesEveryPlayer(t *testing.T) {
	ts := newTestServer(t)
	_, alicePlayers := ts.signUpAndLogin(t, "alice@example.com", "Alice")
	coach, _ := ts.signUpAndLogin(t, "coach@example.com", "Coach")

	rr := ts.request(http.MethodGet, "/api/v1/players?all=true", nil, coach.SessionToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	_, err := ts.app.GrantRole(t.Context(), model.UserID(coach.User.ID), model.RoleCoach)
	require.NoError(t, err)

	rr = ts.request(http.MethodGet, "/api/v1/players?all=true", nil, coach.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	var players []response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))
	assert.Len(t, players, 2)

	rr = ts.request(http.MethodGet, "/api/v1/players/"+alicePlayers[0].ID+"/stats", nil, coach.SessionToken)
	assert.Equal(t, http.StatusOK, rr.Code)
}

var tokenPattern = regexp.MustCompile(`token=([A-Za-z0-9_\-.]+)`)

func TestPasswordResetFlow(t *testing.T) {
	ts := newTestServer(t)
	ts.signUpAndLogin(t, "alice@example.com", "Alice")

	rr := ts.request(http.MethodPost, "/api/v1/auth/password-reset", map[string]string{"email": "nobody@example.com"}, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, ts.app.MockMailer.Sent())

	rr = ts.request(http.MethodPost, "/api/v1/auth/password-reset", map[string]string{"email": "alice@example.com"}, "")
	require.Equal(t, http.StatusNoContent, rr.Code)
	sent := ts.app.MockMailer.Sent()
	require.Len(t, sent, 1)
	match := tokenPattern.FindStringSubmatch(sent[0].HTML)
	require.Len(t, match, 2)

	rr = ts.request(http.MethodPost, "/api/v1/auth/password-reset/confirm", map[string]string{
		"token": match[1], "password": "newsecret",
	}, "")
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rr = ts.request(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "alice@example.com", "password": "newsecret",
	}, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/auth/password-reset/confirm", map[string]string{
		"token": match[1], "password": "another1",
	}, "")
	assert.Equal(t, apierr.CodeInvalidToken, decodeError(t, rr).Code, "a used token cannot reset again")

	rr = ts.request(http.MethodPost, "/api/v1/auth/password-reset/confirm", map[string]string{
		"token": "garbage", "password": "another1",
	}, "")
	assert.Equal(t, apierr.CodeInvalidToken, decodeError(t, rr).Code)
}

func TestUpdatePassword(t *testing.T) {
	ts := newTestServer(t)
	auth, _ := ts.signUpAndLogin(t, "alice@example.com", "Alice")

	rr := ts.request(http.MethodPost, "/api/v1/auth/password", map[string]string{
		"password": "changed1", "confirm_password": "changed1",
	}, auth.SessionToken)
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rr = ts.request(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "alice@example.com", "password": "changed1",
	}, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

var _ storage.TimeSource = failingTimeSource{}
