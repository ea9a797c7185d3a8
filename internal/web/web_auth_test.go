package web_test

import (
	"net/http"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/cs2coach/internal/model"
)

func TestSignedOutSeesSignIn(t *testing.T) {
	ts := newWebTestServer(t)

	for _, path := range []string{"/", "/profile", "/admin", "/player/abc"} {
		rr := ts.get(path)
		assert.Equal(t, http.StatusOK, rr.Code, path)
		doc := parseHTML(rr.Body)
		assertContainsElement(t, doc, "form#login-form")
	}
}

func TestSignUpPage(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/signup")
	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, "form#signup-form")
	assertContainsElement(t, doc, "input[name='player_name']")
}

func TestSignUpDoesNotSignIn(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.post("/auth/signup", url.Values{
		"email":            {"alice@example.com"},
		"password":         {"secret123"},
		"confirm_password": {"secret123"},
		"player_name":      {"Alice"},
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, ts.cookies.hasSession())
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".success", "Account created")

	user, err := ts.app.Storage.GetUserByEmail(t.Context(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.UserMetadata.PlayerName)
	require.Len(t, ts.players(user.ID), 1)
}

func TestSignUpValidationOrder(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{
			name: "mismatch reported before length",
			form: url.Values{"email": {"a@example.com"}, "password": {"abc"}, "confirm_password": {"abd"}, "player_name": {""}},
			want: "Passwords do not match",
		},
		{
			name: "length reported before player name",
			form: url.Values{"email": {"a@example.com"}, "password": {"abc"}, "confirm_password": {"abc"}, "player_name": {""}},
			want: "Password must be at least 6 characters",
		},
		{
			name: "player name",
			form: url.Values{"email": {"a@example.com"}, "password": {"secret123"}, "confirm_password": {"secret123"}, "player_name": {"   "}},
			want: "Player name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newWebTestServer(t)
			rr := ts.post("/auth/signup", tt.form)

			assert.Equal(t, http.StatusOK, rr.Code)
			doc := parseHTML(rr.Body)
			assertContainsText(t, doc, ".error", tt.want)

			users, err := ts.app.Storage.ListUsers(t.Context())
			require.NoError(t, err)
			assert.Empty(t, users, "no account is created when validation fails")
		})
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signUp("alice@example.com", "Alice")

	rr := ts.post("/auth/signup", url.Values{
		"email":            {"ALICE@example.com"},
		"password":         {"secret123"},
		"confirm_password": {"secret123"},
		"player_name":      {"Alice 2"},
	})

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".error", "User already registered")
}

func TestLogin(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signUp("alice@example.com", "Alice")

	rr := ts.post("/auth/login", url.Values{"email": {"alice@example.com"}, "password": {"secret123"}})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	assert.True(t, ts.cookies.hasSession())

	rr = ts.followRedirect(rr)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "nav", "Alice")
	assertContainsText(t, doc, ".flash", "Welcome back, Alice!")
	assertContainsElement(t, doc, "form#add-player-form")
}

func TestLoginErrorShownVerbatim(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signUp("alice@example.com", "Alice")

	rr := ts.post("/auth/login", url.Values{"email": {"alice@example.com"}, "password": {"wrong-pass"}})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, ts.cookies.hasSession())

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".error", "Invalid login credentials")
	val, _ := doc.Find("input[name='email']").Attr("value")
	assert.Equal(t, "alice@example.com", val)
}

func TestLoginRequiresFields(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.post("/auth/login", url.Values{"email": {""}, "password": {"secret123"}})
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".error", "Email is required")
}

func TestLogout(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signUpAndIn("alice@example.com", "Alice")

	rr := ts.post("/auth/logout", nil)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.False(t, ts.cookies.hasSession())

	rr = ts.followRedirect(rr)
	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, "form#login-form")
	assertContainsText(t, doc, ".flash", "signed out")
}

func TestExpiredSessionFallsBackToSignIn(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signUpAndIn("alice@example.com", "Alice")

	ts.app.MockClock.Advance(25 * time.Hour)

	rr := ts.get("/")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, ts.cookies.hasSession(), "stale cookie is cleared")
	assertContainsElement(t, parseHTML(rr.Body), "form#login-form")
}

var resetTokenPattern = regexp.MustCompile(`token=([A-Za-z0-9_\-.]+)`)

func TestForgotAndResetPassword(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signUp("alice@example.com", "Alice")

	rr := ts.get("/forgot-password")
	assertContainsElement(t, parseHTML(rr.Body), "form#forgot-form")

	// Unknown address gets the same confirmation and no mail
	rr = ts.post("/auth/forgot-password", url.Values{"email": {"nobody@example.com"}})
	assertContainsText(t, parseHTML(rr.Body), ".success", "reset link")
	assert.Empty(t, ts.app.MockMailer.Sent())

	rr = ts.post("/auth/forgot-password", url.Values{"email": {"alice@example.com"}})
	assertContainsText(t, parseHTML(rr.Body), ".success", "reset link")
	sent := ts.app.MockMailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "alice@example.com", sent[0].To)
	match := resetTokenPattern.FindStringSubmatch(sent[0].HTML)
	require.Len(t, match, 2)

	rr = ts.get("/reset-password?token=" + match[1])
	doc := parseHTML(rr.Body)
	val, _ := doc.Find("form#reset-form input[name='token']").Attr("value")
	assert.Equal(t, match[1], val)

	rr = ts.post("/auth/reset-password", url.Values{
		"token":            {match[1]},
		"password":         {"brandnew"},
		"confirm_password": {"brandnew"},
	})
	assert.Equal(t, http.StatusSeeOther, rr.Code)

	rr = ts.post("/auth/login", url.Values{"email": {"alice@example.com"}, "password": {"brandnew"}})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
}

func TestResetPasswordValidation(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/reset-password")
	assertContainsText(t, parseHTML(rr.Body), ".error", "missing its token")

	rr = ts.post("/auth/reset-password", url.Values{
		"token":            {"tok"},
		"password":         {"brandnew"},
		"confirm_password": {"different"},
	})
	assertContainsText(t, parseHTML(rr.Body), ".error", "Passwords do not match")

	rr = ts.post("/auth/reset-password", url.Values{
		"token":            {"not-a-real-token"},
		"password":         {"brandnew"},
		"confirm_password": {"brandnew"},
	})
	assert.Equal(t, http.StatusOK, rr.Code)
	assertContainsElement(t, parseHTML(rr.Body), ".error")
}

func TestInviteSignup(t *testing.T) {
	ts := newWebTestServer(t)
	admin := ts.signUpAndIn("boss@example.com", "Boss")
	_, err := ts.app.GrantRole(t.Context(), admin.ID, model.RoleAdmin)
	require.NoError(t, err)

	rr := ts.post("/admin/invite", url.Values{"email": {"coach@example.com"}, "role": {"coach"}})
	require.Equal(t, http.StatusOK, rr.Code)
	link := parseHTML(rr.Body).Find("#invite-link").Text()
	require.Contains(t, link, "http://coach.test/invite/")
	path := link[len("http://coach.test"):]

	// The invitee uses a fresh browser
	ts.cookies = newCookieJar()
	rr = ts.get(path)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".invite", "coach@example.com")
	assertContainsText(t, doc, ".role", "coach")
	token, _ := doc.Find("form#invite-form input[name='token']").Attr("value")

	rr = ts.post("/auth/invite", url.Values{
		"token":            {token},
		"password":         {"secret123"},
		"confirm_password": {"secret123"},
		"player_name":      {"Coach Carter"},
	})
	require.Equal(t, http.StatusSeeOther, rr.Code)

	user, err := ts.app.Storage.GetUserByEmail(t.Context(), "coach@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleCoach, user.AppMetadata.Role)
}

func TestInvalidInviteLink(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/invite/garbage")
	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".error", "invalid or has expired")
	assertNotContainsElement(t, doc, "form#invite-form")
}
