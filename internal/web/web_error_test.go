package web_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlashMessageClearedAfterDisplay(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signUp("alice@example.com", "Alice")
	ts.signIn("alice@example.com")

	doc := parseHTML(ts.get("/").Body)
	assertContainsText(t, doc, ".flash", "Welcome back")

	doc = parseHTML(ts.get("/").Body)
	assertNotContainsElement(t, doc, ".flash")
}

func TestProtectedActionRedirectsWhenSignedOut(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.post("/players", url.Values{"player_name": {"Bob"}})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash", "Please sign in")
}

func TestSignedInUserOnSignUpSeesDashboard(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signUpAndIn("alice@example.com", "Alice")

	doc := parseHTML(ts.get("/signup").Body)
	assertNotContainsElement(t, doc, "form#signup-form")
	assertContainsElement(t, doc, "form#add-player-form")
}

func TestUnknownPathFallsBackToDashboard(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signUpAndIn("alice@example.com", "Alice")

	rr := ts.get("/no/such/page")
	assert.Equal(t, http.StatusOK, rr.Code)
	assertContainsElement(t, parseHTML(rr.Body), "section.dashboard")
}

func TestUnknownMetricFallsBackToHeadshotRate(t *testing.T) {
	ts := newWebTestServer(t)
	user := ts.signUpAndIn("alice@example.com", "Alice")
	player := ts.players(user.ID)[0]

	doc := parseHTML(ts.get("/player/" + string(player.ID) + "?metric=elo").Body)
	assertContainsText(t, doc, ".metrics a.active", "Headshot Rate")
}
