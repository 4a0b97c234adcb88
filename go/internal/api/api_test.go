package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/sportsball/go/internal/auth"
	"github.com/mcdev12/sportsball/go/internal/models"
	"github.com/mcdev12/sportsball/go/internal/roster"
	"github.com/mcdev12/sportsball/go/internal/store/memory"
	"golang.org/x/crypto/bcrypt"
)

type fakeWatcher struct {
	userID string
	teamID uuid.UUID
}

func (w *fakeWatcher) UpgradeConnection(rw http.ResponseWriter, r *http.Request, userID string, teamID uuid.UUID) error {
	w.userID = userID
	w.teamID = teamID
	return nil
}

type testServer struct {
	t       *testing.T
	st      *memory.Store
	router  *gin.Engine
	watcher *fakeWatcher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	issuer, err := auth.NewIssuer("test-secret", time.Hour, clock)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	st := memory.New()
	coordinator := roster.NewCoordinator(st, auth.NewHasher(bcrypt.MinCost), issuer, clock, roster.Config{})
	watcher := &fakeWatcher{}
	return &testServer{
		t:       t,
		st:      st,
		router:  NewRouter(NewHandler(coordinator, issuer, watcher)),
		watcher: watcher,
	}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func (s *testServer) signUp(username string) AuthResponse {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/users/signup", "", map[string]string{"username": username, "password": "hunter22"})
	expectStatus(s.t, rec, http.StatusCreated)
	return decode[AuthResponse](s.t, rec)
}

func (s *testServer) createPlayer(token string, yards, touchdowns, interceptions float64) models.Player {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/players", token, map[string]any{
		"name":           "Chupacabra",
		"gender":         "female",
		"position":       "WR",
		"species":        "cryptid",
		"isSupernatural": true,
		"heightCm":       120,
		"weightKg":       40,
		"yards":          yards,
		"touchdowns":     touchdowns,
		"interceptions":  interceptions,
	})
	expectStatus(s.t, rec, http.StatusCreated)
	return decode[models.Player](s.t, rec)
}

func (s *testServer) createTeam(session AuthResponse) models.Team {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/users/"+session.User.ID.String()+"/teams", session.Token, map[string]string{"teamName": "Night Crawlers"})
	expectStatus(s.t, rec, http.StatusCreated)
	return decode[models.Team](s.t, rec)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/health", "", nil)
	expectStatus(t, rec, http.StatusOK)
}

func TestSignUpAndSignIn(t *testing.T) {
	s := newTestServer(t)
	session := s.signUp("alice")
	if session.Token == "" {
		t.Fatal("expected a token")
	}
	if strings.Contains(strings.ToLower(s.do(http.MethodGet, "/users/"+session.User.ID.String(), session.Token, nil).Body.String()), "password") {
		t.Fatal("serialized user must not carry the credential")
	}

	rec := s.do(http.MethodPost, "/users/signup", "", map[string]string{"username": "alice", "password": "another1"})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = s.do(http.MethodPost, "/users/signin", "", map[string]string{"username": "alice", "password": "wrong-password"})
	expectStatus(t, rec, http.StatusUnauthorized)

	rec = s.do(http.MethodPost, "/users/signin", "", map[string]string{"username": "alice", "password": "hunter22"})
	expectStatus(t, rec, http.StatusOK)
	if got := decode[AuthResponse](t, rec); got.User.ID != session.User.ID || got.Token == "" {
		t.Fatalf("unexpected sign in response %+v", got)
	}
}

func TestAuthenticationRequired(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/players", tt.token, map[string]string{"name": "x"})
			expectStatus(t, rec, http.StatusUnauthorized)
		})
	}
}

func TestPlayerLifecycle(t *testing.T) {
	s := newTestServer(t)
	session := s.signUp("alice")

	p := s.createPlayer(session.Token, 100, 2, 1)
	if p.FantasyPoints != 20 {
		t.Fatalf("expected 20 points, got %v", p.FantasyPoints)
	}

	rec := s.do(http.MethodPut, "/players/"+p.ID.String()+"/stats", session.Token, map[string]float64{"yards": 0})
	expectStatus(t, rec, http.StatusOK)
	if got := decode[models.Player](t, rec); got.FantasyPoints != 10 || got.Stats.Touchdowns != 2 {
		t.Fatalf("expected 10 points with touchdowns kept, got %+v", got)
	}

	rec = s.do(http.MethodPut, "/players/"+p.ID.String(), session.Token, map[string]string{"position": "QB"})
	expectStatus(t, rec, http.StatusOK)

	rec = s.do(http.MethodGet, "/players/"+p.ID.String(), "", nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decode[models.Player](t, rec); got.Position != "QB" {
		t.Fatalf("expected profile update, got %q", got.Position)
	}

	rec = s.do(http.MethodDelete, "/players/"+p.ID.String(), session.Token, nil)
	expectStatus(t, rec, http.StatusOK)
	rec = s.do(http.MethodGet, "/players/"+p.ID.String(), "", nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestCreatePlayerValidation(t *testing.T) {
	s := newTestServer(t)
	session := s.signUp("alice")

	rec := s.do(http.MethodPost, "/players", session.Token, map[string]any{"name": "Half a player"})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = s.do(http.MethodGet, "/players/not-a-uuid", "", nil)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestDraftFlow(t *testing.T) {
	s := newTestServer(t)
	alice, bob := s.signUp("alice"), s.signUp("bob")
	teamA, teamB := s.createTeam(alice), s.createTeam(bob)
	p := s.createPlayer(alice.Token, 100, 2, 1)

	draftPath := func(session AuthResponse, team models.Team) string {
		return "/users/" + session.User.ID.String() + "/teams/" + team.ID.String() + "/players/" + p.ID.String()
	}

	rec := s.do(http.MethodPost, draftPath(alice, teamA), alice.Token, nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decode[models.Team](t, rec); got.TotalFantasyPoints != 20 || len(got.Members) != 1 {
		t.Fatalf("expected one member worth 20, got %+v", got)
	}

	// Bob acting on Alice's path
	rec = s.do(http.MethodPost, draftPath(alice, teamA), bob.Token, nil)
	expectStatus(t, rec, http.StatusForbidden)

	// Bob drafting a player Alice owns
	rec = s.do(http.MethodPost, draftPath(bob, teamB), bob.Token, nil)
	expectStatus(t, rec, http.StatusConflict)

	// Any authenticated caller may read a team
	rec = s.do(http.MethodGet, "/users/"+alice.User.ID.String()+"/teams/"+teamA.ID.String(), bob.Token, nil)
	expectStatus(t, rec, http.StatusOK)

	rec = s.do(http.MethodDelete, draftPath(alice, teamA), alice.Token, nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decode[models.Team](t, rec); got.TotalFantasyPoints != 0 || len(got.MemberIDs) != 0 {
		t.Fatalf("expected empty roster, got %+v", got)
	}

	rec = s.do(http.MethodPut, "/users/"+alice.User.ID.String()+"/teams/"+teamA.ID.String(), alice.Token, map[string]string{"motto": "Never seen"})
	expectStatus(t, rec, http.StatusOK)
	if got := decode[models.Team](t, rec); got.Motto != "Never seen" {
		t.Fatalf("expected motto update, got %q", got.Motto)
	}

	rec = s.do(http.MethodDelete, "/users/"+alice.User.ID.String()+"/teams/"+teamA.ID.String(), alice.Token, nil)
	expectStatus(t, rec, http.StatusOK)
	rec = s.do(http.MethodGet, "/users/"+alice.User.ID.String(), alice.Token, nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decode[models.User](t, rec); got.Team != nil {
		t.Fatalf("expected no team after delete, got %+v", got.Team)
	}
}

func TestNonOwnerDeniedBeforeOtherParameters(t *testing.T) {
	s := newTestServer(t)
	alice, mallory := s.signUp("alice"), s.signUp("mallory")
	team := s.createTeam(alice)
	p := s.createPlayer(alice.Token, 100, 2, 1)
	base := "/users/" + alice.User.ID.String() + "/teams"

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"create team with empty body", http.MethodPost, base, map[string]string{}},
		{"update team with bad body", http.MethodPut, base + "/" + team.ID.String(), "not an object"},
		{"delete team with bad team id", http.MethodDelete, base + "/nope", nil},
		{"draft with bad player id", http.MethodPost, base + "/" + team.ID.String() + "/players/nope", nil},
		{"release with bad team id", http.MethodDelete, base + "/nope/players/" + p.ID.String(), nil},
		{"malformed user id", http.MethodPost, "/users/nope/teams/" + team.ID.String() + "/players/" + p.ID.String(), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(tt.method, tt.path, mallory.Token, tt.body)
			expectStatus(t, rec, http.StatusForbidden)
		})
	}

	// The owner still gets validation errors for the same input
	rec := s.do(http.MethodPost, base+"/"+team.ID.String()+"/players/nope", alice.Token, nil)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestSecondTeamConflicts(t *testing.T) {
	s := newTestServer(t)
	alice := s.signUp("alice")
	s.createTeam(alice)

	rec := s.do(http.MethodPost, "/users/"+alice.User.ID.String()+"/teams", alice.Token, map[string]string{"teamName": "Again"})
	expectStatus(t, rec, http.StatusConflict)
}

func TestPersistenceFailureIsOpaque(t *testing.T) {
	s := newTestServer(t)
	alice := s.signUp("alice")

	s.st.FailNext("CreatePlayer", errors.New("connection reset by peer"))
	rec := s.do(http.MethodPost, "/players", alice.Token, map[string]any{
		"name": "Skunk Ape", "gender": "male", "position": "TE", "species": "cryptid",
		"isSupernatural": false, "heightCm": 210, "weightKg": 150,
		"yards": 0, "touchdowns": 0, "interceptions": 0,
	})
	expectStatus(t, rec, http.StatusInternalServerError)
	if body := rec.Body.String(); strings.Contains(body, "connection reset") {
		t.Fatalf("expected cause hidden, got %s", body)
	}
}

func TestWatchTeam(t *testing.T) {
	s := newTestServer(t)
	alice := s.signUp("alice")
	team := s.createTeam(alice)

	rec := s.do(http.MethodGet, "/ws/teams/"+team.ID.String(), "", nil)
	expectStatus(t, rec, http.StatusUnauthorized)

	rec = s.do(http.MethodGet, "/ws/teams/"+team.ID.String()+"?token="+alice.Token, "", nil)
	expectStatus(t, rec, http.StatusOK)
	if s.watcher.teamID != team.ID || s.watcher.userID != alice.User.ID.String() {
		t.Fatalf("unexpected watcher call %+v", s.watcher)
	}
}
