package player

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/sportsball/go/internal/apperrors"
	"github.com/mcdev12/sportsball/go/internal/models"
)

type fakePlayerRepo struct {
	players   map[uuid.UUID]models.Player
	updateErr error
	updates   int
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{players: make(map[uuid.UUID]models.Player)}
}

func (f *fakePlayerRepo) CreatePlayer(ctx context.Context, p *models.Player) error {
	f.players[p.ID] = *p
	return nil
}

func (f *fakePlayerRepo) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	p, ok := f.players[id]
	if !ok {
		return nil, apperrors.NotFound("player %s", id)
	}
	return &p, nil
}

func (f *fakePlayerRepo) GetPlayers(ctx context.Context, ids []uuid.UUID) ([]models.Player, error) {
	out := make([]models.Player, 0, len(ids))
	for _, id := range ids {
		if p, ok := f.players[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePlayerRepo) UpdatePlayer(ctx context.Context, p *models.Player) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates++
	p.Version++
	f.players[p.ID] = *p
	return nil
}

func (f *fakePlayerRepo) DeletePlayer(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.players[id]; !ok {
		return apperrors.NotFound("player %s", id)
	}
	delete(f.players, id)
	return nil
}

func ptr[T any](v T) *T { return &v }

func validCreateRequest() CreatePlayerRequest {
	return CreatePlayerRequest{
		Name:           "Bigfoot",
		Gender:         "male",
		Position:       "RB",
		Species:        "sasquatch",
		IsSupernatural: ptr(true),
		HeightCm:       ptr(270.0),
		WeightKg:       ptr(220.0),
		Yards:          ptr(100.0),
		Touchdowns:     ptr(2.0),
		Interceptions:  ptr(1.0),
	}
}

func newTestApp() (*App, *fakePlayerRepo, *clockwork.FakeClock) {
	repo := newFakePlayerRepo()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	return NewApp(repo, clock), repo, clock
}

func TestCreatePlayerComputesPoints(t *testing.T) {
	app, repo, clock := newTestApp()

	p, err := app.CreatePlayer(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	if p.FantasyPoints != 20 {
		t.Fatalf("expected 20 fantasy points, got %v", p.FantasyPoints)
	}
	if p.IsDrafted || p.OwnerID != nil {
		t.Fatalf("expected new player to be undrafted, got drafted=%v owner=%v", p.IsDrafted, p.OwnerID)
	}
	if !p.CreatedAt.Equal(clock.Now()) {
		t.Fatalf("expected created at %v, got %v", clock.Now(), p.CreatedAt)
	}
	if _, ok := repo.players[p.ID]; !ok {
		t.Fatal("expected player to be persisted")
	}
}

func TestCreatePlayerKeepsZeroStats(t *testing.T) {
	app, _, _ := newTestApp()
	req := validCreateRequest()
	req.Yards = ptr(0.0)
	req.Touchdowns = ptr(0.0)
	req.Interceptions = ptr(0.0)

	p, err := app.CreatePlayer(context.Background(), req)
	if err != nil {
		t.Fatalf("zero stats should be accepted: %v", err)
	}
	if p.FantasyPoints != 0 {
		t.Fatalf("expected 0 fantasy points, got %v", p.FantasyPoints)
	}
}

func TestCreatePlayerValidation(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*CreatePlayerRequest)
		field string
	}{
		{"missing name", func(r *CreatePlayerRequest) { r.Name = "" }, "name"},
		{"missing species", func(r *CreatePlayerRequest) { r.Species = "" }, "species"},
		{"missing supernatural flag", func(r *CreatePlayerRequest) { r.IsSupernatural = nil }, "isSupernatural"},
		{"missing height", func(r *CreatePlayerRequest) { r.HeightCm = nil }, "heightCm"},
		{"missing yards", func(r *CreatePlayerRequest) { r.Yards = nil }, "yards"},
		{"missing touchdowns", func(r *CreatePlayerRequest) { r.Touchdowns = nil }, "touchdowns"},
		{"missing interceptions", func(r *CreatePlayerRequest) { r.Interceptions = nil }, "interceptions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, repo, _ := newTestApp()
			req := validCreateRequest()
			tt.mod(&req)

			_, err := app.CreatePlayer(context.Background(), req)
			if !errors.Is(err, apperrors.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if len(repo.players) != 0 {
				t.Fatalf("expected nothing persisted, got %d players", len(repo.players))
			}
		})
	}
}

func TestGetPlayers(t *testing.T) {
	app, _, _ := newTestApp()
	ctx := context.Background()

	first, err := app.CreatePlayer(ctx, validCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := app.CreatePlayer(ctx, validCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := app.GetPlayers(ctx, []uuid.UUID{second.ID, first.ID})
	if err != nil {
		t.Fatalf("get players: %v", err)
	}
	if len(got) != 2 || got[0].ID != second.ID || got[1].ID != first.ID {
		t.Fatalf("expected players in request order, got %+v", got)
	}

	got, err = app.GetPlayers(ctx, nil)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected no players, got %v %v", got, err)
	}

	if _, err := app.GetPlayers(ctx, []uuid.UUID{first.ID, uuid.New()}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found for a missing id, got %v", err)
	}
}

func TestUpdateStatsCarriesOverAbsentFields(t *testing.T) {
	app, _, clock := newTestApp()
	ctx := context.Background()

	p, err := app.CreatePlayer(ctx, validCreateRequest())
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	clock.Advance(time.Minute)

	updated, err := app.UpdateStats(ctx, p.ID, UpdateStatsRequest{Touchdowns: ptr(3.0)})
	if err != nil {
		t.Fatalf("update stats: %v", err)
	}
	want := models.Stats{Yards: 100, Touchdowns: 3, Interceptions: 1}
	if updated.Stats != want {
		t.Fatalf("expected stats %+v, got %+v", want, updated.Stats)
	}
	if updated.FantasyPoints != 26 {
		t.Fatalf("expected 26 fantasy points, got %v", updated.FantasyPoints)
	}
	if !updated.UpdatedAt.Equal(clock.Now()) {
		t.Fatalf("expected updated at %v, got %v", clock.Now(), updated.UpdatedAt)
	}

	zeroed, err := app.UpdateStats(ctx, p.ID, UpdateStatsRequest{Yards: ptr(0.0)})
	if err != nil {
		t.Fatalf("update stats: %v", err)
	}
	if zeroed.Stats.Yards != 0 || zeroed.FantasyPoints != 16 {
		t.Fatalf("expected supplied zero to be kept, got yards=%v points=%v", zeroed.Stats.Yards, zeroed.FantasyPoints)
	}
}

func TestUpdateStatsRejectsEmptyRequest(t *testing.T) {
	app, repo, _ := newTestApp()
	ctx := context.Background()
	p, err := app.CreatePlayer(ctx, validCreateRequest())
	if err != nil {
		t.Fatalf("create player: %v", err)
	}

	_, err = app.UpdateStats(ctx, p.ID, UpdateStatsRequest{})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.updates != 0 {
		t.Fatalf("expected no writes, got %d", repo.updates)
	}
}

func TestUpdateStatsMissingPlayer(t *testing.T) {
	app, _, _ := newTestApp()

	_, err := app.UpdateStats(context.Background(), uuid.New(), UpdateStatsRequest{Yards: ptr(1.0)})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateStatsWrapsStoreFailure(t *testing.T) {
	app, repo, _ := newTestApp()
	ctx := context.Background()
	p, err := app.CreatePlayer(ctx, validCreateRequest())
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	repo.updateErr = errors.New("disk full")

	_, err = app.UpdateStats(ctx, p.ID, UpdateStatsRequest{Yards: ptr(10.0)})
	if !errors.Is(err, apperrors.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestUpdateProfileLeavesStatsAlone(t *testing.T) {
	app, _, _ := newTestApp()
	ctx := context.Background()
	p, err := app.CreatePlayer(ctx, validCreateRequest())
	if err != nil {
		t.Fatalf("create player: %v", err)
	}

	updated, err := app.UpdateProfile(ctx, p.ID, UpdateProfileRequest{Name: ptr("Skunk Ape"), WeightKg: ptr(0.0)})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Name != "Skunk Ape" || updated.WeightKg != 0 {
		t.Fatalf("expected profile fields applied, got %+v", updated)
	}
	if updated.Stats != p.Stats || updated.FantasyPoints != p.FantasyPoints {
		t.Fatalf("expected stats untouched, got %+v / %v", updated.Stats, updated.FantasyPoints)
	}

	_, err = app.UpdateProfile(ctx, p.ID, UpdateProfileRequest{Position: ptr("")})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error for empty position, got %v", err)
	}
}

func TestOwnershipKeepsDraftedFlagInSync(t *testing.T) {
	app, _, _ := newTestApp()
	ctx := context.Background()
	p, err := app.CreatePlayer(ctx, validCreateRequest())
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	teamA, teamB := uuid.New(), uuid.New()

	drafted, err := app.SetOwnership(ctx, p.ID, &teamA)
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if !drafted.IsDrafted || !drafted.OwnedBy(teamA) {
		t.Fatalf("expected drafted by team A, got drafted=%v owner=%v", drafted.IsDrafted, drafted.OwnerID)
	}

	if _, err := app.SetOwnership(ctx, p.ID, &teamB); !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("expected conflict drafting for team B, got %v", err)
	}

	released, err := app.Release(ctx, p.ID)
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if released.IsDrafted || released.OwnerID != nil {
		t.Fatalf("expected released player, got drafted=%v owner=%v", released.IsDrafted, released.OwnerID)
	}

	redrafted, err := app.SetOwnership(ctx, p.ID, &teamB)
	if err != nil {
		t.Fatalf("draft released player: %v", err)
	}
	if !redrafted.OwnedBy(teamB) || !redrafted.IsDrafted {
		t.Fatalf("expected drafted by team B, got %v", redrafted.OwnerID)
	}
}

func TestDeletePlayer(t *testing.T) {
	app, _, _ := newTestApp()
	ctx := context.Background()
	p, err := app.CreatePlayer(ctx, validCreateRequest())
	if err != nil {
		t.Fatalf("create player: %v", err)
	}

	if err := app.DeletePlayer(ctx, p.ID); err != nil {
		t.Fatalf("delete player: %v", err)
	}
	if _, err := app.GetPlayer(ctx, p.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := app.DeletePlayer(ctx, p.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found deleting twice, got %v", err)
	}
}
