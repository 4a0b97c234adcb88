package fantasyteam

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/sportsball/go/internal/apperrors"
	"github.com/mcdev12/sportsball/go/internal/models"
	"github.com/mcdev12/sportsball/go/internal/player"
	"github.com/mcdev12/sportsball/go/internal/store"
	"github.com/mcdev12/sportsball/go/internal/store/memory"
)

type fixture struct {
	st    *memory.Store
	clock *clockwork.FakeClock
}

func newFixture() *fixture {
	return &fixture{
		st:    memory.New(),
		clock: clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
}

// run binds a team App and player App to one unit of work, the way the
// roster coordinator does
func (f *fixture) run(t *testing.T, fn func(ctx context.Context, teams *App, players *player.App) error) error {
	t.Helper()
	return f.st.Atomically(context.Background(), func(ctx context.Context, r store.Repos) error {
		players := player.NewApp(r.Players, f.clock)
		return fn(ctx, NewApp(r.Teams, players, f.clock), players)
	})
}

func ptr[T any](v T) *T { return &v }

func (f *fixture) createPlayer(t *testing.T, yards, touchdowns, interceptions float64) *models.Player {
	t.Helper()
	var created *models.Player
	err := f.run(t, func(ctx context.Context, _ *App, players *player.App) error {
		var err error
		created, err = players.CreatePlayer(ctx, player.CreatePlayerRequest{
			Name:           "Chupacabra",
			Gender:         "female",
			Position:       "WR",
			Species:        "cryptid",
			IsSupernatural: ptr(true),
			HeightCm:       ptr(120.0),
			WeightKg:       ptr(40.0),
			Yards:          ptr(yards),
			Touchdowns:     ptr(touchdowns),
			Interceptions:  ptr(interceptions),
		})
		return err
	})
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	return created
}

func (f *fixture) createTeam(t *testing.T, userID uuid.UUID) *models.Team {
	t.Helper()
	var team *models.Team
	err := f.run(t, func(ctx context.Context, teams *App, _ *player.App) error {
		var err error
		team, err = teams.CreateTeam(ctx, userID, CreateTeamRequest{TeamName: "Night Owls", Motto: "hoot"})
		return err
	})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	return team
}

func (f *fixture) getPlayer(t *testing.T, id uuid.UUID) *models.Player {
	t.Helper()
	var p *models.Player
	err := f.run(t, func(ctx context.Context, _ *App, players *player.App) error {
		var err error
		p, err = players.GetPlayer(ctx, id)
		return err
	})
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	return p
}

func TestCreateTeamOnePerUser(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	team := f.createTeam(t, userID)
	if team.UserID != userID || len(team.MemberIDs) != 0 || team.TotalFantasyPoints != 0 {
		t.Fatalf("unexpected new team %+v", team)
	}

	err := f.run(t, func(ctx context.Context, teams *App, _ *player.App) error {
		_, err := teams.CreateTeam(ctx, userID, CreateTeamRequest{TeamName: "Second"})
		return err
	})
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("expected conflict for second team, got %v", err)
	}
}

func TestCreateTeamRequiresName(t *testing.T) {
	f := newFixture()
	err := f.run(t, func(ctx context.Context, teams *App, _ *player.App) error {
		_, err := teams.CreateTeam(ctx, uuid.New(), CreateTeamRequest{Motto: "nameless"})
		return err
	})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddPlayerRecomputesTotal(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	team := f.createTeam(t, userID)
	p1 := f.createPlayer(t, 100, 2, 1) // 20
	p2 := f.createPlayer(t, 50, 1, 0)  // 11

	var got *models.Team
	err := f.run(t, func(ctx context.Context, teams *App, _ *player.App) error {
		if _, _, err := teams.AddPlayer(ctx, userID, team.ID, p1.ID); err != nil {
			return err
		}
		var err error
		got, _, err = teams.AddPlayer(ctx, userID, team.ID, p2.ID)
		return err
	})
	if err != nil {
		t.Fatalf("add players: %v", err)
	}
	if got.TotalFantasyPoints != 31 {
		t.Fatalf("expected total 31, got %v", got.TotalFantasyPoints)
	}
	if len(got.MemberIDs) != 2 || got.MemberIDs[0] != p1.ID || got.MemberIDs[1] != p2.ID {
		t.Fatalf("expected members in draft order, got %v", got.MemberIDs)
	}
	for _, id := range []uuid.UUID{p1.ID, p2.ID} {
		p := f.getPlayer(t, id)
		if !p.IsDrafted || !p.OwnedBy(team.ID) {
			t.Fatalf("expected player %s drafted by team, got drafted=%v owner=%v", id, p.IsDrafted, p.OwnerID)
		}
	}
}

func TestAddPlayerTwiceIsNoop(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	team := f.createTeam(t, userID)
	p := f.createPlayer(t, 100, 2, 1)

	var (
		got   *models.Team
		added bool
	)
	err := f.run(t, func(ctx context.Context, teams *App, _ *player.App) error {
		if _, _, err := teams.AddPlayer(ctx, userID, team.ID, p.ID); err != nil {
			return err
		}
		var err error
		got, added, err = teams.AddPlayer(ctx, userID, team.ID, p.ID)
		return err
	})
	if err != nil {
		t.Fatalf("add player twice: %v", err)
	}
	if added {
		t.Fatal("expected second add to report no change")
	}
	if len(got.MemberIDs) != 1 || got.TotalFantasyPoints != 20 {
		t.Fatalf("expected one member worth 20, got %v total %v", got.MemberIDs, got.TotalFantasyPoints)
	}
}

func TestAddPlayerOwnedElsewhereConflicts(t *testing.T) {
	f := newFixture()
	userA, userB := uuid.New(), uuid.New()
	teamA := f.createTeam(t, userA)
	teamB := f.createTeam(t, userB)
	p := f.createPlayer(t, 100, 2, 1)

	err := f.run(t, func(ctx context.Context, teams *App, _ *player.App) error {
		_, _, err := teams.AddPlayer(ctx, userA, teamA.ID, p.ID)
		return err
	})
	if err != nil {
		t.Fatalf("draft for team A: %v", err)
	}

	err = f.run(t, func(ctx context.Context, teams *App, _ *player.App) error {
		_, _, err := teams.AddPlayer(ctx, userB, teamB.ID, p.ID)
		return err
	})
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if got := f.getPlayer(t, p.ID); !got.OwnedBy(teamA.ID) {
		t.Fatalf("expected player to stay with team A, got %v", got.OwnerID)
	}
}

func TestAddPlayerNotOwner(t *testing.T) {
	f := newFixture()
	team := f.createTeam(t, uuid.New())
	p := f.createPlayer(t, 10, 0, 0)

	err := f.run(t, func(ctx context.Context, teams *App, _ *player.App) error {
		_, _, err := teams.AddPlayer(ctx, uuid.New(), team.ID, p.ID)
		return err
	})
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
	if got := f.getPlayer(t, p.ID); got.IsDrafted {
		t.Fatal("expected player to remain undrafted")
	}
}

func TestAddPlayerMissing(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	team := f.createTeam(t, userID)

	err := f.run(t, func(ctx context.Context, teams *App, _ *player.App) error {
		_, _, err := teams.AddPlayer(ctx, userID, team.ID, uuid.New())
		return err
	})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found for player, got %v", err)
	}

	err = f.run(t, func(ctx context.Context, teams *App, _ *player.App) error {
		_, _, err := teams.AddPlayer(ctx, userID, uuid.New(), uuid.New())
		return err
	})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found for team, got %v", err)
	}
}

func TestRemovePlayer(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	team := f.createTeam(t, userID)
	p1 := f.createPlayer(t, 100, 2, 1)
	p2 := f.createPlayer(t, 50, 1, 0)

	var got *models.Team
	err := f.run(t, func(ctx context.Context, teams *App, _ *player.App) error {
		for _, id := range []uuid.UUID{p1.ID, p2.ID} {
			if _, _, err := teams.AddPlayer(ctx, userID, team.ID, id); err != nil {
				return err
			}
		}
		var err error
		got, err = teams.RemovePlayer(ctx, userID, team.ID, p1.ID)
		return err
	})
	if err != nil {
		t.Fatalf("remove player: %v", err)
	}
	if len(got.MemberIDs) != 1 || got.MemberIDs[0] != p2.ID || got.TotalFantasyPoints != 11 {
		t.Fatalf("expected only p2 worth 11, got %v total %v", got.MemberIDs, got.TotalFantasyPoints)
	}
	if released := f.getPlayer(t, p1.ID); released.IsDrafted || released.OwnerID != nil {
		t.Fatalf("expected p1 released, got drafted=%v owner=%v", released.IsDrafted, released.OwnerID)
	}

	err = f.run(t, func(ctx context.Context, teams *App, _ *player.App) error {
		_, err := teams.RemovePlayer(ctx, userID, team.ID, p1.ID)
		return err
	})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found removing a non-member, got %v", err)
	}
}

func TestDeleteTeamReleasesMembers(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	team := f.createTeam(t, userID)
	p1 := f.createPlayer(t, 100, 2, 1)
	p2 := f.createPlayer(t, 50, 1, 0)

	var released []uuid.UUID
	err := f.run(t, func(ctx context.Context, teams *App, _ *player.App) error {
		for _, id := range []uuid.UUID{p1.ID, p2.ID} {
			if _, _, err := teams.AddPlayer(ctx, userID, team.ID, id); err != nil {
				return err
			}
		}
		var err error
		released, err = teams.DeleteTeam(ctx, userID, team.ID)
		return err
	})
	if err != nil {
		t.Fatalf("delete team: %v", err)
	}
	if len(released) != 2 {
		t.Fatalf("expected two released players, got %v", released)
	}
	for _, id := range []uuid.UUID{p1.ID, p2.ID} {
		p := f.getPlayer(t, id)
		if p.IsDrafted || p.OwnerID != nil {
			t.Fatalf("expected player %s released, got drafted=%v owner=%v", id, p.IsDrafted, p.OwnerID)
		}
	}

	err = f.run(t, func(ctx context.Context, teams *App, _ *player.App) error {
		_, err := teams.GetTeamByUser(ctx, userID)
		return err
	})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected team gone, got %v", err)
	}
}

func TestUpdateTeamFieldsKeepsMembership(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	team := f.createTeam(t, userID)
	p := f.createPlayer(t, 100, 2, 1)

	var got *models.Team
	err := f.run(t, func(ctx context.Context, teams *App, _ *player.App) error {
		if _, _, err := teams.AddPlayer(ctx, userID, team.ID, p.ID); err != nil {
			return err
		}
		var err error
		got, err = teams.UpdateTeamFields(ctx, userID, team.ID, UpdateTeamRequest{Motto: ptr(""), PlayingStyle: ptr("blitz")})
		return err
	})
	if err != nil {
		t.Fatalf("update team: %v", err)
	}
	if got.Motto != "" || got.PlayingStyle != "blitz" || got.TeamName != "Night Owls" {
		t.Fatalf("unexpected fields %+v", got)
	}
	if len(got.MemberIDs) != 1 || got.TotalFantasyPoints != 20 {
		t.Fatalf("expected membership untouched, got %v total %v", got.MemberIDs, got.TotalFantasyPoints)
	}

	err = f.run(t, func(ctx context.Context, teams *App, _ *player.App) error {
		_, err := teams.UpdateTeamFields(ctx, userID, team.ID, UpdateTeamRequest{TeamName: ptr("")})
		return err
	})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRefreshTotalFollowsStatUpdates(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	team := f.createTeam(t, userID)
	p := f.createPlayer(t, 100, 2, 1)

	var got *models.Team
	err := f.run(t, func(ctx context.Context, teams *App, players *player.App) error {
		if _, _, err := teams.AddPlayer(ctx, userID, team.ID, p.ID); err != nil {
			return err
		}
		if _, err := players.UpdateStats(ctx, p.ID, player.UpdateStatsRequest{Touchdowns: ptr(3.0)}); err != nil {
			return err
		}
		var err error
		got, err = teams.RefreshTotal(ctx, team.ID)
		return err
	})
	if err != nil {
		t.Fatalf("refresh total: %v", err)
	}
	if got.TotalFantasyPoints != 26 {
		t.Fatalf("expected total 26, got %v", got.TotalFantasyPoints)
	}
}

func TestDropMember(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	team := f.createTeam(t, userID)
	p1 := f.createPlayer(t, 100, 2, 1)
	p2 := f.createPlayer(t, 50, 1, 0)

	var got *models.Team
	err := f.run(t, func(ctx context.Context, teams *App, players *player.App) error {
		for _, id := range []uuid.UUID{p1.ID, p2.ID} {
			if _, _, err := teams.AddPlayer(ctx, userID, team.ID, id); err != nil {
				return err
			}
		}
		if _, err := teams.DropMember(ctx, team.ID, p1.ID); err != nil {
			return err
		}
		if err := players.DeletePlayer(ctx, p1.ID); err != nil {
			return err
		}
		var err error
		got, err = teams.GetTeam(ctx, userID, team.ID)
		return err
	})
	if err != nil {
		t.Fatalf("drop member: %v", err)
	}
	if len(got.MemberIDs) != 1 || got.TotalFantasyPoints != 11 {
		t.Fatalf("expected p2 only worth 11, got %v total %v", got.MemberIDs, got.TotalFantasyPoints)
	}
}

func TestGetTeamUnderOtherUser(t *testing.T) {
	f := newFixture()
	team := f.createTeam(t, uuid.New())

	err := f.run(t, func(ctx context.Context, teams *App, _ *player.App) error {
		_, err := teams.GetTeam(ctx, uuid.New(), team.ID)
		return err
	})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMemberReadFailsForMissingPlayer(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	team := f.createTeam(t, userID)
	p1 := f.createPlayer(t, 100, 2, 1)
	p2 := f.createPlayer(t, 50, 1, 0)

	err := f.run(t, func(ctx context.Context, teams *App, _ *player.App) error {
		for _, id := range []uuid.UUID{p1.ID, p2.ID} {
			if _, _, err := teams.AddPlayer(ctx, userID, team.ID, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("add players: %v", err)
	}

	// Remove the row underneath the roster
	err = f.st.Atomically(context.Background(), func(ctx context.Context, r store.Repos) error {
		return r.Players.DeletePlayer(ctx, p1.ID)
	})
	if err != nil {
		t.Fatalf("delete player row: %v", err)
	}

	err = f.run(t, func(ctx context.Context, teams *App, _ *player.App) error {
		got, err := teams.GetTeam(ctx, userID, team.ID)
		if err != nil {
			return err
		}
		return teams.PopulateMembers(ctx, got)
	})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found from populate, got %v", err)
	}

	err = f.run(t, func(ctx context.Context, teams *App, _ *player.App) error {
		_, err := teams.RefreshTotal(ctx, team.ID)
		return err
	})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found from refresh, got %v", err)
	}
}
