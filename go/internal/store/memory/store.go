// Package memory is an in-process implementation of the store contracts.
// A unit of work holds the store lock for its whole duration and restores a
// snapshot when it fails, which gives the same all-or-nothing outcome as the
// Postgres transaction without a database.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/sportsball/go/internal/apperrors"
	"github.com/mcdev12/sportsball/go/internal/models"
	"github.com/mcdev12/sportsball/go/internal/store"
)

// Store holds users, teams, players and outbox events in maps
type Store struct {
	mu   sync.Mutex
	data state

	faultsMu sync.Mutex
	faults   map[string]error
}

type state struct {
	users      map[uuid.UUID]models.User
	usernames  map[string]uuid.UUID
	teams      map[uuid.UUID]models.Team
	teamByUser map[uuid.UUID]uuid.UUID
	players    map[uuid.UUID]models.Player
	events     []models.RosterEvent
}

// New creates an empty store
func New() *Store {
	return &Store{
		data: state{
			users:      make(map[uuid.UUID]models.User),
			usernames:  make(map[string]uuid.UUID),
			teams:      make(map[uuid.UUID]models.Team),
			teamByUser: make(map[uuid.UUID]uuid.UUID),
			players:    make(map[uuid.UUID]models.Player),
		},
		faults: make(map[string]error),
	}
}

var _ store.UnitOfWork = (*Store)(nil)

// Atomically runs fn with the store locked and rolls every write back if fn fails
func (s *Store) Atomically(ctx context.Context, fn func(ctx context.Context, r store.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snapshot := s.data.clone()
	r := &repos{s: s}
	if err := fn(ctx, store.Repos{Users: r, Teams: r, Players: r, Outbox: r}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// FailNext makes the next call of the named repository method return err.
// Method names match the store interfaces, e.g. "UpdateTeam".
func (s *Store) FailNext(method string, err error) {
	s.faultsMu.Lock()
	defer s.faultsMu.Unlock()
	s.faults[method] = err
}

func (s *Store) fault(method string) error {
	s.faultsMu.Lock()
	defer s.faultsMu.Unlock()
	err, ok := s.faults[method]
	if !ok {
		return nil
	}
	delete(s.faults, method)
	return apperrors.Persistence(method, err)
}

func (st state) clone() state {
	out := state{
		users:      make(map[uuid.UUID]models.User, len(st.users)),
		usernames:  make(map[string]uuid.UUID, len(st.usernames)),
		teams:      make(map[uuid.UUID]models.Team, len(st.teams)),
		teamByUser: make(map[uuid.UUID]uuid.UUID, len(st.teamByUser)),
		players:    make(map[uuid.UUID]models.Player, len(st.players)),
		events:     make([]models.RosterEvent, len(st.events)),
	}
	for k, v := range st.users {
		out.users[k] = v
	}
	for k, v := range st.usernames {
		out.usernames[k] = v
	}
	for k, v := range st.teams {
		out.teams[k] = copyTeam(v)
	}
	for k, v := range st.teamByUser {
		out.teamByUser[k] = v
	}
	for k, v := range st.players {
		out.players[k] = copyPlayer(v)
	}
	for i, e := range st.events {
		out.events[i] = copyEvent(e)
	}
	return out
}

func copyPlayer(p models.Player) models.Player {
	if p.OwnerID != nil {
		owner := *p.OwnerID
		p.OwnerID = &owner
	}
	return p
}

func copyTeam(t models.Team) models.Team {
	t.MemberIDs = slices.Clone(t.MemberIDs)
	t.Members = nil
	return t
}

func copyEvent(e models.RosterEvent) models.RosterEvent {
	e.Payload = slices.Clone(e.Payload)
	if e.SentAt != nil {
		at := *e.SentAt
		e.SentAt = &at
	}
	return e
}

// repos implements every repository interface against the locked store state
type repos struct {
	s *Store
}

func (r *repos) CreatePlayer(_ context.Context, p *models.Player) error {
	if err := r.s.fault("CreatePlayer"); err != nil {
		return err
	}
	if _, exists := r.s.data.players[p.ID]; exists {
		return apperrors.Conflict("player %s already exists", p.ID)
	}
	r.s.data.players[p.ID] = copyPlayer(*p)
	return nil
}

func (r *repos) GetPlayer(_ context.Context, id uuid.UUID) (*models.Player, error) {
	if err := r.s.fault("GetPlayer"); err != nil {
		return nil, err
	}
	p, ok := r.s.data.players[id]
	if !ok {
		return nil, apperrors.NotFound("player %s", id)
	}
	out := copyPlayer(p)
	return &out, nil
}

func (r *repos) GetPlayers(_ context.Context, ids []uuid.UUID) ([]models.Player, error) {
	if err := r.s.fault("GetPlayers"); err != nil {
		return nil, err
	}
	out := make([]models.Player, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.s.data.players[id]; ok {
			out = append(out, copyPlayer(p))
		}
	}
	return out, nil
}

func (r *repos) UpdatePlayer(_ context.Context, p *models.Player) error {
	if err := r.s.fault("UpdatePlayer"); err != nil {
		return err
	}
	stored, ok := r.s.data.players[p.ID]
	if !ok {
		return apperrors.NotFound("player %s", p.ID)
	}
	if stored.Version != p.Version {
		return apperrors.ErrStale
	}
	p.Version++
	r.s.data.players[p.ID] = copyPlayer(*p)
	return nil
}

func (r *repos) DeletePlayer(_ context.Context, id uuid.UUID) error {
	if err := r.s.fault("DeletePlayer"); err != nil {
		return err
	}
	if _, ok := r.s.data.players[id]; !ok {
		return apperrors.NotFound("player %s", id)
	}
	delete(r.s.data.players, id)
	return nil
}

func (r *repos) CreateTeam(_ context.Context, t *models.Team) error {
	if err := r.s.fault("CreateTeam"); err != nil {
		return err
	}
	if _, exists := r.s.data.teamByUser[t.UserID]; exists {
		return apperrors.Conflict("user %s already has a team", t.UserID)
	}
	r.s.data.teams[t.ID] = copyTeam(*t)
	r.s.data.teamByUser[t.UserID] = t.ID
	return nil
}

func (r *repos) GetTeam(_ context.Context, id uuid.UUID) (*models.Team, error) {
	if err := r.s.fault("GetTeam"); err != nil {
		return nil, err
	}
	t, ok := r.s.data.teams[id]
	if !ok {
		return nil, apperrors.NotFound("team %s", id)
	}
	out := copyTeam(t)
	return &out, nil
}

func (r *repos) GetTeamByUser(ctx context.Context, userID uuid.UUID) (*models.Team, error) {
	id, ok := r.s.data.teamByUser[userID]
	if !ok {
		return nil, apperrors.NotFound("team for user %s", userID)
	}
	return r.GetTeam(ctx, id)
}

func (r *repos) UpdateTeam(_ context.Context, t *models.Team) error {
	if err := r.s.fault("UpdateTeam"); err != nil {
		return err
	}
	stored, ok := r.s.data.teams[t.ID]
	if !ok {
		return apperrors.NotFound("team %s", t.ID)
	}
	if stored.Version != t.Version {
		return apperrors.ErrStale
	}
	t.Version++
	r.s.data.teams[t.ID] = copyTeam(*t)
	return nil
}

func (r *repos) DeleteTeam(_ context.Context, id uuid.UUID) error {
	if err := r.s.fault("DeleteTeam"); err != nil {
		return err
	}
	t, ok := r.s.data.teams[id]
	if !ok {
		return apperrors.NotFound("team %s", id)
	}
	delete(r.s.data.teams, id)
	delete(r.s.data.teamByUser, t.UserID)
	return nil
}

func (r *repos) CreateUser(_ context.Context, u *models.User) error {
	if err := r.s.fault("CreateUser"); err != nil {
		return err
	}
	if _, taken := r.s.data.usernames[u.Username]; taken {
		return apperrors.Conflict("username %q already taken", u.Username)
	}
	stored := *u
	stored.Team = nil
	r.s.data.users[u.ID] = stored
	r.s.data.usernames[u.Username] = u.ID
	return nil
}

func (r *repos) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	if err := r.s.fault("GetUser"); err != nil {
		return nil, err
	}
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, apperrors.NotFound("user %s", id)
	}
	return &u, nil
}

func (r *repos) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	id, ok := r.s.data.usernames[username]
	if !ok {
		return nil, apperrors.NotFound("user %q", username)
	}
	return r.GetUser(ctx, id)
}

func (r *repos) InsertEvent(_ context.Context, e *models.RosterEvent) error {
	if err := r.s.fault("InsertEvent"); err != nil {
		return err
	}
	r.s.data.events = append(r.s.data.events, copyEvent(*e))
	return nil
}

func (r *repos) FetchUnsent(_ context.Context, limit int) ([]models.RosterEvent, error) {
	if err := r.s.fault("FetchUnsent"); err != nil {
		return nil, err
	}
	var out []models.RosterEvent
	for _, e := range r.s.data.events {
		if e.SentAt != nil {
			continue
		}
		out = append(out, copyEvent(e))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *repos) MarkSent(_ context.Context, ids []uuid.UUID, sentAt time.Time) error {
	if err := r.s.fault("MarkSent"); err != nil {
		return err
	}
	for i := range r.s.data.events {
		if slices.Contains(ids, r.s.data.events[i].ID) {
			at := sentAt
			r.s.data.events[i].SentAt = &at
		}
	}
	return nil
}
