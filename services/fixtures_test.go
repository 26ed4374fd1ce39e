package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/fadhelhaji/90Plus-backend/models"
	"github.com/fadhelhaji/90Plus-backend/repositories"
	"github.com/fadhelhaji/90Plus-backend/repositories/memory"
	"github.com/fadhelhaji/90Plus-backend/storage"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC)

type publishedEvent struct {
	ClubID int
	Type   string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(clubID int, eventType string, _ interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{ClubID: clubID, Type: eventType})
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeUploader struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleted   []string
	uploadErr error
	deleteErr error
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: make(map[string][]byte)}
}

func (u *fakeUploader) Upload(_ context.Context, key, _ string, r io.Reader) (*storage.UploadResult, error) {
	if u.uploadErr != nil {
		return nil, u.uploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.objects[key] = data
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *fakeUploader) Delete(_ context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.deleted = append(u.deleted, key)
	if u.deleteErr != nil {
		return u.deleteErr
	}
	delete(u.objects, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}

// failingGameRepo fails AddPhoto so the upload cleanup path can be observed.
type failingGameRepo struct {
	repositories.GameRepository
	addPhotoErr error
}

func (r failingGameRepo) AddPhoto(ctx context.Context, gameID int, photo *models.Photo) error {
	if r.addPhotoErr != nil {
		return r.addPhotoErr
	}
	return r.GameRepository.AddPhoto(ctx, gameID, photo)
}

type testEnv struct {
	clock    *clockwork.FakeClock
	events   *recordingPublisher
	uploader *fakeUploader

	users repositories.UserRepository
	clubs repositories.ClubRepository
	teams repositories.TeamRepository
	games repositories.GameRepository

	auth       AuthService
	club       ClubService
	membership MembershipService
	team       TeamService
	game       GameService
	player     PlayerService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clock := clockwork.NewFakeClockAt(testNow)
	store := memory.NewStoreWithClock(clock)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	env := &testEnv{
		clock:    clock,
		events:   &recordingPublisher{},
		uploader: newFakeUploader(),
		users:    memory.NewUserRepository(store),
		clubs:    memory.NewClubRepository(store),
		teams:    memory.NewTeamRepository(store),
		games:    memory.NewGameRepository(store),
	}
	env.auth = NewAuthService(env.users, bcrypt.MinCost)
	env.club = NewClubService(env.clubs, env.teams, env.users)
	env.membership = NewMembershipService(env.clubs, env.users, logger)
	env.team = NewTeamService(env.clubs, env.teams)
	env.game = NewGameService(env.clubs, env.teams, env.games, env.uploader, env.events, clock, logger)
	env.player = NewPlayerService(env.users, env.clubs)
	return env
}

func (e *testEnv) register(t *testing.T, username string, role models.UserRole) models.Actor {
	t.Helper()
	user, err := e.auth.Register(context.Background(), RegisterInput{
		Username: username,
		Password: "secret123",
		Role:     role,
	})
	require.NoError(t, err)
	return models.Actor{UserID: user.ID, Role: user.Role}
}

func (e *testEnv) createClub(t *testing.T, coach models.Actor, name string) *models.Club {
	t.Helper()
	club, err := e.club.CreateClub(context.Background(), coach, CreateClubInput{ClubName: name})
	require.NoError(t, err)
	return club
}

// approvedPlayer registers a player and runs invite and accept for the club.
func (e *testEnv) approvedPlayer(t *testing.T, coach models.Actor, clubID int, username string) models.Actor {
	t.Helper()
	ctx := context.Background()
	player := e.register(t, username, models.RolePlayer)
	require.NoError(t, e.membership.Invite(ctx, coach, clubID, player.UserID))
	require.NoError(t, e.membership.Accept(ctx, player, clubID))
	return player
}

func (e *testEnv) createTeam(t *testing.T, coach models.Actor, clubID int, name string, players ...models.Actor) *models.Team {
	t.Helper()
	entries := make([]RosterEntryInput, 0, len(players))
	for _, p := range players {
		entries = append(entries, RosterEntryInput{PlayerID: p.UserID})
	}
	team, err := e.team.CreateTeam(context.Background(), coach, clubID, CreateTeamInput{
		TeamName:  name,
		Formation: models.FormationOneTwoTwoOne,
		Players:   entries,
	})
	require.NoError(t, err)
	return team
}

func (e *testEnv) createGame(t *testing.T, coach models.Actor, clubID, teamA, teamB int) *models.Game {
	t.Helper()
	date := testNow.Add(48 * time.Hour)
	game, err := e.game.CreateGame(context.Background(), coach, clubID, CreateGameInput{
		TeamAID:   teamA,
		TeamBID:   teamB,
		MatchDate: &date,
		Location:  "Pitch 3",
	})
	require.NoError(t, err)
	return game
}

var errBoom = errors.New("boom")

func ptr[T any](v T) *T {
	return &v
}

func username(prefix string, n int) string {
	return fmt.Sprintf("%s%02d", prefix, n)
}
