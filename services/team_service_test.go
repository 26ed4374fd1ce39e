package services

import (
	"context"
	"testing"

	"github.com/fadhelhaji/90Plus-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamService_CreateTeam(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	coach := env.register(t, "coach_a", models.RoleCoach)
	club := env.createClub(t, coach, "Reds")
	ali := env.approvedPlayer(t, coach, club.ID, "ali")
	invitee := env.register(t, "invitee", models.RolePlayer)
	require.NoError(t, env.membership.Invite(ctx, coach, club.ID, invitee.UserID))

	tests := []struct {
		name    string
		actor   models.Actor
		input   CreateTeamInput
		wantErr error
	}{
		{
			name:    "player cannot create",
			actor:   ali,
			input:   CreateTeamInput{TeamName: "A", Formation: models.FormationOneTwoTwoOne},
			wantErr: ErrClubOwnerRequired,
		},
		{
			name:    "missing name",
			actor:   coach,
			input:   CreateTeamInput{TeamName: "  ", Formation: models.FormationOneTwoTwoOne},
			wantErr: ErrValidationFailed,
		},
		{
			name:    "unknown formation",
			actor:   coach,
			input:   CreateTeamInput{TeamName: "A", Formation: "4-4-2"},
			wantErr: ErrInvalidFormation,
		},
		{
			name: "invited player is not yet a member",
			actor: coach,
			input: CreateTeamInput{TeamName: "A", Formation: models.FormationOneTwoTwoOne, Players: []RosterEntryInput{
				{PlayerID: invitee.UserID},
			}},
			wantErr: ErrPlayerNotInClub,
		},
		{
			name: "duplicate player",
			actor: coach,
			input: CreateTeamInput{TeamName: "A", Formation: models.FormationOneTwoTwoOne, Players: []RosterEntryInput{
				{PlayerID: ali.UserID}, {PlayerID: ali.UserID},
			}},
			wantErr: ErrDuplicateRosterEntry,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.team.CreateTeam(ctx, tc.actor, club.ID, tc.input)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	team, err := env.team.CreateTeam(ctx, coach, club.ID, CreateTeamInput{
		TeamName:  " Team A ",
		Formation: models.FormationOneTwoTwoOne,
		Players:   []RosterEntryInput{{PlayerID: ali.UserID, Position: ptr("GK")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Team A", team.TeamName)
	assert.Equal(t, club.ID, team.ClubID)
	require.Len(t, team.Players, 1)
	assert.Equal(t, "GK", *team.Players[0].Position)
}

func TestTeamService_AddPlayerRosterExclusivity(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	coach := env.register(t, "coach_a", models.RoleCoach)
	club := env.createClub(t, coach, "Reds")
	ali := env.approvedPlayer(t, coach, club.ID, "ali")
	team := env.createTeam(t, coach, club.ID, "Team A")

	updated, err := env.team.AddPlayerToTeam(ctx, coach, club.ID, team.ID, AddPlayerInput{PlayerID: ali.UserID})
	require.NoError(t, err)
	assert.Len(t, updated.Players, 1)

	_, err = env.team.AddPlayerToTeam(ctx, coach, club.ID, team.ID, AddPlayerInput{PlayerID: ali.UserID})
	assert.ErrorIs(t, err, ErrPlayerAlreadyOnRoster)

	stored, err := env.team.GetTeam(ctx, club.ID, team.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Players, 1)
}

func TestTeamService_AddPlayerRequiresApproval(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	coach := env.register(t, "coach_a", models.RoleCoach)
	club := env.createClub(t, coach, "Reds")
	team := env.createTeam(t, coach, club.ID, "Team A")

	invitee := env.register(t, "invitee", models.RolePlayer)
	require.NoError(t, env.membership.Invite(ctx, coach, club.ID, invitee.UserID))
	stranger := env.register(t, "stranger", models.RolePlayer)

	for _, p := range []models.Actor{invitee, stranger} {
		_, err := env.team.AddPlayerToTeam(ctx, coach, club.ID, team.ID, AddPlayerInput{PlayerID: p.UserID})
		assert.ErrorIs(t, err, ErrPlayerNotInClub)
	}

	stored, err := env.team.GetTeam(ctx, club.ID, team.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Players)
}

func TestTeamService_UpdateFormation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	coach := env.register(t, "coach_a", models.RoleCoach)
	club := env.createClub(t, coach, "Reds")
	team := env.createTeam(t, coach, club.ID, "Team A")

	_, err := env.team.UpdateFormation(ctx, coach, club.ID, team.ID, UpdateFormationInput{Formation: "2-2-2"})
	assert.ErrorIs(t, err, ErrInvalidFormation)

	stored, err := env.team.GetTeam(ctx, club.ID, team.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FormationOneTwoTwoOne, stored.Formation)

	updated, err := env.team.UpdateFormation(ctx, coach, club.ID, team.ID, UpdateFormationInput{Formation: models.FormationOneTwoTwoOne})
	require.NoError(t, err)
	assert.Equal(t, models.FormationOneTwoTwoOne, updated.Formation)

	_, err = env.team.UpdateFormation(ctx, coach, club.ID, 999, UpdateFormationInput{Formation: models.FormationOneTwoTwoOne})
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestTeamService_ForeignTeamIsNotFound(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	coachA := env.register(t, "coach_a", models.RoleCoach)
	coachB := env.register(t, "coach_b", models.RoleCoach)
	reds := env.createClub(t, coachA, "Reds")
	blues := env.createClub(t, coachB, "Blues")
	bluesTeam := env.createTeam(t, coachB, blues.ID, "Blue A")

	_, err := env.team.GetTeam(ctx, reds.ID, bluesTeam.ID)
	assert.ErrorIs(t, err, ErrTeamNotFound)

	_, err = env.team.UpdateFormation(ctx, coachA, reds.ID, bluesTeam.ID, UpdateFormationInput{Formation: models.FormationOneTwoTwoOne})
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestTeamService_RemovePlayerIsIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	coach := env.register(t, "coach_a", models.RoleCoach)
	club := env.createClub(t, coach, "Reds")
	ali := env.approvedPlayer(t, coach, club.ID, "ali")
	bea := env.approvedPlayer(t, coach, club.ID, "bea")
	team := env.createTeam(t, coach, club.ID, "Team A", ali, bea)

	updated, err := env.team.RemovePlayerFromTeam(ctx, coach, club.ID, team.ID, ali.UserID)
	require.NoError(t, err)
	require.Len(t, updated.Players, 1)
	assert.Equal(t, bea.UserID, updated.Players[0].PlayerID)

	updated, err = env.team.RemovePlayerFromTeam(ctx, coach, club.ID, team.ID, ali.UserID)
	require.NoError(t, err)
	assert.Len(t, updated.Players, 1)
}
