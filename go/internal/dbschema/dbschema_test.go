package dbschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/teamgraph/go/internal/joinplan"
)

type sliceRows struct {
	rows [][]any
	pos  int
}

func (s *sliceRows) Next() bool {
	s.pos++
	return s.pos <= len(s.rows)
}

func (s *sliceRows) Values() ([]any, error) { return s.rows[s.pos-1], nil }
func (s *sliceRows) Err() error             { return nil }

func hydrate(t *testing.T, root *joinplan.Table, fields []string, rows [][]any) []*joinplan.Record {
	t.Helper()
	plan, err := joinplan.Compile(root, fields)
	require.NoError(t, err)
	records, err := plan.Hydrate(&sliceRows{rows: rows})
	require.NoError(t, err)
	return records
}

func TestPlayerJoinsTeamOnTeamID(t *testing.T) {
	plan, err := joinplan.Compile(Players, []string{"team", "team.name"})
	require.NoError(t, err)
	assert.Contains(t, plan.SQL, `LEFT JOIN "team" AS "t1" ON "t0"."team_id" = "t1"."id"`)
}

func TestTeamJoinsPlayersOnTeamID(t *testing.T) {
	plan, err := joinplan.Compile(Teams, []string{"players", "players.first_name"})
	require.NoError(t, err)
	assert.Contains(t, plan.SQL, `LEFT JOIN "player" AS "t1" ON "t0"."id" = "t1"."team_id"`)
}

func TestPlayersFromRecords(t *testing.T) {
	// columns: t0_id, t0_first_name, t0_last_name, t1_id, t1_name
	records := hydrate(t, Players, []string{"first_name", "last_name", "team", "team.name"}, [][]any{
		{int32(1), "Ann", "Lee", int32(5), "Hawks"},
		{int32(2), "Bob", nil, nil, nil},
	})

	players, err := PlayersFromRecords(records)
	require.NoError(t, err)
	require.Len(t, players, 2)

	assert.Equal(t, int64(1), players[0].ID)
	assert.Equal(t, "Ann", *players[0].FirstName)
	assert.Equal(t, "Lee", *players[0].LastName)
	require.NotNil(t, players[0].Team)
	assert.Equal(t, int32(5), players[0].Team.ID)
	assert.Equal(t, "Hawks", *players[0].Team.Name)

	assert.Nil(t, players[1].LastName)
	assert.Nil(t, players[1].Team)
}

func TestTeamsFromRecords(t *testing.T) {
	// columns: t0_id, t0_name, t1_id, t1_last_name
	records := hydrate(t, Teams, []string{"name", "players", "players.last_name"}, [][]any{
		{int32(5), "Hawks", int32(1), "Lee"},
		{int32(5), "Hawks", int32(3), "Kim"},
		{int32(6), "Owls", nil, nil},
	})

	teams, err := TeamsFromRecords(records)
	require.NoError(t, err)
	require.Len(t, teams, 2)

	require.Len(t, teams[0].Players, 2)
	assert.Equal(t, int64(3), teams[0].Players[1].ID)
	assert.Equal(t, "Kim", *teams[0].Players[1].LastName)

	assert.NotNil(t, teams[1].Players)
	assert.Empty(t, teams[1].Players)
}

func TestTeamWithoutPlayersSelectionHasNilPlayers(t *testing.T) {
	records := hydrate(t, Teams, []string{"name"}, [][]any{{int32(5), "Hawks"}})

	teams, err := TeamsFromRecords(records)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Nil(t, teams[0].Players)
}
