// Package dbschema declares the player and team tables for the join planner
// and maps hydrated records onto the domain models.
package dbschema

import (
	"fmt"

	"github.com/mcdev12/teamgraph/go/internal/joinplan"
	"github.com/mcdev12/teamgraph/go/internal/models"
	"github.com/mcdev12/teamgraph/go/internal/sqlutil"
)

// Field names shared by the GraphQL schema and the tables below.
const (
	FieldID        = "id"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldTeamID    = "team_id"
	FieldName      = "name"
	FieldTeam      = "team"
	FieldPlayers   = "players"
)

var (
	// Players is the player table.
	Players *joinplan.Table
	// Teams is the team table.
	Teams *joinplan.Table
)

func init() {
	Players = joinplan.NewTable("player", "id", map[string]string{
		FieldID:        "id",
		FieldFirstName: "first_name",
		FieldLastName:  "last_name",
		FieldTeamID:    "team_id",
	})
	Teams = joinplan.NewTable("team", "id", map[string]string{
		FieldID:   "id",
		FieldName: "name",
	})

	// player.team_id = team.id
	Players.Join(FieldTeam, Teams, "team_id", "id", false)
	// team.id = player.team_id
	Teams.Join(FieldPlayers, Players, "id", "team_id", true)
}

// PlayerFromRecord converts a hydrated player record, including any selected team.
func PlayerFromRecord(rec *joinplan.Record) (*models.Player, error) {
	id, err := sqlutil.ToInt64(rec.Key())
	if err != nil {
		return nil, fmt.Errorf("failed to read player id: %w", err)
	}
	teamID, err := sqlutil.ToInt32Ptr(rec.Value(FieldTeamID))
	if err != nil {
		return nil, fmt.Errorf("failed to read team_id of player %d: %w", id, err)
	}

	player := &models.Player{
		ID:        id,
		FirstName: sqlutil.ToStringPtr(rec.Value(FieldFirstName)),
		LastName:  sqlutil.ToStringPtr(rec.Value(FieldLastName)),
		TeamID:    teamID,
	}

	if child := rec.Child(FieldTeam); child != nil {
		team, err := TeamFromRecord(child)
		if err != nil {
			return nil, err
		}
		player.Team = team
	}

	return player, nil
}

// TeamFromRecord converts a hydrated team record, including any selected players.
func TeamFromRecord(rec *joinplan.Record) (*models.Team, error) {
	id, err := sqlutil.ToInt32(rec.Key())
	if err != nil {
		return nil, fmt.Errorf("failed to read team id: %w", err)
	}

	team := &models.Team{
		ID:   id,
		Name: sqlutil.ToStringPtr(rec.Value(FieldName)),
	}

	children := rec.Children(FieldPlayers)
	if children != nil {
		team.Players = make([]*models.Player, 0, len(children))
	}
	for _, child := range children {
		player, err := PlayerFromRecord(child)
		if err != nil {
			return nil, err
		}
		team.Players = append(team.Players, player)
	}

	return team, nil
}

// PlayersFromRecords converts a list of player records.
func PlayersFromRecords(records []*joinplan.Record) ([]*models.Player, error) {
	players := make([]*models.Player, 0, len(records))
	for _, rec := range records {
		player, err := PlayerFromRecord(rec)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	return players, nil
}

// TeamsFromRecords converts a list of team records.
func TeamsFromRecords(records []*joinplan.Record) ([]*models.Team, error) {
	teams := make([]*models.Team, 0, len(records))
	for _, rec := range records {
		team, err := TeamFromRecord(rec)
		if err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, nil
}
