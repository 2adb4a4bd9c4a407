package graph

import (
	"strconv"

	"github.com/mcdev12/teamgraph/go/internal/models"
)

// PlayerResolver resolves the Player type.
type PlayerResolver struct {
	p *models.Player
}

func (r *PlayerResolver) ID() string {
	return strconv.FormatInt(r.p.ID, 10)
}

func (r *PlayerResolver) FirstName() *string {
	return r.p.FirstName
}

func (r *PlayerResolver) LastName() *string {
	return r.p.LastName
}

func (r *PlayerResolver) Team() *TeamResolver {
	if r.p.Team == nil {
		return nil
	}
	return &TeamResolver{t: r.p.Team}
}

// TeamResolver resolves the Team type.
type TeamResolver struct {
	t *models.Team
}

func (r *TeamResolver) ID() int32 {
	return r.t.ID
}

func (r *TeamResolver) Name() *string {
	return r.t.Name
}

func (r *TeamResolver) Players() []*PlayerResolver {
	return newPlayerResolvers(r.t.Players)
}

func newPlayerResolvers(players []*models.Player) []*PlayerResolver {
	out := make([]*PlayerResolver, 0, len(players))
	for _, p := range players {
		out = append(out, &PlayerResolver{p: p})
	}
	return out
}
