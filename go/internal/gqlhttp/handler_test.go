package gqlhttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/teamgraph/go/internal/graph"
	"github.com/mcdev12/teamgraph/go/internal/models"
	"github.com/mcdev12/teamgraph/go/internal/player"
)

type stubPlayers struct{ created int }

func (s *stubPlayers) ListPlayers(context.Context, []string) ([]*models.Player, error) {
	return []*models.Player{{ID: 1}}, nil
}

func (s *stubPlayers) GetPlayer(context.Context, int64, []string) (*models.Player, error) {
	return nil, player.ErrPlayerNotFound
}

func (s *stubPlayers) CreatePlayer(_ context.Context, req player.CreatePlayerRequest, _ []string) (*models.Player, error) {
	s.created++
	return &models.Player{ID: 9, FirstName: &req.FirstName}, nil
}

type stubTeams struct{}

func (stubTeams) ListTeams(context.Context, []string) ([]*models.Team, error) {
	return nil, nil
}

func newHandler(t *testing.T) (*Handler, *stubPlayers) {
	t.Helper()
	players := &stubPlayers{}
	schema, err := graph.NewSchema(graph.NewResolver(players, stubTeams{}), graph.Options{})
	require.NoError(t, err)
	return &Handler{Schema: schema, GraphiQL: true}, players
}

type gqlResponse struct {
	Data   map[string]interface{} `json:"data"`
	Errors []struct {
		Message    string                 `json:"message"`
		Extensions map[string]interface{} `json:"extensions"`
	} `json:"errors"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) gqlResponse {
	t.Helper()
	assert.Equal(t, ContentTypeJSON, rec.Header().Get("Content-Type"))
	var resp gqlResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestPostJSON(t *testing.T) {
	h, _ := newHandler(t)

	body := `{"query":"query Q($id: Int!) { player(id: $id) { id } hello }","operationName":"Q","variables":{"id":5}}`
	req := httptest.NewRequest(http.MethodPost, "/api", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, "Hello world!", resp.Data["hello"])
	assert.Nil(t, resp.Data["player"])
}

func TestPostJSONVariablesAsString(t *testing.T) {
	h, _ := newHandler(t)

	body := `{"query":"query Q($id: Int!) { player(id: $id) { id } }","variables":"{\"id\":5}"}`
	req := httptest.NewRequest(http.MethodPost, "/api", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec).Errors)
}

func TestPostGraphQLBody(t *testing.T) {
	h, _ := newHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api", strings.NewReader(`{ players { id } }`))
	req.Header.Set("Content-Type", ContentTypeGraphQL)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	require.Len(t, resp.Data["players"], 1)
}

func TestPostForm(t *testing.T) {
	h, players := newHandler(t)

	form := url.Values{"query": {`mutation { player(first_name: "A", last_name: "B", team_id: 1) { id } }`}}
	req := httptest.NewRequest(http.MethodPost, "/api", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", ContentTypeFormURLEncoded)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, 1, players.created)
}

func TestGetQuery(t *testing.T) {
	h, _ := newHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api?query="+url.QueryEscape("{ hello }"), nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello world!", decode(t, rec).Data["hello"])
}

func TestGetRefusesMutation(t *testing.T) {
	h, players := newHandler(t)

	q := url.QueryEscape(`mutation { player(first_name: "A", last_name: "B", team_id: 1) { id } }`)
	req := httptest.NewRequest(http.MethodGet, "/api?query="+q, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	resp := decode(t, rec)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, graph.CodeMethodNotAllowed, resp.Errors[0].Extensions["code"])
	assert.Zero(t, players.created)
}

func TestGraphiQL(t *testing.T) {
	h, _ := newHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "GraphiQL")
}

func TestGraphiQLDisabled(t *testing.T) {
	h, _ := newHandler(t)
	h.GraphiQL = false

	req := httptest.NewRequest(http.MethodGet, "/api", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBadRequests(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		body        string
		contentType string
		status      int
	}{
		{name: "missing query", method: http.MethodPost, body: `{}`, status: http.StatusBadRequest},
		{name: "invalid json", method: http.MethodPost, body: `{"query":`, status: http.StatusBadRequest},
		{name: "invalid variables", method: http.MethodPost, body: `{"query":"{ hello }","variables":"nope"}`, status: http.StatusBadRequest},
		{name: "syntax error", method: http.MethodPost, body: `{"query":"{ hello "}`, status: http.StatusBadRequest},
		{name: "unknown field", method: http.MethodPost, body: `{"query":"{ nope }"}`, status: http.StatusBadRequest},
		{name: "unsupported type", method: http.MethodPost, body: `{ hello }`, contentType: "text/plain", status: http.StatusBadRequest},
		{name: "bad method", method: http.MethodPut, body: `{"query":"{ hello }"}`, status: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newHandler(t)
			req := httptest.NewRequest(tt.method, "/api", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, decode(t, rec).Errors)
		})
	}
}

func TestMethodNotAllowedSetsAllow(t *testing.T) {
	h, _ := newHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, POST", rec.Header().Get("Allow"))
}
