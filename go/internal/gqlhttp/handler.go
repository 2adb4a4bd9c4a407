// Package gqlhttp serves a GraphQL schema over HTTP.
package gqlhttp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/graph-gophers/graphql-go"
	qerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/rs/zerolog"

	"github.com/mcdev12/teamgraph/go/internal/graph"
)

const (
	ContentTypeJSON           = "application/json"
	ContentTypeGraphQL        = "application/graphql"
	ContentTypeFormURLEncoded = "application/x-www-form-urlencoded"

	defaultMaxBodyBytes = 1 << 20
)

var errMissingQuery = errors.New("must provide query string")

// Handler executes GraphQL requests sent by GET or POST.
type Handler struct {
	Schema *graphql.Schema
	// GraphiQL serves the console to browsers that GET the endpoint without a query.
	GraphiQL bool
	// MaxBodyBytes caps POST bodies. Zero means 1 MiB.
	MaxBodyBytes int64
}

// Request holds GraphQL request parameters.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST")
		writeError(w, r, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return
	}

	if h.GraphiQL && wantsGraphiQL(r) {
		if err := renderGraphiQL(w, r.URL.Path); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to render graphiql")
		}
		return
	}

	req, err := h.parseRequest(w, r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, r, http.StatusBadRequest, errMissingQuery)
		return
	}

	ctx := r.Context()
	if r.Method == http.MethodGet {
		ctx = graph.WithoutMutations(ctx)
	}

	resp := h.Schema.Exec(ctx, req.Query, req.OperationName, req.Variables)

	status := http.StatusOK
	if len(resp.Errors) > 0 && resp.Data == nil {
		status = http.StatusBadRequest
	}
	writeJSON(w, r, status, resp)
}

func (h *Handler) parseRequest(w http.ResponseWriter, r *http.Request) (*Request, error) {
	if r.Method == http.MethodGet {
		return fromValues(r.URL.Query())
	}

	maxBytes := h.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBodyBytes
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}

	contentType := ContentTypeJSON
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nil, fmt.Errorf("invalid content type: %w", err)
		}
		contentType = mediaType
	}

	var req *Request
	switch contentType {
	case ContentTypeGraphQL:
		req = &Request{Query: string(body)}
	case ContentTypeFormURLEncoded:
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, fmt.Errorf("invalid form body: %w", err)
		}
		req, err = fromValues(values)
		if err != nil {
			return nil, err
		}
	case ContentTypeJSON:
		req, err = fromJSON(body)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported content type %q", contentType)
	}

	// query string parameters fill in what the body left out
	if req.Query == "" {
		fallback, err := fromValues(r.URL.Query())
		if err != nil {
			return nil, err
		}
		req.Query = fallback.Query
		if req.OperationName == "" {
			req.OperationName = fallback.OperationName
		}
		if req.Variables == nil {
			req.Variables = fallback.Variables
		}
	}
	return req, nil
}

// rawRequest accepts variables either as an object or as a JSON-encoded string.
type rawRequest struct {
	Query         string          `json:"query"`
	OperationName string          `json:"operationName"`
	Variables     json.RawMessage `json:"variables"`
}

func fromJSON(body []byte) (*Request, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return &Request{}, nil
	}

	var raw rawRequest
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}

	vars, err := decodeVariables(raw.Variables)
	if err != nil {
		return nil, err
	}
	return &Request{Query: raw.Query, OperationName: raw.OperationName, Variables: vars}, nil
}

func fromValues(values url.Values) (*Request, error) {
	req := &Request{
		Query:         values.Get("query"),
		OperationName: values.Get("operationName"),
	}
	if v := values.Get("variables"); v != "" {
		vars, err := decodeVariables(json.RawMessage(v))
		if err != nil {
			return nil, err
		}
		req.Variables = vars
	}
	return req, nil
}

func decodeVariables(raw json.RawMessage) (map[string]interface{}, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, fmt.Errorf("invalid variables: %w", err)
		}
		if encoded == "" {
			return nil, nil
		}
		raw = json.RawMessage(encoded)
	}

	var vars map[string]interface{}
	if err := json.Unmarshal(raw, &vars); err != nil {
		return nil, fmt.Errorf("invalid variables: %w", err)
	}
	return vars, nil
}

func wantsGraphiQL(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}
	q := r.URL.Query()
	if q.Get("query") != "" {
		return false
	}
	if _, raw := q["raw"]; raw {
		return false
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html")
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	writeJSON(w, r, status, &graphql.Response{
		Errors: []*qerrors.QueryError{{Message: err.Error()}},
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, resp *graphql.Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode graphql response")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("failed to write graphql response")
	}
}
