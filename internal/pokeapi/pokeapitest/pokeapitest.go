// Package pokeapitest provides fakes of the catalog API for tests: an
// in-memory Source and an httptest server speaking the real wire format.
package pokeapitest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"pokedex/internal/pokeapi"
)

// Entity is one fixture creature.
type Entity struct {
	ID        int
	Name      string
	Abilities []string
	Moves     []string
	Types     []string
	SpriteURL string
}

// Fake is an in-memory pokeapi.Source.
type Fake struct {
	mu        sync.Mutex
	entities  []Entity
	byName    map[string]Entity
	indexErr  error
	detailErr map[string]error

	IndexCalls  int
	DetailCalls map[string]int
	Order       []string // names in the order FetchDetail was called
}

// NewFake builds a Fake serving the given entities.
func NewFake(entities ...Entity) *Fake {
	f := &Fake{
		entities:    entities,
		byName:      make(map[string]Entity, len(entities)),
		detailErr:   make(map[string]error),
		DetailCalls: make(map[string]int),
	}
	for _, e := range entities {
		f.byName[e.Name] = e
	}
	return f
}

// FailIndex makes FetchIndex return err.
func (f *Fake) FailIndex(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexErr = err
}

// FailDetail makes FetchDetail(name) return err.
func (f *Fake) FailDetail(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailErr[name] = err
}

// FetchIndex implements pokeapi.Source.
func (f *Fake) FetchIndex(ctx context.Context, offset, limit int) ([]pokeapi.IndexRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.IndexCalls++
	if f.indexErr != nil {
		return nil, f.indexErr
	}
	var out []pokeapi.IndexRecord
	for i, e := range f.entities {
		if i < offset || len(out) >= limit {
			continue
		}
		out = append(out, pokeapi.IndexRecord{Name: e.Name, URL: DetailURL("https://pokeapi.co/api/v2", e.ID)})
	}
	return out, nil
}

// FetchDetail implements pokeapi.Source.
func (f *Fake) FetchDetail(ctx context.Context, name string) (*pokeapi.Detail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DetailCalls[name]++
	f.Order = append(f.Order, name)
	if err, ok := f.detailErr[name]; ok {
		return nil, err
	}
	e, ok := f.byName[name]
	if !ok {
		return nil, &pokeapi.NetworkError{Op: "fetch detail", URL: name, StatusCode: http.StatusNotFound}
	}
	return e.detail(), nil
}

func (e Entity) detail() *pokeapi.Detail {
	d := &pokeapi.Detail{
		ID:        e.ID,
		Name:      e.Name,
		Abilities: append([]string(nil), e.Abilities...),
		Moves:     append([]string(nil), e.Moves...),
		Types:     append([]string(nil), e.Types...),
		SpriteURL: e.SpriteURL,
	}
	for i, a := range e.Abilities {
		d.AbilitySlots = append(d.AbilitySlots, pokeapi.AbilitySlot{Name: a, Slot: i + 1})
	}
	return d
}

// DetailURL formats a detail URL the way the index endpoint does.
func DetailURL(base string, id int) string {
	return fmt.Sprintf("%s/pokemon/%d/", strings.TrimRight(base, "/"), id)
}

// Server is an httptest server speaking the catalog API wire format.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	entities    []Entity
	byName      map[string]Entity
	indexStatus int
	indexBody   string
	detailCalls map[string]int
}

// NewServer starts a Server. Callers must Close it.
func NewServer(entities ...Entity) *Server {
	s := &Server{
		entities:    entities,
		byName:      make(map[string]Entity, len(entities)),
		detailCalls: make(map[string]int),
	}
	for _, e := range entities {
		s.byName[e.Name] = e
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// BaseURL returns the API root to pass to pokeapi.NewClient.
func (s *Server) BaseURL() string { return s.URL + "/api/v2" }

// SetIndexResponse overrides the index endpoint with a fixed status and body.
func (s *Server) SetIndexResponse(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexStatus = status
	s.indexBody = body
}

// DetailCalls returns how often the detail endpoint was hit for name.
func (s *Server) DetailCalls(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detailCalls[name]
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v2/pokemon")
	path = strings.Trim(path, "/")

	if path == "" {
		s.handleIndex(w, r)
		return
	}
	s.handleDetail(w, path)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	status, body := s.indexStatus, s.indexBody
	s.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
		return
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		limit = 20
	}

	type record struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	results := []record{}
	for i, e := range s.entities {
		if i < offset || len(results) >= limit {
			continue
		}
		results = append(results, record{Name: e.Name, URL: DetailURL(s.BaseURL(), e.ID)})
	}
	writeJSON(w, map[string]any{"count": len(s.entities), "results": results})
}

func (s *Server) handleDetail(w http.ResponseWriter, name string) {
	s.mu.Lock()
	s.detailCalls[name]++
	e, ok := s.byName[name]
	s.mu.Unlock()

	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	abilities := make([]map[string]any, 0, len(e.Abilities))
	for i, a := range e.Abilities {
		abilities = append(abilities, map[string]any{
			"ability":   map[string]string{"name": a, "url": ""},
			"is_hidden": i == len(e.Abilities)-1 && len(e.Abilities) > 1,
			"slot":      i + 1,
		})
	}
	moves := make([]map[string]any, 0, len(e.Moves))
	for _, m := range e.Moves {
		moves = append(moves, map[string]any{"move": map[string]string{"name": m, "url": ""}})
	}
	types := make([]map[string]any, 0, len(e.Types))
	for i, t := range e.Types {
		types = append(types, map[string]any{"slot": i + 1, "type": map[string]string{"name": t, "url": ""}})
	}

	writeJSON(w, map[string]any{
		"id":        e.ID,
		"name":      e.Name,
		"abilities": abilities,
		"moves":     moves,
		"types":     types,
		"sprites": map[string]any{
			"front_default": nil,
			"other": map[string]any{
				"official-artwork": map[string]any{"front_default": e.SpriteURL},
			},
		},
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
