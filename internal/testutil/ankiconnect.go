package testutil

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
)

// FakeNote is a note held by FakeAnki
type FakeNote struct {
	ID     int64
	Deck   string
	Model  string
	Fields map[string]string
	Tags   []string
}

// FakeAnki is an in-memory AnkiConnect endpoint. It understands the
// actions used by wortschatz and the escaped search terms built by
// anki.Query.
type FakeAnki struct {
	Server *httptest.Server

	mu     sync.Mutex
	models map[string][]string
	notes  map[int64]*FakeNote
	media  map[string][]byte
	calls  []string
	fails  map[string]string
	nextID int64
}

// NewFakeAnki starts a fake AnkiConnect server that is closed when the
// test ends
func NewFakeAnki(t *testing.T) *FakeAnki {
	t.Helper()

	f := &FakeAnki{
		models: make(map[string][]string),
		notes:  make(map[int64]*FakeNote),
		media:  make(map[string][]byte),
		fails:  make(map[string]string),
		nextID: 1700000000000,
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the endpoint URL
func (f *FakeAnki) URL() string {
	return f.Server.URL
}

// AddModel registers a note type with its fields in order
func (f *FakeAnki) AddModel(name string, fields ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.models[name] = fields
}

// AddNote stores a note directly and returns its id. Fields of the model
// missing from values are created empty.
func (f *FakeAnki) AddNote(deck, model string, values map[string]string, tags ...string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insert(deck, model, values, tags)
}

// Note returns a copy of a stored note
func (f *FakeAnki) Note(id int64) (FakeNote, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n, ok := f.notes[id]
	if !ok {
		return FakeNote{}, false
	}
	cp := *n
	cp.Fields = make(map[string]string, len(n.Fields))
	for k, v := range n.Fields {
		cp.Fields[k] = v
	}
	return cp, true
}

// NoteCount returns the number of stored notes
func (f *FakeAnki) NoteCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.notes)
}

// Media returns an uploaded media file
func (f *FakeAnki) Media(name string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.media[name]
	return data, ok
}

// Calls returns the actions received so far
func (f *FakeAnki) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// CallCount returns how often action was received
func (f *FakeAnki) CallCount(action string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, c := range f.calls {
		if c == action {
			n++
		}
	}
	return n
}

// Fail makes every following request for action answer with message
func (f *FakeAnki) Fail(action, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fails[action] = message
}

func (f *FakeAnki) insert(deck, model string, values map[string]string, tags []string) int64 {
	f.nextID++
	n := &FakeNote{
		ID:     f.nextID,
		Deck:   deck,
		Model:  model,
		Fields: make(map[string]string),
		Tags:   tags,
	}
	for _, name := range f.models[model] {
		n.Fields[name] = ""
	}
	for k, v := range values {
		n.Fields[k] = v
	}
	f.notes[n.ID] = n
	return n.ID
}

type fakeRequest struct {
	Action  string          `json:"action"`
	Version int             `json:"version"`
	Params  json.RawMessage `json:"params"`
}

func (f *FakeAnki) serve(w http.ResponseWriter, r *http.Request) {
	var req fakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.calls = append(f.calls, req.Action)
	msg, failing := f.fails[req.Action]
	var (
		result any
		err    error
	)
	if !failing {
		result, err = f.dispatch(req)
	}
	f.mu.Unlock()

	if failing {
		err = fmt.Errorf("%s", msg)
	}

	resp := map[string]any{"result": result, "error": nil}
	if err != nil {
		resp["result"] = nil
		resp["error"] = err.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (f *FakeAnki) dispatch(req fakeRequest) (any, error) {
	switch req.Action {
	case "version":
		return 6, nil

	case "findNotes":
		var p struct {
			Query string `json:"query"`
		}
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return nil, err
		}
		return f.find(p.Query), nil

	case "notesInfo":
		var p struct {
			Notes []int64 `json:"notes"`
		}
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return nil, err
		}
		return f.info(p.Notes), nil

	case "updateNoteFields":
		var p struct {
			Note struct {
				ID     int64             `json:"id"`
				Fields map[string]string `json:"fields"`
			} `json:"note"`
		}
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return nil, err
		}
		n, ok := f.notes[p.Note.ID]
		if !ok {
			return nil, fmt.Errorf("Note was not found: %d", p.Note.ID)
		}
		for k, v := range p.Note.Fields {
			n.Fields[k] = v
		}
		return nil, nil

	case "addNote":
		var p struct {
			Note struct {
				DeckName  string            `json:"deckName"`
				ModelName string            `json:"modelName"`
				Fields    map[string]string `json:"fields"`
				Tags      []string          `json:"tags"`
			} `json:"note"`
		}
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return nil, err
		}
		return f.add(p.Note.DeckName, p.Note.ModelName, p.Note.Fields, p.Note.Tags)

	case "storeMediaFile":
		var p struct {
			Filename string `json:"filename"`
			Data     string `json:"data"`
		}
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return nil, err
		}
		data, err := base64.StdEncoding.DecodeString(p.Data)
		if err != nil {
			return nil, err
		}
		f.media[p.Filename] = data
		return p.Filename, nil
	}

	return nil, fmt.Errorf("unsupported action")
}

// add mimics addNote with allowDuplicate=false and duplicateScope=deck:
// the first field of the model must be set and unique within the deck
func (f *FakeAnki) add(deck, model string, fields map[string]string, tags []string) (int64, error) {
	order, ok := f.models[model]
	if !ok {
		return 0, fmt.Errorf("model was not found: %s", model)
	}
	if len(order) > 0 {
		first := fields[order[0]]
		if strings.TrimSpace(first) == "" {
			return 0, fmt.Errorf("cannot create note because it is empty")
		}
		for _, n := range f.notes {
			if n.Deck == deck && n.Model == model && n.Fields[order[0]] == first {
				return 0, fmt.Errorf("cannot create note because it is a duplicate")
			}
		}
	}
	return f.insert(deck, model, fields, tags), nil
}

func (f *FakeAnki) find(query string) []int64 {
	terms := parseQuery(query)

	ids := []int64{}
	for id, n := range f.notes {
		if matchesAll(n, terms) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (f *FakeAnki) info(ids []int64) []map[string]any {
	out := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		n, ok := f.notes[id]
		if !ok {
			out = append(out, map[string]any{})
			continue
		}

		fields := make(map[string]any, len(n.Fields))
		order := f.fieldOrder(n)
		for i, name := range order {
			fields[name] = map[string]any{"value": n.Fields[name], "order": i}
		}
		tags := n.Tags
		if tags == nil {
			tags = []string{}
		}
		out = append(out, map[string]any{
			"noteId":    n.ID,
			"modelName": n.Model,
			"tags":      tags,
			"fields":    fields,
		})
	}
	return out
}

func (f *FakeAnki) fieldOrder(n *FakeNote) []string {
	order := append([]string(nil), f.models[n.Model]...)
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		seen[name] = true
	}
	var extra []string
	for name := range n.Fields {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(order, extra...)
}

type queryTerm struct {
	key   string
	value string
}

// parseQuery splits a search string into key:value terms. Backslash
// escapes are resolved; the first unescaped colon separates key and value.
func parseQuery(query string) []queryTerm {
	var (
		terms    []queryTerm
		buf      strings.Builder
		key      string
		hasKey   bool
		inQuote  bool
		escaped  bool
		inTerm   bool
		flushKey = func() {
			value := buf.String()
			if hasKey {
				terms = append(terms, queryTerm{key: strings.ToLower(key), value: value})
			} else if value != "" {
				terms = append(terms, queryTerm{value: value})
			}
			buf.Reset()
			key, hasKey, inTerm = "", false, false
		}
	)

	for _, r := range query {
		switch {
		case escaped:
			buf.WriteRune(r)
			escaped = false
			inTerm = true
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
			inTerm = true
		case r == ':' && !hasKey:
			key = buf.String()
			hasKey = true
			buf.Reset()
			inTerm = true
		case r == ' ' && !inQuote:
			if inTerm {
				flushKey()
			}
		default:
			buf.WriteRune(r)
			inTerm = true
		}
	}
	if inTerm {
		flushKey()
	}
	return terms
}

func matchesAll(n *FakeNote, terms []queryTerm) bool {
	for _, t := range terms {
		if !matches(n, t) {
			return false
		}
	}
	return true
}

func matches(n *FakeNote, t queryTerm) bool {
	switch t.key {
	case "deck":
		return strings.EqualFold(n.Deck, t.value) ||
			strings.HasPrefix(strings.ToLower(n.Deck), strings.ToLower(t.value)+"::")
	case "note":
		return strings.EqualFold(n.Model, t.value)
	case "tag":
		for _, tag := range n.Tags {
			if strings.EqualFold(tag, t.value) {
				return true
			}
		}
		return false
	case "":
		for _, v := range n.Fields {
			if strings.Contains(strings.ToLower(v), strings.ToLower(t.value)) {
				return true
			}
		}
		return false
	}

	for name, v := range n.Fields {
		if strings.EqualFold(name, t.key) {
			return strings.EqualFold(v, t.value)
		}
	}
	return false
}
