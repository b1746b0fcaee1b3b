package vectorstore_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"testing"
)

// fakeProvider is an in-memory stand-in for the remote embedding and
// vector store API. Embeddings are deterministic functions of the text so
// tests are reproducible; search ranks by L2 distance, except that an
// all-zero query vector returns items in insertion order (the listing
// emulation the adapter relies on).
type fakeProvider struct {
	t   *testing.T
	dim int

	mu        sync.Mutex
	stores    map[string]*fakeIndex // by id
	nextID    int
	listCalls int
}

type fakeIndex struct {
	id      string
	name    string
	vectors map[string]fakeVector
	order   []string
}

type fakeVector struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type fakeMatch struct {
	ID       string         `json:"id"`
	Score    float32        `json:"score"`
	Values   []float32      `json:"values,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func newFakeProvider(t *testing.T, dim int) *fakeProvider {
	return &fakeProvider{
		t:      t,
		dim:    dim,
		stores: make(map[string]*fakeIndex),
	}
}

// embed produces the deterministic embedding the fake's /embeddings
// endpoint would return for text.
func (p *fakeProvider) embed(text string) []float32 {
	v := make([]float32, p.dim)
	for i := range v {
		v[i] = float32((len(text)*(i+3)+int(text[i%len(text)]))%17) / 17.0
	}
	return v
}

// createStore provisions a store directly, bypassing the HTTP surface.
func (p *fakeProvider) createStore(name string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	id := fmt.Sprintf("vs_%d", p.nextID)
	p.stores[id] = &fakeIndex{id: id, name: name, vectors: make(map[string]fakeVector)}
	return id
}

func (p *fakeProvider) storeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.stores)
}

func (p *fakeProvider) listCallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.listCalls
}

func (p *fakeProvider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/embeddings":
		p.handleEmbeddings(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/vector_stores":
		p.handleCreate(w, r)
	case r.Method == http.MethodGet && r.URL.Path == "/vector_stores":
		p.listCalls++
		type entry struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		var data []entry
		ids := make([]string, 0, len(p.stores))
		for id := range p.stores {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			data = append(data, entry{ID: id, Name: p.stores[id].name})
		}
		writeJSON(w, map[string]any{"data": data})
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/vector_stores/"):
		id := strings.TrimPrefix(r.URL.Path, "/vector_stores/")
		if _, ok := p.stores[id]; !ok {
			http.Error(w, `{"error": "no such vector store"}`, http.StatusNotFound)
			return
		}
		delete(p.stores, id)
		writeJSON(w, map[string]any{"deleted": true})
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/vectors/upsert"):
		p.withIndex(w, r, "/vectors/upsert", p.handleUpsert)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/vectors/search"):
		p.withIndex(w, r, "/vectors/search", p.handleSearch)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/vectors/delete"):
		p.withIndex(w, r, "/vectors/delete", p.handleDelete)
	default:
		http.Error(w, `{"error": "no such endpoint"}`, http.StatusNotFound)
	}
}

func (p *fakeProvider) withIndex(w http.ResponseWriter, r *http.Request, suffix string, fn func(http.ResponseWriter, *http.Request, *fakeIndex)) {
	id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/vector_stores/"), suffix)
	idx, ok := p.stores[id]
	if !ok {
		http.Error(w, `{"error": "no such vector store"}`, http.StatusNotFound)
		return
	}
	fn(w, r, idx)
}

func (p *fakeProvider) handleEmbeddings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Model string   `json:"model"`
		Input []string `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	type datum struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	}
	data := make([]datum, len(req.Input))
	for i, text := range req.Input {
		data[i] = datum{Embedding: p.embed(text), Index: i}
	}
	writeJSON(w, map[string]any{"data": data})
}

func (p *fakeProvider) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	p.nextID++
	id := fmt.Sprintf("vs_%d", p.nextID)
	p.stores[id] = &fakeIndex{id: id, name: req.Name, vectors: make(map[string]fakeVector)}
	writeJSON(w, map[string]any{"id": id, "name": req.Name})
}

func (p *fakeProvider) handleUpsert(w http.ResponseWriter, r *http.Request, idx *fakeIndex) {
	var req struct {
		Vectors []fakeVector `json:"vectors"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	for _, v := range req.Vectors {
		if _, ok := idx.vectors[v.ID]; !ok {
			idx.order = append(idx.order, v.ID)
		}
		idx.vectors[v.ID] = v
	}
	writeJSON(w, map[string]any{"upserted": len(req.Vectors)})
}

func (p *fakeProvider) handleSearch(w http.ResponseWriter, r *http.Request, idx *fakeIndex) {
	var req struct {
		Vector  []float32 `json:"vector"`
		TopK    int       `json:"top_k"`
		Include []string  `json:"include"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	includeValues := false
	for _, inc := range req.Include {
		if inc == "values" {
			includeValues = true
		}
	}

	var matches []fakeMatch
	if isZero(req.Vector) {
		for _, id := range idx.order {
			v := idx.vectors[id]
			matches = append(matches, toMatch(v, 0, includeValues))
		}
	} else {
		for _, id := range idx.order {
			v := idx.vectors[id]
			matches = append(matches, toMatch(v, 1/(1+l2(req.Vector, v.Values)), includeValues))
		}
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	}

	if req.TopK > 0 && len(matches) > req.TopK {
		matches = matches[:req.TopK]
	}
	writeJSON(w, map[string]any{"data": matches})
}

func (p *fakeProvider) handleDelete(w http.ResponseWriter, r *http.Request, idx *fakeIndex) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	for _, id := range req.IDs {
		if _, ok := idx.vectors[id]; !ok {
			continue
		}
		delete(idx.vectors, id)
		for i, ordered := range idx.order {
			if ordered == id {
				idx.order = append(idx.order[:i], idx.order[i+1:]...)
				break
			}
		}
	}
	writeJSON(w, map[string]any{"deleted": len(req.IDs)})
}

func toMatch(v fakeVector, score float32, includeValues bool) fakeMatch {
	m := fakeMatch{ID: v.ID, Score: score, Metadata: v.Metadata}
	if includeValues {
		m.Values = v.Values
	}
	return m
}

func isZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

func l2(a, b []float32) float32 {
	var sum float32
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
