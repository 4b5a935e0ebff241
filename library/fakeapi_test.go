package library

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
)

// fakeAPI is an in-process stand-in for the remote library API.
type fakeAPI struct {
	srv *httptest.Server

	mu        sync.Mutex
	calls     map[string]int    // "METHOD /path" -> count
	fail      map[string]int    // "METHOD /path" -> forced status
	headers   map[string]http.Header
	users     map[string]string // username -> password
	tokens    map[string]bool   // accepted bearer tokens
	nextToken string
	omitToken bool

	stats     Stats
	books     []Book
	students  []Student
	records   []BorrowRecord
	positions []Position
	nextID    int64
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		calls:     map[string]int{},
		fail:      map[string]int{},
		headers:   map[string]http.Header{},
		users:     map[string]string{"alice": "secret1"},
		tokens:    map[string]bool{"valid-token": true},
		nextToken: "tok123",
		stats:     Stats{TotalBooks: 3, TotalStudents: 2, TotalStaff: 1, TotalCategories: 2, ActiveBorrowings: 1},
		books: []Book{
			{ID: 10, Title: "Dune", Author: "Frank Herbert", PublishedYear: 1965, CategoryName: "Science Fiction"},
			{ID: 11, Title: "Emma", Author: "Jane Austen", PublishedYear: 1815, CategoryName: "Classic Literature"},
		},
		students: []Student{{ID: 7, FirstName: "Ada", LastName: "Lovelace", Course: "Mathematics", YearLevel: 2}},
		records:  []BorrowRecord{{ID: 3, StudentName: "Ada Lovelace", BookTitle: "Dune", StaffName: "Dr. Wilson", BorrowDate: "2024-02-01"}},
		nextID:   1,
	}

	r := mux.NewRouter()
	r.HandleFunc("/auth/login", f.track(f.login)).Methods("POST")
	r.HandleFunc("/auth/register", f.track(f.register)).Methods("POST")
	r.HandleFunc("/api/library/stats", f.protected(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, f.stats)
	})).Methods("GET")
	r.HandleFunc("/api/books", f.protected(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, f.books)
	})).Methods("GET")
	r.HandleFunc("/api/students", f.protected(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, f.students)
	})).Methods("GET")
	r.HandleFunc("/api/borrow-records", f.protected(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, f.records)
	})).Methods("GET")
	r.HandleFunc("/positions", f.protected(f.listPositions)).Methods("GET")
	r.HandleFunc("/positions", f.protected(f.createPosition)).Methods("POST")
	r.HandleFunc("/positions/{id:[0-9]+}", f.protected(f.updatePosition)).Methods("PUT")
	r.HandleFunc("/positions/{id:[0-9]+}", f.protected(f.deletePosition)).Methods("DELETE")

	f.srv = httptest.NewServer(r)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) URL() string { return f.srv.URL }

func (f *fakeAPI) callCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeAPI) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeAPI) failWith(key string, status int) {
	f.mu.Lock()
	f.fail[key] = status
	f.mu.Unlock()
}

func (f *fakeAPI) lastHeaders(key string) http.Header {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.headers[key]
}

// track records the call and applies any forced failure.
func (f *fakeAPI) track(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		f.mu.Lock()
		f.calls[key]++
		f.headers[key] = r.Header.Clone()
		status := f.fail[key]
		f.mu.Unlock()

		if status != 0 {
			writeJSON(w, status, map[string]string{"message": "forced failure"})
			return
		}
		next(w, r)
	}
}

func (f *fakeAPI) protected(next http.HandlerFunc) http.HandlerFunc {
	return f.track(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		f.mu.Lock()
		ok := f.tokens[token]
		f.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		next(w, r)
	})
}

func (f *fakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var c Credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad request"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if pw, ok := f.users[c.Username]; !ok || pw != c.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}
	if f.omitToken {
		writeJSON(w, http.StatusOK, map[string]string{})
		return
	}
	f.tokens[f.nextToken] = true
	writeJSON(w, http.StatusOK, map[string]string{"accessToken": f.nextToken})
}

func (f *fakeAPI) register(w http.ResponseWriter, r *http.Request) {
	var c Credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad request"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[c.Username]; exists {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "Username already exists"})
		return
	}
	f.users[c.Username] = c.Password
	writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered"})
}

func (f *fakeAPI) listPositions(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	list := append([]Position{}, f.positions...)
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, list)
}

func (f *fakeAPI) createPosition(w http.ResponseWriter, r *http.Request) {
	var in PositionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad request"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.positions {
		if p.Code == in.Code {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "Position code already exists"})
			return
		}
	}
	p := Position{ID: f.nextID, Code: in.Code, Name: in.Name}
	f.nextID++
	f.positions = append(f.positions, p)
	writeJSON(w, http.StatusCreated, p)
}

func (f *fakeAPI) updatePosition(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	var in PositionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad request"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.positions {
		if f.positions[i].ID == id {
			f.positions[i].Code, f.positions[i].Name = in.Code, in.Name
			writeJSON(w, http.StatusOK, map[string]string{"message": "Position updated"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Position not found"})
}

func (f *fakeAPI) deletePosition(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.positions {
		if f.positions[i].ID == id {
			f.positions = append(f.positions[:i], f.positions[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Position deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Position not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// newTestClient returns a client against api with an in-memory token store
// holding token (empty for none).
func newTestClient(t *testing.T, baseURL, token string, opts ...Option) (*Client, *MemoryTokenStore, *Router) {
	t.Helper()
	tokens := &MemoryTokenStore{}
	if token != "" {
		tokens.Save(token)
	}
	router := NewRouter(RouteDashboard)
	return NewClient(baseURL, tokens, router, opts...), tokens, router
}
