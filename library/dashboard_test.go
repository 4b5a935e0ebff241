package library

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"
)

func TestDashboardOpenLoadsStats(t *testing.T) {
	api := newFakeAPI(t)
	client, _, _ := newTestClient(t, api.URL(), "valid-token")
	d := NewDashboard(client)

	if err := d.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}
	stats, src := d.Stats()
	if src != SourceRemote || stats.TotalBooks != 3 {
		t.Fatalf("unexpected stats %+v from %s", stats, src)
	}
	if d.ActiveTab() != TabOverview {
		t.Fatalf("active tab = %q", d.ActiveTab())
	}
}

func TestDashboardOpenWithoutToken(t *testing.T) {
	api := newFakeAPI(t)
	client, _, router := newTestClient(t, api.URL(), "")
	d := NewDashboard(client)

	if err := d.Open(context.Background()); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("want ErrUnauthenticated, got %v", err)
	}
	if api.totalCalls() != 0 {
		t.Fatalf("no request expected")
	}
	if router.Current() != RouteLogin {
		t.Fatalf("want login, got %q", router.Current())
	}
}

func TestDashboardTabs(t *testing.T) {
	api := newFakeAPI(t)
	client, _, _ := newTestClient(t, api.URL(), "valid-token")
	d := NewDashboard(client)
	ctx := context.Background()

	if err := d.SelectTab(ctx, TabStudents); err != nil {
		t.Fatalf("students: %v", err)
	}
	students, _ := d.Students()
	if len(students) != 1 || students[0].FullName() != "Ada Lovelace" {
		t.Fatalf("unexpected students %+v", students)
	}

	if err := d.SelectTab(ctx, TabTransactions); err != nil {
		t.Fatalf("transactions: %v", err)
	}
	records, _ := d.BorrowRecords()
	if len(records) != 1 || records[0].Returned() {
		t.Fatalf("unexpected records %+v", records)
	}

	if err := d.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if api.callCount("GET /api/borrow-records") != 2 {
		t.Fatalf("refresh should reload the active tab")
	}
}

func TestBooksFallbackOnServerError(t *testing.T) {
	api := newFakeAPI(t)
	api.failWith("GET /api/books", http.StatusInternalServerError)
	client, tokens, _ := newTestClient(t, api.URL(), "valid-token")
	d := NewDashboard(client)

	if err := d.SelectTab(context.Background(), TabBooks); err != nil {
		t.Fatalf("fallback should hide the failure, got %v", err)
	}
	books, src := d.Books()
	if src != SourceFallback {
		t.Fatalf("source = %s", src)
	}
	if !reflect.DeepEqual(books, FallbackBooks()) {
		t.Fatalf("books should equal the fallback list, got %+v", books)
	}
	if _, ok := tokens.Get(); !ok {
		t.Fatalf("token must survive a 500")
	}
}

func TestBooksFallbackOnNetworkError(t *testing.T) {
	api := newFakeAPI(t)
	url := api.URL()
	api.srv.Close()

	client, _, _ := newTestClient(t, url, "valid-token")
	d := NewDashboard(client)

	if err := d.LoadBooks(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	books, src := d.Books()
	if src != SourceFallback || !reflect.DeepEqual(books, FallbackBooks()) {
		t.Fatalf("want fallback books, got %+v from %s", books, src)
	}
}

func TestBooksUnauthorizedRedirectsToLogin(t *testing.T) {
	api := newFakeAPI(t)
	client, tokens, router := newTestClient(t, api.URL(), "revoked")
	d := NewDashboard(client)

	err := d.SelectTab(context.Background(), TabBooks)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
	if _, ok := tokens.Get(); ok {
		t.Fatalf("token should be absent")
	}
	if router.Current() != RouteLogin {
		t.Fatalf("want login, got %q", router.Current())
	}
	if _, src := d.Books(); src != SourceNone {
		t.Fatalf("auth failures must not substitute sample data, source = %s", src)
	}
}

func TestStatsFallbackOnMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	client, _, _ := newTestClient(t, srv.URL, "valid-token")
	d := NewDashboard(client)
	if err := d.LoadStats(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if stats, src := d.Stats(); src != SourceFallback || stats != FallbackStats() {
		t.Fatalf("want fallback stats, got %+v from %s", stats, src)
	}
}

func TestStaleBooksResponseDiscarded(t *testing.T) {
	var calls atomic.Int32
	firstArrived := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			close(firstArrived)
			select {
			case <-r.Context().Done():
				return
			case <-time.After(2 * time.Second):
			}
			writeJSON(w, http.StatusOK, []Book{{ID: 1, Title: "Old"}})
			return
		}
		writeJSON(w, http.StatusOK, []Book{{ID: 2, Title: "New"}})
	}))
	defer srv.Close()

	client, _, _ := newTestClient(t, srv.URL, "valid-token")
	d := NewDashboard(client)

	firstErr := make(chan error, 1)
	go func() { firstErr <- d.LoadBooks(context.Background()) }()
	<-firstArrived

	if err := d.LoadBooks(context.Background()); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if err := <-firstErr; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("first load should be superseded, got %v", err)
	}

	books, src := d.Books()
	if src != SourceRemote || len(books) != 1 || books[0].Title != "New" {
		t.Fatalf("want the newest response, got %+v from %s", books, src)
	}
}

func TestLoadAll(t *testing.T) {
	api := newFakeAPI(t)
	client, _, _ := newTestClient(t, api.URL(), "valid-token")
	d := NewDashboard(client)

	if err := d.LoadAll(context.Background()); err != nil {
		t.Fatalf("load all: %v", err)
	}
	for _, key := range []string{"GET /api/library/stats", "GET /api/books", "GET /api/students", "GET /api/borrow-records"} {
		if api.callCount(key) != 1 {
			t.Fatalf("%s called %d times", key, api.callCount(key))
		}
	}
	if _, src := d.Students(); src != SourceRemote {
		t.Fatalf("students source = %s", src)
	}
}

func TestLoadAllUnauthorized(t *testing.T) {
	api := newFakeAPI(t)
	client, tokens, router := newTestClient(t, api.URL(), "revoked")
	d := NewDashboard(client)

	err := d.LoadAll(context.Background())
	if !IsAuthError(err) {
		t.Fatalf("want auth error, got %v", err)
	}
	if _, ok := tokens.Get(); ok || router.Current() != RouteLogin {
		t.Fatalf("want cleared token and login route")
	}
}

func TestSampleDataUntilLoaded(t *testing.T) {
	api := newFakeAPI(t)
	client, _, _ := newTestClient(t, api.URL(), "valid-token")
	d := NewDashboard(client, WithSampleDataUntilLoaded())

	if books, src := d.Books(); src != SourceFallback || len(books) != len(FallbackBooks()) {
		t.Fatalf("want sample books before loading, got %d from %s", len(books), src)
	}
	if err := d.LoadBooks(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if books, src := d.Books(); src != SourceRemote || len(books) != 2 {
		t.Fatalf("remote data should replace the sample, got %d from %s", len(books), src)
	}
}

func TestDashboardLogout(t *testing.T) {
	client, tokens, router := newTestClient(t, "http://127.0.0.1:1", "valid-token")
	NewDashboard(client).Logout()
	if _, ok := tokens.Get(); ok || router.Current() != RouteLogin {
		t.Fatalf("logout should clear the token and go to login")
	}
}

func TestParseTab(t *testing.T) {
	for in, want := range map[string]Tab{"books": TabBooks, " Overview ": TabOverview, "TRANSACTIONS": TabTransactions} {
		got, err := ParseTab(in)
		if err != nil || got != want {
			t.Fatalf("ParseTab(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseTab("reports"); err == nil {
		t.Fatalf("want error for unknown tab")
	}
}
