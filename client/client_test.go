package client

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestBulkUploadCapsAtFifty(t *testing.T) {
	var uploads int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/pictures" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		n := atomic.AddInt32(&uploads, 1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"id": n, "url": "/api/files/1"})
	}))
	defer server.Close()

	c := New(server.URL, WithPublicToken("change-me"))

	files := make([]UploadFile, 60)
	for i := range files {
		files[i] = UploadFile{Name: "img.jpg", Data: strings.NewReader("bytes")}
	}
	results := c.BulkUploadPictures(context.Background(), files)

	if got := atomic.LoadInt32(&uploads); got != 50 {
		t.Errorf("server saw %d uploads, want 50", got)
	}
	if len(results) != 50 {
		t.Errorf("got %d results, want 50", len(results))
	}
}

func TestBulkUploadContinuesAfterFailure(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"id": n})
	}))
	defer server.Close()

	c := New(server.URL, WithPublicToken("change-me"))
	files := []UploadFile{
		{Name: "a.jpg", Data: strings.NewReader("a")},
		{Name: "b.jpg", Data: strings.NewReader("b")},
		{Name: "c.jpg", Data: strings.NewReader("c")},
	}
	results := c.BulkUploadPictures(context.Background(), files)

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[1].Err == nil {
		t.Error("second upload should have failed")
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("batch aborted around a failure: %v, %v", results[0].Err, results[2].Err)
	}
}

func TestUnauthorizedClearsSessionAndFiresHook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	expired := false
	c := New(server.URL, WithSessionExpiredHandler(func() { expired = true }))
	c.SetSession(Session{Token: "stale", ExpiresAt: time.Now().Add(time.Hour)})

	_, err := c.ListPictures(context.Background())
	if err != ErrUnauthorized {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if _, ok := c.Session(); ok {
		t.Error("session survived a 401")
	}
	if !expired {
		t.Error("expiry hook not invoked")
	}
}

func TestBearerHeaderAttached(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"items": []interface{}{}})
	}))
	defer server.Close()

	c := New(server.URL)
	c.SetSession(Session{Token: "tok-123"})
	if _, err := c.ListPictures(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
}

func TestPullSpendsOneCoinAndReconciles(t *testing.T) {
	coins := 5
	var resultPosts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/gacha-state" && r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(map[string]interface{}{"adminId": 1, "coins": coins})
		case r.URL.Path == "/api/gacha-state" && r.Method == http.MethodPost:
			var body struct {
				Delta *int `json:"delta"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			if body.Delta == nil || *body.Delta != -1 {
				t.Errorf("delta = %v, want -1", body.Delta)
			}
			coins--
			json.NewEncoder(w).Encode(map[string]interface{}{"ok": true, "adminId": 1, "coins": coins})
		case r.URL.Path == "/api/gacha-items":
			json.NewEncoder(w).Encode(map[string]interface{}{"items": []map[string]interface{}{
				{"id": 1, "rarity": "common", "title": "t", "caption": "c"},
			}})
		case r.URL.Path == "/api/gacha-rarity":
			json.NewEncoder(w).Encode(map[string]interface{}{"items": []map[string]interface{}{
				{"rarity": "common", "weight": 100},
			}})
		case r.URL.Path == "/api/gacha-results":
			atomic.AddInt32(&resultPosts, 1)
			json.NewEncoder(w).Encode(map[string]bool{"ok": true})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	c := New(server.URL, WithPublicToken("change-me"))
	result, err := c.Pull(context.Background(), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Pull: %v", err)
	}
	if result.CoinsLeft != 4 {
		t.Errorf("CoinsLeft = %d, want 4 (reconciled from server)", result.CoinsLeft)
	}
	if result.Item.ID != 1 {
		t.Errorf("item = %d, want 1", result.Item.ID)
	}
	if atomic.LoadInt32(&resultPosts) != 1 {
		t.Errorf("result recorded %d times, want 1", resultPosts)
	}
}

func TestPullWithNoCoins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"adminId": 1, "coins": 0})
	}))
	defer server.Close()

	c := New(server.URL, WithPublicToken("change-me"))
	if _, err := c.Pull(context.Background(), rand.New(rand.NewSource(1))); err != ErrNoCoins {
		t.Errorf("err = %v, want ErrNoCoins", err)
	}
}
