package editor_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"auctioneer/internal/api/apitest"
	"auctioneer/internal/store"

	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type memKV struct {
	mu sync.Mutex
	m  map[string]string
}

func (kv *memKV) Get(key string) (string, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.m[key]
	return v, ok, nil
}

func (kv *memKV) Set(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.m[key] = value
	return nil
}

func (kv *memKV) Delete(key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.m, key)
	return nil
}

func newSession(srv *apitest.Server, entries map[string]string) *store.Session {
	kv := &memKV{m: map[string]string{}}
	for k, v := range entries {
		kv.m[k] = v
	}
	return store.NewSession(srv.Client(), kv, "", nil)
}

// loggedIn returns a session for user 5 holding token "tok".
func loggedIn(srv *apitest.Server) *store.Session {
	srv.Handle(http.MethodPost, "/users/logout", apitest.Status(http.StatusOK))
	return newSession(srv, map[string]string{"userId": "5", "token": "tok"})
}

// categories returns a loaded store knowing categories 1 and 2.
func categories(t *testing.T, srv *apitest.Server, session *store.Session) *store.CategoriesStore {
	t.Helper()
	srv.Handle(http.MethodGet, "/auctions/categories", apitest.JSON(http.StatusOK, []map[string]any{
		{"categoryId": 1, "name": "Books"},
		{"categoryId": 2, "name": "Tools"},
	}))
	c := store.NewCategoriesStore(srv.Client(), session)
	require.NoError(t, c.Fetch(context.Background()))
	return c
}

func intPtr(v int) *int { return &v }
