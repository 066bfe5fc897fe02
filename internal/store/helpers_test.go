package store_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"

	"auctioneer/internal/api/apitest"
	"auctioneer/internal/store"
)

const keyPrefix = "test."

// memKV is an in-memory store.KV.
type memKV struct {
	mu sync.Mutex
	m  map[string]string
}

func newMemKV(entries map[string]string) *memKV {
	kv := &memKV{m: map[string]string{}}
	for k, v := range entries {
		kv.m[k] = v
	}
	return kv
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

func (kv *memKV) has(key string) bool {
	_, ok, _ := kv.Get(key)
	return ok
}

// loggedIn returns a session restored for userID with token "tok", plus
// its backing storage. Logout requests succeed.
func loggedIn(t *testing.T, srv *apitest.Server, userID int) (*store.Session, *memKV) {
	t.Helper()
	srv.Handle(http.MethodPost, "/users/logout", apitest.Status(http.StatusOK))
	kv := newMemKV(map[string]string{
		keyPrefix + "userId": fmt.Sprint(userID),
		keyPrefix + "token":  "tok",
	})
	return store.NewSession(srv.Client(), kv, keyPrefix, nil), kv
}

func loggedOut(srv *apitest.Server) *store.Session {
	return store.NewSession(srv.Client(), newMemKV(nil), keyPrefix, nil)
}

func auctionJSON(id, sellerID, categoryID int) map[string]any {
	return map[string]any{
		"auctionId":       id,
		"title":           fmt.Sprintf("Auction %d", id),
		"categoryId":      categoryID,
		"sellerId":        sellerID,
		"sellerFirstName": "Sam",
		"sellerLastName":  "Seller",
		"reserve":         10,
		"numBids":         0,
		"highestBid":      nil,
		"endDate":         "2030-01-01T00:00:00.000Z",
	}
}

func pageJSON(count int, ids ...int) map[string]any {
	auctions := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		auctions = append(auctions, auctionJSON(id, 1, 1))
	}
	return map[string]any{"auctions": auctions, "count": count}
}
