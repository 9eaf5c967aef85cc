package animals_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"shelter-sync/core/database"
	"shelter-sync/feature/animals"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRegistry serves abandonmentPublic_v2 pages from memory.
type fakeRegistry struct {
	mu     sync.Mutex
	data   map[string][]map[string]any
	failOn map[string]int
	calls  []string
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{data: map[string][]map[string]any{}, failOn: map[string]int{}}
}

func (f *fakeRegistry) set(state string, items ...map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[state] = items
}

func (f *fakeRegistry) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeRegistry) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state := q.Get("state")
	pageNo, _ := strconv.Atoi(q.Get("pageNo"))
	rows, _ := strconv.Atoi(q.Get("numOfRows"))

	f.mu.Lock()
	f.calls = append(f.calls, fmt.Sprintf("%s#%d", state, pageNo))
	status := f.failOn[state]
	all := f.data[state]
	f.mu.Unlock()

	if status != 0 {
		http.Error(w, "unavailable", status)
		return
	}

	start := min((pageNo-1)*rows, len(all))
	end := min(start+rows, len(all))

	var items any = ""
	if end > start {
		items = map[string]any{"item": all[start:end]}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"response": map[string]any{
			"header": map[string]any{"resultCode": "00", "resultMsg": "NORMAL SERVICE."},
			"body": map[string]any{
				"items":      items,
				"numOfRows":  rows,
				"pageNo":     pageNo,
				"totalCount": len(all),
			},
		},
	})
}

func animal(id, state string) map[string]any {
	return map[string]any{
		"desertionNo":  id,
		"processState": state,
		"sexCd":        "M",
		"neuterYn":     "N",
		"weight":       "4(Kg)",
		"careTel":      "02-000-0000",
	}
}

func testConfig() animals.Config {
	return animals.Config{
		Enabled:              true,
		PartitionList:        "protect,notice",
		PageSize:             500,
		MaxPages:             10,
		PageTimeoutSeconds:   5,
		ProtectedState:       "보호중",
		DeleteAbsent:         true,
		PartitionConcurrency: 1,
	}
}

func newTestService(t *testing.T, reg *fakeRegistry, cfg animals.Config) (*animals.Service, *animals.Store) {
	t.Helper()

	srv := httptest.NewServer(reg)
	t.Cleanup(srv.Close)

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	store := animals.NewStore(db)
	client := animals.NewClient(srv.URL, "test-key", srv.Client())
	svc := animals.NewService(cfg, store, client.FetchPage, zap.NewNop(), nil, nil)
	require.NoError(t, svc.Prepare(context.Background()))
	return svc, store
}
