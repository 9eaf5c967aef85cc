package animals_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"shelter-sync/core/reconcile"
	"shelter-sync/feature/animals"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T, reg *fakeRegistry) *fiber.App {
	t.Helper()
	svc, _ := newTestService(t, reg, testConfig())
	feature := animals.NewFeature(testConfig(), svc, zap.NewNop())

	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, out any) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, target, nil), 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(body, out), string(body))
	}
	return resp.StatusCode
}

func TestHandler_SyncAndRead(t *testing.T) {
	reg := newFakeRegistry()
	reg.set("protect", animal("1", "보호중"), animal("2", "보호중"))
	reg.set("notice", animal("3", "공고중"))
	app := newTestApp(t, reg)

	var res reconcile.Result
	assert.Equal(t, http.StatusOK, doJSON(t, app, http.MethodPost, "/animals/sync", &res))
	assert.Equal(t, reconcile.StatusOK, res.Status)
	assert.Equal(t, 3, res.Inserted)

	var status struct {
		Running bool              `json:"running"`
		Last    *reconcile.Result `json:"last"`
	}
	assert.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, "/animals/sync/status", &status))
	assert.False(t, status.Running)
	require.NotNil(t, status.Last)
	assert.Equal(t, res.CycleID, status.Last.CycleID)

	var a animals.Animal
	assert.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, "/animals/3", &a))
	assert.Equal(t, "공고중", *a.ProcessState)

	assert.Equal(t, http.StatusNotFound, doJSON(t, app, http.MethodGet, "/animals/999", nil))

	var page struct {
		Total int              `json:"total"`
		Limit int              `json:"limit"`
		Items []animals.Animal `json:"items"`
	}
	target := "/animals?state=" + url.QueryEscape("보호중") + "&limit=1"
	assert.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, target, &page))
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.Limit)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "1", page.Items[0].DesertionNo)
}

func TestHandler_DryRun(t *testing.T) {
	reg := newFakeRegistry()
	reg.set("protect", animal("1", "보호중"))
	app := newTestApp(t, reg)

	var res reconcile.Result
	assert.Equal(t, http.StatusOK, doJSON(t, app, http.MethodPost, "/animals/sync?dry_run=true", &res))
	assert.True(t, res.DryRun)
	assert.Equal(t, 1, res.Inserted)

	assert.Equal(t, http.StatusNotFound, doJSON(t, app, http.MethodGet, "/animals/1", nil))
}

func TestHandler_SyncFailure(t *testing.T) {
	reg := newFakeRegistry()
	reg.failOn["protect"] = http.StatusBadGateway
	app := newTestApp(t, reg)

	var res reconcile.Result
	assert.Equal(t, http.StatusInternalServerError, doJSON(t, app, http.MethodPost, "/animals/sync", &res))
	assert.Equal(t, reconcile.StatusFailed, res.Status)
}

func TestFeature(t *testing.T) {
	reg := newFakeRegistry()
	svc, _ := newTestService(t, reg, testConfig())

	cfg := testConfig()
	cfg.Enabled = false
	f := animals.NewFeature(cfg, svc, zap.NewNop())
	assert.Equal(t, "animals", f.Name())
	assert.False(t, f.IsEnabled())
	assert.Same(t, svc, f.Service())
}
