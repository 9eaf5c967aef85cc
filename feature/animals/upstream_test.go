package animals

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shelter-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelopeJSON(total, items string) string {
	return `{"response":{"header":{"resultCode":"00","resultMsg":"NORMAL SERVICE."},` +
		`"body":{"items":` + items + `,"numOfRows":500,"pageNo":1,"totalCount":` + total + `}}}`
}

func TestDecodePage_ItemShapes(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		total int
		ids   []string
	}{
		{"array", envelopeJSON("2", `{"item":[{"desertionNo":"1"},{"desertionNo":"2"}]}`), 2, []string{"1", "2"}},
		{"single object", envelopeJSON("1", `{"item":{"desertionNo":"7"}}`), 1, []string{"7"}},
		{"empty string", envelopeJSON("0", `""`), 0, nil},
		{"null", envelopeJSON("0", `null`), 0, nil},
		{"empty item", envelopeJSON("0", `{}`), 0, nil},
		{"string total", envelopeJSON(`"1"`, `{"item":[{"desertionNo":"1"}]}`), 1, []string{"1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := decodePage("protect#1", []byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.total, page.TotalCount)

			var ids []string
			for _, r := range page.Records {
				ids = append(ids, r["desertionNo"].(string))
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestDecodePage_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind reconcile.Kind
	}{
		{"not json", `<OpenAPI_ServiceResponse>SERVICE_KEY_IS_NOT_REGISTERED_ERROR</OpenAPI_ServiceResponse>`, reconcile.KindDecode},
		{"registry error", `{"response":{"header":{"resultCode":"30","resultMsg":"SERVICE KEY IS NOT REGISTERED ERROR."}}}`, reconcile.KindTransport},
		{"no body", `{"response":{"header":{"resultCode":"00"}}}`, reconcile.KindDecode},
		{"bad item node", envelopeJSON("1", `{"item":42}`), reconcile.KindDecode},
		{"missing total", `{"response":{"header":{"resultCode":"00"},"body":{"items":{"item":[{"desertionNo":"1"},{"desertionNo":"2"}]}}}}`, reconcile.KindDecode},
		{"null total", envelopeJSON("null", `{"item":[{"desertionNo":"1"}]}`), reconcile.KindDecode},
		{"text total", envelopeJSON(`"many"`, `{"item":[{"desertionNo":"1"}]}`), reconcile.KindDecode},
		{"negative total", envelopeJSON("-1", `{"item":[{"desertionNo":"1"}]}`), reconcile.KindDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodePage("protect#1", []byte(tt.body))
			require.Error(t, err)
			assert.Equal(t, tt.kind, reconcile.KindOf(err))
		})
	}
}

func TestClient_FetchPage(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(envelopeJSON("1", `{"item":[{"desertionNo":"1","sexCd":"M"}]}`)))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "abc+def/==", srv.Client())
	page, err := c.FetchPage(context.Background(), "notice", 3, 100)
	require.NoError(t, err)
	require.Len(t, page.Records, 1)

	q := got.URL.Query()
	assert.Equal(t, "abc+def/==", q.Get("serviceKey"))
	assert.Equal(t, "notice", q.Get("state"))
	assert.Equal(t, "3", q.Get("pageNo"))
	assert.Equal(t, "100", q.Get("numOfRows"))
	assert.Equal(t, "json", q.Get("_type"))
}

func TestClient_PreEncodedServiceKey(t *testing.T) {
	c := NewClient("https://example.test/abandonmentPublic_v2", "abc%2Bdef%3D%3D", nil)
	u := c.pageURL("protect", 1, 500)
	assert.True(t, strings.HasPrefix(u, "https://example.test/abandonmentPublic_v2?serviceKey=abc%2Bdef%3D%3D&"), u)
}

func TestClient_HTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k", srv.Client()).FetchPage(context.Background(), "protect", 1, 500)
	require.Error(t, err)
	assert.Equal(t, reconcile.KindTransport, reconcile.KindOf(err))
	assert.Contains(t, err.Error(), "502")
}

func TestClient_ContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(srv.URL, "k", srv.Client()).FetchPage(ctx, "protect", 1, 500)
	require.Error(t, err)
	assert.Equal(t, reconcile.KindTransport, reconcile.KindOf(err))
}
