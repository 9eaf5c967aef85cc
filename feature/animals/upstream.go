package animals

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"shelter-sync/core/reconcile"
)

// Record is one undecoded registry item.
type Record = map[string]any

const resultOK = "00"

// Client calls the abandoned-animal registry.
type Client struct {
	baseURL    string
	serviceKey string
	http       *http.Client
}

// NewClient creates a registry client. A nil httpClient uses http.DefaultClient;
// per-request deadlines come from the context.
func NewClient(baseURL, serviceKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, serviceKey: serviceKey, http: httpClient}
}

type envelope struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body *struct {
			Items      json.RawMessage `json:"items"`
			TotalCount any             `json:"totalCount"`
		} `json:"body"`
	} `json:"response"`
}

// FetchPage requests one page of a state partition (protect, notice).
func (c *Client) FetchPage(ctx context.Context, partition string, pageNo, pageSize int) (reconcile.Page[Record], error) {
	key := fmt.Sprintf("%s#%d", partition, pageNo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL(partition, pageNo, pageSize), nil)
	if err != nil {
		return reconcile.Page[Record]{}, reconcile.TransportError(key, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return reconcile.Page[Record]{}, reconcile.TransportError(key, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return reconcile.Page[Record]{}, reconcile.TransportError(key, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return reconcile.Page[Record]{}, reconcile.TransportError(key,
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 200)))
	}

	return decodePage(key, body)
}

func (c *Client) pageURL(partition string, pageNo, pageSize int) string {
	q := url.Values{}
	q.Set("_type", "json")
	q.Set("state", partition)
	q.Set("pageNo", strconv.Itoa(pageNo))
	q.Set("numOfRows", strconv.Itoa(pageSize))

	// Keys issued "encoded" by data.go.kr must not be escaped twice.
	svcKey := c.serviceKey
	if !strings.Contains(svcKey, "%") {
		svcKey = url.QueryEscape(svcKey)
	}

	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	return c.baseURL + sep + "serviceKey=" + svcKey + "&" + q.Encode()
}

func decodePage(key string, body []byte) (reconcile.Page[Record], error) {
	var env envelope
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&env); err != nil {
		return reconcile.Page[Record]{}, reconcile.DecodeError(key, fmt.Errorf("%w: %s", err, truncate(body, 200)))
	}

	h := env.Response.Header
	if h.ResultCode != "" && h.ResultCode != resultOK {
		return reconcile.Page[Record]{}, reconcile.TransportError(key,
			fmt.Errorf("registry error %s: %s", h.ResultCode, h.ResultMsg))
	}
	if env.Response.Body == nil {
		return reconcile.Page[Record]{}, reconcile.DecodeError(key, fmt.Errorf("response body missing"))
	}

	items, err := decodeItems(env.Response.Body.Items)
	if err != nil {
		return reconcile.Page[Record]{}, reconcile.DecodeError(key, err)
	}

	total, err := parseTotal(env.Response.Body.TotalCount)
	if err != nil {
		return reconcile.Page[Record]{}, reconcile.DecodeError(key, err)
	}

	return reconcile.Page[Record]{
		Records:    items,
		TotalCount: total,
	}, nil
}

// parseTotal reads totalCount, sent as a number or a numeric string. A missing
// total would end the sweep after one page, so it is an error.
func parseTotal(v any) (int, error) {
	var raw string
	switch t := v.(type) {
	case nil:
		return 0, fmt.Errorf("totalCount missing")
	case json.Number:
		raw = t.String()
	case string:
		raw = strings.TrimSpace(t)
	default:
		return 0, fmt.Errorf("totalCount has type %T", v)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("totalCount %q is not a count", raw)
	}
	return n, nil
}

// decodeItems accepts `""`, null, {"item": {...}} and {"item": [...]}.
func decodeItems(raw json.RawMessage) ([]Record, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`)) {
		return nil, nil
	}

	var wrapper struct {
		Item json.RawMessage `json:"item"`
	}
	if err := unmarshalNumber(trimmed, &wrapper); err != nil {
		return nil, fmt.Errorf("items: %w", err)
	}

	item := bytes.TrimSpace(wrapper.Item)
	switch {
	case len(item) == 0 || bytes.Equal(item, []byte("null")):
		return nil, nil
	case item[0] == '[':
		var list []Record
		if err := unmarshalNumber(item, &list); err != nil {
			return nil, fmt.Errorf("item list: %w", err)
		}
		return list, nil
	case item[0] == '{':
		var single Record
		if err := unmarshalNumber(item, &single); err != nil {
			return nil, fmt.Errorf("item: %w", err)
		}
		return []Record{single}, nil
	default:
		return nil, fmt.Errorf("unexpected item node: %s", truncate(item, 50))
	}
}

func unmarshalNumber(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
