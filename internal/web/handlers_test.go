package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mistwan/internal/mist"
)

func newTestApp(upstream http.Handler) (*fiber.App, *httptest.Server) {
	server := httptest.NewServer(upstream)
	client := mist.NewWithBaseURL(server.URL, "test-token", "org1", nil)
	app := fiber.New()
	SetupRoutes(app, client)
	return app, server
}

type apiResponse struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, app *fiber.App, path string) (int, apiResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed apiResponse
	require.NoError(t, json.Unmarshal(body, &parsed))
	return resp.StatusCode, parsed
}

func TestHealth(t *testing.T) {
	app, server := newTestApp(http.NotFoundHandler())
	defer server.Close()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestSites(t *testing.T) {
	app, server := newTestApp(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/orgs/org1/sites", r.URL.Path)
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "site1", "name": "HQ", "num_devices": 3},
		})
	}))
	defer server.Close()

	status, body := doRequest(t, app, "/api/sites")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, body.Success)

	var sites []map[string]any
	require.NoError(t, json.Unmarshal(body.Data, &sites))
	require.Len(t, sites, 1)
	assert.Equal(t, "HQ", sites[0]["name"])
	assert.Equal(t, "UTC", sites[0]["timezone"], "missing timezone defaults to UTC")
}

func TestSitesUpstreamFailure(t *testing.T) {
	app, server := newTestApp(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	status, body := doRequest(t, app, "/api/sites")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Error)
}

func TestOrganizations(t *testing.T) {
	app, server := newTestApp(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/self", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"privileges": []map[string]any{
				{"org_id": "org1", "org_name": "Acme", "role": "admin"},
				{"org_id": "", "org_name": "ignored"},
			},
		})
	}))
	defer server.Close()

	status, body := doRequest(t, app, "/api/organizations")
	assert.Equal(t, http.StatusOK, status)

	var orgs []map[string]any
	require.NoError(t, json.Unmarshal(body.Data, &orgs))
	require.Len(t, orgs, 1)
	assert.Equal(t, "Acme", orgs[0]["org_name"])
}

func TestPortTrafficValidation(t *testing.T) {
	app, server := newTestApp(http.NotFoundHandler())
	defer server.Close()

	// missing start, missing end, missing site_id
	paths := []string{
		"/api/gateway/gw1/port/ge-0/0/1/traffic?site_id=site1&end=2000",
		"/api/gateway/gw1/port/ge-0/0/1/traffic?site_id=site1&start=1000",
		"/api/gateway/gw1/port/ge-0/0/1/traffic?start=1000&end=2000",
	}
	for _, path := range paths {
		status, body := doRequest(t, app, path)
		assert.Equal(t, http.StatusBadRequest, status, path)
		assert.False(t, body.Success)
		assert.Equal(t, "site_id, start, and end are required", body.Error)
	}
}

func TestPortTrafficSlashPortID(t *testing.T) {
	var gotPortID string
	app, server := newTestApp(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/sites/site1/insights/gateway/gw1/stats", r.URL.Path)
		gotPortID = r.URL.Query().Get("port_id")
		json.NewEncoder(w).Encode(map[string]any{
			"rx_bps": []any{100, 200},
			"tx_bps": []any{50, nil},
		})
	}))
	defer server.Close()

	status, body := doRequest(t, app, "/api/gateway/gw1/port/ge-0/0/1/traffic?site_id=site1&start=1000&end=2200&interval=600")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, body.Success)
	assert.Equal(t, "ge-0/0/1", gotPortID)

	var series struct {
		Timestamps []int64 `json:"timestamps"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &series))
	assert.Equal(t, []int64{1000, 1600}, series.Timestamps)
}

func TestVPNPeersValidation(t *testing.T) {
	app, server := newTestApp(http.NotFoundHandler())
	defer server.Close()

	status, body := doRequest(t, app, "/api/gateway/gw1/vpn_peers?site_id=site1")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "site_id and mac are required", body.Error)

	status, body = doRequest(t, app, "/api/gateway/gw1/vpn_peers?mac=aabbccddeeff")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, body.Success)
}

func TestVPNPeers(t *testing.T) {
	app, server := newTestApp(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/sites/site1/vpn_peers/search", r.URL.Path)
		require.Equal(t, "aabbccddeeff", r.URL.Query().Get("mac"))
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"mac": "aabbccddeeff", "peer_mac": "ffeeddccbbaa", "up": true, "latency": 12.5},
			},
		})
	}))
	defer server.Close()

	status, body := doRequest(t, app, "/api/gateway/gw1/vpn_peers?site_id=site1&mac=aabbccddeeff")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, body.Success)

	var peers []map[string]any
	require.NoError(t, json.Unmarshal(body.Data, &peers))
	require.Len(t, peers, 1)
	assert.Equal(t, true, peers[0]["up"])
}

func TestGatewayPorts(t *testing.T) {
	app, server := newTestApp(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/orgs/org1/devices/search", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{
					"id": "gw1", "name": "edge-gw", "last_seen": 1700000000,
					"port_stat": map[string]any{
						"ge-0/0/0": map[string]any{"up": true, "rx_bytes": 42, "speed": 1000},
					},
				},
			},
		})
	}))
	defer server.Close()

	status, body := doRequest(t, app, "/api/gateway/aabbccddeeff/ports")
	assert.Equal(t, http.StatusOK, status)

	var report struct {
		GatewayName string `json:"gateway_name"`
		Ports       map[string]struct {
			Up         bool  `json:"up"`
			RxBytes    int64 `json:"rx_bytes"`
			FullDuplex bool  `json:"full_duplex"`
		} `json:"ports"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &report))
	assert.Equal(t, "edge-gw", report.GatewayName)
	require.Contains(t, report.Ports, "ge-0/0/0")
	assert.True(t, report.Ports["ge-0/0/0"].Up)
	assert.Equal(t, int64(42), report.Ports["ge-0/0/0"].RxBytes)
	assert.True(t, report.Ports["ge-0/0/0"].FullDuplex, "full_duplex defaults to true when absent")
}
