package servicenow_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/ticketbridge/pkg/adapter/core"
	"github.com/ajitpratap0/ticketbridge/pkg/adapter/registry"
	"github.com/ajitpratap0/ticketbridge/pkg/adapter/servicenow"
	"github.com/ajitpratap0/ticketbridge/pkg/config"
	"github.com/ajitpratap0/ticketbridge/pkg/errors"
	"github.com/ajitpratap0/ticketbridge/pkg/jsonx"
	"github.com/ajitpratap0/ticketbridge/pkg/ticket"
)

func TestNew_FailsFastOnInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name string
		id   string
		cfg  *config.AdapterConfig
	}{
		{"nil config", "sn-1", nil},
		{"empty id", "", config.NewAdapterConfig("https://x.example", "change_request")},
		{"missing credentials", "sn-1", config.NewAdapterConfig("https://x.example", "change_request")},
		{"bad url scheme", "sn-1", func() *config.AdapterConfig {
			cfg := config.NewAdapterConfig("ftp://x.example", "change_request")
			cfg.Credentials.Username = "u"
			cfg.Credentials.Password = "p"
			return cfg
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := servicenow.New(tt.id, tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestAdapter_Metadata(t *testing.T) {
	a := stubAdapter(t, &stubConnector{})
	assert.Equal(t, "sn-test", a.ID())
	assert.Equal(t, "servicenow", a.SystemType())
}

func TestAdapter_MetricsSnapshot(t *testing.T) {
	conn := &stubConnector{
		getResp:  bodyResponse(`{"result":[{"sys_id":"1"},{"sys_id":"2"}]}`),
		postResp: bodyResponse(`{"result":{"sys_id":"3"}}`),
	}
	a := stubAdapter(t, conn)

	_, err := a.GetRecords(context.Background())
	require.NoError(t, err)
	_, err = a.PostRecord(context.Background(), ticket.RawRecord{"priority": "1"})
	require.NoError(t, err)

	conn.getResp = nil
	conn.getErr = errors.New(errors.ErrorTypeTransport, "connection refused")
	require.Equal(t, core.StatusOffline, a.Healthcheck(context.Background()))

	assert.Equal(t, map[string]interface{}{
		"records_read":    int64(2),
		"records_written": int64(1),
		"request_errors":  int64(1),
		"healthchecks":    int64(1),
		"status":          "OFFLINE",
	}, a.Metrics())
}

func TestRegistry_CreatesServiceNowAdapter(t *testing.T) {
	require.True(t, registry.Exists(servicenow.SystemType))
	assert.Contains(t, registry.List(), servicenow.SystemType)

	cfg := config.NewAdapterConfig("https://dev1234.service-now.com", "change_request")
	cfg.Credentials.Username = "u"
	cfg.Credentials.Password = "p"

	a, err := registry.Create(servicenow.SystemType, "sn-1", cfg)
	require.NoError(t, err)
	defer a.Close(context.Background())

	assert.Equal(t, "sn-1", a.ID())
	assert.Equal(t, core.StatusUnknown, a.Status())
}

// TestAdapter_EndToEnd drives a real adapter against a stub ServiceNow
// instance: construct, connect, observe the ONLINE event, read the table,
// write a record.
func TestAdapter_EndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/now/table/change_request", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "u", user)
		require.Equal(t, "p", pass)

		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			fields := ticket.RawRecord{}
			require.NoError(t, jsonx.NewDecoder(r.Body).Decode(&fields))
			require.Equal(t, "emergency change", fields["description"])
			w.Write([]byte(`{"result":{"sys_id":"2","number":"CHG2","active":"true","description":"emergency change"}}`))
			return
		}
		w.Write([]byte(`{"result":[{"sys_id":"1","number":"CHG1","active":true,"priority":"1","description":"d","work_start":"t0","work_end":"t1"}]}`))
	}))
	defer server.Close()

	cfg := config.NewAdapterConfig(server.URL, "change_request")
	cfg.Credentials.Username = "u"
	cfg.Credentials.Password = "p"

	a, err := servicenow.New("sn-e2e", cfg)
	require.NoError(t, err)
	defer a.Close(context.Background())

	online, err := a.Subscribe(core.StatusOnline)
	require.NoError(t, err)

	a.Connect(context.Background())

	event := <-online
	assert.Equal(t, core.StatusEvent{
		ID:        "sn-e2e",
		Status:    core.StatusOnline,
		Timestamp: event.Timestamp,
	}, event)

	tickets, err := a.GetRecords(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []ticket.ChangeTicket{{
		Key:         "1",
		Number:      "CHG1",
		Active:      true,
		Priority:    "1",
		Description: "d",
		WorkStart:   "t0",
		WorkEnd:     "t1",
	}}, tickets)

	created, err := a.PostRecord(context.Background(), ticket.RawRecord{"description": "emergency change"})
	require.NoError(t, err)
	assert.Equal(t, ticket.ChangeTicket{
		Key:         "2",
		Number:      "CHG2",
		Active:      true,
		Description: "emergency change",
	}, created)
}

func TestAdapter_EndToEnd_Offline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := config.NewAdapterConfig(server.URL, "change_request")
	cfg.Credentials.Username = "u"
	cfg.Credentials.Password = "p"

	a, err := servicenow.New("sn-e2e", cfg)
	require.NoError(t, err)
	defer a.Close(context.Background())

	offline, err := a.Subscribe(core.StatusOffline)
	require.NoError(t, err)

	a.Connect(context.Background())

	event := <-offline
	assert.Equal(t, "sn-e2e", event.ID)
	assert.Equal(t, core.StatusOffline, event.Status)
}
