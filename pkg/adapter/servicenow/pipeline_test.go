package servicenow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/ticketbridge/pkg/adapter/servicenow"
	"github.com/ajitpratap0/ticketbridge/pkg/config"
	"github.com/ajitpratap0/ticketbridge/pkg/errors"
	"github.com/ajitpratap0/ticketbridge/pkg/ticket"
	"github.com/ajitpratap0/ticketbridge/pkg/transport"
)

// stubConnector satisfies transport.Connector with canned responses
type stubConnector struct {
	getResp  *transport.RawResponse
	getErr   error
	postResp *transport.RawResponse
	postErr  error

	getCalls int
	lastBody []byte
}

func (s *stubConnector) Get(ctx context.Context) (*transport.RawResponse, error) {
	s.getCalls++
	return s.getResp, s.getErr
}

func (s *stubConnector) Post(ctx context.Context, body []byte) (*transport.RawResponse, error) {
	s.lastBody = body
	return s.postResp, s.postErr
}

func (s *stubConnector) Close() error { return nil }

func bodyResponse(body string) *transport.RawResponse {
	return &transport.RawResponse{Kind: transport.KindBody, StatusCode: 200, Body: []byte(body)}
}

func stubAdapter(t *testing.T, conn transport.Connector) *servicenow.Adapter {
	t.Helper()
	cfg := config.NewAdapterConfig("https://x.example", "change_request")
	cfg.Credentials.Username = "u"
	cfg.Credentials.Password = "p"
	a := servicenow.NewWithConnector("sn-test", cfg, conn)
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a
}

func TestGetRecords_NormalizesResultArrayInOrder(t *testing.T) {
	conn := &stubConnector{getResp: bodyResponse(`{"result":[
		{"sys_id":"1","number":"CHG1","active":true,"priority":"1","description":"d","work_start":"t0","work_end":"t1","state":"2"},
		{"sys_id":"2","number":"CHG2","active":false,"priority":"3"}
	]}`)}
	a := stubAdapter(t, conn)

	tickets, err := a.GetRecords(context.Background())
	require.NoError(t, err)

	require.Len(t, tickets, 2)
	assert.Equal(t, ticket.ChangeTicket{
		Key: "1", Number: "CHG1", Active: true,
		Priority: "1", Description: "d", WorkStart: "t0", WorkEnd: "t1",
	}, tickets[0])
	assert.Equal(t, ticket.ChangeTicket{Key: "2", Number: "CHG2", Priority: "3"}, tickets[1])
}

func TestGetRecords_TransportErrorPropagatesUnchanged(t *testing.T) {
	transportErr := errors.New(errors.ErrorTypeTransport, "connection refused")
	a := stubAdapter(t, &stubConnector{getErr: transportErr})

	tickets, err := a.GetRecords(context.Background())

	assert.Nil(t, tickets)
	assert.Same(t, transportErr, err)
}

func TestGetRecords_MissingBodyIsExplicitError(t *testing.T) {
	// The adapter settles with a payload error instead of going silent when
	// the response carries no body.
	a := stubAdapter(t, &stubConnector{
		getResp: &transport.RawResponse{Kind: transport.KindEmpty, StatusCode: 200},
	})

	_, err := a.GetRecords(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypePayload))
}

func TestGetRecords_MalformedBody(t *testing.T) {
	a := stubAdapter(t, &stubConnector{getResp: bodyResponse(`{"result":`)})

	_, err := a.GetRecords(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeParse))
}

func TestGetRecords_EmptyResultArray(t *testing.T) {
	a := stubAdapter(t, &stubConnector{getResp: bodyResponse(`{"result":[]}`)})

	tickets, err := a.GetRecords(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestPostRecord_NormalizesSingleResult(t *testing.T) {
	conn := &stubConnector{postResp: bodyResponse(
		`{"result":{"sys_id":"9","number":"CHG9","active":"true","priority":"2"}}`)}
	a := stubAdapter(t, conn)

	created, err := a.PostRecord(context.Background(), ticket.RawRecord{"priority": "2"})
	require.NoError(t, err)

	assert.Equal(t, ticket.ChangeTicket{
		Key: "9", Number: "CHG9", Active: true, Priority: "2",
	}, created)
	assert.JSONEq(t, `{"priority":"2"}`, string(conn.lastBody))
}

func TestPostRecord_TransportErrorIsReturned(t *testing.T) {
	// The legacy behavior of swallowing write errors is replaced by the
	// strict contract: the call settles with the error.
	transportErr := errors.New(errors.ErrorTypeTransport, "bad gateway")
	a := stubAdapter(t, &stubConnector{postErr: transportErr})

	_, err := a.PostRecord(context.Background(), nil)
	assert.Same(t, transportErr, err)
}

func TestPostRecord_EmptyBodyYieldsZeroTicket(t *testing.T) {
	a := stubAdapter(t, &stubConnector{
		postResp: &transport.RawResponse{Kind: transport.KindEmpty, StatusCode: 201},
	})

	created, err := a.PostRecord(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, ticket.ChangeTicket{}, created)
}

func TestPostRecord_MalformedBody(t *testing.T) {
	a := stubAdapter(t, &stubConnector{postResp: bodyResponse(`not json`)})

	_, err := a.PostRecord(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeParse))
}
