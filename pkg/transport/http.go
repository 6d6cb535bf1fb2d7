package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/ajitpratap0/ticketbridge/pkg/config"
	"github.com/ajitpratap0/ticketbridge/pkg/errors"
	"github.com/ajitpratap0/ticketbridge/pkg/logger"
	"github.com/ajitpratap0/ticketbridge/pkg/observability"
)

const tablePathPrefix = "/api/now/table/"

// HTTPConnector performs authenticated HTTP requests against one fixed table
// resource of a remote instance. Authentication is HTTP basic unless the
// credentials carry a token URL, in which case the OAuth2 client-credentials
// flow is used.
type HTTPConnector struct {
	tableURL   string
	creds      config.Credentials
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPConnector creates a connector bound to the table resource named by
// the configuration. It fails fast on a structurally invalid URL.
func NewHTTPConnector(cfg *config.AdapterConfig) (*HTTPConnector, error) {
	base, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid instance URL")
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.Newf(errors.ErrorTypeConfig, "unsupported URL scheme %q", base.Scheme)
	}
	if cfg.TableName == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "table name is required")
	}

	c := &HTTPConnector{
		tableURL: base.JoinPath(tablePathPrefix, cfg.TableName).String(),
		creds:    cfg.Credentials,
		logger: logger.Get().With(
			zap.String("component", "http_connector"),
			zap.String("table", cfg.TableName)),
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeouts.Connection,
			KeepAlive: cfg.Timeouts.KeepAlive,
		}).DialContext,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}
	if err := http2.ConfigureTransport(transport); err != nil {
		c.logger.Warn("failed to configure HTTP/2", zap.Error(err))
	}

	baseClient := &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeouts.Request,
	}

	if cfg.Credentials.TokenURL != "" {
		// Client-credentials tokens are fetched and refreshed by the oauth2
		// transport wrapping ours.
		oauthCfg := &clientcredentials.Config{
			ClientID:     cfg.Credentials.ClientID,
			ClientSecret: cfg.Credentials.ClientSecret,
			TokenURL:     cfg.Credentials.TokenURL,
		}
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, baseClient)
		c.httpClient = oauthCfg.Client(ctx)
		c.httpClient.Timeout = cfg.Timeouts.Request
	} else {
		c.httpClient = baseClient
	}

	return c, nil
}

// Get issues one GET against the table resource
func (c *HTTPConnector) Get(ctx context.Context) (*RawResponse, error) {
	return c.do(ctx, http.MethodGet, nil)
}

// Post issues one POST against the table resource
func (c *HTTPConnector) Post(ctx context.Context, body []byte) (*RawResponse, error) {
	return c.do(ctx, http.MethodPost, body)
}

// Close releases idle connections
func (c *HTTPConnector) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *HTTPConnector) do(ctx context.Context, method string, body []byte) (*RawResponse, error) {
	requestID := uuid.NewString()
	ctx, span := observability.StartSpan(ctx, "transport.request",
		observability.String("http.method", method),
		observability.String("request_id", requestID))
	defer span.End()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.tableURL, reader)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeTransport, "failed to create request")
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.creds.TokenURL == "" {
		req.SetBasicAuth(c.creds.Username, c.creds.Password)
	}

	c.logger.Debug("issuing request",
		zap.String("method", method),
		zap.String("request_id", requestID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.Wrap(err, errors.ErrorTypeTimeout, "request timed out")
		}
		return nil, errors.Wrap(err, errors.ErrorTypeTransport, "request failed")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, errors.ErrorTypeTransport, "failed to read response body")
	}

	span.SetStatus(resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, errors.Newf(errors.ErrorTypeAuthentication,
			"authentication rejected by remote system: %s", resp.Status).
			WithDetail("status_code", resp.StatusCode).
			WithDetail("request_id", requestID)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, errors.Newf(errors.ErrorTypeTransport,
			"unexpected status from remote system: %s", resp.Status).
			WithDetail("status_code", resp.StatusCode).
			WithDetail("request_id", requestID)
	}

	if len(payload) == 0 {
		return &RawResponse{Kind: KindEmpty, StatusCode: resp.StatusCode}, nil
	}

	return &RawResponse{
		Kind:       KindBody,
		StatusCode: resp.StatusCode,
		Body:       payload,
	}, nil
}
