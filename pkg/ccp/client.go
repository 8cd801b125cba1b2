package ccp

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"
)

// accountsPath is the single retrieval endpoint of the Central Credential
// Provider web service.
const accountsPath = "/AIMWebService/api/Accounts"

// DefaultTimeout is the request timeout used when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Logger receives debug traces of request construction. It is satisfied by
// internal/logging.Logger; secret values are never passed to it.
type Logger interface {
	Debug(format string, args ...interface{})
}

// Config configures a Client.
type Config struct {
	// BaseURL is the root of the CCP web service, for example
	// "https://ccp.example.com". A trailing slash is stripped.
	BaseURL string

	// AppID is the application identity registered in CyberArk. It is sent
	// as the AppID parameter on every request.
	AppID string

	// CertPath points to a PEM file holding the client certificate and key
	// for certificate-based application authentication. Optional.
	CertPath string

	// CACertPath points to a PEM bundle used to verify the CCP's server
	// certificate instead of the system pool. Optional.
	CACertPath string

	// InsecureSkipVerify disables server certificate verification.
	InsecureSkipVerify bool

	// Timeout bounds each request end to end. Zero means DefaultTimeout.
	Timeout time.Duration

	// Logger, when set, receives debug traces. Optional.
	Logger Logger
}

// Client retrieves accounts from one CCP endpoint. It owns a single
// http.Client whose connection pool is reused across sequential calls;
// release it with Close when done. Methods are safe for concurrent use.
type Client struct {
	baseURL    string
	appID      string
	timeout    time.Duration
	httpClient *http.Client
	logger     Logger
}

// New validates cfg, builds the TLS transport, and returns a ready Client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, validationError("base URL is required")
	}
	if cfg.AppID == "" {
		return nil, validationError("application ID is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{},
	}

	if cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, &Error{
				Category: CategoryValidation,
				Message:  fmt.Sprintf("failed to read CA certificate %s: %v", cfg.CACertPath, err),
				Err:      err,
			}
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, validationError("failed to parse CA certificate %s", cfg.CACertPath)
		}
		transport.TLSClientConfig.RootCAs = pool
	}

	if cfg.CertPath != "" {
		// The CCP convention is one PEM file carrying both the client
		// certificate and its key.
		cert, err := tls.LoadX509KeyPair(cfg.CertPath, cfg.CertPath)
		if err != nil {
			return nil, &Error{
				Category: CategoryValidation,
				Message:  fmt.Sprintf("failed to load client certificate %s: %v", cfg.CertPath, err),
				Err:      err,
			}
		}
		transport.TLSClientConfig.Certificates = []tls.Certificate{cert}
	}

	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig.InsecureSkipVerify = true
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		appID:   cfg.AppID,
		timeout: timeout,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		logger: cfg.Logger,
	}, nil
}

// GetAccount issues one GET against the retrieval endpoint and returns the
// decoded account record. Exactly one request is made; every failure is
// surfaced as an *Error and never retried.
func (c *Client) GetAccount(ctx context.Context, req Request) (*Account, error) {
	p, err := buildParams(c.appID, req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+accountsPath, nil)
	if err != nil {
		return nil, &Error{
			Category: CategoryGeneral,
			Message:  "failed to create request: " + err.Error(),
			Err:      err,
		}
	}
	httpReq.URL.RawQuery = p.Encode()

	if c.logger != nil {
		names := make([]string, len(p))
		for i, kv := range p {
			names[i] = kv.name
		}
		c.logger.Debug("GET %s%s (parameters: %s)", c.baseURL, accountsPath, strings.Join(names, ", "))
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.classifyTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			Category: CategoryConnection,
			Message:  "Connection error: " + err.Error(),
			Err:      err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classifyResponse(resp.StatusCode, body)
	}

	var acct Account
	if err := json.Unmarshal(body, &acct); err != nil {
		return nil, &Error{
			Category: CategoryGeneral,
			Message:  "invalid JSON response from server",
			Err:      err,
		}
	}
	return &acct, nil
}

// GetPassword retrieves the account matching req and returns only its
// secret value, empty when the response carries no Content field.
func (c *Client) GetPassword(ctx context.Context, req Request) (string, error) {
	acct, err := c.GetAccount(ctx, req)
	if err != nil {
		return "", err
	}
	return acct.Content, nil
}

// Close releases the transport's idle connections. The Client must not be
// used after Close.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// classifyTransportError maps a failure that prevented an HTTP status from
// being received. Timeouts and connection-level failures get their own
// categories so callers can tell "retry later" from "unreachable".
func (c *Client) classifyTransportError(err error) *Error {
	var nerr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
		return &Error{
			Category: CategoryTimeout,
			Message:  fmt.Sprintf("Request timed out after %d seconds", int(c.timeout.Seconds())),
			Err:      err,
		}
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return &Error{
			Category: CategoryConnection,
			Message:  "Connection error: " + err.Error(),
			Err:      err,
		}
	}

	return &Error{
		Category: CategoryGeneral,
		Message:  "Request failed: " + err.Error(),
		Err:      err,
	}
}
