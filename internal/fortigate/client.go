// Package fortigate pulls live topology data from a FortiGate
// appliance over its REST API and shapes it into a topology document.
// Every query degrades to an empty result on failure; a reachable
// firewall with no visible peers still yields a one-device document.
package fortigate

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a token-authenticated FortiGate REST API client.
type Client struct {
	host       string
	port       int
	token      string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithPort overrides the default HTTPS port.
func WithPort(port int) Option {
	return func(c *Client) { c.port = port }
}

// WithInsecureTLS skips certificate verification, the common case for
// appliances with self-signed certificates.
func WithInsecureTLS() Option {
	return func(c *Client) {
		c.httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient creates a FortiGate client for host using an API token.
func NewClient(host, token string, opts ...Option) *Client {
	c := &Client{
		host:  host,
		port:  443,
		token: token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs an authenticated GET and decodes the JSON body into
// out.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	url := fmt.Sprintf("https://%s:%d%s", c.host, c.port, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("request %s: status %d: %s", path, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// SystemStatus is the subset of the monitor/system/status payload the
// builder uses.
type SystemStatus struct {
	Hostname string `json:"hostname"`
	Serial   string `json:"serial"`
	Version  string `json:"version"`
	Status   string `json:"status"`
}

// ManagedSwitch is one switch-controller managed switch.
type ManagedSwitch struct {
	Name   string `json:"name"`
	Model  string `json:"model"`
	Serial string `json:"serial"`
	IP     string `json:"ip"`
	Status string `json:"status"`
}

// ManagedAP is one managed wireless access point.
type ManagedAP struct {
	Name   string `json:"name"`
	Model  string `json:"model"`
	Serial string `json:"serial"`
	IP     string `json:"ip"`
	Status string `json:"status"`
}

// UserDevice is one detected endpoint.
type UserDevice struct {
	Hostname string `json:"hostname"`
	IP       string `json:"ip"`
	MAC      string `json:"mac"`
	OSType   string `json:"os_type"`
	DevType  string `json:"devtype"`
}

type statusEnvelope struct {
	Hostname string `json:"hostname"`
	Serial   string `json:"serial"`
	Version  string `json:"version"`
	Status   string `json:"status"`
}

type resultsEnvelope[T any] struct {
	Results []T `json:"results"`
}

// GetSystemStatus queries the appliance identity.
func (c *Client) GetSystemStatus(ctx context.Context) (SystemStatus, error) {
	var env statusEnvelope
	if err := c.get(ctx, "/api/v2/monitor/system/status", &env); err != nil {
		return SystemStatus{}, err
	}
	return SystemStatus(env), nil
}

// GetManagedSwitches queries switch-controller managed switches.
func (c *Client) GetManagedSwitches(ctx context.Context) ([]ManagedSwitch, error) {
	var env resultsEnvelope[ManagedSwitch]
	if err := c.get(ctx, "/api/v2/cmdb/switch-controller/managed-switch", &env); err != nil {
		return nil, err
	}
	return env.Results, nil
}

// GetManagedAPs queries managed wireless access points.
func (c *Client) GetManagedAPs(ctx context.Context) ([]ManagedAP, error) {
	var env resultsEnvelope[ManagedAP]
	if err := c.get(ctx, "/api/v2/cmdb/wifi/wifi-ap-managed", &env); err != nil {
		return nil, err
	}
	return env.Results, nil
}

// GetUserDevices queries detected user endpoints.
func (c *Client) GetUserDevices(ctx context.Context) ([]UserDevice, error) {
	var env resultsEnvelope[UserDevice]
	if err := c.get(ctx, "/api/v2/monitor/user/device", &env); err != nil {
		return nil, err
	}
	return env.Results, nil
}
