package adtpulse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	logp "github.com/charmbracelet/log"
)

var log = logp.NewWithOptions(os.Stderr, logp.Options{
	ReportTimestamp: true,
	TimeFormat:      time.Kitchen,
	Prefix:          "adtpulse",
})

// Pulse portal endpoints.
const (
	HostUS = "https://portal.adtpulse.com"
	HostCA = "https://portal-ca.adtpulse.com"
)

const timeout = 15 * time.Second

var (
	// ErrCannotConnect means the portal could not be reached or answered
	// with something other than a credential rejection.
	ErrCannotConnect = errors.New("could not connect to ADT Pulse")
	// ErrInvalidAuth means the portal rejected the credentials.
	ErrInvalidAuth = errors.New("invalid ADT Pulse credentials")
)

// Service is the remote capability the sync engine consumes. *Client is the
// real implementation; tests substitute fakes.
type Service interface {
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	FetchSnapshot(ctx context.Context) (*Snapshot, error)
	ArmHome(ctx context.Context, siteID string) (bool, error)
	ArmAway(ctx context.Context, siteID string, forceBypass bool) (bool, error)
	Disarm(ctx context.Context, siteID string) (bool, error)
	Username() string
}

// Client talks to the Pulse portal over HTTP. Conflicting commands are
// serialized by the portal, not here.
type Client struct {
	host        string
	username    string
	password    string
	fingerprint string
	http        *http.Client

	mu    sync.Mutex
	token string

	// retry ceiling for transient snapshot failures, shortened in tests
	maxElapsed time.Duration
}

func NewClient(host, username, password, fingerprint string) *Client {
	return &Client{
		host:        host,
		username:    username,
		password:    password,
		fingerprint: fingerprint,
		http:        &http.Client{Timeout: timeout},
		maxElapsed:  timeout,
	}
}

func (c *Client) Username() string { return c.username }

func (c *Client) Login(ctx context.Context) error {
	var out loginResponse
	code, err := c.roundTrip(ctx, http.MethodPost, "/myhome/api/auth/login", loginRequest{
		Username:    c.username,
		Password:    c.password,
		Fingerprint: c.fingerprint,
	}, &out)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCannotConnect, err)
	}
	switch code {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrInvalidAuth
	default:
		return fmt.Errorf("%w: unexpected status %d", ErrCannotConnect, code)
	}
	c.mu.Lock()
	c.token = out.Token
	c.mu.Unlock()
	return nil
}

func (c *Client) Logout(ctx context.Context) error {
	c.mu.Lock()
	token := c.token
	c.token = ""
	c.mu.Unlock()
	if token == "" {
		return nil
	}
	if _, err := c.roundTrip(ctx, http.MethodPost, "/myhome/api/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("could not logout: %w", err)
	}
	return nil
}

// FetchSnapshot fetches the full remote state. Transient failures are
// retried with exponential backoff; an expired session re-authenticates
// in place.
func (c *Client) FetchSnapshot(ctx context.Context) (*Snapshot, error) {
	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = time.Second * 2
	bo.MaxElapsedTime = c.maxElapsed

	var out summaryResponse
	err := backoff.Retry(func() error {
		code, err := c.roundTrip(ctx, http.MethodGet, "/myhome/api/summary", nil, &out)
		if err != nil {
			return err
		}
		switch code {
		case http.StatusOK:
			return nil
		case http.StatusUnauthorized:
			log.Debug("session expired, logging in again")
			if err := c.Login(ctx); err != nil {
				if errors.Is(err, ErrInvalidAuth) {
					return backoff.Permanent(err)
				}
				return err
			}
			return fmt.Errorf("session renewed, retrying")
		default:
			if code >= 500 {
				return fmt.Errorf("portal answered %d", code)
			}
			return backoff.Permanent(fmt.Errorf("portal answered %d", code))
		}
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		return nil, fmt.Errorf("could not fetch snapshot: %w", err)
	}
	return out.snapshot(), nil
}

func (c *Client) ArmHome(ctx context.Context, siteID string) (bool, error) {
	return c.command(ctx, siteID, "arm", armRequest{Mode: "stay"})
}

func (c *Client) ArmAway(ctx context.Context, siteID string, forceBypass bool) (bool, error) {
	return c.command(ctx, siteID, "arm", armRequest{Mode: "away", ForceBypass: forceBypass})
}

func (c *Client) Disarm(ctx context.Context, siteID string) (bool, error) {
	return c.command(ctx, siteID, "disarm", nil)
}

func (c *Client) command(ctx context.Context, siteID, action string, in any) (bool, error) {
	path := fmt.Sprintf("/myhome/api/sites/%s/%s", siteID, action)
	var out commandResponse
	code, err := c.roundTrip(ctx, http.MethodPost, path, in, &out)
	if err != nil {
		return false, fmt.Errorf("could not %s site %s: %w", action, siteID, err)
	}
	if code == http.StatusUnauthorized {
		if err := c.Login(ctx); err != nil {
			return false, fmt.Errorf("could not %s site %s: %w", action, siteID, err)
		}
		code, err = c.roundTrip(ctx, http.MethodPost, path, in, &out)
		if err != nil {
			return false, fmt.Errorf("could not %s site %s: %w", action, siteID, err)
		}
	}
	if code != http.StatusOK {
		return false, fmt.Errorf("could not %s site %s: portal answered %d", action, siteID, code)
	}
	return out.Success, nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, in, out any) (int, error) {
	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return 0, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.host+path, &body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.mu.Lock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.Unlock()

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode == http.StatusOK && out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("could not decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
