package adtpulse

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newPortal(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cli := NewClient(srv.URL, "tester@example.com", "hunter2", "fingerprint")
	cli.maxElapsed = time.Second
	return cli
}

func portalMux(t *testing.T, summary summaryResponse) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/myhome/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(loginResponse{Token: "tok-123"})
	})
	mux.HandleFunc("/myhome/api/auth/logout", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/myhome/api/summary", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(summary)
	})
	return mux
}

func testSummary() summaryResponse {
	return summaryResponse{
		GatewayOnline: true,
		Sites: []siteJSON{{
			ID:     "site-1",
			Name:   "Home",
			Status: "disarmed",
			Zones: []zoneJSON{{
				ID:         "sensor-12",
				Name:       "South Office Motion",
				Tags:       []string{"sensor", "motion"},
				Status:     "Motion",
				ActivityTs: 1569078085275,
			}},
		}},
	}
}

func TestClientLogin(t *testing.T) {
	cli := newPortal(t, portalMux(t, testSummary()))
	require.NoError(t, cli.Login(context.Background()))
	require.Equal(t, "tok-123", cli.token)
	require.NoError(t, cli.Logout(context.Background()))
	require.Empty(t, cli.token)
}

func TestClientLoginInvalidAuth(t *testing.T) {
	cli := newPortal(t, portalMux(t, testSummary()))
	cli.password = "wrong"
	err := cli.Login(context.Background())
	require.ErrorIs(t, err, ErrInvalidAuth)
	require.NotErrorIs(t, err, ErrCannotConnect)
}

func TestClientLoginCannotConnect(t *testing.T) {
	cli := NewClient("http://127.0.0.1:1", "u", "p", "f")
	err := cli.Login(context.Background())
	require.ErrorIs(t, err, ErrCannotConnect)
}

func TestClientFetchSnapshot(t *testing.T) {
	cli := newPortal(t, portalMux(t, testSummary()))
	require.NoError(t, cli.Login(context.Background()))

	snap, err := cli.FetchSnapshot(context.Background())
	require.NoError(t, err)
	require.True(t, snap.GatewayOnline)
	require.Len(t, snap.Sites, 1)

	site := snap.Sites[0]
	require.Equal(t, "site-1", site.ID)
	require.Equal(t, StatusDisarmed, site.Status)

	zone := site.Zones["sensor-12"]
	require.Equal(t, "South Office Motion", zone.Name)
	require.Equal(t, []string{"sensor", "motion"}, zone.Tags)
	require.True(t, zone.Tripped())
	require.Equal(t, time.UnixMilli(1569078085275), zone.LastActivity)
}

func TestClientFetchSnapshotRenewsSession(t *testing.T) {
	// no login up front: the first summary call answers 401 and the client
	// recovers by authenticating in place
	cli := newPortal(t, portalMux(t, testSummary()))
	snap, err := cli.FetchSnapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Sites, 1)
}

func TestClientCommands(t *testing.T) {
	var lastArm armRequest
	mux := portalMux(t, testSummary())
	mux.HandleFunc("/myhome/api/sites/site-1/arm", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&lastArm))
		_ = json.NewEncoder(w).Encode(commandResponse{Success: true})
	})
	mux.HandleFunc("/myhome/api/sites/site-1/disarm", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(commandResponse{Success: false})
	})
	cli := newPortal(t, mux)
	require.NoError(t, cli.Login(context.Background()))
	ctx := context.Background()

	ok, err := cli.ArmAway(ctx, "site-1", true)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, armRequest{Mode: "away", ForceBypass: true}, lastArm)

	ok, err = cli.ArmHome(ctx, "site-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "stay", lastArm.Mode)

	ok, err = cli.Disarm(ctx, "site-1")
	require.NoError(t, err)
	require.False(t, ok, "a refused command is not an error")
}

func TestClientUsername(t *testing.T) {
	cli := NewClient(HostUS, "tester@example.com", "p", "f")
	require.Equal(t, "tester@example.com", cli.Username())
}
