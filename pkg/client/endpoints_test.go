package client

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutations_FormEncoding(t *testing.T) {
	expires := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("CET", 3600))

	tests := []struct {
		name   string
		method string
		path   string
		call   func(ctx context.Context, c *Client) error
		form   map[string][]string
		absent []string
	}{
		{
			name:   "kick",
			method: http.MethodPost,
			path:   "/v1/server/srv-1/kick",
			call: func(ctx context.Context, c *Client) error {
				return c.Kick(ctx, "gs-1", "cheating")
			},
			form: map[string][]string{"gamesession_id": {"gs-1"}, "reason": {"cheating"}},
		},
		{
			name:   "private message",
			method: http.MethodPost,
			path:   "/v1/server/srv-1/message-private",
			call: func(ctx context.Context, c *Client) error {
				return c.PrivateMessage(ctx, "gs-1", "hello")
			},
			form: map[string][]string{"gamesession_id": {"gs-1"}, "content": {"hello"}},
		},
		{
			name:   "broadcast",
			method: http.MethodPost,
			path:   "/v1/server/srv-1/message-server",
			call: func(ctx context.Context, c *Client) error {
				return c.BroadcastMessage(ctx, "restart in 5")
			},
			form: map[string][]string{"content": {"restart in 5"}},
		},
		{
			name:   "raw command",
			method: http.MethodPost,
			path:   "/v1/server/srv-1/raw",
			call: func(ctx context.Context, c *Client) error {
				return c.RawCommand(ctx, "#lock")
			},
			form: map[string][]string{"command": {"#lock"}},
		},
		{
			name:   "teleport",
			method: http.MethodPost,
			path:   "/v0/server/srv-1/gameLabs/teleport",
			call: func(ctx context.Context, c *Client) error {
				return c.Teleport(ctx, "gs-1", 4500.5, 10200)
			},
			form: map[string][]string{"gamesession_id": {"gs-1"}, "coords": {"4500.5", "10200"}},
		},
		{
			name:   "spawn",
			method: http.MethodPost,
			path:   "/v0/server/srv-1/gameLabs/spawn",
			call: func(ctx context.Context, c *Client) error {
				return c.Spawn(ctx, "gs-1", "AKM", 2)
			},
			form: map[string][]string{"gamesession_id": {"gs-1"}, "object": {"AKM"}, "quantity": {"2"}},
		},
		{
			name:   "add queue priority permanent",
			method: http.MethodPost,
			path:   "/v1/server/srv-1/queuepriority",
			call: func(ctx context.Context, c *Client) error {
				return c.AddQueuePriority(ctx, ListEntryRequest{CFToolsID: "cf-1", Comment: "vip"})
			},
			form:   map[string][]string{"cftools_id": {"cf-1"}, "comment": {"vip"}},
			absent: []string{"expires_at"},
		},
		{
			name:   "add whitelist with expiry",
			method: http.MethodPost,
			path:   "/v1/server/srv-1/whitelist",
			call: func(ctx context.Context, c *Client) error {
				return c.AddWhitelist(ctx, ListEntryRequest{CFToolsID: "cf-1", ExpiresAt: &expires})
			},
			form: map[string][]string{"cftools_id": {"cf-1"}, "expires_at": {"2026-01-02T02:04:05Z"}},
		},
		{
			name:   "delete queue priority",
			method: http.MethodDelete,
			path:   "/v1/server/srv-1/queuepriority",
			call: func(ctx context.Context, c *Client) error {
				return c.DeleteQueuePriority(ctx, "cf-1")
			},
			form: map[string][]string{"cftools_id": {"cf-1"}},
		},
		{
			name:   "delete whitelist",
			method: http.MethodDelete,
			path:   "/v1/server/srv-1/whitelist",
			call: func(ctx context.Context, c *Client) error {
				return c.DeleteWhitelist(ctx, "cf-1")
			},
			form: map[string][]string{"cftools_id": {"cf-1"}},
		},
		{
			name:   "ban",
			method: http.MethodPost,
			path:   "/v1/banlist/ban-1/bans",
			call: func(ctx context.Context, c *Client) error {
				return c.Ban(ctx, BanRequest{Format: BanFormatIPv4, Identifier: "10.0.*.*", Reason: "griefing"})
			},
			form:   map[string][]string{"format": {"ipv4"}, "identifier": {"10.0.*.*"}, "reason": {"griefing"}},
			absent: []string{"expires_at"},
		},
		{
			name:   "unban",
			method: http.MethodDelete,
			path:   "/v1/banlist/ban-1/bans",
			call: func(ctx context.Context, c *Client) error {
				return c.Unban(ctx, "b-1")
			},
			form: map[string][]string{"ban_id": {"b-1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, srv := newFakeAPI(t)
			api.handle(tt.method, tt.path, noContent)
			c, _ := newTestClient(t, srv)

			require.NoError(t, tt.call(context.Background(), c))

			req := api.last()
			assert.Equal(t, tt.method, req.Method)
			assert.Equal(t, tt.path, req.Path)
			assert.Equal(t, "Bearer token-1", req.Header.Get("Authorization"))
			for key, want := range tt.form {
				assert.Equal(t, want, req.Form[key], key)
			}
			for _, key := range tt.absent {
				assert.NotContains(t, req.Form, key)
			}
		})
	}
}

func TestValidation(t *testing.T) {
	long := func(n int) string { return strings.Repeat("x", n) }

	tests := []struct {
		name string
		call func(ctx context.Context, c *Client) error
	}{
		{"empty reason", func(ctx context.Context, c *Client) error { return c.Kick(ctx, "gs", "") }},
		{"long reason", func(ctx context.Context, c *Client) error { return c.Kick(ctx, "gs", long(129)) }},
		{"missing session", func(ctx context.Context, c *Client) error { return c.Kick(ctx, "", "r") }},
		{"long message", func(ctx context.Context, c *Client) error { return c.PrivateMessage(ctx, "gs", long(257)) }},
		{"empty broadcast", func(ctx context.Context, c *Client) error { return c.BroadcastMessage(ctx, "") }},
		{"long command", func(ctx context.Context, c *Client) error { return c.RawCommand(ctx, long(257)) }},
		{"zero quantity", func(ctx context.Context, c *Client) error { return c.Spawn(ctx, "gs", "AKM", 0) }},
		{"huge quantity", func(ctx context.Context, c *Client) error { return c.Spawn(ctx, "gs", "AKM", 10000) }},
		{"empty object", func(ctx context.Context, c *Client) error { return c.Spawn(ctx, "gs", "", 1) }},
		{"unknown stat", func(ctx context.Context, c *Client) error {
			_, err := c.Leaderboard(ctx, "headshots", Descending, 10)
			return err
		}},
		{"bad order", func(ctx context.Context, c *Client) error {
			_, err := c.Leaderboard(ctx, StatKills, 0, 10)
			return err
		}},
		{"limit too high", func(ctx context.Context, c *Client) error {
			_, err := c.Leaderboard(ctx, StatKills, Descending, 101)
			return err
		}},
		{"bad ban format", func(ctx context.Context, c *Client) error {
			return c.Ban(ctx, BanRequest{Format: "steam64", Identifier: "1", Reason: "r"})
		}},
		{"missing ban reason", func(ctx context.Context, c *Client) error {
			return c.Ban(ctx, BanRequest{Format: BanFormatCFToolsID, Identifier: "1"})
		}},
		{"missing entry id", func(ctx context.Context, c *Client) error {
			return c.AddQueuePriority(ctx, ListEntryRequest{})
		}},
		{"missing lookup", func(ctx context.Context, c *Client) error {
			_, err := c.LookupUser(ctx, "")
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, srv := newFakeAPI(t)
			c, _ := newTestClient(t, srv)

			err := tt.call(context.Background(), c)
			require.ErrorIs(t, err, ErrInvalidArgument)

			api.mu.Lock()
			assert.Empty(t, api.requests, "no request may be sent for invalid arguments")
			api.mu.Unlock()
		})
	}
}

func TestValidation_Boundaries(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.handle(http.MethodPost, "/v1/server/srv-1/kick", noContent)
	api.handle(http.MethodPost, "/v0/server/srv-1/gameLabs/spawn", noContent)
	c, _ := newTestClient(t, srv)
	ctx := context.Background()

	require.NoError(t, c.Kick(ctx, "gs", strings.Repeat("ä", MaxReasonLength)))
	require.NoError(t, c.Kick(ctx, "gs", "x"))
	require.NoError(t, c.Spawn(ctx, "gs", "AKM", MaxSpawnQuantity))
	require.NoError(t, c.Spawn(ctx, "gs", "AKM", 1))
}

func TestMissingIDs(t *testing.T) {
	api, srv := newFakeAPI(t)
	c := New(srv.URL, WithAuthToken("static"))
	ctx := context.Background()

	_, err := c.ServerInfo(ctx)
	assert.ErrorIs(t, err, ErrMissingServerID)
	_, err = c.PlayerList(ctx)
	assert.ErrorIs(t, err, ErrMissingServerID)
	assert.ErrorIs(t, c.Teleport(ctx, "gs", 1, 2), ErrMissingServerID)
	assert.ErrorIs(t, c.BroadcastMessage(ctx, "hi"), ErrMissingServerID)
	_, err = c.ListBans(ctx, "")
	assert.ErrorIs(t, err, ErrMissingBanlistID)
	assert.ErrorIs(t, c.Unban(ctx, "b-1"), ErrMissingBanlistID)
	_, err = c.GameServerDetails(ctx)
	assert.ErrorIs(t, err, ErrMissingGameServer)

	api.mu.Lock()
	assert.Empty(t, api.requests)
	api.mu.Unlock()
}

func TestQueries(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.handle(http.MethodGet, "/v1/server/srv-1/leaderboard", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status": true,
			"leaderboard": []map[string]any{
				{"rank": 1, "cftools_id": "cf-1", "latest_name": "Alice", "kills": 42},
			},
		})
	})
	api.handle(http.MethodGet, "/v1/server/srv-1/queuepriority", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status": true,
			"entries": []map[string]any{
				{"uuid": "u-1", "user": map[string]any{"cftools_id": "cf-1"}, "meta": map[string]any{"comment": "vip", "expiration": nil}},
			},
		})
	})
	api.handle(http.MethodGet, "/v1/banlist/ban-1/bans", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  true,
			"entries": []map[string]any{{"id": "b-1", "identifier": "cf-9", "reason": "r"}},
		})
	})
	api.handle(http.MethodGet, UserLookupRoute, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": true, "cftools_id": "cf-77"})
	})
	api.handle(http.MethodGet, "/v1/server/srv-1/player", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": true, "cf-1": map[string]any{"kills": 3}})
	})
	c, _ := newTestClient(t, srv)
	ctx := context.Background()

	board, err := c.Leaderboard(ctx, StatKills, Descending, 0)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, "Alice", board[0].LatestName)
	q := api.last().Query
	assert.Equal(t, "kills", q.Get("stat"))
	assert.Equal(t, "-1", q.Get("order"))
	assert.Equal(t, "10", q.Get("limit"))

	entries, err := c.ListQueuePriority(ctx, ListFilter{CFToolsID: "cf-1"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cf-1", entries[0].User.CFToolsID)
	assert.Nil(t, entries[0].Meta.Expiration)
	assert.Equal(t, "cf-1", api.last().Query.Get("cftools_id"))
	assert.NotContains(t, api.last().Query, "comment")

	bans, err := c.ListBans(ctx, "cf-9")
	require.NoError(t, err)
	require.Len(t, bans, 1)
	assert.Equal(t, "cf-9", api.last().Query.Get("filter"))

	id, err := c.LookupUser(ctx, "76561198000000000")
	require.NoError(t, err)
	assert.Equal(t, "cf-77", id)
	assert.Equal(t, "76561198000000000", api.last().Query.Get("identifier"))

	stats, err := c.PlayerStats(ctx, "cf-1")
	require.NoError(t, err)
	assert.Contains(t, stats, "cf-1")
	assert.NotContains(t, stats, "status")
}

func TestGameServerDetails(t *testing.T) {
	id := GameServerID("1", "127.0.0.1", "2302")
	api, srv := newFakeAPI(t)
	api.handle(http.MethodGet, "/v1/gameserver/"+id, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			id: map[string]any{"name": "DayZ Server", "online": true, "map": "chernarusplus"},
		})
	})
	c, _ := newTestClient(t, srv, WithGameServer("1", "127.0.0.1", "2302"))

	gs, err := c.GameServerDetails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "DayZ Server", gs.Name)
	assert.True(t, gs.Online)

	_, err = c.GameServerByID(context.Background(), "unknown")
	require.ErrorIs(t, err, ErrNotFound)
}
