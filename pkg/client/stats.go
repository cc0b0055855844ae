package client

import (
	"context"
	"slices"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

type Stat string

const (
	StatKills       Stat = "kills"
	StatDeaths      Stat = "deaths"
	StatSuicides    Stat = "suicides"
	StatPlaytime    Stat = "playtime"
	StatLongestKill Stat = "longest_kill"
	StatLongestShot Stat = "longest_shot"
	StatKDRatio     Stat = "kdratio"
)

// Stats lists the stats a leaderboard can be generated for.
var Stats = []Stat{
	StatKills, StatDeaths, StatSuicides, StatPlaytime,
	StatLongestKill, StatLongestShot, StatKDRatio,
}

type Order int

const (
	Ascending  Order = 1
	Descending Order = -1
)

// Leaderboard generates a leaderboard from the player stats kept for the server.
// A limit of 0 uses DefaultLeaderboardLimit. The endpoint allows 7 requests per minute.
func (c *Client) Leaderboard(ctx context.Context, stat Stat, order Order, limit int) ([]LeaderboardEntry, error) {
	if !slices.Contains(Stats, stat) {
		return nil, invalidArgument("unknown stat %q", stat)
	}
	if order != Ascending && order != Descending {
		return nil, invalidArgument("order must be 1 or -1, got %d", order)
	}
	if limit == 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit < 1 || limit > MaxLeaderboardLimit {
		return nil, invalidArgument("limit must be 1-%d, got %d", MaxLeaderboardLimit, limit)
	}
	u, err := c.serverURL(ServerLeaderboardRoute)
	if err != nil {
		return nil, err
	}
	var resp leaderboardResponse
	err = c.get(ctx, u.
		addQueryParam("stat", stat).
		addQueryParam("order", int(order)).
		addQueryParam("limit", limit).
		build(), &resp)
	if err != nil {
		return nil, err
	}
	return resp.Leaderboard, nil
}

// PlayerStats returns the stats of a player on the server.
// The endpoint allows 10 requests per minute.
func (c *Client) PlayerStats(ctx context.Context, cftoolsID string) (PlayerStats, error) {
	if cftoolsID == "" {
		return nil, invalidArgument("cftools id is empty")
	}
	u, err := c.serverURL(ServerPlayerStatsRoute)
	if err != nil {
		return nil, err
	}
	var resp PlayerStats
	err = c.get(ctx, u.
		addQueryParam("cftools_id", cftoolsID).
		build(), &resp)
	if err != nil {
		return nil, err
	}
	delete(resp, "status")
	return resp, nil
}
