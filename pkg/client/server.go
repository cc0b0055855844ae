package client

import (
	"context"
)

// serverURL starts a URL for a route containing the {server_api_id} parameter.
func (c *Client) serverURL(route string) (*urlBuilder, error) {
	if c.serverAPIID == "" {
		return nil, ErrMissingServerID
	}
	return c.url().
		setPath(route).
		setPathParam("server_api_id", c.serverAPIID), nil
}

// ServerInfo returns general information about the server.
func (c *Client) ServerInfo(ctx context.Context) (*ServerInfo, error) {
	u, err := c.serverURL(ServerInfoRoute)
	if err != nil {
		return nil, err
	}
	var resp serverInfoResponse
	if err := c.get(ctx, u.build(), &resp); err != nil {
		return nil, err
	}
	return &resp.Server, nil
}

// ServerStatistics returns aggregated statistics of the server.
func (c *Client) ServerStatistics(ctx context.Context) (ServerStatistics, error) {
	u, err := c.serverURL(ServerStatisticsRoute)
	if err != nil {
		return nil, err
	}
	var resp serverStatisticsResponse
	if err := c.get(ctx, u.build(), &resp); err != nil {
		return nil, err
	}
	return resp.Statistics, nil
}

// PlayerList returns the active sessions on the server.
func (c *Client) PlayerList(ctx context.Context) ([]Session, error) {
	u, err := c.serverURL(ServerPlayerListRoute)
	if err != nil {
		return nil, err
	}
	var resp sessionsResponse
	if err := c.get(ctx, u.build(), &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}
