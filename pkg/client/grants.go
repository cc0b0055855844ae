package client

import (
	"context"
	"fmt"
)

// Grants lists the resources the application has been granted access to.
func (c *Client) Grants(ctx context.Context) (*Grants, error) {
	var resp grantsResponse
	err := c.get(ctx, c.url().
		setPath(GrantsRoute).
		build(), &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Tokens, nil
}

// GameServerDetails returns the Steamrelay data of the configured game server.
// The client must be created with WithGameServer.
func (c *Client) GameServerDetails(ctx context.Context) (*GameServer, error) {
	if c.gameServerID == "" {
		return nil, ErrMissingGameServer
	}
	return c.GameServerByID(ctx, c.gameServerID)
}

// GameServerByID returns the Steamrelay data for a server id built with GameServerID.
func (c *Client) GameServerByID(ctx context.Context, serverID string) (*GameServer, error) {
	if serverID == "" {
		return nil, invalidArgument("game server id is empty")
	}
	// the response is keyed by the requested id
	var resp map[string]GameServer
	err := c.get(ctx, c.url().
		setPath(GameServerRoute).
		setPathParam("server_id", serverID).
		build(), &resp)
	if err != nil {
		return nil, err
	}
	gs, ok := resp[serverID]
	if !ok {
		return nil, fmt.Errorf("%w: game server %s missing in response", errUnexpectedResponse, serverID)
	}
	return &gs, nil
}

// LookupUser resolves a Steam64 id, BattlEye GUID or Bohemia id to a CFTools id.
func (c *Client) LookupUser(ctx context.Context, identifier string) (string, error) {
	if identifier == "" {
		return "", invalidArgument("identifier is empty")
	}
	var resp lookupResponse
	err := c.get(ctx, c.url().
		setPath(UserLookupRoute).
		addQueryParam("identifier", identifier).
		build(), &resp)
	if err != nil {
		return "", err
	}
	return resp.CFToolsID, nil
}
