package client

import (
	"context"
	"net/url"
	"strconv"
	"unicode/utf8"
)

const (
	MaxReasonLength  = 128
	MaxMessageLength = 256
	MaxSpawnQuantity = 9999
)

func checkLength(name, value string, max int) error {
	if n := utf8.RuneCountInString(value); n < 1 || n > max {
		return invalidArgument("%s must be 1-%d characters, got %d", name, max, n)
	}
	return nil
}

func checkSession(gsID string) error {
	if gsID == "" {
		return invalidArgument("game session id is empty")
	}
	return nil
}

// Kick removes the player of an active game session from the server.
func (c *Client) Kick(ctx context.Context, gsID, reason string) error {
	if err := checkSession(gsID); err != nil {
		return err
	}
	if err := checkLength("reason", reason, MaxReasonLength); err != nil {
		return err
	}
	u, err := c.serverURL(ServerKickRoute)
	if err != nil {
		return err
	}
	return c.postForm(ctx, u.build(), url.Values{
		"gamesession_id": {gsID},
		"reason":         {reason},
	})
}

// PrivateMessage sends content to the player of an active game session.
func (c *Client) PrivateMessage(ctx context.Context, gsID, content string) error {
	if err := checkSession(gsID); err != nil {
		return err
	}
	if err := checkLength("content", content, MaxMessageLength); err != nil {
		return err
	}
	u, err := c.serverURL(ServerPrivateMsgRoute)
	if err != nil {
		return err
	}
	return c.postForm(ctx, u.build(), url.Values{
		"gamesession_id": {gsID},
		"content":        {content},
	})
}

// BroadcastMessage sends content to every player on the server.
func (c *Client) BroadcastMessage(ctx context.Context, content string) error {
	if err := checkLength("content", content, MaxMessageLength); err != nil {
		return err
	}
	u, err := c.serverURL(ServerBroadcastRoute)
	if err != nil {
		return err
	}
	return c.postForm(ctx, u.build(), url.Values{
		"content": {content},
	})
}

// RawCommand sends a raw RCon command to the server.
func (c *Client) RawCommand(ctx context.Context, command string) error {
	if err := checkLength("command", command, MaxMessageLength); err != nil {
		return err
	}
	u, err := c.serverURL(ServerRawCommandRoute)
	if err != nil {
		return err
	}
	return c.postForm(ctx, u.build(), url.Values{
		"command": {command},
	})
}

// Teleport moves the player of a game session to the map coordinates x, y.
// Requires GameLabs on the server.
func (c *Client) Teleport(ctx context.Context, gsID string, x, y float64) error {
	if err := checkSession(gsID); err != nil {
		return err
	}
	u, err := c.serverURL(TeleportRoute)
	if err != nil {
		return err
	}
	return c.postForm(ctx, u.build(), url.Values{
		"gamesession_id": {gsID},
		"coords": {
			strconv.FormatFloat(x, 'f', -1, 64),
			strconv.FormatFloat(y, 'f', -1, 64),
		},
	})
}

// Spawn spawns quantity objects for the player of a game session.
// Requires GameLabs on the server.
func (c *Client) Spawn(ctx context.Context, gsID, object string, quantity int) error {
	if err := checkSession(gsID); err != nil {
		return err
	}
	if object == "" {
		return invalidArgument("object is empty")
	}
	if quantity < 1 || quantity > MaxSpawnQuantity {
		return invalidArgument("quantity must be 1-%d, got %d", MaxSpawnQuantity, quantity)
	}
	u, err := c.serverURL(SpawnRoute)
	if err != nil {
		return err
	}
	return c.postForm(ctx, u.build(), url.Values{
		"gamesession_id": {gsID},
		"object":         {object},
		"quantity":       {strconv.Itoa(quantity)},
	})
}
