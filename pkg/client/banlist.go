package client

import (
	"context"
	"net/url"
	"time"
)

type BanFormat string

const (
	BanFormatCFToolsID BanFormat = "cftools_id"
	BanFormatIPv4      BanFormat = "ipv4"
)

// BanRequest issues a ban. A nil ExpiresAt creates a permanent ban.
// IPv4 identifiers may contain '*' wildcards.
type BanRequest struct {
	Format     BanFormat
	Identifier string
	ExpiresAt  *time.Time
	Reason     string
}

func (c *Client) banlistURL() (*urlBuilder, error) {
	if c.banlistID == "" {
		return nil, ErrMissingBanlistID
	}
	return c.url().
		setPath(BanlistRoute).
		setPathParam("banlist_id", c.banlistID), nil
}

// ListBans lists the bans of the banlist. filter is an IPv4 or a CFTools id and may be empty.
func (c *Client) ListBans(ctx context.Context, filter string) ([]Ban, error) {
	u, err := c.banlistURL()
	if err != nil {
		return nil, err
	}
	if filter != "" {
		u.addQueryParam("filter", filter)
	}
	var resp bansResponse
	if err := c.get(ctx, u.build(), &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

// Ban issues a new ban. This triggers an in-game kick.
func (c *Client) Ban(ctx context.Context, req BanRequest) error {
	if req.Format != BanFormatCFToolsID && req.Format != BanFormatIPv4 {
		return invalidArgument("ban format must be %s or %s, got %q", BanFormatCFToolsID, BanFormatIPv4, req.Format)
	}
	if req.Identifier == "" {
		return invalidArgument("identifier is empty")
	}
	if err := checkLength("reason", req.Reason, MaxReasonLength); err != nil {
		return err
	}
	u, err := c.banlistURL()
	if err != nil {
		return err
	}
	form := url.Values{
		"format":     {string(req.Format)},
		"identifier": {req.Identifier},
		"reason":     {req.Reason},
	}
	if req.ExpiresAt != nil {
		form.Set("expires_at", req.ExpiresAt.UTC().Format(time.RFC3339))
	}
	return c.postForm(ctx, u.build(), form)
}

// Unban revokes an existing ban.
func (c *Client) Unban(ctx context.Context, banID string) error {
	if banID == "" {
		return invalidArgument("ban id is empty")
	}
	u, err := c.banlistURL()
	if err != nil {
		return err
	}
	return c.deleteForm(ctx, u.build(), url.Values{
		"ban_id": {banID},
	})
}
