package client

import (
	"context"
	"net/url"
	"time"
)

// ListFilter narrows queue priority and whitelist listings. Empty fields are not sent.
type ListFilter struct {
	CFToolsID string
	Comment   string
}

// ListEntryRequest creates a queue priority or whitelist entry.
// A nil ExpiresAt creates a permanent entry.
type ListEntryRequest struct {
	CFToolsID string
	ExpiresAt *time.Time
	Comment   string
}

func (r ListEntryRequest) form() (url.Values, error) {
	if r.CFToolsID == "" {
		return nil, invalidArgument("cftools id is empty")
	}
	form := url.Values{
		"cftools_id": {r.CFToolsID},
		"comment":    {r.Comment},
	}
	if r.ExpiresAt != nil {
		form.Set("expires_at", r.ExpiresAt.UTC().Format(time.RFC3339))
	}
	return form, nil
}

func (c *Client) listEntries(ctx context.Context, route string, filter ListFilter) ([]ListEntry, error) {
	u, err := c.serverURL(route)
	if err != nil {
		return nil, err
	}
	if filter.CFToolsID != "" {
		u.addQueryParam("cftools_id", filter.CFToolsID)
	}
	if filter.Comment != "" {
		u.addQueryParam("comment", filter.Comment)
	}
	var resp listEntriesResponse
	if err := c.get(ctx, u.build(), &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

func (c *Client) addEntry(ctx context.Context, route string, req ListEntryRequest) error {
	form, err := req.form()
	if err != nil {
		return err
	}
	u, err := c.serverURL(route)
	if err != nil {
		return err
	}
	return c.postForm(ctx, u.build(), form)
}

func (c *Client) deleteEntry(ctx context.Context, route, cftoolsID string) error {
	if cftoolsID == "" {
		return invalidArgument("cftools id is empty")
	}
	u, err := c.serverURL(route)
	if err != nil {
		return err
	}
	return c.deleteForm(ctx, u.build(), url.Values{
		"cftools_id": {cftoolsID},
	})
}

// ListQueuePriority lists the queue priority entries of the server.
func (c *Client) ListQueuePriority(ctx context.Context, filter ListFilter) ([]ListEntry, error) {
	return c.listEntries(ctx, ServerQueueRoute, filter)
}

// AddQueuePriority grants a player queue priority.
func (c *Client) AddQueuePriority(ctx context.Context, req ListEntryRequest) error {
	return c.addEntry(ctx, ServerQueueRoute, req)
}

// DeleteQueuePriority revokes the queue priority of a player.
func (c *Client) DeleteQueuePriority(ctx context.Context, cftoolsID string) error {
	return c.deleteEntry(ctx, ServerQueueRoute, cftoolsID)
}

// ListWhitelist lists the whitelist entries of the server.
func (c *Client) ListWhitelist(ctx context.Context, filter ListFilter) ([]ListEntry, error) {
	return c.listEntries(ctx, ServerWhitelistRoute, filter)
}

// AddWhitelist whitelists a player.
func (c *Client) AddWhitelist(ctx context.Context, req ListEntryRequest) error {
	return c.addEntry(ctx, ServerWhitelistRoute, req)
}

// DeleteWhitelist removes a player from the whitelist.
func (c *Client) DeleteWhitelist(ctx context.Context, cftoolsID string) error {
	return c.deleteEntry(ctx, ServerWhitelistRoute, cftoolsID)
}
