package ide

import (
	"context"
	"net/http"
	"net/url"

	"github.com/brettbedarf/stshell"
)

// ListApps returns every application of kind owned by the account
func (c *Client) ListApps(ctx context.Context, kind stshell.Kind) ([]stshell.App, error) {
	routes, err := c.routes.Routes(kind)
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, routes.List, nil, nil)
	if err != nil {
		return nil, err
	}
	r, err := c.do(req, true)
	if err != nil {
		return nil, err
	}
	if err := expect("list "+string(kind), r, http.StatusOK); err != nil {
		c.logger.Error().Err(err).Msg("Failed to get application list")
		return nil, err
	}

	apps, err := parseAppList(kind, routes, string(r.body))
	if err != nil {
		return nil, err
	}
	c.logger.Debug().Str("kind", string(kind)).Int("count", len(apps)).Msg("Listed applications")
	return apps, nil
}

// CreateApp creates a new application from source code and returns its id
func (c *Client) CreateApp(ctx context.Context, kind stshell.Kind, source []byte) (string, error) {
	routes, err := c.routes.Routes(kind)
	if err != nil {
		return "", err
	}
	form := url.Values{
		"fromCodeType": {"code"},
		"create":       {"Create"},
		"content":      {string(source)},
	}
	req, err := c.newFormRequest(ctx, routes.Create, nil, form)
	if err != nil {
		return "", err
	}
	r, err := c.do(req, false)
	if err != nil {
		return "", err
	}
	if err := expect("create "+string(kind), r, http.StatusFound); err != nil {
		c.logger.Error().Err(err).Msg("Unable to create item")
		return "", err
	}

	id, err := parseCreatedID(routes, r.location)
	if err != nil {
		return "", err
	}
	c.logger.Info().Str("kind", string(kind)).Str("id", id).Msg("Created application")
	return id, nil
}

// DestroyApp deletes an application and all of its resources
func (c *Client) DestroyApp(ctx context.Context, kind stshell.Kind, id string) error {
	routes, err := c.routes.Routes(kind)
	if err != nil {
		return err
	}

	var req *http.Request
	if routes.DestroyByForm {
		form := url.Values{"id": {id}, "_action_delete": {"Delete"}}
		req, err = c.newFormRequest(ctx, routes.Destroy, nil, form)
	} else {
		req, err = c.newRequest(ctx, http.MethodGet, routes.Destroy+url.PathEscape(id), nil, nil)
	}
	if err != nil {
		return err
	}
	r, err := c.do(req, false)
	if err != nil {
		return err
	}
	if err := expect("destroy "+string(kind), r, http.StatusFound); err != nil {
		return err
	}
	c.logger.Info().Str("kind", string(kind)).Str("id", id).Msg("Destroyed application")
	return nil
}

// EditorIDs scrapes the identifiers from an application's editor page.
// The returned VersionID is the id uploads must target.
func (c *Client) EditorIDs(ctx context.Context, kind stshell.Kind, id string) (*stshell.EditorIDs, error) {
	routes, err := c.routes.Routes(kind)
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodGet, routes.Editor+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}
	r, err := c.do(req, true)
	if err != nil {
		return nil, err
	}
	if err := expect("editor "+string(kind), r, http.StatusOK); err != nil {
		return nil, err
	}
	return parseEditorIDs(routes, string(r.body))
}
