package ide

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/brettbedarf/stshell"
	"github.com/brettbedarf/stshell/tree"
)

// FetchTree returns the resource tree of the application owner
func (c *Client) FetchTree(ctx context.Context, kind stshell.Kind, owner string) ([]stshell.ResourceNode, error) {
	routes, err := c.routes.Routes(kind)
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, routes.Resources, url.Values{"id": {owner}}, nil)
	if err != nil {
		return nil, err
	}
	r, err := c.do(req, true)
	if err != nil {
		return nil, err
	}
	if err := expect("resources", r, http.StatusOK); err != nil {
		return nil, err
	}
	return tree.Decode(r.body)
}

// FetchItem downloads the content of one resource of the application owner
func (c *Client) FetchItem(ctx context.Context, kind stshell.Kind, owner, itemID, resourceType string) ([]byte, error) {
	routes, err := c.routes.Routes(kind)
	if err != nil {
		return nil, err
	}
	query := url.Values{"id": {owner}, "resourceId": {itemID}, "resourceType": {resourceType}}
	req, err := c.newRequest(ctx, http.MethodPost, routes.Download, query, nil)
	if err != nil {
		return nil, err
	}
	r, err := c.do(req, true)
	if err != nil {
		return nil, err
	}
	if err := expect("download", r, http.StatusOK); err != nil {
		return nil, err
	}
	return r.body, nil
}

// UploadItem adds a resource to an application. versionID is
// [stshell.EditorIDs.VersionID], not the application id. path is the
// folder inside the application ("" for the top level).
func (c *Client) UploadItem(ctx context.Context, kind stshell.Kind, versionID, filename, path string,
	uploadType stshell.UploadType, content []byte,
) error {
	routes, err := c.routes.Routes(kind)
	if err != nil {
		return err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fields := [][2]string{
		{"id", versionID},
		{"file-type|" + filename, string(uploadType)},
		{"file-path|" + filename, path},
		{"uploadResource", "Upload"},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return err
		}
	}
	part, err := mw.CreateFormFile("fileData", filename)
	if err != nil {
		return err
	}
	if _, err := part.Write(content); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, routes.Upload, nil, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r, err := c.do(req, true)
	if err != nil {
		return err
	}
	if err := expect("upload", r, http.StatusOK); err != nil {
		return err
	}
	c.logger.Info().Str("file", filename).Str("path", path).Str("type", string(uploadType)).Msg("Uploaded resource")
	return nil
}

// DeleteItem removes one resource from an application
func (c *Client) DeleteItem(ctx context.Context, kind stshell.Kind, owner, itemID string) error {
	routes, err := c.routes.Routes(kind)
	if err != nil {
		return err
	}
	req, err := c.newFormRequest(ctx, routes.DeleteItem, nil, url.Values{"id": {owner}, "resourceId": {itemID}})
	if err != nil {
		return err
	}
	r, err := c.do(req, true)
	if err != nil {
		return err
	}
	if err := expect("delete", r, http.StatusOK); err != nil {
		return err
	}
	c.logger.Info().Str("owner", owner).Str("item", itemID).Msg("Deleted resource")
	return nil
}

// Source binds the client to one kind, giving the bundle downloader its
// [stshell.BundleSource]
func (c *Client) Source(kind stshell.Kind) *Source {
	return &Source{client: c, kind: kind}
}

// Source implements [stshell.BundleSource] for a single application kind
type Source struct {
	client *Client
	kind   stshell.Kind
}

func (s *Source) Kind() stshell.Kind {
	return s.kind
}

func (s *Source) FetchTree(ctx context.Context, owner string) ([]stshell.ResourceNode, error) {
	return s.client.FetchTree(ctx, s.kind, owner)
}

func (s *Source) FetchItem(ctx context.Context, owner, itemID, resourceType string) ([]byte, error) {
	return s.client.FetchItem(ctx, s.kind, owner, itemID, resourceType)
}

var _ stshell.BundleSource = (*Source)(nil)
