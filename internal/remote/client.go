// Package remote implements the attachment store client: one HTTP GET to
// fetch an attachment and one filesystem write to persist it.
package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"github.com/go-git/go-billy/v5"

	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/attachmenttypes"
	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/errors"
	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/internal/itsmapi"
)

// filePerm is applied to newly created attachment files.
const filePerm os.FileMode = 0o644

// Client talks to the remote attachment endpoint and writes payloads to a
// billy filesystem. It owns no state beyond the handles it is given.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiPath     string
	credentials attachmenttypes.Credentials
	fs          billy.Filesystem
	logger      *slog.Logger
}

var _ itsmapi.AttachmentAPI = (*Client)(nil)

// New creates a Client from a validated configuration.
func New(httpClient *http.Client, cfg *attachmenttypes.ClientConfig, fsys billy.Filesystem, logger *slog.Logger) *Client {
	return &Client{
		httpClient:  httpClient,
		baseURL:     cfg.BaseURL(),
		apiPath:     cfg.APIPath,
		credentials: cfg.Credentials,
		fs:          fsys,
		logger:      logger,
	}
}

// Endpoint returns the URL an attachment is fetched from.
func (c *Client) Endpoint(attachmentID string) string {
	return c.baseURL + fmt.Sprintf(c.apiPath, url.PathEscape(attachmentID))
}

// Fetch issues a GET for the attachment content. The whole body is read
// into memory. Any status code is returned to the caller unchanged; only
// transport failures are errors.
func (c *Client) Fetch(ctx context.Context, attachmentID string) (*attachmenttypes.Response, error) {
	endpoint := c.Endpoint(attachmentID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, errors.NewError("fetch", errors.Wrap(errors.ErrRemoteService, err)).
			WithAttachment(attachmentID)
	}
	req.Header.Set("Accept", "*/*")
	c.authorize(req)

	c.logger.Debug("fetching attachment", "attachment_id", attachmentID, "url", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewError("fetch", errors.Wrap(errors.ErrRemoteService, err)).
			WithAttachment(attachmentID)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewError("fetch", errors.Wrap(errors.ErrRemoteService, err)).
			WithAttachment(attachmentID).
			WithStatus(resp.StatusCode)
	}

	c.logger.Debug("attachment response received",
		"attachment_id", attachmentID,
		"status", resp.StatusCode,
		"bytes", len(body),
	)

	return &attachmenttypes.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// Persist writes payload to destinationPath, creating the file or
// truncating an existing one. Missing parent directories are created by
// the billy filesystem.
func (c *Client) Persist(payload []byte, destinationPath string) error {
	f, err := c.fs.OpenFile(destinationPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return errors.NewError("persist", errors.Wrap(errors.ErrIO, err)).WithPath(destinationPath)
	}

	n, err := io.Copy(f, bytes.NewReader(payload))
	if err != nil {
		_ = f.Close()
		return errors.NewError("persist", errors.Wrap(errors.ErrIO, err)).WithPath(destinationPath)
	}
	if err := f.Close(); err != nil {
		return errors.NewError("persist", errors.Wrap(errors.ErrIO, err)).WithPath(destinationPath)
	}

	c.logger.Debug("attachment persisted", "path", destinationPath, "bytes", n)
	return nil
}

func (c *Client) authorize(req *http.Request) {
	switch {
	case c.credentials.AccessToken != "":
		req.Header.Set("Authorization", "Bearer "+c.credentials.AccessToken)
	case c.credentials.Username != "":
		req.SetBasicAuth(c.credentials.Username, c.credentials.Password)
	}
}
