package attachment

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-git/go-billy/v5"

	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/attachmenttypes"
	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/internal/itsmapi"
	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/internal/localfs"
	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/internal/operations/transfer"
	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/internal/remote"
	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/internal/validation"
)

// Client downloads attachments from one remote instance.
// Its configuration is fixed at construction, so a Client may be reused
// for any number of sequential transfers.
type Client struct {
	// api performs the fetch and persist steps
	api itsmapi.AttachmentAPI

	// httpClient is nil when api was supplied by the caller
	httpClient *http.Client

	// fs is where attachments are written and read back from
	fs billy.Filesystem

	// transfer runs the fetch, persist and verify sequence
	transfer *transfer.Orchestrator
}

// DefaultConfig returns the configuration New starts from before options
// are applied: the ServiceNow attachment endpoint, a 60 second timeout,
// 64KB hashing chunks, the native OS filesystem and the system clock.
func DefaultConfig() *attachmenttypes.ClientConfig {
	return &attachmenttypes.ClientConfig{
		APIPath:   attachmenttypes.DefaultAPIPath,
		Timeout:   attachmenttypes.DefaultTimeout,
		ChunkSize: attachmenttypes.DefaultChunkSize,
		Clock:     attachmenttypes.SystemClock,
	}
}

// New creates a Client for the instance configured with WithHost.
//
// Example:
//
//	client, err := attachment.New(
//	    attachment.WithHost("dev12345.service-now.com"),
//	    attachment.WithBearerToken(token),
//	    attachment.WithTimeout(30*time.Second),
//	)
func New(opts ...attachmenttypes.Option) (*Client, error) {
	cfg := buildConfig(opts)

	if err := validation.ValidateClientConfig(cfg); err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	api := remote.New(httpClient, cfg, cfg.Filesystem, cfg.Logger)

	cfg.Logger.Debug("attachment client created",
		"host", cfg.BaseURL(),
		"credentials", cfg.Credentials.String(),
		"timeout", cfg.Timeout,
	)

	return newClient(api, httpClient, cfg), nil
}

// NewWithAPI creates a Client around a custom AttachmentAPI implementation.
// This is primarily used for testing with mocked clients. The API must
// persist into the filesystem set with WithFilesystem, since the persisted
// file is read back from there for verification.
func NewWithAPI(api itsmapi.AttachmentAPI, opts ...attachmenttypes.Option) *Client {
	return newClient(api, nil, buildConfig(opts))
}

func buildConfig(opts []attachmenttypes.Option) *attachmenttypes.ClientConfig {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Filesystem == nil {
		cfg.Filesystem = localfs.NewNativeOS()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Clock == nil {
		cfg.Clock = attachmenttypes.SystemClock
	}
	return cfg
}

func newClient(api itsmapi.AttachmentAPI, httpClient *http.Client, cfg *attachmenttypes.ClientConfig) *Client {
	return &Client{
		api:        api,
		httpClient: httpClient,
		fs:         cfg.Filesystem,
		transfer:   transfer.New(api, cfg.Filesystem, cfg.Clock, cfg.Logger, cfg.ChunkSize),
	}
}

// Filesystem returns the filesystem attachments are persisted to.
func (c *Client) Filesystem() billy.Filesystem {
	return c.fs
}

// Download runs one verified transfer.
//
// On success the report carries the declared size, the elapsed time from
// fetch to persist, both SHA-256 digests and the HTTP status. On failure
// the returned error wraps one of the sentinel errors in the errors
// package; anything already written to the destination is left in place.
func (c *Client) Download(ctx context.Context, req attachmenttypes.TransferRequest) (*attachmenttypes.TransferReport, error) {
	return c.transfer.Run(ctx, req)
}

// DownloadFile is Download for an attachment ID and destination path.
func (c *Client) DownloadFile(ctx context.Context, attachmentID, destinationPath string) (*attachmenttypes.TransferReport, error) {
	return c.Download(ctx, attachmenttypes.NewTransferRequest(attachmentID, destinationPath))
}

// Fetch retrieves the raw attachment response without persisting it.
// Non-200 statuses are returned as responses, not errors.
func (c *Client) Fetch(ctx context.Context, attachmentID string) (*attachmenttypes.Response, error) {
	if err := validation.ValidateAttachmentID(attachmentID); err != nil {
		return nil, err
	}
	return c.api.Fetch(ctx, attachmentID)
}

// Persist writes payload to destinationPath, replacing any existing content.
func (c *Client) Persist(payload []byte, destinationPath string) error {
	if err := validation.ValidateDestinationPath(destinationPath); err != nil {
		return err
	}
	return c.api.Persist(payload, destinationPath)
}

// Close releases idle HTTP connections held by the client.
func (c *Client) Close() {
	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}
}
