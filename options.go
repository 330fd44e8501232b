package attachment

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-git/go-billy/v5"

	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/attachmenttypes"
)

// WithHost sets the base URL of the remote instance.
// A bare host name such as dev12345.service-now.com is given the https scheme.
func WithHost(host string) attachmenttypes.Option {
	return func(c *attachmenttypes.ClientConfig) {
		c.Host = host
	}
}

// WithAPIPath overrides the attachment-content endpoint template.
// The template must contain a single %s verb for the attachment ID.
func WithAPIPath(path string) attachmenttypes.Option {
	return func(c *attachmenttypes.ClientConfig) {
		c.APIPath = path
	}
}

// WithBasicAuth authenticates with a username and password.
func WithBasicAuth(username, password string) attachmenttypes.Option {
	return func(c *attachmenttypes.ClientConfig) {
		c.Credentials.Username = username
		c.Credentials.Password = password
	}
}

// WithBearerToken authenticates with an already-issued access token.
// When set it takes precedence over basic authentication.
func WithBearerToken(token string) attachmenttypes.Option {
	return func(c *attachmenttypes.ClientConfig) {
		c.Credentials.AccessToken = token
	}
}

// WithTimeout bounds each HTTP exchange. Default is 60 seconds; zero
// leaves cancellation entirely to the caller's context.
// It has no effect when WithHTTPClient is used.
func WithTimeout(timeout time.Duration) attachmenttypes.Option {
	return func(c *attachmenttypes.ClientConfig) {
		c.Timeout = timeout
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *http.Client) attachmenttypes.Option {
	return func(c *attachmenttypes.ClientConfig) {
		c.HTTPClient = client
	}
}

// WithFilesystem sets the filesystem attachments are persisted to and
// read back from. Defaults to the native OS filesystem.
func WithFilesystem(fsys billy.Filesystem) attachmenttypes.Option {
	return func(c *attachmenttypes.ClientConfig) {
		c.Filesystem = fsys
	}
}

// WithLogger sets the structured logger. Passing nil disables logging.
func WithLogger(logger *slog.Logger) attachmenttypes.Option {
	return func(c *attachmenttypes.ClientConfig) {
		c.Logger = logger
	}
}

// WithClock sets the clock used to measure elapsed time.
func WithClock(clock attachmenttypes.Clock) attachmenttypes.Option {
	return func(c *attachmenttypes.ClientConfig) {
		c.Clock = clock
	}
}

// WithChunkSize sets the read size used when hashing the persisted file.
// Default is 64KB. Non-positive values are ignored.
func WithChunkSize(size int) attachmenttypes.Option {
	return func(c *attachmenttypes.ClientConfig) {
		if size > 0 {
			c.ChunkSize = size
		}
	}
}
