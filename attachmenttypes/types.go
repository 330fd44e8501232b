// Package attachmenttypes provides shared type definitions for the attachment module.
package attachmenttypes

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
)

const (
	// DefaultAPIPath is the ServiceNow attachment-content endpoint. The
	// single %s verb is replaced with the path-escaped attachment ID.
	DefaultAPIPath = "/api/now/attachment/%s/file"

	// DefaultTimeout bounds a single fetch when no timeout is configured.
	DefaultTimeout = 60 * time.Second

	// DefaultChunkSize is the read size used when re-hashing the persisted file.
	DefaultChunkSize = 64 * 1024

	// MetadataHeader carries the JSON metadata object describing the attachment.
	MetadataHeader = "X-Attachment-Metadata"

	// StatusOK is the report message for a verified transfer.
	StatusOK = "OK"
)

// Clock abstracts wall-clock access so elapsed time can be tested deterministically.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the Clock backed by time.Now.
var SystemClock Clock = ClockFunc(time.Now)

// Credentials holds already-issued credentials for the remote service.
// When AccessToken is set it is sent as a bearer token and the basic-auth
// pair is ignored.
type Credentials struct {
	Username    string
	Password    string
	AccessToken string
}

// String never reveals secret material.
func (c Credentials) String() string {
	switch {
	case c.AccessToken != "":
		return "bearer(***)"
	case c.Username != "":
		return "basic(" + c.Username + ":***)"
	default:
		return "anonymous"
	}
}

// ClientConfig holds configuration for the attachment client.
type ClientConfig struct {
	// Host is the base URL of the remote instance, e.g. https://dev.service-now.com.
	// A bare host name is given the https scheme.
	Host string `validate:"required"`

	// APIPath is the endpoint template; see DefaultAPIPath.
	APIPath string `validate:"required,contains=%s"`

	// Credentials used for every request.
	Credentials Credentials `validate:"-"`

	// Timeout bounds each HTTP exchange. Zero disables the client timeout
	// and leaves cancellation to the caller's context.
	Timeout time.Duration `validate:"gte=0"`

	// ChunkSize is the read size used to stream the persisted file when
	// computing the destination checksum.
	ChunkSize int `validate:"gt=0"`

	// HTTPClient overrides the HTTP client. Timeout is ignored when set.
	HTTPClient *http.Client `validate:"-"`

	// Filesystem is where attachments are persisted. Defaults to the native OS filesystem.
	Filesystem billy.Filesystem `validate:"-"`

	// Logger receives structured transfer logs. Nil disables logging.
	Logger *slog.Logger `validate:"-"`

	// Clock supplies timestamps for elapsed-time measurement. Defaults to SystemClock.
	Clock Clock `validate:"-"`
}

// BaseURL returns Host with a scheme and without a trailing slash.
func (c *ClientConfig) BaseURL() string {
	host := strings.TrimRight(strings.TrimSpace(c.Host), "/")
	if host == "" {
		return ""
	}
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	return host
}

// Option configures a ClientConfig.
type Option func(*ClientConfig)

// TransferRequest identifies one attachment and where to store it.
type TransferRequest struct {
	// AttachmentID is the opaque remote identifier (a ServiceNow sys_id).
	AttachmentID string `validate:"required"`

	// DestinationPath is the local file the attachment is written to.
	DestinationPath string `validate:"required"`
}

// NewTransferRequest builds a TransferRequest. Whitespace around either
// value is trimmed; validation happens when the request is run.
func NewTransferRequest(attachmentID, destinationPath string) TransferRequest {
	return TransferRequest{
		AttachmentID:    strings.TrimSpace(attachmentID),
		DestinationPath: strings.TrimSpace(destinationPath),
	}
}

// Response is the raw result of fetching an attachment.
type Response struct {
	// StatusCode is the HTTP status code
	StatusCode int

	// Header holds the response headers
	Header http.Header

	// Body is the complete response payload
	Body []byte
}

// TransferReport describes a verified transfer.
type TransferReport struct {
	// SizeBytes is the size declared by the remote metadata header
	SizeBytes int64 `json:"size"`

	// ElapsedSeconds is the wall-clock time from fetch to persist, one decimal place
	ElapsedSeconds float64 `json:"elapsed"`

	// ChecksumSource is the hex SHA-256 of the payload as received
	ChecksumSource string `json:"checksum_src"`

	// ChecksumDestination is the hex SHA-256 of the persisted file
	ChecksumDestination string `json:"checksum_dest"`

	// StatusCode is the HTTP status of the fetch
	StatusCode int `json:"status_code"`

	// Message is "OK" for a verified transfer
	Message string `json:"msg"`

	// MIMEType is the content type sniffed from the payload
	MIMEType string `json:"mime_type"`
}

// Fields returns the report as a flat mapping of field name to value.
func (r *TransferReport) Fields() map[string]any {
	return map[string]any{
		"size":          r.SizeBytes,
		"elapsed":       r.ElapsedSeconds,
		"checksum_src":  r.ChecksumSource,
		"checksum_dest": r.ChecksumDestination,
		"status_code":   r.StatusCode,
		"msg":           r.Message,
		"mime_type":     r.MIMEType,
	}
}
