// Package itsmapi defines the narrow interface the transfer orchestrator
// needs from the remote attachment store, so it can be mocked in tests.
package itsmapi

import (
	"context"

	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/attachmenttypes"
)

// AttachmentAPI defines the operations used by this module.
type AttachmentAPI interface {
	// Fetch retrieves the attachment content and response metadata.
	// A non-2xx status is not an error at this level.
	Fetch(ctx context.Context, attachmentID string) (*attachmenttypes.Response, error)

	// Persist writes payload to destinationPath, creating or truncating it.
	Persist(payload []byte, destinationPath string) error
}
