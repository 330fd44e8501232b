package transfer

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-git/go-billy/v5"
	"github.com/google/uuid"

	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/attachmenttypes"
	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/errors"
	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/internal/checksum"
	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/internal/itsmapi"
	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/internal/metadata"
	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/internal/validation"
)

const op = "download"

// State names the stage a transfer has reached. Transitions are logged at
// debug level: start, fetched, persisted, then verified or failed.
type State string

const (
	StateStart     State = "start"
	StateFetched   State = "fetched"
	StatePersisted State = "persisted"
	StateVerified  State = "verified"
	StateFailed    State = "failed"
)

// Orchestrator runs transfers against an AttachmentAPI.
type Orchestrator struct {
	api       itsmapi.AttachmentAPI
	fs        billy.Filesystem
	clock     attachmenttypes.Clock
	logger    *slog.Logger
	chunkSize int
}

// New creates an Orchestrator. fsys must be the filesystem api persists to,
// since the destination digest is computed by reading the file back from it.
// A nil clock falls back to the system clock and a nil logger discards output.
func New(
	api itsmapi.AttachmentAPI,
	fsys billy.Filesystem,
	clock attachmenttypes.Clock,
	logger *slog.Logger,
	chunkSize int,
) *Orchestrator {
	if clock == nil {
		clock = attachmenttypes.SystemClock
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if chunkSize <= 0 {
		chunkSize = attachmenttypes.DefaultChunkSize
	}
	return &Orchestrator{
		api:       api,
		fs:        fsys,
		clock:     clock,
		logger:    logger,
		chunkSize: chunkSize,
	}
}

// Run performs one transfer and returns its report.
func (o *Orchestrator) Run(ctx context.Context, req attachmenttypes.TransferRequest) (*attachmenttypes.TransferReport, error) {
	log := o.logger.With(
		"transfer_id", uuid.NewString(),
		"attachment_id", req.AttachmentID,
		"path", req.DestinationPath,
	)

	report, err := o.run(ctx, req, log)
	if err != nil {
		log.Debug("transfer state", "state", StateFailed, "error", err)
		return nil, err
	}
	return report, nil
}

func (o *Orchestrator) run(
	ctx context.Context,
	req attachmenttypes.TransferRequest,
	log *slog.Logger,
) (*attachmenttypes.TransferReport, error) {
	if err := validation.ValidateTransferRequest(req); err != nil {
		return nil, err
	}

	start := o.clock.Now()
	log.Debug("transfer state", "state", StateStart)

	resp, err := o.api.Fetch(ctx, req.AttachmentID)
	if err != nil {
		return nil, err
	}
	if err := classify(req.AttachmentID, resp); err != nil {
		return nil, err
	}
	log.Debug("transfer state", "state", StateFetched, "status", resp.StatusCode, "bytes", len(resp.Body))

	if err := o.api.Persist(resp.Body, req.DestinationPath); err != nil {
		return nil, err
	}
	elapsed := ElapsedSeconds(start, o.clock.Now())
	log.Debug("transfer state", "state", StatePersisted, "elapsed", elapsed)

	source := checksum.Bytes(resp.Body)
	destination, written, err := checksum.File(o.fs, req.DestinationPath, o.chunkSize)
	if err != nil {
		return nil, errors.NewError(op, errors.Wrap(errors.ErrIO, err)).
			WithAttachment(req.AttachmentID).
			WithPath(req.DestinationPath)
	}

	size, err := metadata.DeclaredSize(resp.Header)
	if err != nil {
		return nil, errors.NewError(op, errors.Wrap(errors.ErrMalformedMetadata, err)).
			WithAttachment(req.AttachmentID).
			WithStatus(resp.StatusCode)
	}

	if source != destination {
		return nil, errors.NewError(op, errors.ErrChecksumMismatch).
			WithAttachment(req.AttachmentID).
			WithPath(req.DestinationPath).
			WithMessage(fmt.Sprintf("source %s, destination %s", source, destination))
	}
	if size != written {
		return nil, errors.NewError(op, errors.ErrSizeMismatch).
			WithAttachment(req.AttachmentID).
			WithPath(req.DestinationPath).
			WithMessage(fmt.Sprintf("declared %d bytes, persisted %d bytes", size, written))
	}
	log.Debug("transfer state", "state", StateVerified, "checksum", source, "size", size)

	return &attachmenttypes.TransferReport{
		SizeBytes:           size,
		ElapsedSeconds:      elapsed,
		ChecksumSource:      source,
		ChecksumDestination: destination,
		StatusCode:          resp.StatusCode,
		Message:             attachmenttypes.StatusOK,
		MIMEType:            mimetype.Detect(resp.Body).String(),
	}, nil
}

// classify maps a non-200 response to the matching failure.
func classify(attachmentID string, resp *attachmenttypes.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return errors.NewRemoteError(op, attachmentID, resp.StatusCode, errors.ErrAttachmentNotFound).
			WithMessage(fmt.Sprintf("Status code: %d, Details: %s", resp.StatusCode, metadata.ErrorDetail(resp.Body)))
	default:
		return errors.NewRemoteError(op, attachmentID, resp.StatusCode, errors.ErrRemoteRequestFailed).
			WithMessage(fmt.Sprintf("Status code: %d, Details: %s", resp.StatusCode, string(resp.Body)))
	}
}

// ElapsedSeconds returns end-start in seconds rounded to one decimal place.
// A clock that moves backwards yields zero.
func ElapsedSeconds(start, end time.Time) float64 {
	seconds := end.Sub(start).Seconds()
	if seconds < 0 {
		return 0
	}
	return math.Round(seconds*10) / 10
}
