// Package metadata parses the structured values the remote service attaches
// to a response: the JSON attachment-metadata header and JSON error bodies.
package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/attachmenttypes"
)

var (
	// ErrMissingHeader is returned when the metadata header is absent or blank.
	ErrMissingHeader = errors.New("metadata header missing")

	// ErrMissingSize is returned when the metadata object has no size_bytes field.
	ErrMissingSize = errors.New("size_bytes missing")

	// ErrInvalidSize is returned when size_bytes is not a non-negative integer.
	ErrInvalidSize = errors.New("size_bytes is not a non-negative integer")

	// ErrTrailingData is returned when the header holds more than one JSON value.
	ErrTrailingData = errors.New("unexpected data after metadata object")
)

// DeclaredSize extracts size_bytes from the attachment-metadata header.
// The field may be a JSON integer or a string holding a decimal integer.
func DeclaredSize(header http.Header) (int64, error) {
	raw := strings.TrimSpace(header.Get(attachmenttypes.MetadataHeader))
	if raw == "" {
		return 0, ErrMissingHeader
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return 0, fmt.Errorf("decode %s: %w", attachmenttypes.MetadataHeader, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("decode %s: %w", attachmenttypes.MetadataHeader, ErrTrailingData)
	}

	value, ok := fields["size_bytes"]
	if !ok || value == nil {
		return 0, ErrMissingSize
	}

	var text string
	switch v := value.(type) {
	case json.Number:
		text = v.String()
	case string:
		text = strings.TrimSpace(v)
	default:
		return 0, fmt.Errorf("%w: unexpected type %T", ErrInvalidSize, value)
	}

	size, err := strconv.ParseInt(text, 10, 64)
	if err != nil || size < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, text)
	}
	return size, nil
}

// errorBody is the JSON document returned with a failure status.
type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	} `json:"error"`
}

// ErrorDetail extracts error.detail from a failure body. When the body is
// not the expected JSON document, or carries no detail, it falls back to
// error.message and then to the trimmed raw body.
func ErrorDetail(body []byte) string {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Error.Detail != "" {
			return parsed.Error.Detail
		}
		if parsed.Error.Message != "" {
			return parsed.Error.Message
		}
	}
	return string(bytes.TrimSpace(body))
}
