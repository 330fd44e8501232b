// Package testutil provides test utilities and mocks for attachment transfers.
// This package is internal and should only be used for testing within the module.
package testutil

import (
	"context"
	"net/http"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/attachmenttypes"
	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/internal/itsmapi"
)

// MockAttachmentAPI is a mock implementation of the AttachmentAPI interface.
// It allows customization of each operation through function fields.
type MockAttachmentAPI struct {
	FetchFunc   func(context.Context, string) (*attachmenttypes.Response, error)
	PersistFunc func([]byte, string) error

	// FetchCalls and PersistCalls record the arguments of every call.
	FetchCalls   []string
	PersistCalls []string
}

var _ itsmapi.AttachmentAPI = (*MockAttachmentAPI)(nil)

// Fetch mocks the attachment fetch.
func (m *MockAttachmentAPI) Fetch(ctx context.Context, attachmentID string) (*attachmenttypes.Response, error) {
	m.FetchCalls = append(m.FetchCalls, attachmentID)
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, attachmentID)
	}
	return &attachmenttypes.Response{StatusCode: http.StatusOK, Header: http.Header{}}, nil
}

// Persist mocks the attachment write.
func (m *MockAttachmentAPI) Persist(payload []byte, destinationPath string) error {
	m.PersistCalls = append(m.PersistCalls, destinationPath)
	if m.PersistFunc != nil {
		return m.PersistFunc(payload, destinationPath)
	}
	return nil
}

// PersistTo returns a PersistFunc that writes into fsys, the way the real
// client does.
func PersistTo(fsys billy.Filesystem) func([]byte, string) error {
	return func(payload []byte, path string) error {
		return util.WriteFile(fsys, path, payload, 0o644)
	}
}

// OKResponse builds a 200 response with body and a metadata header that
// declares sizeBytes.
func OKResponse(body []byte, sizeBytes string) *attachmenttypes.Response {
	h := http.Header{}
	if sizeBytes != "" {
		h.Set(attachmenttypes.MetadataHeader, `{"size_bytes":`+sizeBytes+`}`)
	}
	return &attachmenttypes.Response{StatusCode: http.StatusOK, Header: h, Body: body}
}

// StatusResponse builds a response with the given status and body and no metadata.
func StatusResponse(status int, body string) *attachmenttypes.Response {
	return &attachmenttypes.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       []byte(body),
	}
}
