package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/attachmenttypes"
)

// attachmentPrefix is the path prefix served by FakeInstance.
const attachmentPrefix = "/api/now/attachment/"

// Attachment describes one file served by FakeInstance.
type Attachment struct {
	Body []byte

	// Metadata overrides the metadata header value. When empty the header
	// declares len(Body) as size_bytes; use OmitMetadata to drop it.
	Metadata     string
	OmitMetadata bool
}

// FakeInstance is an httptest-backed stand-in for a ServiceNow instance
// serving the attachment-content endpoint.
type FakeInstance struct {
	*httptest.Server

	mu          sync.Mutex
	attachments map[string]Attachment
	requests    []*http.Request

	// Status, when non-zero, is returned for every request with StatusBody.
	Status     int
	StatusBody string
}

// NewFakeInstance starts a fake instance that is closed when the test ends.
func NewFakeInstance(t testing.TB) *FakeInstance {
	t.Helper()

	f := &FakeInstance{attachments: make(map[string]Attachment)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// Add registers an attachment under id.
func (f *FakeInstance) Add(id string, a Attachment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attachments[id] = a
}

// Requests returns a copy of the requests received so far.
func (f *FakeInstance) Requests() []*http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*http.Request(nil), f.requests...)
}

func (f *FakeInstance) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Clone(r.Context()))
	status, statusBody := f.Status, f.StatusBody
	f.mu.Unlock()

	if status != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(statusBody))
		return
	}

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id, ok := strings.CutPrefix(r.URL.Path, attachmentPrefix)
	id, hasSuffix := strings.CutSuffix(id, "/file")
	if !ok || !hasSuffix || id == "" {
		writeError(w, http.StatusBadRequest, "Invalid attachment path")
		return
	}

	f.mu.Lock()
	a, found := f.attachments[id]
	f.mu.Unlock()
	if !found {
		writeError(w, http.StatusNotFound, "Attachment not found")
		return
	}

	if !a.OmitMetadata {
		meta := a.Metadata
		if meta == "" {
			meta = `{"size_bytes":"` + strconv.Itoa(len(a.Body)) + `","sys_id":"` + id + `"}`
		}
		w.Header().Set(attachmenttypes.MetadataHeader, meta)
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.Body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"message": http.StatusText(status),
			"detail":  detail,
		},
		"status": "failure",
	})
}
