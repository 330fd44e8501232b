// Package attachment provides end-to-end tests against a fake instance.
package attachment

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/attachmenttypes"
	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/errors"
	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/internal/checksum"
	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/internal/localfs"
	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/internal/testutil"
)

const (
	sysID       = "0061f0c510247200964f77ffeec6c4de"
	helloSHA256 = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
)

func newFakeClient(t *testing.T, instance *testutil.FakeInstance, opts ...attachmenttypes.Option) *Client {
	t.Helper()

	base := []attachmenttypes.Option{
		WithHost(instance.URL),
		WithBasicAuth("admin", "secret"),
		WithFilesystem(localfs.NewInMemory()),
	}
	client, err := New(append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestClient_Download(t *testing.T) {
	instance := testutil.NewFakeInstance(t)
	instance.Add(sysID, testutil.Attachment{Body: []byte("hello world")})

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	client := newFakeClient(t, instance, WithClock(testutil.NewStepClock(start, 420*time.Millisecond)))

	report, err := client.DownloadFile(context.Background(), sysID, "/tmp/sn-attachment")
	require.NoError(t, err)

	assert.Equal(t, &attachmenttypes.TransferReport{
		SizeBytes:           11,
		ElapsedSeconds:      0.4,
		ChecksumSource:      helloSHA256,
		ChecksumDestination: helloSHA256,
		StatusCode:          http.StatusOK,
		Message:             "OK",
		MIMEType:            report.MIMEType,
	}, report)

	got, err := util.ReadFile(client.Filesystem(), "/tmp/sn-attachment")
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(got))

	reqs := instance.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/api/now/attachment/"+sysID+"/file", reqs[0].URL.Path)
}

func TestClient_Download_ReportFields(t *testing.T) {
	instance := testutil.NewFakeInstance(t)
	instance.Add(sysID, testutil.Attachment{Body: []byte("hello world")})
	client := newFakeClient(t, instance)

	report, err := client.DownloadFile(context.Background(), sysID, "/tmp/sn-attachment")
	require.NoError(t, err)

	fields := report.Fields()
	for _, key := range []string{"size", "elapsed", "checksum_src", "checksum_dest", "status_code", "msg"} {
		assert.Contains(t, fields, key)
	}
	assert.Equal(t, "OK", fields["msg"])

	encoded, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"checksum_dest":"`+helloSHA256+`"`)
	assert.Contains(t, string(encoded), `"size":11`)
}

func TestClient_Download_LargeBinary(t *testing.T) {
	payload := make([]byte, 3*1024*1024+17)
	_, err := rand.Read(payload)
	require.NoError(t, err)

	instance := testutil.NewFakeInstance(t)
	instance.Add(sysID, testutil.Attachment{Body: payload})
	client := newFakeClient(t, instance, WithChunkSize(8*1024))

	report, err := client.DownloadFile(context.Background(), sysID, "/data/large.bin")
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), report.SizeBytes)
	assert.Equal(t, checksum.Bytes(payload), report.ChecksumDestination)
}

func TestClient_Download_Failures(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*testutil.FakeInstance)
		id         string
		check      func(error) bool
		wantCode   errors.ErrorCode
		wantMsg    string
		wantOnDisk bool
	}{
		{
			name:     "unknown attachment",
			setup:    func(*testutil.FakeInstance) {},
			id:       "ffffffffffffffffffffffffffffffff",
			check:    errors.IsAttachmentNotFound,
			wantCode: errors.CodeNotFound,
			wantMsg:  "Status code: 404, Details: Attachment not found",
		},
		{
			name: "server error",
			setup: func(f *testutil.FakeInstance) {
				f.Status = http.StatusInternalServerError
				f.StatusBody = `{"error":{"message":"boom"}}`
			},
			id:       sysID,
			check:    errors.IsRemoteRequestFailed,
			wantCode: errors.CodeExecutionFailed,
			wantMsg:  "Status code: 500",
		},
		{
			name: "metadata header missing",
			setup: func(f *testutil.FakeInstance) {
				f.Add(sysID, testutil.Attachment{Body: []byte("hello world"), OmitMetadata: true})
			},
			id:         sysID,
			check:      errors.IsMalformedMetadata,
			wantCode:   errors.CodeSchemaFailed,
			wantMsg:    "metadata header missing",
			wantOnDisk: true,
		},
		{
			name: "declared size disagrees",
			setup: func(f *testutil.FakeInstance) {
				f.Add(sysID, testutil.Attachment{Body: []byte("hello world"), Metadata: `{"size_bytes":"42"}`})
			},
			id:         sysID,
			check:      func(err error) bool { return errors.Code(err) == errors.CodeIntegrity },
			wantCode:   errors.CodeIntegrity,
			wantMsg:    "declared 42 bytes",
			wantOnDisk: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instance := testutil.NewFakeInstance(t)
			tt.setup(instance)
			client := newFakeClient(t, instance)

			report, err := client.DownloadFile(context.Background(), tt.id, "/tmp/sn-attachment")
			require.Error(t, err)
			assert.Nil(t, report)
			assert.True(t, tt.check(err), "unexpected error kind: %v", err)
			assert.Equal(t, tt.wantCode, errors.Code(err))
			assert.Contains(t, err.Error(), tt.wantMsg)

			_, statErr := client.Filesystem().Stat("/tmp/sn-attachment")
			if tt.wantOnDisk {
				assert.NoError(t, statErr, "a failed verification leaves the file in place")
			} else {
				assert.Error(t, statErr)
			}
		})
	}
}

func TestClient_Download_Unreachable(t *testing.T) {
	instance := testutil.NewFakeInstance(t)
	client := newFakeClient(t, instance)
	instance.Close()

	_, err := client.DownloadFile(context.Background(), sysID, "/tmp/sn-attachment")
	require.Error(t, err)
	assert.True(t, errors.IsRemoteService(err))
	assert.Equal(t, errors.CodeNetwork, errors.Code(err))
}

func TestClient_Download_NativeOS(t *testing.T) {
	instance := testutil.NewFakeInstance(t)
	instance.Add(sysID, testutil.Attachment{Body: []byte("hello world")})

	client, err := New(WithHost(instance.URL), WithBearerToken("token"))
	require.NoError(t, err)
	t.Cleanup(client.Close)

	dest := filepath.Join(t.TempDir(), "sn-attachment")
	report, err := client.DownloadFile(context.Background(), sysID, dest)
	require.NoError(t, err)
	assert.Equal(t, helloSHA256, report.ChecksumDestination)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(got))
	assert.Equal(t, "Bearer token", instance.Requests()[0].Header.Get("Authorization"))
}

func TestClient_FetchAndPersist(t *testing.T) {
	instance := testutil.NewFakeInstance(t)
	instance.Add(sysID, testutil.Attachment{Body: []byte("hello world")})
	client := newFakeClient(t, instance)

	resp, err := client.Fetch(context.Background(), sysID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, client.Persist(resp.Body, "/out/file.txt"))
	got, err := util.ReadFile(client.Filesystem(), "/out/file.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(got))

	_, err = client.Fetch(context.Background(), "")
	assert.True(t, errors.IsInvalidInput(err))

	err = client.Persist([]byte("x"), "")
	assert.True(t, errors.IsInvalidInput(err))
	assert.Len(t, instance.Requests(), 1, "invalid input never reaches the instance")
}

func TestClient_Download_WithMockAPI(t *testing.T) {
	fsys := localfs.NewInMemory()
	api := &testutil.MockAttachmentAPI{
		FetchFunc: func(_ context.Context, _ string) (*attachmenttypes.Response, error) {
			return testutil.OKResponse([]byte("hello world"), "11"), nil
		},
		PersistFunc: testutil.PersistTo(fsys),
	}

	client := NewWithAPI(api, WithFilesystem(fsys))
	report, err := client.Download(context.Background(), attachmenttypes.NewTransferRequest(sysID, "/tmp/sn-attachment"))
	require.NoError(t, err)
	assert.Equal(t, helloSHA256, report.ChecksumSource)
	assert.Equal(t, []string{sysID}, api.FetchCalls)
}
