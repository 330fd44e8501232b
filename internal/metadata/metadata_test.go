package metadata

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/attachmenttypes"
)

func headerWith(value string) http.Header {
	h := http.Header{}
	if value != "" {
		h.Set(attachmenttypes.MetadataHeader, value)
	}
	return h
}

func TestDeclaredSize(t *testing.T) {
	tests := []struct {
		name    string
		header  http.Header
		want    int64
		wantErr error
	}{
		{
			name:   "integer field",
			header: headerWith(`{"size_bytes": 11, "file_name": "hello.txt"}`),
			want:   11,
		},
		{
			name:   "string field",
			header: headerWith(`{"size_bytes":"1220"}`),
			want:   1220,
		},
		{
			name:   "zero size",
			header: headerWith(`{"size_bytes":0}`),
			want:   0,
		},
		{
			name:   "lowercase header name",
			header: http.Header{"X-Attachment-Metadata": []string{`{"size_bytes":5}`}},
			want:   5,
		},
		{
			name:    "missing header",
			header:  headerWith(""),
			wantErr: ErrMissingHeader,
		},
		{
			name:    "missing field",
			header:  headerWith(`{"file_name":"a"}`),
			wantErr: ErrMissingSize,
		},
		{
			name:    "null field",
			header:  headerWith(`{"size_bytes":null}`),
			wantErr: ErrMissingSize,
		},
		{
			name:    "fractional number",
			header:  headerWith(`{"size_bytes":1.5}`),
			wantErr: ErrInvalidSize,
		},
		{
			name:    "negative number",
			header:  headerWith(`{"size_bytes":-3}`),
			wantErr: ErrInvalidSize,
		},
		{
			name:    "non numeric string",
			header:  headerWith(`{"size_bytes":"eleven"}`),
			wantErr: ErrInvalidSize,
		},
		{
			name:    "boolean",
			header:  headerWith(`{"size_bytes":true}`),
			wantErr: ErrInvalidSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeclaredSize(tt.header)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeclaredSize_InvalidJSON(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		trailing bool
	}{
		{"not json", `size_bytes=11`, false},
		{"truncated object", `{"size_bytes":11`, false},
		{"trailing text", `{"size_bytes":11} junk`, true},
		{"second object", `{"size_bytes":11}{"size_bytes":99}`, true},
		{"trailing number", `{"size_bytes":11} 99`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size, err := DeclaredSize(headerWith(tt.raw))
			require.Error(t, err)
			assert.Zero(t, size)
			assert.Contains(t, err.Error(), attachmenttypes.MetadataHeader)
			assert.Equal(t, tt.trailing, errors.Is(err, ErrTrailingData))
		})
	}
}

func TestErrorDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "detail present",
			body: `{"error":{"detail":"Attachment not found","message":"No Record found"}}`,
			want: "Attachment not found",
		},
		{
			name: "message only",
			body: `{"error":{"message":"No Record found"}}`,
			want: "No Record found",
		},
		{
			name: "plain text body",
			body: "  gateway exploded \n",
			want: "gateway exploded",
		},
		{
			name: "empty body",
			body: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorDetail([]byte(tt.body)))
		})
	}
}
