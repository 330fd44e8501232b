// Package checksum computes the digests used to verify a transfer.
//
// Both sides of the comparison use SHA-256 rendered as lowercase hex: the
// payload is hashed in memory, the persisted file is hashed by streaming it
// back from the filesystem in bounded chunks.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/go-git/go-billy/v5"

	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/internal/pool"
)

// Bytes returns the hex SHA-256 digest of data.
func Bytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// File streams the file at path through SHA-256 using reads of at most
// chunkSize bytes. It returns the hex digest and the number of bytes read.
func File(fsys billy.Filesystem, path string, chunkSize int) (string, int64, error) {
	if chunkSize <= 0 {
		return "", 0, fmt.Errorf("checksum: chunk size must be positive, got %d", chunkSize)
	}

	f, err := fsys.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("checksum: open %q: %w", path, err)
	}
	defer f.Close()

	buf := pool.GetBuffer(chunkSize)
	defer pool.PutBuffer(buf)

	h := sha256.New()
	n, err := io.CopyBuffer(h, onlyReader{f}, buf)
	if err != nil {
		return "", n, fmt.Errorf("checksum: read %q: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// onlyReader hides WriterTo/ReaderFrom so io.CopyBuffer honours the chunk size.
type onlyReader struct {
	r io.Reader
}

func (o onlyReader) Read(p []byte) (int, error) {
	//nolint:wrapcheck // io.Reader interface contract - error comes from underlying reader
	return o.r.Read(p)
}
