// Package localfs provides the go-billy filesystems attachments are persisted to.
package localfs

import (
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
)

// NativeOS is a billy.Filesystem that acts like the native filesystem:
// absolute paths are used as-is and relative paths resolve against the
// process working directory, exactly as os.Create would.
type NativeOS struct {
	osfs.ChrootOS
}

// Chroot returns a new filesystem rooted at the provided path.
//
//nolint:ireturn // billy.Filesystem is an interface; signature is dictated by upstream.
func (n *NativeOS) Chroot(path string) (billy.Filesystem, error) {
	return osfs.New(path), nil
}

// Root returns the root path for this filesystem.
func (n *NativeOS) Root() string {
	return "/"
}

// NewNativeOS creates a filesystem backed directly by the operating system.
func NewNativeOS() *NativeOS {
	return &NativeOS{}
}

// NewInMemory creates an empty in-memory filesystem.
//
//nolint:ireturn // memfs only exposes the billy.Filesystem interface.
func NewInMemory() billy.Filesystem {
	return memfs.New()
}
