// Package transfer handles the attachment transfer operation.
// A transfer fetches one attachment, persists it, re-reads the persisted
// file to compute its digest, and compares it with the digest of the
// payload as received.
//
// The package never deletes or restores files: a failure after the
// persist step leaves whatever was written in place.
package transfer
