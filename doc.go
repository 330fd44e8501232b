// Package attachment downloads ITSM attachments and verifies what was written.
//
// A single Download fetches the attachment content from the remote instance
// (ServiceNow's api/now/attachment/{sys_id}/file endpoint by default),
// writes it to a local path, hashes both the received payload and the
// persisted file with SHA-256, and checks them against each other and
// against the size declared in the X-Attachment-Metadata response header.
//
// Key features:
//   - Functional options for host, credentials, timeout and filesystem
//   - Basic or bearer authentication with already-issued credentials
//   - Pluggable billy filesystem, so tests can run fully in memory
//   - Sentinel errors and error codes for every failure class
//   - Structured slog logging with a per-transfer correlation ID
//
// Example usage:
//
//	client, err := attachment.New(
//	    attachment.WithHost("https://dev12345.service-now.com"),
//	    attachment.WithBasicAuth("admin", password),
//	)
//	if err != nil {
//	    return err
//	}
//
//	report, err := client.DownloadFile(ctx, sysID, "/tmp/sn-attachment")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(report.ChecksumDestination)
package attachment
