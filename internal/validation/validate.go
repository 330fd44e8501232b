// Package validation provides centralized input validation logic.
// This includes transfer request validation, attachment ID checks, and
// client configuration validation.
//
// All user inputs are validated before a request is sent to the remote
// service so that a bad request never produces network traffic.
package validation

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/attachmenttypes"
	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/errors"
)

// maxAttachmentIDLength bounds identifiers; ServiceNow sys_ids are 32 characters.
const maxAttachmentIDLength = 256

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateTransferRequest checks that both request fields are present and usable.
func ValidateTransferRequest(req attachmenttypes.TransferRequest) error {
	if err := validate.Struct(req); err != nil {
		return errors.NewError("validateRequest", errors.ErrInvalidInput).
			WithAttachment(req.AttachmentID).
			WithPath(req.DestinationPath).
			WithMessage(describe(err))
	}
	if err := ValidateAttachmentID(req.AttachmentID); err != nil {
		return err
	}
	return ValidateDestinationPath(req.DestinationPath)
}

// ValidateAttachmentID validates an opaque attachment identifier.
// The ID is embedded as a single URL path segment, so it must not be able
// to climb out of the attachment endpoint.
func ValidateAttachmentID(id string) error {
	if id == "" {
		return errors.NewError("validateAttachmentID", errors.ErrInvalidInput).
			WithMessage("attachment id cannot be empty")
	}

	if len(id) > maxAttachmentIDLength {
		return errors.NewError("validateAttachmentID", errors.ErrInvalidInput).
			WithAttachment(id).
			WithMessage(fmt.Sprintf("attachment id cannot exceed %d characters", maxAttachmentIDLength))
	}

	if id == "." || strings.Contains(id, "..") || strings.ContainsAny(id, `/\`) {
		return errors.NewError("validateAttachmentID", errors.ErrInvalidInput).
			WithAttachment(id).
			WithMessage("attachment id cannot contain path separators or traversal sequences")
	}

	if hasControlCharacters(id) {
		return errors.NewError("validateAttachmentID", errors.ErrInvalidInput).
			WithMessage("attachment id cannot contain control characters")
	}

	return nil
}

// ValidateDestinationPath validates the local destination of a transfer.
func ValidateDestinationPath(path string) error {
	if path == "" {
		return errors.NewError("validateDestinationPath", errors.ErrInvalidInput).
			WithMessage("destination path cannot be empty")
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, `\`) {
		return errors.NewError("validateDestinationPath", errors.ErrInvalidInput).
			WithPath(path).
			WithMessage("destination path must name a file, not a directory")
	}

	if strings.ContainsRune(path, 0) {
		return errors.NewError("validateDestinationPath", errors.ErrInvalidInput).
			WithMessage("destination path cannot contain NUL bytes")
	}

	return nil
}

// ValidateClientConfig checks a fully-defaulted client configuration.
func ValidateClientConfig(cfg *attachmenttypes.ClientConfig) error {
	if cfg == nil {
		return errors.NewError("validateConfig", errors.ErrInvalidInput).
			WithMessage("config cannot be nil")
	}

	if err := validate.Struct(cfg); err != nil {
		return errors.NewError("validateConfig", errors.ErrInvalidInput).
			WithMessage(describe(err))
	}

	if strings.Count(cfg.APIPath, "%") != 1 || !strings.Contains(cfg.APIPath, "%s") {
		return errors.NewError("validateConfig", errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("APIPath %q must contain exactly one %%s verb", cfg.APIPath))
	}

	base := cfg.BaseURL()
	u, err := url.Parse(base)
	if err != nil || u.Hostname() == "" || strings.HasSuffix(base, ":") {
		return errors.NewError("validateConfig", errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("host %q is not a valid URL", cfg.Host))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.NewError("validateConfig", errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("host scheme %q is not supported", u.Scheme))
	}

	creds := cfg.Credentials
	if creds.AccessToken == "" && (creds.Username == "") != (creds.Password == "") {
		return errors.NewError("validateConfig", errors.ErrInvalidInput).
			WithMessage("username and password must be provided together")
	}

	return nil
}

// describe turns validator field errors into a short, stable message.
func describe(err error) string {
	fieldErrs, ok := err.(validator.ValidationErrors) //nolint:errorlint // validator returns the slice type directly
	if !ok {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		}
	}
	return strings.Join(parts, "; ")
}

// hasControlCharacters checks for control characters in a string.
func hasControlCharacters(s string) bool {
	for _, char := range s {
		if unicode.IsControl(char) {
			return true
		}
	}
	return false
}
