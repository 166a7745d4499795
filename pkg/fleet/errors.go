package fleet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
)

// DiscoveryError is returned when the SSM inventory call itself fails.
type DiscoveryError struct {
	Op  string
	Err error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discovery failed during %s: %v", e.Op, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// MetadataResolutionError is returned when a tag lookup for an instance fails.
// An absent Name tag is not an error.
type MetadataResolutionError struct {
	InstanceID string
	Err        error
}

func (e *MetadataResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve name for %s: %v", e.InstanceID, e.Err)
}

func (e *MetadataResolutionError) Unwrap() error { return e.Err }

// CommandDispatchError is returned when SendCommand is rejected.
type CommandDispatchError struct {
	Document string
	Err      error
}

func (e *CommandDispatchError) Error() string {
	return fmt.Sprintf("failed to dispatch %s: %v", e.Document, e.Err)
}

func (e *CommandDispatchError) Unwrap() error { return e.Err }

// IsAccessDenied checks if an error is an AWS authorization failure.
func IsAccessDenied(err error) bool {
	if err == nil {
		return false
	}

	var ae smithy.APIError
	if errors.As(err, &ae) {
		switch ae.ErrorCode() {
		case "AccessDenied", "AccessDeniedException", "UnauthorizedOperation", "UnrecognizedClientException":
			return true
		}
	}

	return strings.Contains(err.Error(), "is not authorized to perform")
}

// IsNotFound checks if an error indicates the instance or resource does not exist.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	var ae smithy.APIError
	if errors.As(err, &ae) {
		code := ae.ErrorCode()
		return code == "InvalidResourceId" ||
			code == "InvalidInstanceId" ||
			strings.HasSuffix(code, ".NotFound") ||
			strings.HasSuffix(code, "NotFoundException")
	}
	return false
}

// Reason gives a short classification of err for diagnostics.
func Reason(err error) string {
	switch {
	case IsAccessDenied(err):
		return "access denied"
	case IsNotFound(err):
		return "not found"
	default:
		return "request failed"
	}
}
