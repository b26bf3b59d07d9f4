package authlog

import (
	"errors"
	"fmt"
)

// Status is a closed set of event status codes emitted by the login pipeline.
type Status string

const (
	StatusLoginInitiated Status = "LOGIN_INITIATED"
	StatusEmailSent      Status = "EMAIL_SENT"
	StatusEmailDelivered Status = "EMAIL_DELIVERED"
	StatusEmailOpened    Status = "EMAIL_OPENED"
	StatusLoginSuccess   Status = "LOGIN_SUCCESS"
	StatusError          Status = "ERROR"
	StatusEmailBounced   Status = "EMAIL_BOUNCED"

	StatusDeviceRegistrationInitiated      Status = "DEVICE_REGISTRATION_INITIATED"
	StatusDeviceRegistrationEmailSent      Status = "DEVICE_REGISTRATION_EMAIL_SENT"
	StatusDeviceRegistrationEmailDelivered Status = "DEVICE_REGISTRATION_EMAIL_DELIVERED"
	StatusDeviceRegistrationEmailOpened    Status = "DEVICE_REGISTRATION_EMAIL_OPENED"
	StatusDeviceRegistrationApproved       Status = "DEVICE_REGISTRATION_APPROVED"
	StatusDeviceRegistrationError          Status = "DEVICE_REGISTRATION_ERROR"
	StatusDeviceRegistrationEmailBounced   Status = "DEVICE_REGISTRATION_EMAIL_BOUNCED"
)

// StatusNone marks the absence of a status, e.g. when no further step is expected.
const StatusNone Status = ""

// GroupType is the flow family a status belongs to.
type GroupType string

const (
	GroupLogin              GroupType = "LOGIN"
	GroupDeviceRegistration GroupType = "DEVICE_REGISTRATION"
)

var (
	ErrUnknownStatus    = errors.New("unknown status code")
	ErrUnknownGroupType = errors.New("unknown group type")
	ErrGroupMismatch    = errors.New("status does not belong to group")
	ErrEmptyEvents      = errors.New("no events for attempt")
)

// StatusDescriptor is the static description of a single status code.
type StatusDescriptor struct {
	Group         GroupType
	IsFinal       bool
	IsError       bool
	IsInitiator   bool
	PendingLabel  string
	CompleteLabel string
}

// LookupStatus returns the descriptor for status. Codes outside the closed set
// yield ErrUnknownStatus instead of a guessed default.
func LookupStatus(status Status) (StatusDescriptor, error) {
	switch status {
	case StatusLoginInitiated:
		return StatusDescriptor{Group: GroupLogin, IsInitiator: true, PendingLabel: "Initiating login", CompleteLabel: "Login initiated"}, nil
	case StatusEmailSent:
		return StatusDescriptor{Group: GroupLogin, PendingLabel: "Sending email", CompleteLabel: "Email sent"}, nil
	case StatusEmailDelivered:
		return StatusDescriptor{Group: GroupLogin, PendingLabel: "Delivering email", CompleteLabel: "Email delivered"}, nil
	case StatusEmailOpened:
		return StatusDescriptor{Group: GroupLogin, PendingLabel: "Waiting for email to be opened", CompleteLabel: "Email opened"}, nil
	case StatusLoginSuccess:
		return StatusDescriptor{Group: GroupLogin, IsFinal: true, PendingLabel: "Waiting for login", CompleteLabel: "Login successful"}, nil
	case StatusError:
		return StatusDescriptor{Group: GroupLogin, IsError: true, PendingLabel: "Error", CompleteLabel: "Login failed"}, nil
	case StatusEmailBounced:
		return StatusDescriptor{Group: GroupLogin, IsError: true, PendingLabel: "Email bounced", CompleteLabel: "Email bounced"}, nil

	case StatusDeviceRegistrationInitiated:
		return StatusDescriptor{Group: GroupDeviceRegistration, IsInitiator: true, PendingLabel: "Initiating device registration", CompleteLabel: "Device registration initiated"}, nil
	case StatusDeviceRegistrationEmailSent:
		return StatusDescriptor{Group: GroupDeviceRegistration, PendingLabel: "Sending device approval email", CompleteLabel: "Device approval email sent"}, nil
	case StatusDeviceRegistrationEmailDelivered:
		return StatusDescriptor{Group: GroupDeviceRegistration, PendingLabel: "Delivering device approval email", CompleteLabel: "Device approval email delivered"}, nil
	case StatusDeviceRegistrationEmailOpened:
		return StatusDescriptor{Group: GroupDeviceRegistration, PendingLabel: "Waiting for device approval email to be opened", CompleteLabel: "Device approval email opened"}, nil
	case StatusDeviceRegistrationApproved:
		return StatusDescriptor{Group: GroupDeviceRegistration, IsFinal: true, PendingLabel: "Waiting for device approval", CompleteLabel: "Device approved"}, nil
	case StatusDeviceRegistrationError:
		return StatusDescriptor{Group: GroupDeviceRegistration, IsError: true, PendingLabel: "Error", CompleteLabel: "Device registration failed"}, nil
	case StatusDeviceRegistrationEmailBounced:
		return StatusDescriptor{Group: GroupDeviceRegistration, IsError: true, PendingLabel: "Device approval email bounced", CompleteLabel: "Device approval email bounced"}, nil
	}
	return StatusDescriptor{}, fmt.Errorf("%w: %q", ErrUnknownStatus, status)
}

// AllStatuses lists every status in the catalog, login group first.
func AllStatuses() []Status {
	return []Status{
		StatusLoginInitiated,
		StatusEmailSent,
		StatusEmailDelivered,
		StatusEmailOpened,
		StatusLoginSuccess,
		StatusError,
		StatusEmailBounced,
		StatusDeviceRegistrationInitiated,
		StatusDeviceRegistrationEmailSent,
		StatusDeviceRegistrationEmailDelivered,
		StatusDeviceRegistrationEmailOpened,
		StatusDeviceRegistrationApproved,
		StatusDeviceRegistrationError,
		StatusDeviceRegistrationEmailBounced,
	}
}

// IsErrorStatus reports whether status is an error outcome.
func IsErrorStatus(status Status) (bool, error) {
	desc, err := LookupStatus(status)
	if err != nil {
		return false, err
	}
	return desc.IsError, nil
}

// IsPendingStatus reports whether status is an intermediate step that a more
// advanced step is still expected to supersede.
func IsPendingStatus(status Status) (bool, error) {
	desc, err := LookupStatus(status)
	if err != nil {
		return false, err
	}
	return !desc.IsFinal && !desc.IsError, nil
}
