package authlog

import "fmt"

// GroupOrdering holds the expected progression of statuses for one flow family.
// StatusOrder and StatusOrderWithSMTP are subsequences of StatusOrderWithErrors.
type GroupOrdering struct {
	StatusOrder []Status
	// StatusOrderWithSMTP skips the steps only reported by hosted mail providers.
	StatusOrderWithSMTP []Status
	// StatusOrderWithErrors is used strictly for tie-breaking equal timestamps.
	StatusOrderWithErrors []Status
}

var loginOrdering = GroupOrdering{
	StatusOrder: []Status{
		StatusLoginInitiated,
		StatusEmailSent,
		StatusEmailDelivered,
		StatusEmailOpened,
		StatusLoginSuccess,
	},
	StatusOrderWithSMTP: []Status{
		StatusLoginInitiated,
		StatusEmailSent,
		StatusLoginSuccess,
	},
	StatusOrderWithErrors: []Status{
		StatusLoginInitiated,
		StatusEmailSent,
		StatusEmailBounced,
		StatusEmailDelivered,
		StatusEmailOpened,
		StatusError,
		StatusLoginSuccess,
	},
}

var deviceRegistrationOrdering = GroupOrdering{
	StatusOrder: []Status{
		StatusDeviceRegistrationInitiated,
		StatusDeviceRegistrationEmailSent,
		StatusDeviceRegistrationEmailDelivered,
		StatusDeviceRegistrationEmailOpened,
		StatusDeviceRegistrationApproved,
	},
	StatusOrderWithSMTP: []Status{
		StatusDeviceRegistrationInitiated,
		StatusDeviceRegistrationEmailSent,
		StatusDeviceRegistrationApproved,
	},
	StatusOrderWithErrors: []Status{
		StatusDeviceRegistrationInitiated,
		StatusDeviceRegistrationEmailSent,
		StatusDeviceRegistrationEmailBounced,
		StatusDeviceRegistrationEmailDelivered,
		StatusDeviceRegistrationEmailOpened,
		StatusDeviceRegistrationError,
		StatusDeviceRegistrationApproved,
	},
}

// LookupGroupOrdering resolves the ordering for group. An empty group means LOGIN;
// anything else outside the closed set returns ErrUnknownGroupType.
func LookupGroupOrdering(group GroupType) (GroupOrdering, error) {
	switch group {
	case "", GroupLogin:
		return loginOrdering, nil
	case GroupDeviceRegistration:
		return deviceRegistrationOrdering, nil
	}
	return GroupOrdering{}, fmt.Errorf("%w: %q", ErrUnknownGroupType, group)
}

// Order returns the default or custom-SMTP progression.
func (g GroupOrdering) Order(hasCustomSMTP bool) []Status {
	if hasCustomSMTP {
		return g.StatusOrderWithSMTP
	}
	return g.StatusOrder
}

func indexOf(order []Status, status Status) int {
	for i, s := range order {
		if s == status {
			return i
		}
	}
	return -1
}
