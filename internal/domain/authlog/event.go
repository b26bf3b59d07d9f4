package authlog

import (
	"fmt"
	"time"
)

// Event is one raw audit record for a login or device-registration attempt.
// Different pipeline stages populate different optional fields.
type Event struct {
	EventID             string    `json:"event_id"`
	Status              Status    `json:"status"`
	GroupType           GroupType `json:"group_type,omitempty"`
	Timestamp           int64     `json:"timestamp"`
	Provider            string    `json:"provider,omitempty"`
	IPAddress           string    `json:"ip_address,omitempty"`
	UserAgent           string    `json:"user_agent,omitempty"`
	AuthUserID          string    `json:"auth_user_id,omitempty"`
	UserIdentifierValue string    `json:"user_identifier_value,omitempty"`
	Sort                string    `json:"sort,omitempty"`
	// ErrorDetail is the backend's message for error statuses.
	ErrorDetail         string    `json:"error_detail,omitempty"`
}

// Validate checks the status and group against the closed catalog and
// against each other.
func (e Event) Validate() error {
	_, _, err := resolve(e)
	return err
}

// resolve returns the descriptor of ev's status and the ordering of its group.
// An empty group means LOGIN, so a device registration status without a group
// is a mismatch.
func resolve(ev Event) (StatusDescriptor, GroupOrdering, error) {
	desc, err := LookupStatus(ev.Status)
	if err != nil {
		return StatusDescriptor{}, GroupOrdering{}, err
	}
	ordering, err := LookupGroupOrdering(ev.GroupType)
	if err != nil {
		return StatusDescriptor{}, GroupOrdering{}, err
	}

	group := ev.GroupType
	if group == "" {
		group = GroupLogin
	}
	if desc.Group != group {
		return StatusDescriptor{}, GroupOrdering{}, fmt.Errorf("%w: %s in %s", ErrGroupMismatch, ev.Status, group)
	}
	return desc, ordering, nil
}

// StatusCount is a server-side aggregate of events per status.
type StatusCount struct {
	Status Status `json:"status"`
	Count  int64  `json:"count"`
}

// StatsSnapshot is an app's status aggregate and the window start it was
// computed for.
type StatsSnapshot struct {
	Counts []StatusCount `json:"counts"`
	Since  time.Time     `json:"since"`
}
