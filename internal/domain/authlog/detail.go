package authlog

import "fmt"

// EventDetail is the merged summary of one attempt. Each optional field holds
// the most recent non-empty value seen for it.
type EventDetail struct {
	UserIdentifierValue string `json:"user_identifier_value"`
	Timestamp           int64  `json:"timestamp"`
	Provider            string `json:"provider,omitempty"`
	IPAddress           string `json:"ip_address,omitempty"`
	AuthUserID          string `json:"auth_user_id,omitempty"`
	UserAgent           string `json:"user_agent,omitempty"`
	HasCustomSMTP       bool   `json:"has_custom_smtp"`
}

// SummarizeDetail folds events, ordered oldest to newest, into one record. The
// order is trusted and not re-sorted. UserAgent is only taken from initiator
// events.
func SummarizeDetail(events []Event, hasCustomSMTP bool) (EventDetail, error) {
	if len(events) == 0 {
		return EventDetail{}, ErrEmptyEvents
	}

	newest := events[len(events)-1]
	acc := EventDetail{
		UserIdentifierValue: newest.UserIdentifierValue,
		Timestamp:           newest.Timestamp,
	}

	for i := len(events) - 1; i >= 0; i-- {
		next, err := latch(acc, events[i])
		if err != nil {
			return EventDetail{}, err
		}
		acc = next
	}

	acc.HasCustomSMTP = hasCustomSMTP && acc.Provider == ""
	return acc, nil
}

// latch fills every still-empty field of acc from ev, leaving set fields alone.
func latch(acc EventDetail, ev Event) (EventDetail, error) {
	desc, _, err := resolve(ev)
	if err != nil {
		return acc, fmt.Errorf("event %s: %w", ev.EventID, err)
	}

	if desc.IsInitiator {
		acc.UserAgent = firstNonEmpty(acc.UserAgent, ev.UserAgent)
	}
	acc.Provider = firstNonEmpty(acc.Provider, ev.Provider)
	acc.IPAddress = firstNonEmpty(acc.IPAddress, ev.IPAddress)
	acc.AuthUserID = firstNonEmpty(acc.AuthUserID, ev.AuthUserID)
	return acc, nil
}

func firstNonEmpty(current, candidate string) string {
	if current != "" {
		return current
	}
	return candidate
}
