package authlog

import (
	"fmt"
	"slices"
)

// TimelineCapacity is the number of observed events considered per timeline.
const TimelineCapacity = 5

const pendingEventID = "0"

// EntryKind distinguishes synthesized entries from observed ones.
type EntryKind string

const (
	KindPending  EntryKind = "pending"
	KindObserved EntryKind = "observed"
)

// Classification of an observed entry.
type Classification string

const (
	ClassificationComplete Classification = "COMPLETE"
	ClassificationError    Classification = "ERROR"
)

// TimelineEntry is either a pending placeholder (EventID "0" and Status set) or
// an observed event with its classification.
type TimelineEntry struct {
	Kind           EntryKind      `json:"kind"`
	EventID        string         `json:"event_id,omitempty"`
	Status         Status         `json:"status,omitempty"`
	Event          *Event         `json:"event,omitempty"`
	Classification Classification `json:"classification,omitempty"`
}

// PendingEntry builds a synthesized entry for a status not yet observed.
func PendingEntry(status Status) TimelineEntry {
	return TimelineEntry{Kind: KindPending, EventID: pendingEventID, Status: status}
}

// IsPending reports whether the entry was synthesized.
func (e TimelineEntry) IsPending() bool {
	return e.Kind == KindPending
}

// rankedEntry carries the precomputed stage index so comparators stay infallible.
type rankedEntry struct {
	entry TimelineEntry
	stage int
}

type comparator func(a, b rankedEntry) int

func byTimestampDesc(a, b rankedEntry) int {
	switch {
	case a.entry.Event.Timestamp > b.entry.Event.Timestamp:
		return -1
	case a.entry.Event.Timestamp < b.entry.Event.Timestamp:
		return 1
	}
	return 0
}

// byStageDescOnTie puts the more advanced pipeline stage first.
func byStageDescOnTie(a, b rankedEntry) int {
	return b.stage - a.stage
}

func thenBy(cmps ...comparator) comparator {
	return func(a, b rankedEntry) int {
		for _, cmp := range cmps {
			if c := cmp(a, b); c != 0 {
				return c
			}
		}
		return 0
	}
}

// BuildTimeline orders up to TimelineCapacity events newest first and, when
// none of them has reached a final or error state, prepends a pending entry for
// the next expected status. The result is never empty.
func BuildTimeline(events []Event, hasCustomSMTP bool) ([]TimelineEntry, error) {
	if len(events) == 0 {
		next, err := InferPendingStatus(nil, hasCustomSMTP)
		if err != nil {
			return nil, err
		}
		return []TimelineEntry{PendingEntry(next)}, nil
	}

	window := events[:min(len(events), TimelineCapacity)]
	ranked := make([]rankedEntry, 0, len(window))
	allPending := true

	for i := range window {
		ev := window[i]
		desc, ordering, err := resolve(ev)
		if err != nil {
			return nil, fmt.Errorf("event %s: %w", ev.EventID, err)
		}

		class := ClassificationComplete
		if desc.IsError {
			class = ClassificationError
		}
		if desc.IsFinal || desc.IsError {
			allPending = false
		}

		ranked = append(ranked, rankedEntry{
			entry: TimelineEntry{Kind: KindObserved, Event: &ev, Classification: class},
			stage: indexOf(ordering.StatusOrderWithErrors, ev.Status),
		})
	}

	slices.SortStableFunc(ranked, thenBy(byTimestampDesc, byStageDescOnTie))

	out := make([]TimelineEntry, 0, len(ranked)+1)
	if allPending {
		next, err := InferPendingStatus(ranked[0].entry.Event, hasCustomSMTP)
		if err != nil {
			return nil, err
		}
		if next != StatusNone {
			out = append(out, PendingEntry(next))
		}
	}
	for _, r := range ranked {
		out = append(out, r.entry)
	}
	return out, nil
}
