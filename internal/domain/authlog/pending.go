package authlog

// InferPendingStatus returns the next status expected after last. With no last
// event it returns the login initiator. StatusNone means no further status is
// expected, either because last is the final step or because its status is not
// part of the chosen progression.
func InferPendingStatus(last *Event, hasCustomSMTP bool) (Status, error) {
	if last == nil {
		return loginOrdering.StatusOrder[0], nil
	}

	_, ordering, err := resolve(*last)
	if err != nil {
		return StatusNone, err
	}

	order := ordering.Order(hasCustomSMTP)
	idx := indexOf(order, last.Status)
	if idx < 0 || idx+1 >= len(order) {
		return StatusNone, nil
	}
	return order[idx+1], nil
}
