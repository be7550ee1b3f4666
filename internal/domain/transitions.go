package domain

// leadTransitions is the legal forward graph for lead statuses. lost and
// converted are terminal.
var leadTransitions = map[LeadStatus]map[LeadStatus]bool{
	LeadNew:       {LeadContacted: true, LeadQualified: true, LeadLost: true},
	LeadContacted: {LeadQualified: true, LeadLost: true},
	LeadQualified: {LeadConverted: true, LeadLost: true},
	LeadConverted: {},
	LeadLost:      {},
}

// CanTransition reports whether a lead may move from cur to next. Only the
// move into qualified is actually guarded by the lead service; the rest of
// the graph is advisory and freely settable from the status control.
func (cur LeadStatus) CanTransition(next LeadStatus) bool {
	nexts, ok := leadTransitions[cur]
	if !ok {
		return false
	}
	return nexts[next]
}

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadNew, LeadContacted, LeadQualified, LeadConverted, LeadLost:
		return true
	}
	return false
}

// Terminal reports whether a deal status can no longer move.
func (s DealStatus) Terminal() bool {
	return s == DealWon || s == DealLost
}

func (s DealStatus) Valid() bool {
	switch s {
	case DealPending, DealWon, DealLost:
		return true
	}
	return false
}

// CanAdvanceTo enforces the forward-only ledger progression:
// pending -> approved -> paid. No backward moves are exposed.
func (s CommissionStatus) CanAdvanceTo(next CommissionStatus) bool {
	switch s {
	case CommissionPending:
		return next == CommissionApproved || next == CommissionPaid
	case CommissionApproved:
		return next == CommissionPaid
	}
	return false
}

func (s CommissionStatus) Valid() bool {
	switch s {
	case CommissionPending, CommissionApproved, CommissionPaid:
		return true
	}
	return false
}

func (s PayoutStatus) Valid() bool {
	switch s {
	case PayoutPending, PayoutProcessing, PayoutCompleted, PayoutFailed:
		return true
	}
	return false
}

func (s ReferrerStatus) Valid() bool {
	switch s {
	case ReferrerActive, ReferrerInactive, ReferrerPending:
		return true
	}
	return false
}
