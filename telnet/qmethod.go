package telnet

// qstate is one of the six RFC 1143 Q-Method states, tracked independently
// per (option, side).
type qstate int

const (
	qNo qstate = iota
	qYes
	qWantNoEmpty
	qWantNoOpposite
	qWantYesEmpty
	qWantYesOpposite
)

// qaction tells the caller what, if anything, to put on the wire.
type qaction int

const (
	qaNone qaction = iota
	qaSendPositive
	qaSendNegative
)

// qRequest advances s in response to a local request to enable/disable the
// option, per spec.md §4.2's Request +/- columns. Only the NO/YES base
// states produce wire traffic; the WANTNO/WANTYES states merely record (or
// cancel) a pending opposite request, per RFC 1143.
func qRequest(s *qstate, enable bool) qaction {
	switch *s {
	case qNo:
		if enable {
			*s = qWantYesEmpty
			return qaSendPositive
		}
		return qaNone
	case qYes:
		if !enable {
			*s = qWantNoEmpty
			return qaSendNegative
		}
		return qaNone
	case qWantNoEmpty:
		if enable {
			*s = qWantNoOpposite
		}
		return qaNone
	case qWantNoOpposite:
		if !enable {
			*s = qWantNoEmpty
		}
		return qaNone
	case qWantYesEmpty:
		if !enable {
			*s = qWantYesOpposite
		}
		return qaNone
	case qWantYesOpposite:
		if enable {
			*s = qWantYesEmpty
		}
		return qaNone
	}
	return qaNone
}

// qRequestResult is the outcome of feeding a peer message into qReceive.
type qRequestResult struct {
	action      qaction
	enabledNow  bool
	disabledNow bool
	isError     bool
}

// qReceive advances s in response to a peer message (WILL/WONT for the
// remote view, DO/DONT for the local view), per spec.md §4.2's Receive +/-
// columns. supported gates whether a NO-state positive receive is accepted.
func qReceive(s *qstate, positive, supported bool) qRequestResult {
	switch *s {
	case qNo:
		if positive {
			if supported {
				*s = qYes
				return qRequestResult{action: qaSendPositive, enabledNow: true}
			}
			return qRequestResult{action: qaSendNegative}
		}
		return qRequestResult{}

	case qYes:
		if positive {
			return qRequestResult{}
		}
		*s = qNo
		return qRequestResult{disabledNow: true}

	case qWantNoEmpty:
		if positive {
			*s = qNo
			return qRequestResult{isError: true}
		}
		*s = qNo
		return qRequestResult{}

	case qWantNoOpposite:
		if positive {
			*s = qYes
			return qRequestResult{enabledNow: true, isError: true}
		}
		*s = qWantYesEmpty
		return qRequestResult{action: qaSendPositive}

	case qWantYesEmpty:
		if positive {
			*s = qYes
			return qRequestResult{enabledNow: true}
		}
		*s = qNo
		return qRequestResult{}

	case qWantYesOpposite:
		// A positive receipt lands transiently in YES (enabledNow), then
		// immediately issues the queued opposite request (send-), per
		// spec.md §4.2; a negative receipt issues the same send- directly.
		*s = qWantNoEmpty
		return qRequestResult{action: qaSendNegative, enabledNow: positive}
	}
	return qRequestResult{}
}
