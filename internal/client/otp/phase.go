package otp

import "time"

// Phase is the state of a verification attempt. Exactly one phase holds at a
// time, so combinations such as "verifying and send failed" cannot occur.
type Phase int

const (
	Idle Phase = iota
	Sending
	AwaitingCode
	Verifying
	Verified
	SendFailed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Sending:
		return "sending"
	case AwaitingCode:
		return "awaiting-code"
	case Verifying:
		return "verifying"
	case Verified:
		return "verified"
	case SendFailed:
		return "send-failed"
	default:
		return "unknown"
	}
}

// InFlight reports whether a network call of the machine is running.
func (p Phase) InFlight() bool {
	return p == Sending || p == Verifying
}

// Status is a snapshot of the machine.
type Status struct {
	Phase             Phase
	Email             string
	Code              string // code under verification, cleared when it is rejected
	Err               string // message of the last failure, verbatim from the backend
	CooldownRemaining time.Duration
	CanResend         bool
}
