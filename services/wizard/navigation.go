package wizard

import "haulaway/models"

// Step names one screen of the booking flow.
type Step string

const (
	StepHomepage    Step = "homepage"
	StepPrivacy     Step = "privacy"
	StepPhoneVerify Step = "phone-verify"
	StepJunkAmount  Step = "junk-amount"
	StepDateTime    Step = "date-time"
	StepSubmitted   Step = "submitted"
)

// ParseStep maps a wire value to a known step.
func ParseStep(raw string) (Step, bool) {
	switch Step(raw) {
	case StepHomepage, StepPrivacy, StepPhoneVerify, StepJunkAmount, StepDateTime, StepSubmitted:
		return Step(raw), true
	}
	return "", false
}

// StepOrdinal returns the 1-based progress position for a step, clamped to
// the valid range.
func StepOrdinal(step Step) int {
	switch step {
	case StepHomepage:
		return 1
	case StepPrivacy:
		return 2
	case StepPhoneVerify:
		return 3
	case StepJunkAmount:
		return 4
	case StepDateTime, StepSubmitted:
		return 5
	}
	return minStep
}

// NextAllowedStep resolves where a session sitting on current should actually
// be, given its flags. It is re-evaluated after every state change so a step
// whose prerequisite was satisfied elsewhere gets skipped immediately, and a
// step whose prerequisite was lost bounces the session back. Moving forward
// past junk-amount never happens here; those hops require an explicit
// continue.
func NextAllowedStep(s models.BookingState, current Step) Step {
	if s.IsSubmitted {
		return StepSubmitted
	}

	switch current {
	case StepPrivacy:
		if s.IsPrivacyAccepted {
			if s.IsPhoneVerified {
				return StepJunkAmount
			}
			return StepPhoneVerify
		}
	case StepPhoneVerify:
		if !s.IsPrivacyAccepted {
			return StepPrivacy
		}
		if s.IsPhoneVerified {
			return StepJunkAmount
		}
	case StepJunkAmount:
		if !s.IsPrivacyAccepted {
			return StepPrivacy
		}
		if !s.IsPhoneVerified {
			return StepPhoneVerify
		}
	case StepDateTime:
		if !s.IsPrivacyAccepted {
			return StepPrivacy
		}
		if !s.IsPhoneVerified {
			return StepPhoneVerify
		}
	case StepSubmitted:
		return StepHomepage
	}
	return current
}

// ContinueFrom computes the target of an explicit forward action taken on
// current. Gate checks for the action itself (valid contact fields, verified
// code, chosen slot) are the caller's job; this only encodes the ordering and
// the skip rules.
func ContinueFrom(s models.BookingState, current Step) Step {
	switch current {
	case StepHomepage:
		if !s.IsPrivacyAccepted {
			return StepPrivacy
		}
		if !s.IsPhoneVerified {
			return StepPhoneVerify
		}
		return StepJunkAmount
	case StepPrivacy:
		if s.IsPhoneVerified {
			return StepJunkAmount
		}
		return StepPhoneVerify
	case StepPhoneVerify:
		return StepJunkAmount
	case StepJunkAmount:
		return StepDateTime
	case StepDateTime:
		return StepSubmitted
	}
	return current
}

// BackFrom computes the target of an explicit back action. Back is always
// allowed; the homepage is its own floor.
func BackFrom(current Step) Step {
	switch current {
	case StepPrivacy, StepPhoneVerify, StepJunkAmount:
		return StepHomepage
	case StepDateTime:
		return StepJunkAmount
	}
	return current
}
