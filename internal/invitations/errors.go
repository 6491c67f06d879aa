package invitations

import "errors"

var (
	ErrInvitationNotFound  = errors.New("Invitation not found")
	ErrTokenRequired       = errors.New("Invitation token is required")
	ErrTokenExpired        = errors.New("Invitation has expired")
	ErrTokenAlreadyUsed    = errors.New("Invitation has already been used")
	ErrInvitationCancelled = errors.New("Invitation has been cancelled")
	ErrResendThrottled     = errors.New("Invite can only be resent once per day")
	ErrPendingInviteOnly   = errors.New("Only pending invitations can be revoked")
)

// invalidityError maps a validation reason to the error surfaced by
// mutating entry points (CheckToken keeps returning the result object).
func invalidityError(reason string) error {
	switch reason {
	case ReasonTokenExpired:
		return ErrTokenExpired
	case ReasonTokenAlreadyUsed:
		return ErrTokenAlreadyUsed
	case ReasonInvitationCancelled:
		return ErrInvitationCancelled
	}
	return errors.New("Invitation is no longer valid")
}
