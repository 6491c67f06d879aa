package invitations

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"carecycle-backend/internal/models"
)

const tokenBytes = 32 // 64 hex characters on the wire

// DefaultExpiryDays is applied when the caller does not override the
// invitation lifetime.
const DefaultExpiryDays = 7

// Invalidity reasons, in precedence order. Expiry wins over accepted and
// cancelled so an expired-and-cancelled token reports "token expired" and
// never leaks whether an admin revoked it.
const (
	ReasonTokenExpired        = "token expired"
	ReasonTokenAlreadyUsed    = "token already used"
	ReasonInvitationCancelled = "invitation cancelled"
)

// GenerateToken returns a cryptographically random invitation token:
// 32 random bytes, hex-encoded to 64 lowercase characters.
func GenerateToken() string {
	b := make([]byte, tokenBytes)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// CalculateExpiryDate returns now + days*24h. Non-positive days fall back
// to the default period.
func CalculateExpiryDate(days int) time.Time {
	if days <= 0 {
		days = DefaultExpiryDays
	}
	return time.Now().Add(time.Duration(days) * 24 * time.Hour)
}

// IsTokenExpired reports whether the expiry moment has been reached.
// Strict boundary: exactly-now counts as expired.
func IsTokenExpired(expiresAt time.Time) bool {
	return !expiresAt.After(time.Now())
}

// ValidationResult is returned by ValidateToken instead of an error so
// callers can render the reason directly.
type ValidationResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// ValidateToken evaluates an invitation's state. The first failing check
// wins: expiry, then accepted, then cancelled. Expiry is computed from
// ExpiresAt; no status is ever stored for it.
func ValidateToken(inv *models.Invitation) ValidationResult {
	switch {
	case IsTokenExpired(inv.ExpiresAt):
		return ValidationResult{Valid: false, Reason: ReasonTokenExpired}
	case inv.Status == models.InviteStatusAccepted:
		return ValidationResult{Valid: false, Reason: ReasonTokenAlreadyUsed}
	case inv.Status == models.InviteStatusCancelled:
		return ValidationResult{Valid: false, Reason: ReasonInvitationCancelled}
	default:
		return ValidationResult{Valid: true}
	}
}
