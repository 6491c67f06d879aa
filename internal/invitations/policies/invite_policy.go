package policies

import (
	"errors"
	"strings"

	"carecycle-backend/internal/constants"
	"carecycle-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCannotInviteSelf        = errors.New("You cannot invite yourself")
	ErrAlreadyMember           = errors.New("User already belongs to this organization")
	ErrPendingInviteExists     = errors.New("A pending invitation already exists for this email")
	ErrUnknownRole             = errors.New("Unknown role for invitation")
	ErrOnlySuperadminCanAssign = errors.New("Only super admins can invite admins or super admins")
	ErrNurseCareTypeRequired   = errors.New("Nurse invitations require a care type")
	ErrCareTypeNotForNurse     = errors.New("Only nurse invitations carry a care type")
	ErrCareTypeNotFound        = errors.New("Care type not found in this organization")
)

// ValidateRoleAssignment checks the actor may hand out the target role.
// Pure over its inputs; invitations have no target user yet.
func ValidateRoleAssignment(actorRole, targetRole string) error {
	switch targetRole {
	case constants.Nurse, constants.Doctor, constants.Admin, constants.Superadmin:
	default:
		return ErrUnknownRole
	}
	if (targetRole == constants.Admin || targetRole == constants.Superadmin) &&
		actorRole != constants.Superadmin {
		return ErrOnlySuperadminCanAssign
	}
	return nil
}

// ValidateCareTypeBinding enforces that nurse invitations carry a care
// type and no other role does.
func ValidateCareTypeBinding(role string, careTypeID *uuid.UUID) error {
	if role == constants.Nurse && careTypeID == nil {
		return ErrNurseCareTypeRequired
	}
	if role != constants.Nurse && careTypeID != nil {
		return ErrCareTypeNotForNurse
	}
	return nil
}

// ValidateCareTypeExists checks a bound care type belongs to the inviting
// organization, so an unknown or cross-tenant id never reaches the
// invitation. Nothing to check when no care type is bound.
func ValidateCareTypeExists(db *gorm.DB, orgID string, careTypeID *uuid.UUID) error {
	if careTypeID == nil {
		return nil
	}
	var careType models.CareType
	if err := db.Where("org_id = ? AND care_type_id = ?", orgID, careTypeID).First(&careType).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrCareTypeNotFound
		}
		return err
	}
	return nil
}

// ValidateInviteCreation rejects self-invites, invites for existing org
// members, and duplicate pending invitations.
func ValidateInviteCreation(db *gorm.DB, email, orgID, actorEmail string) error {
	normalized := strings.ToLower(email)

	if normalized == strings.ToLower(actorEmail) {
		return ErrCannotInviteSelf
	}

	var user models.User
	if err := db.Where("email = ?", normalized).First(&user).Error; err == nil {
		if user.OrgID != nil && user.OrgID.String() == orgID {
			return ErrAlreadyMember
		}
	}

	var invite models.Invitation
	if err := db.Where("org_id = ? AND email = ? AND status = ?", orgID, normalized, models.InviteStatusPending).
		First(&invite).Error; err == nil {
		return ErrPendingInviteExists
	}

	return nil
}
