package invitations

import (
	"context"
	"strings"
	"time"

	"carecycle-backend/internal/invitations/policies"
	"carecycle-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const resendCooldown = 24 * time.Hour

// IdentityProvisioner creates the authenticated principal once a token
// validates. The default implementation lives in internal/users; tests
// inject fakes.
type IdentityProvisioner interface {
	Provision(ctx context.Context, in ProvisionInput) (*models.User, error)
}

// ProvisionInput is the role/department binding handed to the identity
// collaborator after validation.
type ProvisionInput struct {
	Email      string
	UserName   string
	Password   string
	Fullname   string
	OrgID      uuid.UUID
	Role       string
	CareTypeID *uuid.UUID
}

type Service struct {
	DB          *gorm.DB
	Provisioner IdentityProvisioner
}

type SendInviteInput struct {
	ActorUserID string
	ActorRole   string
	ActorEmail  string
	OrgID       string
	Email       string
	Role        string
	CareTypeID  *uuid.UUID
	ExpiryDays  int
}

// SendInvite creates (or refreshes) an invitation with a fresh token and
// expiry. An existing non-pending invitation for the same org/email is
// reopened with a new token.
func (s *Service) SendInvite(ctx context.Context, in SendInviteInput) (*models.Invitation, error) {
	if err := policies.ValidateRoleAssignment(in.ActorRole, in.Role); err != nil {
		return nil, err
	}
	if err := policies.ValidateCareTypeBinding(in.Role, in.CareTypeID); err != nil {
		return nil, err
	}
	if err := policies.ValidateCareTypeExists(s.DB, in.OrgID, in.CareTypeID); err != nil {
		return nil, err
	}
	if err := policies.ValidateInviteCreation(s.DB, in.Email, in.OrgID, in.ActorEmail); err != nil {
		return nil, err
	}

	normalized := strings.ToLower(in.Email)
	token := GenerateToken()
	expiresAt := CalculateExpiryDate(in.ExpiryDays)

	var existing models.Invitation
	err := s.DB.WithContext(ctx).Where("org_id = ? AND email = ?", in.OrgID, normalized).First(&existing).Error

	if err == gorm.ErrRecordNotFound {
		orgUUID, _ := uuid.Parse(in.OrgID)
		inv := &models.Invitation{
			OrgID:       orgUUID,
			Email:       normalized,
			Role:        in.Role,
			CareTypeID:  in.CareTypeID,
			InviteToken: token,
			ExpiresAt:   expiresAt,
			CreatedBy:   in.ActorUserID,
			Status:      models.InviteStatusPending,
		}
		if err := s.DB.WithContext(ctx).Create(inv).Error; err != nil {
			return nil, err
		}
		return inv, nil
	} else if err != nil {
		return nil, err
	}

	existing.InviteToken = token
	existing.Role = in.Role
	existing.CareTypeID = in.CareTypeID
	existing.Status = models.InviteStatusPending
	existing.ExpiresAt = expiresAt
	if err := s.DB.WithContext(ctx).Save(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

type ResendInviteInput struct {
	Email string
	OrgID string
}

// ResendInvite rotates the token and expiry of an existing invitation,
// at most once per day.
func (s *Service) ResendInvite(ctx context.Context, in ResendInviteInput) (*models.Invitation, error) {
	normalized := strings.ToLower(in.Email)

	var inv models.Invitation
	if err := s.DB.WithContext(ctx).Where("email = ? AND org_id = ?", normalized, in.OrgID).First(&inv).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}

	if time.Since(inv.UpdatedAt) < resendCooldown {
		return nil, ErrResendThrottled
	}

	inv.InviteToken = GenerateToken()
	inv.Status = models.InviteStatusPending
	inv.ExpiresAt = CalculateExpiryDate(0)
	if err := s.DB.WithContext(ctx).Save(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

type RevokeInviteInput struct {
	Email string
	OrgID string
}

// RevokeInvite cancels a pending invitation. Cancelled is terminal.
func (s *Service) RevokeInvite(ctx context.Context, in RevokeInviteInput) (*models.Invitation, error) {
	normalized := strings.ToLower(in.Email)

	var inv models.Invitation
	if err := s.DB.WithContext(ctx).
		Where("email = ? AND org_id = ? AND status = ?", normalized, in.OrgID, models.InviteStatusPending).
		First(&inv).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPendingInviteOnly
		}
		return nil, err
	}

	inv.Status = models.InviteStatusCancelled
	if err := s.DB.WithContext(ctx).Save(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

type ListInvitesInput struct {
	OrgID  string
	Status string
}

func (s *Service) ListOrgInvitations(ctx context.Context, in ListInvitesInput) ([]models.Invitation, error) {
	q := s.DB.WithContext(ctx).Where("org_id = ?", in.OrgID)
	if in.Status != "" {
		q = q.Where("status = ?", in.Status)
	}
	var invitations []models.Invitation
	if err := q.Order("created_at DESC").Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

type CheckTokenResult struct {
	Valid   bool   `json:"valid"`
	Reason  string `json:"reason,omitempty"`
	Email   string `json:"email,omitempty"`
	Role    string `json:"role,omitempty"`
	OrgID   string `json:"org_id,omitempty"`
	OrgName string `json:"org_name,omitempty"`
}

// CheckToken resolves a token and reports its validity without mutating
// anything. A missing token is a not-found error, distinct from an invalid
// one; expiry stays computed, never written back.
func (s *Service) CheckToken(ctx context.Context, token string) (*CheckTokenResult, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}

	var inv models.Invitation
	if err := s.DB.WithContext(ctx).Where("invite_token = ?", token).First(&inv).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}

	result := ValidateToken(&inv)
	out := &CheckTokenResult{Valid: result.Valid, Reason: result.Reason}
	if !result.Valid {
		return out, nil
	}

	out.Email = inv.Email
	out.Role = inv.Role
	out.OrgID = inv.OrgID.String()
	var org models.Org
	if err := s.DB.WithContext(ctx).Where("org_id = ?", inv.OrgID).First(&org).Error; err == nil {
		out.OrgName = org.OrgName
	}
	return out, nil
}

type SignupInput struct {
	Token    string
	UserName string
	Password string
	Fullname string
}

type SignupResult struct {
	User    *models.User `json:"user"`
	OrgID   string       `json:"org_id"`
	OrgName string       `json:"org_name"`
	Role    string       `json:"role"`
}

// SignupFromInvite consumes a validated invitation exactly once: the
// identity collaborator provisions the principal with the invitation's
// org/role/care-type binding, then the invitation flips to accepted. The
// status guard on the update keeps a raced second signup from reusing the
// token.
func (s *Service) SignupFromInvite(ctx context.Context, in SignupInput) (*SignupResult, error) {
	if in.Token == "" {
		return nil, ErrTokenRequired
	}

	var inv models.Invitation
	if err := s.DB.WithContext(ctx).Where("invite_token = ?", in.Token).First(&inv).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}

	if result := ValidateToken(&inv); !result.Valid {
		return nil, invalidityError(result.Reason)
	}

	user, err := s.Provisioner.Provision(ctx, ProvisionInput{
		Email:      inv.Email,
		UserName:   in.UserName,
		Password:   in.Password,
		Fullname:   in.Fullname,
		OrgID:      inv.OrgID,
		Role:       inv.Role,
		CareTypeID: inv.CareTypeID,
	})
	if err != nil {
		return nil, err
	}

	res := s.DB.WithContext(ctx).Model(&models.Invitation{}).
		Where("invite_id = ? AND status = ?", inv.InviteID, models.InviteStatusPending).
		Updates(map[string]interface{}{"status": models.InviteStatusAccepted})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrTokenAlreadyUsed
	}

	var org models.Org
	orgName := ""
	if err := s.DB.WithContext(ctx).Where("org_id = ?", inv.OrgID).First(&org).Error; err == nil {
		orgName = org.OrgName
	}

	return &SignupResult{
		User:    user,
		OrgID:   inv.OrgID.String(),
		OrgName: orgName,
		Role:    inv.Role,
	}, nil
}
