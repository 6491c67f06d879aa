package users

import (
	"context"
	"errors"
	"strings"

	"carecycle-backend/internal/invitations"
	"carecycle-backend/internal/models"
	"carecycle-backend/internal/pkg/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidEmailFormat    = errors.New("Invalid email format")
	ErrInvalidPasswordFormat = errors.New("Invalid password format")
	ErrUsernameRequired      = errors.New("Username is required and must be a non-empty string")
	ErrFullnameRequired      = errors.New("Full name is required and must be a non-empty string")
	ErrFullnameInvalid       = errors.New("Full name contains invalid characters (only letters, spaces, hyphens, and apostrophes allowed)")
	ErrEmailRegistered       = errors.New("Email already registered")
	ErrUsernameRegistered    = errors.New("Username already registered")
)

// GormProvisioner is the default identity collaborator: it creates the
// tenant-scoped user record with a bcrypt password hash and the role/care
// type handed over by the invitation flow.
type GormProvisioner struct {
	DB *gorm.DB
}

func (p *GormProvisioner) Provision(ctx context.Context, in invitations.ProvisionInput) (*models.User, error) {
	if strings.TrimSpace(in.UserName) == "" {
		return nil, ErrUsernameRequired
	}
	if in.Email == "" || !validation.IsValidEmail(in.Email) {
		return nil, ErrInvalidEmailFormat
	}
	if in.Password == "" || !validation.IsValidPassword(in.Password) {
		return nil, ErrInvalidPasswordFormat
	}
	trimmed := strings.TrimSpace(in.Fullname)
	if trimmed == "" {
		return nil, ErrFullnameRequired
	}
	if !validation.IsValidFullname(trimmed) {
		return nil, ErrFullnameInvalid
	}

	userName := strings.TrimSpace(in.UserName)
	email := strings.TrimSpace(strings.ToLower(in.Email))

	var existing models.User
	if err := p.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailRegistered
	}
	if err := p.DB.WithContext(ctx).Where("user_name = ?", userName).First(&existing).Error; err == nil {
		return nil, ErrUsernameRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 10)
	if err != nil {
		return nil, err
	}

	orgID := in.OrgID
	u := &models.User{
		UserName:     userName,
		Email:        email,
		PasswordHash: string(hash),
		Fullname:     trimmed,
		OrgID:        &orgID,
		Role:         in.Role,
		CareTypeID:   in.CareTypeID,
	}
	if err := p.DB.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}
