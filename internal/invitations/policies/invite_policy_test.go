package policies

import (
	"testing"

	"carecycle-backend/internal/constants"
	"carecycle-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupPolicyDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Invitation{}, &models.CareType{}))
	return db
}

func TestValidateRoleAssignment_KnownRoles(t *testing.T) {
	for _, role := range []string{constants.Nurse, constants.Doctor} {
		assert.NoError(t, ValidateRoleAssignment(constants.Admin, role), role)
	}
}

func TestValidateRoleAssignment_UnknownRole(t *testing.T) {
	err := ValidateRoleAssignment(constants.Superadmin, "janitor")
	assert.Equal(t, ErrUnknownRole, err)
}

func TestValidateRoleAssignment_AdminTargetNeedsSuperadmin(t *testing.T) {
	for _, target := range []string{constants.Admin, constants.Superadmin} {
		err := ValidateRoleAssignment(constants.Admin, target)
		assert.Equal(t, ErrOnlySuperadminCanAssign, err, target)
		assert.NoError(t, ValidateRoleAssignment(constants.Superadmin, target), target)
	}
}

func TestValidateCareTypeBinding_NurseRequiresCareType(t *testing.T) {
	err := ValidateCareTypeBinding(constants.Nurse, nil)
	assert.Equal(t, ErrNurseCareTypeRequired, err)

	careType := uuid.New()
	assert.NoError(t, ValidateCareTypeBinding(constants.Nurse, &careType))
}

func TestValidateCareTypeBinding_OtherRolesRejectCareType(t *testing.T) {
	careType := uuid.New()
	err := ValidateCareTypeBinding(constants.Doctor, &careType)
	assert.Equal(t, ErrCareTypeNotForNurse, err)

	assert.NoError(t, ValidateCareTypeBinding(constants.Doctor, nil))
}

func TestValidateCareTypeExists_InOrg(t *testing.T) {
	db := setupPolicyDB(t)
	orgID := uuid.New()
	careType := &models.CareType{OrgID: orgID, Name: "Wound care"}
	require.NoError(t, db.Create(careType).Error)

	assert.NoError(t, ValidateCareTypeExists(db, orgID.String(), &careType.CareTypeID))
}

func TestValidateCareTypeExists_UnknownID(t *testing.T) {
	db := setupPolicyDB(t)
	bogus := uuid.New()
	err := ValidateCareTypeExists(db, uuid.New().String(), &bogus)
	assert.Equal(t, ErrCareTypeNotFound, err)
}

func TestValidateCareTypeExists_OtherOrg(t *testing.T) {
	db := setupPolicyDB(t)
	careType := &models.CareType{OrgID: uuid.New(), Name: "Injections"}
	require.NoError(t, db.Create(careType).Error)

	err := ValidateCareTypeExists(db, uuid.New().String(), &careType.CareTypeID)
	assert.Equal(t, ErrCareTypeNotFound, err)
}

func TestValidateCareTypeExists_NilSkipsCheck(t *testing.T) {
	db := setupPolicyDB(t)
	assert.NoError(t, ValidateCareTypeExists(db, uuid.New().String(), nil))
}

func TestValidateInviteCreation_SelfInvite(t *testing.T) {
	db := setupPolicyDB(t)
	err := ValidateInviteCreation(db, "Admin@example.com", uuid.New().String(), "admin@example.com")
	assert.Equal(t, ErrCannotInviteSelf, err)
}

func TestValidateInviteCreation_AlreadyMember(t *testing.T) {
	db := setupPolicyDB(t)
	orgID := uuid.New()
	require.NoError(t, db.Create(&models.User{
		UserName: "nurse1", Email: "nurse@example.com", PasswordHash: "x",
		Fullname: "Nurse One", Role: constants.Nurse, OrgID: &orgID,
	}).Error)

	err := ValidateInviteCreation(db, "nurse@example.com", orgID.String(), "admin@example.com")
	assert.Equal(t, ErrAlreadyMember, err)
}

func TestValidateInviteCreation_MemberOfOtherOrgIsFine(t *testing.T) {
	db := setupPolicyDB(t)
	otherOrg := uuid.New()
	require.NoError(t, db.Create(&models.User{
		UserName: "nurse1", Email: "nurse@example.com", PasswordHash: "x",
		Fullname: "Nurse One", Role: constants.Nurse, OrgID: &otherOrg,
	}).Error)

	err := ValidateInviteCreation(db, "nurse@example.com", uuid.New().String(), "admin@example.com")
	assert.NoError(t, err)
}

func TestValidateInviteCreation_PendingDuplicate(t *testing.T) {
	db := setupPolicyDB(t)
	orgID := uuid.New()
	require.NoError(t, db.Create(&models.Invitation{
		OrgID: orgID, Email: "new@example.com", Role: constants.Doctor,
		InviteToken: "tok", Status: models.InviteStatusPending, CreatedBy: "admin",
	}).Error)

	err := ValidateInviteCreation(db, "new@example.com", orgID.String(), "admin@example.com")
	assert.Equal(t, ErrPendingInviteExists, err)
}

func TestValidateInviteCreation_CancelledInviteDoesNotBlock(t *testing.T) {
	db := setupPolicyDB(t)
	orgID := uuid.New()
	require.NoError(t, db.Create(&models.Invitation{
		OrgID: orgID, Email: "new@example.com", Role: constants.Doctor,
		InviteToken: "tok", Status: models.InviteStatusCancelled, CreatedBy: "admin",
	}).Error)

	err := ValidateInviteCreation(db, "new@example.com", orgID.String(), "admin@example.com")
	assert.NoError(t, err)
}
