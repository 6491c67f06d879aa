package constants

// PermissionRoles maps each permission to the roles allowed to perform it.
var PermissionRoles = map[string][]string{
	ViewData:         {Nurse, Doctor, Admin, Superadmin},
	ManageSchedules:  {Doctor, Admin, Superadmin},
	ExecuteSchedules: {Nurse, Doctor, Admin, Superadmin},
	ManagePatients:   {Doctor, Admin, Superadmin},
	InviteUser:       {Admin, Superadmin},
	AssignRole:       {Admin, Superadmin},
	UpdateOrg:        {Admin, Superadmin},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
