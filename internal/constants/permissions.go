package constants

const (
	ViewData         = "view_data"
	ManageSchedules  = "manage_schedules"
	ExecuteSchedules = "execute_schedules"
	ManagePatients   = "manage_patients"
	InviteUser       = "invite_user"
	AssignRole       = "assign_role"
	UpdateOrg        = "update_org"
)
