package constants

const (
	Nurse      = "nurse"
	Doctor     = "doctor"
	Admin      = "admin"
	Superadmin = "super_admin"
)
