package model

// Role is the user_role enum.
type Role string

const (
	RoleUser        Role = "user"
	RoleAdmin       Role = "admin"
	RoleManajer     Role = "manajer"
	RolePemilik     Role = "pemilik"
	RoleAdminGudang Role = "admingudang"
)

// AllRoles lists every valid role in display order.
var AllRoles = []Role{RolePemilik, RoleAdmin, RoleManajer, RoleAdminGudang, RoleUser}

func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Label is the Indonesian name shown to users.
func (r Role) Label() string {
	switch r {
	case RolePemilik:
		return "Pemilik"
	case RoleAdmin:
		return "Admin"
	case RoleManajer:
		return "Manajer"
	case RoleAdminGudang:
		return "Admin Gudang"
	case RoleUser:
		return "Kasir"
	}
	return string(r)
}
