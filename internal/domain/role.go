package domain

type Role string

const (
	RolePrincipal Role = "PRINCIPAL"
	RoleTeacher   Role = "TEACHER"
	RoleStudent   Role = "STUDENT"
	RoleAdmin     Role = "ADMIN"
)

// CircularRecipientRoles is the fixed audience of circular fan-out.
var CircularRecipientRoles = []Role{RoleTeacher, RoleStudent}

func (r Role) Valid() bool {
	switch r {
	case RolePrincipal, RoleTeacher, RoleStudent, RoleAdmin:
		return true
	}
	return false
}
