package auth

// Role is the closed set of dashboard roles. Exactly one applies to an
// authenticated identity; customer is the default when no assignment exists.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleInstructor Role = "instructor"
	RoleSeller     Role = "seller"
	RoleLearner    Role = "learner"
	RoleCustomer   Role = "customer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleInstructor, RoleSeller, RoleLearner, RoleCustomer:
		return true
	}
	return false
}

func (r Role) IsAdmin() bool      { return r == RoleAdmin }
func (r Role) IsInstructor() bool { return r == RoleInstructor }
func (r Role) IsSeller() bool     { return r == RoleSeller }
func (r Role) IsLearner() bool    { return r == RoleLearner }
func (r Role) IsCustomer() bool   { return r == RoleCustomer }
