package user

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

// Capability names an action guarded by authorization.
type Capability string

const (
	CapOrdersManage    Capability = "orders:manage"
	CapCatalogManage   Capability = "catalog:manage"
	CapUsersRead       Capability = "users:read"
	CapFeedbackRead    Capability = "feedback:read"
	CapPaymentsRead    Capability = "payments:read"
	CapOrdersPlace     Capability = "orders:place"
	CapCartManageOwn   Capability = "cart:own"
	CapOrdersReadOwn   Capability = "orders:read_own"
	CapOrdersCancelOwn Capability = "orders:cancel_own"
)

var grants = map[Role][]Capability{
	RoleUser: {CapOrdersPlace, CapCartManageOwn, CapOrdersReadOwn, CapOrdersCancelOwn},
	RoleAdmin: {
		CapOrdersManage, CapCatalogManage, CapUsersRead, CapFeedbackRead, CapPaymentsRead,
		CapOrdersPlace, CapCartManageOwn, CapOrdersReadOwn, CapOrdersCancelOwn,
	},
}

func (r Role) Can(c Capability) bool {
	for _, g := range grants[r] {
		if g == c {
			return true
		}
	}
	return false
}

// Principal is the authenticated caller.
type Principal struct {
	UserID string
	Role   Role
}

func (p Principal) Can(c Capability) bool { return p.Role.Can(c) }

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// Owns reports whether the principal may act on a resource owned by userID.
func (p Principal) Owns(userID string) bool {
	return p.UserID != "" && p.UserID == userID
}
