package enum

import (
	"encoding/json"
	"fmt"
)

// Role is one of the two fixed operator roles
type Role int

const (
	RoleCashier Role = 0
	RoleOwner   Role = 1
)

// Areas guarded by the role gate
const (
	AreaPOS       = "pos"
	AreaCatalog   = "catalog"
	AreaExpenses  = "expenses"
	AreaHistory   = "history"
	AreaDashboard = "dashboard"
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleCashier:
		return "cashier"
	}
	return "unknown"
}

func ParseRole(s string) (Role, bool) {
	switch s {
	case "owner":
		return RoleOwner, true
	case "cashier":
		return RoleCashier, true
	}
	return RoleCashier, false
}

// CanAccess reports whether the role may use the given area.
// Owners reach every area; cashiers only the point of sale.
func (r Role) CanAccess(area string) bool {
	switch r {
	case RoleOwner:
		return true
	case RoleCashier:
		return area == AreaPOS
	}
	return false
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	v, ok := ParseRole(str)
	if !ok {
		return fmt.Errorf("unknown role %q", str)
	}
	*r = v
	return nil
}
