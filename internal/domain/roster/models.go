package roster

import "time"

const (
	RoleAdmin  = "admin"
	RoleSeller = "seller"
	RoleWorker = "worker"
	RoleHybrid = "hybrid"
)

type Person struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleSeller, RoleWorker, RoleHybrid:
		return true
	}
	return false
}

// SellsAndWorks reports whether the role can accrue both seller and worker
// shares. Admins are treated as hybrids for payout purposes.
func SellsAndWorks(role string) bool {
	return role == RoleHybrid || role == RoleAdmin
}
