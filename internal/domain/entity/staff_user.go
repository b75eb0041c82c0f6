package entity

import "github.com/shopspring/decimal"

// Roles válidos para StaffUser.
const (
	RoleEmployee = "EMPLOYEE"
	RoleAdmin    = "ADMIN"
	RoleManager  = "MANAGER"
)

// Estados válidos para StaffUser.
const (
	StatusActive    = "ACTIVE"
	StatusInactive  = "INACTIVE"
	StatusSuspended = "SUSPENDED"
)

// StaffUser usuaria del personal. Password y PasswordConfirm solo viajan al crear;
// el backend nunca los devuelve en lecturas.
type StaffUser struct {
	ID        int64            `json:"id"`
	Username  string           `json:"username"`
	Email     string           `json:"email"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	Phone     string           `json:"phone"`
	Role      string           `json:"role"`
	Status    string           `json:"status"`
	IsActive  bool             `json:"is_active"`
	HireDate  string           `json:"hire_date,omitempty"` // YYYY-MM-DD
	Salary    *decimal.Decimal `json:"salary,omitempty"`
	Address   string           `json:"address"`
	Avatar    string           `json:"avatar,omitempty"`
}

// FullName nombre para mostrar.
func (u StaffUser) FullName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return u.Username
	case u.LastName == "":
		return u.FirstName
	case u.FirstName == "":
		return u.LastName
	}
	return u.FirstName + " " + u.LastName
}

// GroupCount conteo agregado por rol o estado.
type GroupCount struct {
	Role   string `json:"role,omitempty"`
	Status string `json:"status,omitempty"`
	Count  int    `json:"count"`
}

// StaffStatistics respuesta de /usuarias/statistics/.
type StaffStatistics struct {
	Total         int              `json:"total_usuarias"`
	Active        int              `json:"usuarias_activas"`
	Inactive      int              `json:"usuarias_inactivas"`
	ByRole        []GroupCount     `json:"por_rol"`
	ByStatus      []GroupCount     `json:"por_estado"`
	AverageSalary *decimal.Decimal `json:"salario_promedio"`
}
