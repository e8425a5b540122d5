package models

import "fmt"

// Role is the closed set of user types recognised by the platform.
type Role string

const (
	RoleCustomer        Role = "customer"
	RoleServiceProvider Role = "service_provider"
	RoleAdmin           Role = "admin"
)

var allRoles = []Role{RoleCustomer, RoleServiceProvider, RoleAdmin}

func ParseRole(s string) (Role, error) {
	for _, r := range allRoles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown user type: %q", s)
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string {
	return string(r)
}
