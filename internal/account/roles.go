package account

import "strings"

// Roles collects role-ish claims from the decoded access token: the roles
// list plus the role/perfil/tipo fields and the staff/superuser flags,
// uppercased. Display convenience only — the server re-checks authorization
// on every privileged endpoint.
func (s *Service) Roles() []string {
	claims := s.tokens.Claims()
	if claims == nil {
		return nil
	}

	var roles []string
	if list, ok := claims["roles"].([]any); ok {
		for _, r := range list {
			if str, ok := r.(string); ok && str != "" {
				roles = append(roles, strings.ToUpper(str))
			}
		}
	}
	for _, key := range []string{"role", "perfil", "tipo"} {
		if str, ok := claims[key].(string); ok && str != "" {
			roles = append(roles, strings.ToUpper(str))
		}
	}
	if flag, ok := claims["is_staff"].(bool); ok && flag {
		roles = append(roles, "STAFF")
	}
	if flag, ok := claims["is_superuser"].(bool); ok && flag {
		roles = append(roles, "SUPERUSER")
	}
	return roles
}

var adminRoles = map[string]bool{
	"ADMIN":         true,
	"SUPERUSER":     true,
	"STAFF":         true,
	"SUPER":         true,
	"ADM":           true,
	"ADMINISTRATOR": true,
}

func (s *Service) IsAdmin() bool {
	for _, r := range s.Roles() {
		if adminRoles[r] {
			return true
		}
	}
	return false
}

// Username returns the username claim, or empty when unavailable.
func (s *Service) Username() string {
	claims := s.tokens.Claims()
	if claims == nil {
		return ""
	}
	if u, ok := claims["username"].(string); ok {
		return u
	}
	return ""
}
