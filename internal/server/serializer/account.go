package serializer

import "github.com/slsmu/slsmu/internal/model"

// Account serializes the render of an account.
// Credentials are never rendered.
func Account(m *model.Account) map[string]any {
	r := map[string]any{
		"email": m.Email,
		"role":  m.Role,
	}

	if m.CreatedAt != nil {
		r["created_at"] = m.CreatedAt.UTC()
	}
	if m.UpdatedAt != nil {
		r["updated_at"] = m.UpdatedAt.UTC()
	}

	return r
}

// AccountProjection serializes the listing render of an account.
func AccountProjection(m *model.Account) map[string]any {
	return map[string]any{
		"email": m.Email,
		"role":  m.Role,
	}
}
