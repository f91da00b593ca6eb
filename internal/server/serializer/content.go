package serializer

import "github.com/slsmu/slsmu/internal/model"

// Content serializes the render of a content item.
func Content(m *model.Content) map[string]any {
	r := map[string]any{
		"id":          m.ID,
		"owner":       m.OwnerID,
		"contentType": m.ContentType,
		"title":       m.Title,
		"contentText": m.ContentText,
		"private":     m.Private,
	}

	if m.CreatedAt != nil {
		r["created_at"] = m.CreatedAt.UTC()
	}
	if m.UpdatedAt != nil {
		r["updated_at"] = m.UpdatedAt.UTC()
	}

	return r
}

// Contents serializes a listing of content items.
func Contents(contents []*model.Content) map[string]any {
	items := make([]map[string]any, 0, len(contents))
	for _, c := range contents {
		items = append(items, Content(c))
	}

	return map[string]any{
		"items": items,
		"count": len(items),
	}
}
