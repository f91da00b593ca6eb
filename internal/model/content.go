package model

// A Content represents a user-authored content item.
// OwnerID is set once at creation.
type Content struct {
	Base `msgpack:",inline" storm:"inline"`

	OwnerID     string `json:"owner"        msgpack:"owner_id"     storm:"index"`
	ContentType string `json:"content_type" msgpack:"content_type" storm:"index"`
	Title       string `json:"title"        msgpack:"title"`
	ContentText string `json:"content_text" msgpack:"content_text"`
	Private     bool   `json:"private"      msgpack:"private"      storm:"index"`
}
