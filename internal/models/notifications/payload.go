package models

const (
	DefaultIcon = "/icons/icon-192.png"
	DefaultURL  = "/"
	DefaultTag  = "gospel-era"
)

// Payload is the transient content of one notification. Title and Body are
// required; the rest default via WithDefaults. Not persisted.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon,omitempty"`
	URL   string `json:"url,omitempty"`
	Tag   string `json:"tag,omitempty"`
}

// WithDefaults fills the optional fields that were omitted.
func (p Payload) WithDefaults() Payload {
	if p.Icon == "" {
		p.Icon = DefaultIcon
	}
	if p.URL == "" {
		p.URL = DefaultURL
	}
	if p.Tag == "" {
		p.Tag = DefaultTag
	}
	return p
}
