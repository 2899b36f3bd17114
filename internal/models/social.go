package models

import "time"

type SocialLink struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	URL       string    `json:"url" db:"url"`
	Username  string    `json:"username" db:"username"`
	Icon      string    `json:"icon" db:"icon"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type SocialLinkPatch struct {
	Name     *string `json:"name"`
	URL      *string `json:"url"`
	Username *string `json:"username"`
	Icon     *string `json:"icon"`
}

// Icons is the fixed icon set
// social links can refer to.
var Icons = map[string]struct{}{
	"instagram": {},
	"youtube":   {},
	"vimeo":     {},
	"linkedin":  {},
	"twitter":   {},
	"facebook":  {},
	"tiktok":    {},
	"mail":      {},
	"link":      {},
}

func ValidIcon(icon string) bool {
	_, ok := Icons[icon]
	return ok
}
