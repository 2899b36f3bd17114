package models

import "fmt"

type Collection string

const (
	CollectionVideos      Collection = "videos"
	CollectionHeroImages  Collection = "hero_images"
	CollectionSocialLinks Collection = "social_links"
	CollectionEquipment   Collection = "equipment"
)

// Collections lists every collection
// that publishes change notifications.
var Collections = []Collection{
	CollectionVideos,
	CollectionHeroImages,
	CollectionSocialLinks,
	CollectionEquipment,
}

func (c Collection) Valid() bool {
	for _, known := range Collections {
		if c == known {
			return true
		}
	}
	return false
}

type Credentials struct {
	Login string `json:"login"`
	Pass  string `json:"pass"`
}

// Admin is the identity behind a session.
type Admin struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

const (
	AdminID    int64 = 1
	AdminLogin       = "admin"
)

// Notice is a non-blocking, dismissible message
// about a failed background or write operation.
type Notice struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Destructive bool   `json:"destructive"`
}

// Direction of a manual reorder.
type Direction int

const (
	Up   Direction = -1
	Down Direction = 1
)

func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}
