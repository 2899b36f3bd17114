package models

import (
	"time"

	"github.com/GintGld/showreel/internal/lib/utils/pointers"
)

type Video struct {
	ID                 string    `json:"id" db:"id"`
	Title              string    `json:"title" db:"title"`
	Client             string    `json:"client" db:"client"`
	Description        string    `json:"description" db:"description"`
	ThumbnailURL       string    `json:"thumbnailUrl" db:"thumbnail_url"`
	VideoURL           string    `json:"videoUrl" db:"video_url"`
	MobileThumbnailURL *string   `json:"mobileThumbnailUrl" db:"mobile_thumbnail_url"`
	MobileVideoURL     *string   `json:"mobileVideoUrl" db:"mobile_video_url"`
	PreviewURL         *string   `json:"previewUrl" db:"preview_url"`
	Featured           bool      `json:"featured" db:"featured"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time `json:"updatedAt" db:"updated_at"`
}

// VideoPatch holds fields to update,
// nil fields are left untouched.
type VideoPatch struct {
	Title              *string `json:"title"`
	Client             *string `json:"client"`
	Description        *string `json:"description"`
	ThumbnailURL       *string `json:"thumbnailUrl"`
	VideoURL           *string `json:"videoUrl"`
	MobileThumbnailURL *string `json:"mobileThumbnailUrl"`
	MobileVideoURL     *string `json:"mobileVideoUrl"`
	PreviewURL         *string `json:"previewUrl"`
	Featured           *bool   `json:"featured"`
}

// Assets returns thumbnail and video url
// that fit the client (mobile or not).
func (v Video) Assets(mobile bool) (thumbnail string, video string) {
	thumbnail, video = v.ThumbnailURL, v.VideoURL
	if !mobile {
		return
	}
	if t := pointers.Value(v.MobileThumbnailURL); t != "" {
		thumbnail = t
	}
	if m := pointers.Value(v.MobileVideoURL); m != "" {
		video = m
	}
	return
}
