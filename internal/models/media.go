package models

import "time"

// MediaKind tells the renderer how to present a media item.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Valid reports whether k is one of the known kinds.
func (k MediaKind) Valid() bool {
	return k == MediaImage || k == MediaVideo
}

// MediaItem is one piece of media attached to a post.
type MediaItem struct {
	PictureID  int64     `json:"pictureId" bson:"pictureId"`
	PostID     int64     `json:"postId" bson:"postId"` // Must equal the enclosing Post.PostID
	Type       MediaKind `json:"type" bson:"type"`
	Order      int       `json:"order" bson:"order"` // 1-based display position within the post
	Media      string    `json:"media" bson:"media"` // Reference to the binary content, e.g. "img/download.png"
	UploadTime time.Time `json:"uploadTime" bson:"uploadTime"`
}
