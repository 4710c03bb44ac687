package models

import "time"

// Post is a user-authored content record. The JSON and BSON field names are
// the ones downstream consumers of the fixture already read.
type Post struct {
	PostID     int64     `json:"postId" bson:"postId"`
	Caption    string    `json:"caption" bson:"caption"`
	UserID     int64     `json:"userId" bson:"userId"` // Authoring user
	UploadTime time.Time `json:"uploadTime" bson:"uploadTime"`
}

// PostRecord is a post together with the media attached to it, in display order.
type PostRecord struct {
	Post     Post        `json:"post" bson:"post"`
	Pictures []MediaItem `json:"pictures" bson:"pictures"`
}

// Clone returns a deep copy so that callers holding the copy cannot reach
// the original media slice.
func (r PostRecord) Clone() PostRecord {
	pictures := make([]MediaItem, len(r.Pictures))
	copy(pictures, r.Pictures)
	return PostRecord{Post: r.Post, Pictures: pictures}
}
