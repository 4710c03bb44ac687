// Package directory holds the read-only catalogue of posts and answers
// lookups against it.
package directory

import (
	"errors"
	"fmt"
	"sort"

	"github.com/anonto42/nano-midea/postdir/internal/models"
)

// ErrInvalidDirectory is wrapped by every error New returns.
var ErrInvalidDirectory = errors.New("invalid post directory")

// Directory is an ordered, immutable collection of posts. It is built once
// by New and never changes afterwards, so any number of goroutines may read
// it without coordination.
type Directory struct {
	records []models.PostRecord
}

// New validates records and builds a Directory from a private copy of them.
// Media of every post are sorted by display order; input order is not trusted.
func New(records []models.PostRecord) (*Directory, error) {
	owned := make([]models.PostRecord, len(records))
	for i, r := range records {
		owned[i] = r.Clone()
		sort.SliceStable(owned[i].Pictures, func(a, b int) bool {
			return owned[i].Pictures[a].Order < owned[i].Pictures[b].Order
		})
	}

	if problems := validate(owned); len(problems) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDirectory, errors.Join(problems...))
	}

	return &Directory{records: owned}, nil
}

// GetPostByUserID returns the first post, in insertion order, authored by
// userID. When a user authored several posts only the earliest one is
// returned. The second result is false when no post matches.
func (d *Directory) GetPostByUserID(userID int64) (models.PostRecord, bool) {
	for _, r := range d.records {
		if r.Post.UserID == userID {
			return r.Clone(), true
		}
	}
	return models.PostRecord{}, false
}

// GetPostByPostID returns the post whose identifier is postID.
func (d *Directory) GetPostByPostID(postID int64) (models.PostRecord, bool) {
	for _, r := range d.records {
		if r.Post.PostID == postID {
			return r.Clone(), true
		}
	}
	return models.PostRecord{}, false
}

// Posts returns every record in insertion order.
func (d *Directory) Posts() []models.PostRecord {
	out := make([]models.PostRecord, len(d.records))
	for i, r := range d.records {
		out[i] = r.Clone()
	}
	return out
}

// Len returns the number of posts.
func (d *Directory) Len() int {
	return len(d.records)
}
