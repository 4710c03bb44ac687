package directory

import (
	"fmt"

	"github.com/anonto42/nano-midea/postdir/internal/models"
)

// validate checks records whose media are already sorted by order and
// returns one error per violation found.
func validate(records []models.PostRecord) []error {
	var problems []error
	postIDs := make(map[int64]int, len(records))
	pictureIDs := make(map[int64]int64)

	for i, r := range records {
		postID := r.Post.PostID
		if prev, ok := postIDs[postID]; ok {
			problems = append(problems, fmt.Errorf("post %d at position %d duplicates position %d", postID, i, prev))
		} else {
			postIDs[postID] = i
		}

		for j, m := range r.Pictures {
			if m.PostID != postID {
				problems = append(problems, fmt.Errorf("picture %d references post %d but belongs to post %d", m.PictureID, m.PostID, postID))
			}
			if owner, ok := pictureIDs[m.PictureID]; ok {
				problems = append(problems, fmt.Errorf("picture %d in post %d duplicates one in post %d", m.PictureID, postID, owner))
			} else {
				pictureIDs[m.PictureID] = postID
			}
			if m.Order < 1 {
				problems = append(problems, fmt.Errorf("picture %d in post %d has non-positive order %d", m.PictureID, postID, m.Order))
			}
			if j > 0 && r.Pictures[j-1].Order == m.Order {
				problems = append(problems, fmt.Errorf("post %d has two pictures with order %d", postID, m.Order))
			}
			if !m.Type.Valid() {
				problems = append(problems, fmt.Errorf("picture %d in post %d has unknown type %q", m.PictureID, postID, m.Type))
			}
			if m.Media == "" {
				problems = append(problems, fmt.Errorf("picture %d in post %d has no media reference", m.PictureID, postID))
			}
		}
	}

	return problems
}
