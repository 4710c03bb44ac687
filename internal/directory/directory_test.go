package directory

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/nano-midea/postdir/internal/fixture"
	"github.com/anonto42/nano-midea/postdir/internal/models"
)

var uploaded = time.Date(2023, 9, 29, 0, 0, 0, 0, time.UTC)

func record(postID, userID int64, pictures ...models.MediaItem) models.PostRecord {
	return models.PostRecord{
		Post: models.Post{
			PostID:     postID,
			Caption:    "post",
			UserID:     userID,
			UploadTime: uploaded,
		},
		Pictures: pictures,
	}
}

func picture(pictureID, postID int64, order int) models.MediaItem {
	return models.MediaItem{
		PictureID:  pictureID,
		PostID:     postID,
		Type:       models.MediaImage,
		Order:      order,
		Media:      "img/x.png",
		UploadTime: uploaded,
	}
}

func fixtureDirectory(t *testing.T) *Directory {
	t.Helper()
	records, err := fixture.Posts()
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	dir, err := New(records)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return dir
}

func TestGetPostByUserID_Fixture(t *testing.T) {
	dir := fixtureDirectory(t)

	if dir.Len() != 5 {
		t.Fatalf("expected 5 posts, got %d", dir.Len())
	}

	rec, ok := dir.GetPostByUserID(3)
	if !ok {
		t.Fatal("expected post for user 3")
	}
	if rec.Post.Caption != "Alice's day out in the city" {
		t.Errorf("unexpected caption %q", rec.Post.Caption)
	}
	if len(rec.Pictures) != 1 || rec.Pictures[0].Order != 1 {
		t.Errorf("expected one media item with order 1, got %+v", rec.Pictures)
	}

	rec, ok = dir.GetPostByUserID(5)
	if !ok {
		t.Fatal("expected post for user 5")
	}
	if rec.Pictures == nil || len(rec.Pictures) != 0 {
		t.Errorf("expected empty, non-nil media list, got %#v", rec.Pictures)
	}

	if _, ok := dir.GetPostByUserID(99); ok {
		t.Error("expected not found for user 99")
	}
}

func TestGetPostByUserID_MatchesUser(t *testing.T) {
	dir := fixtureDirectory(t)

	for u := int64(-2); u <= 10; u++ {
		rec, ok := dir.GetPostByUserID(u)
		if ok && rec.Post.UserID != u {
			t.Errorf("user %d: got post authored by %d", u, rec.Post.UserID)
		}
		if !ok && u >= 1 && u <= 5 {
			t.Errorf("user %d: expected a post", u)
		}
	}
}

func TestGetPostByUserID_FirstMatchWins(t *testing.T) {
	dir, err := New([]models.PostRecord{
		record(10, 7),
		record(11, 8),
		record(12, 7),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec, ok := dir.GetPostByUserID(7)
	if !ok {
		t.Fatal("expected a post for user 7")
	}
	if rec.Post.PostID != 10 {
		t.Errorf("expected earliest post 10, got %d", rec.Post.PostID)
	}
}

func TestGetPostByUserID_IdempotentAndIsolated(t *testing.T) {
	dir := fixtureDirectory(t)
	before := dir.Posts()

	first, _ := dir.GetPostByUserID(2)
	first.Post.Caption = "changed"
	first.Pictures[0].Media = "changed"
	first.Pictures = append(first.Pictures, picture(99, 2, 3))

	second, _ := dir.GetPostByUserID(2)
	if second.Post.Caption != "Jane's favorite book recommendations" {
		t.Errorf("caption leaked: %q", second.Post.Caption)
	}
	if len(second.Pictures) != 2 || second.Pictures[0].Media != "img/test.png" {
		t.Errorf("media leaked: %+v", second.Pictures)
	}
	if !reflect.DeepEqual(before, dir.Posts()) {
		t.Error("directory contents changed after lookups")
	}
}

func TestGetPostByUserID_MediaBelongToPost(t *testing.T) {
	dir := fixtureDirectory(t)

	for _, r := range dir.Posts() {
		rec, ok := dir.GetPostByUserID(r.Post.UserID)
		if !ok {
			t.Fatalf("user %d not found", r.Post.UserID)
		}
		for _, m := range rec.Pictures {
			if m.PostID != rec.Post.PostID {
				t.Errorf("picture %d has postId %d, want %d", m.PictureID, m.PostID, rec.Post.PostID)
			}
		}
	}
}

func TestNew_SortsMediaByOrder(t *testing.T) {
	input := []models.PostRecord{
		record(1, 1, picture(3, 1, 3), picture(1, 1, 1), picture(2, 1, 2)),
	}

	dir, err := New(input)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec, _ := dir.GetPostByUserID(1)
	for i := 1; i < len(rec.Pictures); i++ {
		if rec.Pictures[i-1].Order > rec.Pictures[i].Order {
			t.Fatalf("media not sorted: %+v", rec.Pictures)
		}
	}
	if input[0].Pictures[0].PictureID != 3 {
		t.Error("New reordered the caller's slice")
	}
}

func TestNew_CopiesInput(t *testing.T) {
	input := []models.PostRecord{record(1, 1, picture(1, 1, 1))}
	dir, err := New(input)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	input[0].Post.UserID = 42
	input[0].Pictures[0].Media = "changed"

	rec, ok := dir.GetPostByUserID(1)
	if !ok {
		t.Fatal("post moved with the caller's slice")
	}
	if rec.Pictures[0].Media != "img/x.png" {
		t.Errorf("media changed through caller's slice: %q", rec.Pictures[0].Media)
	}
}

func TestNew_RejectsInvalidData(t *testing.T) {
	badType := picture(2, 1, 2)
	badType.Type = "gif"
	noMedia := picture(3, 1, 3)
	noMedia.Media = ""

	tests := []struct {
		name    string
		records []models.PostRecord
		want    string
	}{
		{
			name:    "picture references another post",
			records: []models.PostRecord{record(1, 1, picture(1, 2, 1))},
			want:    "references post 2 but belongs to post 1",
		},
		{
			name:    "duplicate post id",
			records: []models.PostRecord{record(1, 1), record(1, 2)},
			want:    "post 1 at position 1",
		},
		{
			name:    "duplicate picture id across posts",
			records: []models.PostRecord{record(1, 1, picture(5, 1, 1)), record(2, 2, picture(5, 2, 1))},
			want:    "picture 5 in post 2 duplicates",
		},
		{
			name:    "non-positive order",
			records: []models.PostRecord{record(1, 1, picture(1, 1, 0))},
			want:    "non-positive order 0",
		},
		{
			name:    "repeated order",
			records: []models.PostRecord{record(1, 1, picture(1, 1, 1), picture(2, 1, 1))},
			want:    "two pictures with order 1",
		},
		{
			name:    "unknown type",
			records: []models.PostRecord{record(1, 1, picture(1, 1, 1), badType)},
			want:    `unknown type "gif"`,
		},
		{
			name:    "missing media reference",
			records: []models.PostRecord{record(1, 1, picture(1, 1, 1), noMedia)},
			want:    "no media reference",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, err := New(tt.records)
			if err == nil {
				t.Fatalf("expected error, got directory with %d posts", dir.Len())
			}
			if !errors.Is(err, ErrInvalidDirectory) {
				t.Errorf("expected ErrInvalidDirectory, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %q", tt.want, err.Error())
			}
		})
	}
}

func TestNew_Empty(t *testing.T) {
	dir, err := New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if dir.Len() != 0 {
		t.Errorf("expected empty directory, got %d", dir.Len())
	}
	if _, ok := dir.GetPostByUserID(1); ok {
		t.Error("expected not found in empty directory")
	}
}

func TestGetPostByPostID(t *testing.T) {
	dir := fixtureDirectory(t)

	rec, ok := dir.GetPostByPostID(4)
	if !ok || rec.Post.Caption != "Bob's new music playlist" {
		t.Errorf("unexpected result %+v, %v", rec, ok)
	}
	if _, ok := dir.GetPostByPostID(0); ok {
		t.Error("expected post 0 to be absent")
	}
}

func TestPosts_InsertionOrder(t *testing.T) {
	dir := fixtureDirectory(t)

	for i, r := range dir.Posts() {
		if r.Post.PostID != int64(i+1) {
			t.Errorf("position %d holds post %d", i, r.Post.PostID)
		}
	}
}
