package repositories

import (
	"context"
	"fmt"
	"os"

	"github.com/anonto42/nano-midea/postdir/internal/fixture"
	"github.com/anonto42/nano-midea/postdir/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostSource defines where the post directory is loaded from
type PostSource interface {
	LoadPosts(ctx context.Context) ([]models.PostRecord, error)
}

// FixturePostRepository serves the built-in catalogue
type FixturePostRepository struct{}

// NewFixturePostRepository creates a new FixturePostRepository
func NewFixturePostRepository() *FixturePostRepository {
	return &FixturePostRepository{}
}

// LoadPosts returns the built-in posts
func (r *FixturePostRepository) LoadPosts(ctx context.Context) ([]models.PostRecord, error) {
	return fixture.Posts()
}

// FilePostRepository reads posts from a JSON file in the fixture's shape
type FilePostRepository struct {
	path string
}

// NewFilePostRepository creates a new FilePostRepository
func NewFilePostRepository(path string) *FilePostRepository {
	return &FilePostRepository{path: path}
}

// LoadPosts reads and decodes the file
func (r *FilePostRepository) LoadPosts(ctx context.Context) ([]models.PostRecord, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open posts file: %w", err)
	}
	defer f.Close()

	return fixture.Decode(f)
}

// postDocument is how a record is stored in MongoDB. Position keeps the
// directory's insertion order, which the collection does not guarantee.
type postDocument struct {
	Position int                `bson:"position"`
	Post     models.Post        `bson:"post"`
	Pictures []models.MediaItem `bson:"pictures"`
}

// MongoPostRepository implements PostSource for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// LoadPosts reads every post from MongoDB in stored order
func (r *MongoPostRepository) LoadPosts(ctx context.Context) ([]models.PostRecord, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []postDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return recordsFromDocuments(docs), nil
}

// ReplaceAll swaps the stored catalogue for records
func (r *MongoPostRepository) ReplaceAll(ctx context.Context, records []models.PostRecord) error {
	if _, err := r.collection.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("clear posts: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	if _, err := r.collection.InsertMany(ctx, documentsFromRecords(records)); err != nil {
		return fmt.Errorf("insert posts: %w", err)
	}
	return nil
}

func documentsFromRecords(records []models.PostRecord) []interface{} {
	docs := make([]interface{}, len(records))
	for i, rec := range records {
		pictures := rec.Pictures
		if pictures == nil {
			pictures = []models.MediaItem{}
		}
		docs[i] = postDocument{Position: i, Post: rec.Post, Pictures: pictures}
	}
	return docs
}

func recordsFromDocuments(docs []postDocument) []models.PostRecord {
	records := make([]models.PostRecord, len(docs))
	for i, d := range docs {
		records[i] = models.PostRecord{Post: d.Post, Pictures: d.Pictures}
	}
	return records
}
