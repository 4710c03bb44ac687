// Seed tool: copies a post catalogue into MongoDB so the server can load
// its directory with POSTS_SOURCE=mongo.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/anonto42/nano-midea/postdir/internal/directory"
	"github.com/anonto42/nano-midea/postdir/internal/repositories"
	"github.com/anonto42/nano-midea/postdir/pkg/config"
)

func main() {
	cfg := config.Load()

	var file, uri, database string
	flag.StringVar(&file, "file", "", "JSON catalogue to seed (default: built-in posts)")
	flag.StringVar(&uri, "mongo-uri", cfg.MongoURI, "MongoDB connection URI")
	flag.StringVar(&database, "db", cfg.MongoDatabase, "MongoDB database name")
	flag.Parse()

	if uri == "" {
		log.Fatal("a MongoDB URI is required (-mongo-uri or MONGO_URI)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var source repositories.PostSource = repositories.NewFixturePostRepository()
	if file != "" {
		source = repositories.NewFilePostRepository(file)
	}
	records, err := source.LoadPosts(ctx)
	if err != nil {
		log.Fatalf("load posts: %v", err)
	}

	// Refuse to store a catalogue the server would reject at startup.
	dir, err := directory.New(records)
	if err != nil {
		log.Fatalf("catalogue rejected: %v", err)
	}

	client, err := config.InitMongo(uri)
	if err != nil {
		log.Fatalf("connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	repo := repositories.NewMongoPostRepository(client.Database(database))
	if err := repo.ReplaceAll(ctx, dir.Posts()); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	log.Printf("seeded %d posts into %s.posts", dir.Len(), database)
}
