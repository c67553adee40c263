//go:build integration

package store

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestMongoStore_Integration(t *testing.T) {
	uri := os.Getenv("CANVASKIT_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := NewMongoStore(ctx, MongoConfig{URI: uri, Database: "canvaskit_test", Collection: t.Name()})
	if err != nil {
		t.Skipf("mongo not reachable at %s: %v", uri, err)
	}
	defer func() {
		_ = s.coll.Drop(context.Background())
		s.Close()
	}()

	exercise(t, s)
}
