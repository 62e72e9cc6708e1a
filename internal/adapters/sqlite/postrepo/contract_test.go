package postrepo

import (
	"testing"

	"github.com/reelboard/movie-blog-api/internal/adapters/contracttest"
	"github.com/reelboard/movie-blog-api/internal/adapters/sqlite"
	postrepoport "github.com/reelboard/movie-blog-api/internal/ports/out/postrepo"
)

func TestContract_SQLitePostRepo(t *testing.T) {
	contracttest.RunPostRepo(t, func(t *testing.T) (postrepoport.Repository, func()) {
		t.Helper()
		db, err := sqlite.Open(":memory:")
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		return NewRepo(db), func() { db.Close() }
	})
}
