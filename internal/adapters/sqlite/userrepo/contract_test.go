package userrepo

import (
	"testing"

	"github.com/reelboard/movie-blog-api/internal/adapters/contracttest"
	"github.com/reelboard/movie-blog-api/internal/adapters/sqlite"
	userrepoport "github.com/reelboard/movie-blog-api/internal/ports/out/userrepo"
)

func TestContract_SQLiteUserRepo(t *testing.T) {
	contracttest.RunUserRepo(t, func(t *testing.T) (userrepoport.Repository, func()) {
		t.Helper()
		db, err := sqlite.Open(":memory:")
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		return NewRepo(db), func() { db.Close() }
	})
}
