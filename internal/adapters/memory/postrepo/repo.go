package postrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/reelboard/movie-blog-api/internal/domain"
	"github.com/reelboard/movie-blog-api/internal/ports/out/postrepo"
)

// Repo is an in-memory implementation of postrepo.Repository.
// It is safe for concurrent use; comment mutation happens under the write lock,
// so concurrent AddComment calls cannot lose updates.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.PostID]postrepo.Post
	// seq assigns insertion order for List.
	seq     map[domain.PostID]uint64
	nextSeq uint64
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.PostID]postrepo.Post),
		seq:  make(map[domain.PostID]uint64),
	}
}

func (r *Repo) Create(ctx context.Context, p postrepo.Post) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; ok {
		return postrepo.ErrAlreadyExists
	}
	r.byID[p.ID] = clonePost(p)
	r.nextSeq++
	r.seq[p.ID] = r.nextSeq
	return nil
}

func (r *Repo) Update(ctx context.Context, p postrepo.Post) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[p.ID]
	if !ok {
		return postrepo.ErrNotFound
	}
	// Only the post's own fields are written; the stored comment sequence wins.
	cur.Title = p.Title
	cur.Content = p.Content
	cur.Author = p.Author
	r.byID[p.ID] = cur
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.PostID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return postrepo.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.seq, id)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.PostID) (postrepo.Post, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return postrepo.Post{}, postrepo.ErrNotFound
	}
	return clonePost(p), nil
}

func (r *Repo) List(ctx context.Context) ([]postrepo.Post, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]postrepo.Post, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, clonePost(p))
	}
	sort.Slice(out, func(i, j int) bool {
		return r.seq[out[i].ID] < r.seq[out[j].ID]
	})
	return out, nil
}

func (r *Repo) AddComment(ctx context.Context, id domain.PostID, c postrepo.Comment) (postrepo.Post, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return postrepo.Post{}, postrepo.ErrNotFound
	}
	p.Comments = append(p.Comments, cloneComment(c))
	r.byID[id] = p
	return clonePost(p), nil
}

func (r *Repo) RemoveComment(ctx context.Context, id domain.PostID, commentID domain.CommentID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return postrepo.ErrNotFound
	}
	idx := -1
	for i, c := range p.Comments {
		if c.ID == commentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return postrepo.ErrCommentNotFound
	}
	p.Comments = append(p.Comments[:idx], p.Comments[idx+1:]...)
	r.byID[id] = p
	return nil
}

func clonePost(p postrepo.Post) postrepo.Post {
	cp := p
	cp.Comments = make([]postrepo.Comment, 0, len(p.Comments))
	for _, c := range p.Comments {
		cp.Comments = append(cp.Comments, cloneComment(c))
	}
	return cp
}

func cloneComment(c postrepo.Comment) postrepo.Comment {
	cp := c
	if c.UserID != nil {
		v := *c.UserID
		cp.UserID = &v
	}
	return cp
}
