package service

import (
	"context"
	"sort"
	"sync"

	"github.com/and161185/goph-feed/internal/errs"
	"github.com/and161185/goph-feed/internal/model"
	"github.com/and161185/goph-feed/internal/repository"
	"github.com/gofrs/uuid/v5"
)

type fakeUsers struct {
	mu     sync.Mutex
	byName map[string]*model.User
	tokens *fakeTokens

	createErr error
	getErr    error
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func (f *fakeUsers) CreateWithToken(_ context.Context, u *model.User, tok *model.AuthToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if f.byName == nil {
		f.byName = map[string]*model.User{}
	}
	if _, exists := f.byName[u.Username]; exists {
		return errs.ErrAlreadyExists
	}
	cpy := *u
	f.byName[u.Username] = &cpy
	if f.tokens != nil {
		f.tokens.put(*tok, cpy.Identity())
	}
	return nil
}
func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byName[username]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *u
	return &c, nil
}

type fakeTokens struct {
	mu     sync.Mutex
	rows   []model.AuthToken
	owners map[uuid.UUID]model.Identity

	resolveErr error
	deleteErr  error
	created    int
}

var _ repository.TokenRepository = (*fakeTokens)(nil)

func (f *fakeTokens) put(tok model.AuthToken, owner model.Identity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.owners == nil {
		f.owners = map[uuid.UUID]model.Identity{}
	}
	f.rows = append(f.rows, tok)
	f.owners[owner.ID] = owner
}

func (f *fakeTokens) Create(_ context.Context, tok *model.AuthToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.Token == tok.Token {
			return errs.ErrAlreadyExists
		}
	}
	f.rows = append(f.rows, *tok)
	f.created++
	return nil
}
func (f *fakeTokens) FirstForUser(_ context.Context, userID uuid.UUID) (*model.AuthToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.UserID == userID {
			c := r
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}
func (f *fakeTokens) Resolve(_ context.Context, token string) (*model.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	for _, r := range f.rows {
		if r.Token == token {
			id := f.owners[r.UserID]
			return &id, nil
		}
	}
	return nil, errs.ErrNotFound
}
func (f *fakeTokens) Delete(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.rows[:0]
	for _, r := range f.rows {
		if r.Token != token {
			kept = append(kept, r)
		}
	}
	f.rows = kept
	return nil
}

type fakeFollows struct {
	mu    sync.Mutex
	edges []model.Follow
	names map[uuid.UUID]string

	existsErr error
	createErr error
	// skipExists makes Exists report false to simulate a lost pre-check race.
	skipExists  bool
	createCalls int
}

var _ repository.FollowRepository = (*fakeFollows)(nil)

func (f *fakeFollows) Exists(_ context.Context, a, b uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	if f.skipExists {
		return false, nil
	}
	return f.has(a, b), nil
}
func (f *fakeFollows) has(a, b uuid.UUID) bool {
	for _, e := range f.edges {
		if e.FollowerID == a && e.FollowedID == b {
			return true
		}
	}
	return false
}
func (f *fakeFollows) Create(_ context.Context, fw *model.Follow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	if fw.FollowerID == fw.FollowedID {
		return errs.ErrConstraint
	}
	if f.has(fw.FollowerID, fw.FollowedID) {
		return errs.ErrAlreadyExists
	}
	f.edges = append(f.edges, *fw)
	return nil
}
func (f *fakeFollows) Following(_ context.Context, userID uuid.UUID) ([]model.Identity, error) {
	return f.list(func(e model.Follow) (bool, uuid.UUID) { return e.FollowerID == userID, e.FollowedID }), nil
}
func (f *fakeFollows) Followers(_ context.Context, userID uuid.UUID) ([]model.Identity, error) {
	return f.list(func(e model.Follow) (bool, uuid.UUID) { return e.FollowedID == userID, e.FollowerID }), nil
}
func (f *fakeFollows) list(pick func(model.Follow) (bool, uuid.UUID)) []model.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Identity{}
	for _, e := range f.edges {
		if ok, id := pick(e); ok {
			out = append(out, model.Identity{ID: id, Username: f.names[id]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}
func (f *fakeFollows) followedBy(viewer uuid.UUID) map[uuid.UUID]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	set := map[uuid.UUID]bool{viewer: true}
	for _, e := range f.edges {
		if e.FollowerID == viewer {
			set[e.FollowedID] = true
		}
	}
	return set
}

// fakeEvents implements both EventRepository and FeedRepository over memory.
type fakeEvents struct {
	mu      sync.Mutex
	rows    []model.Event
	names   map[uuid.UUID]string
	follows *fakeFollows

	createErr  error
	feedErr    error
	lastLimit  int
	lastOffset int
}

var (
	_ repository.EventRepository = (*fakeEvents)(nil)
	_ repository.FeedRepository  = (*fakeEvents)(nil)
)

func (f *fakeEvents) Create(_ context.Context, e *model.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.rows = append(f.rows, *e)
	return nil
}

func (f *fakeEvents) Timeline(_ context.Context, viewer uuid.UUID, limit, offset int) ([]model.FeedItem, error) {
	if f.feedErr != nil {
		return nil, f.feedErr
	}
	sources := map[uuid.UUID]bool{viewer: true}
	if f.follows != nil {
		sources = f.follows.followedBy(viewer)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit, f.lastOffset = limit, offset

	var all []model.FeedItem
	for _, e := range f.rows {
		if !sources[e.UserID] {
			continue
		}
		all = append(all, model.FeedItem{
			ID: e.ID, Content: e.Content, CreatedAt: e.CreatedAt,
			Author: model.Identity{ID: e.UserID, Username: f.names[e.UserID]},
		})
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.String() > all[j].ID.String()
	})
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}
