package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/goph-feed/internal/errs"
	"github.com/and161185/goph-feed/internal/model"
	"github.com/and161185/goph-feed/internal/service"
)

type fakeAuth struct {
	byToken map[string]model.Identity

	registerErr error
	loginErr    error
	revokeErr   error
	authErr     error

	revoked []string
}

var _ service.AuthService = (*fakeAuth)(nil)

func (f *fakeAuth) Register(_ context.Context, username, _ string) (uuid.UUID, string, error) {
	if f.registerErr != nil {
		return uuid.Nil, "", f.registerErr
	}
	id := uuid.Must(uuid.NewV4())
	tok := "tok-" + username
	f.byToken[tok] = model.Identity{ID: id, Username: username}
	return id, tok, nil
}
func (f *fakeAuth) VerifyLogin(_ context.Context, username, _ string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return "tok-" + username, nil
}
func (f *fakeAuth) Revoke(_ context.Context, token string) error {
	if f.revokeErr != nil {
		return f.revokeErr
	}
	f.revoked = append(f.revoked, token)
	delete(f.byToken, token)
	return nil
}
func (f *fakeAuth) Authenticate(_ context.Context, header string) (model.Identity, error) {
	if f.authErr != nil {
		return model.Identity{}, f.authErr
	}
	if header == "" {
		return model.Identity{}, errs.ErrHeaderMissing
	}
	tok, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return model.Identity{}, errs.ErrMalformedHeader
	}
	id, ok := f.byToken[tok]
	if !ok {
		return model.Identity{}, errs.ErrUnauthenticated
	}
	return id, nil
}

type fakeUsers struct {
	byName map[string]model.Identity
	err    error
}

var _ service.UserService = (*fakeUsers)(nil)

func (f *fakeUsers) ByUsername(_ context.Context, name string) (model.Identity, error) {
	if f.err != nil {
		return model.Identity{}, f.err
	}
	id, ok := f.byName[name]
	if !ok {
		return model.Identity{}, errs.ErrUserNotFound
	}
	return id, nil
}

type followCall struct{ follower, followed uuid.UUID }

type fakeFollows struct {
	calls     []followCall
	followErr error
	following []model.Identity
	followers []model.Identity
}

var _ service.FollowService = (*fakeFollows)(nil)

func (f *fakeFollows) IsFollowing(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return false, nil
}
func (f *fakeFollows) Follow(_ context.Context, a, b uuid.UUID) error {
	f.calls = append(f.calls, followCall{a, b})
	if f.followErr != nil {
		return f.followErr
	}
	if a == b {
		return errs.ErrSelfFollow
	}
	return nil
}
func (f *fakeFollows) FollowingOf(context.Context, uuid.UUID) ([]model.Identity, error) {
	return f.following, nil
}
func (f *fakeFollows) FollowersOf(context.Context, uuid.UUID) ([]model.Identity, error) {
	return f.followers, nil
}

type fakeEvents struct {
	posted []string
	err    error
}

var _ service.EventService = (*fakeEvents)(nil)

func (f *fakeEvents) Post(_ context.Context, author uuid.UUID, content string) (model.Event, error) {
	if f.err != nil {
		return model.Event{}, f.err
	}
	f.posted = append(f.posted, content)
	return model.Event{ID: uuid.Must(uuid.NewV7()), UserID: author, Content: content, CreatedAt: time.Now()}, nil
}

type fakeFeed struct {
	items      []model.FeedItem
	err        error
	page, size int
}

var _ service.FeedService = (*fakeFeed)(nil)

func (f *fakeFeed) Timeline(_ context.Context, _ uuid.UUID, page, size int) ([]model.FeedItem, error) {
	f.page, f.size = page, size
	return f.items, f.err
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type testEnv struct {
	auth    *fakeAuth
	users   *fakeUsers
	follows *fakeFollows
	events  *fakeEvents
	feed    *fakeFeed
	srv     *Server
	h       http.Handler

	alice model.Identity
	bob   model.Identity
}

const aliceToken = "tok-alice"

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	alice := model.Identity{ID: uuid.Must(uuid.NewV4()), Username: "alice"}
	bob := model.Identity{ID: uuid.Must(uuid.NewV4()), Username: "bob"}

	env := &testEnv{
		auth:    &fakeAuth{byToken: map[string]model.Identity{aliceToken: alice}},
		users:   &fakeUsers{byName: map[string]model.Identity{"alice": alice, "bob": bob}},
		follows: &fakeFollows{},
		events:  &fakeEvents{},
		feed:    &fakeFeed{},
		alice:   alice,
		bob:     bob,
	}
	env.srv = New(Services{
		Auth:    env.auth,
		Users:   env.users,
		Follows: env.follows,
		Events:  env.events,
		Feed:    env.feed,
	}, fakePinger{}, zaptest.NewLogger(t), 1<<10)
	env.h = env.srv.Routes()
	return env
}

func (e *testEnv) do(method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	return rec
}
