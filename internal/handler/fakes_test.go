package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/a-marchenko/hookah-notes-api/internal/config"
	"github.com/a-marchenko/hookah-notes-api/internal/middleware"
	"github.com/a-marchenko/hookah-notes-api/internal/model"
	"github.com/a-marchenko/hookah-notes-api/internal/queue"
	"github.com/a-marchenko/hookah-notes-api/internal/repository"
)

// In-memory implementations of the handler ports. They reproduce the
// repository contracts (sentinel errors, duplicate detection) closely enough
// for the request logic to behave as it would against MySQL and Redis.

type fakeUserStore struct {
	nextID uint64
	users  map[uint64]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uint64]*model.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, username, email, passwordHash, language string) (uint64, error) {
	for _, u := range s.users {
		if u.Username == username {
			return 0, repository.ErrUsernameExists
		}
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	s.nextID++
	s.users[s.nextID] = &model.User{
		ID:           s.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         model.RoleUser,
		Language:     language,
	}
	return s.nextID, nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	if u, ok := s.users[id]; ok {
		return *u, nil
	}
	return model.User{}, repository.ErrNotFound
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return *u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return *u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *fakeUserStore) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeUserStore) SetConfirmed(_ context.Context, id uint64) error {
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Confirmed = true
	return nil
}

func (s *fakeUserStore) SetPassword(_ context.Context, id uint64, passwordHash string) error {
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (s *fakeUserStore) BumpTokenVersion(_ context.Context, id uint64) error {
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.TokenVersion++
	return nil
}

func (s *fakeUserStore) UpdateRole(_ context.Context, userID uint64, role string) error {
	u, ok := s.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.Role = role
	return nil
}

// addUser seeds a confirmed user with a bcrypt hash of the given password.
func (s *fakeUserStore) addUser(t *testing.T, username, email, password string) model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	id, err := s.Create(context.Background(), username, email, string(hash), "en")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	s.users[id].Confirmed = true
	return *s.users[id]
}

type fakeConfirmationStore struct {
	next   int
	tokens map[string]uint64
}

func newFakeConfirmationStore() *fakeConfirmationStore {
	return &fakeConfirmationStore{tokens: map[string]uint64{}}
}

func (s *fakeConfirmationStore) Create(_ context.Context, kind string, userID uint64) (string, error) {
	s.next++
	token := fmt.Sprintf("tok-%d", s.next)
	s.tokens[kind+":"+token] = userID
	return token, nil
}

func (s *fakeConfirmationStore) Redeem(_ context.Context, kind, token string) (uint64, error) {
	key := kind + ":" + token
	id, ok := s.tokens[key]
	if !ok {
		return 0, repository.ErrNotFound
	}
	delete(s.tokens, key)
	return id, nil
}

type sentMail struct {
	To      string
	Subject string
	HTML    string
}

type fakeMailer struct {
	sent []sentMail
	fail bool
}

func (m *fakeMailer) Send(to, subject, html string) error {
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, HTML: html})
	return nil
}

type fakeNoteStore struct {
	nextID  uint64
	notes   map[uint64]*model.Note
	likedBy map[uint64][]uint64 // user id -> liked note ids
}

func newFakeNoteStore() *fakeNoteStore {
	return &fakeNoteStore{notes: map[uint64]*model.Note{}, likedBy: map[uint64][]uint64{}}
}

func (s *fakeNoteStore) Create(_ context.Context, n *model.Note) error {
	s.nextID++
	n.ID = s.nextID
	cp := *n
	s.notes[n.ID] = &cp
	return nil
}

func (s *fakeNoteStore) Update(_ context.Context, n *model.Note) error {
	existing, ok := s.notes[n.ID]
	if !ok {
		return repository.ErrNotFound
	}
	n.AuthorID = existing.AuthorID
	n.LikeCount = existing.LikeCount
	cp := *n
	s.notes[n.ID] = &cp
	return nil
}

func (s *fakeNoteStore) Delete(_ context.Context, id uint64) error {
	if _, ok := s.notes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.notes, id)
	return nil
}

func (s *fakeNoteStore) GetByID(_ context.Context, id uint64) (model.Note, error) {
	if n, ok := s.notes[id]; ok {
		return *n, nil
	}
	return model.Note{}, repository.ErrNotFound
}

func (s *fakeNoteStore) List(_ context.Context) ([]model.Note, error) {
	out := make([]model.Note, 0, len(s.notes))
	for _, n := range s.notes {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeNoteStore) ListByAuthor(_ context.Context, authorID uint64) ([]model.Note, error) {
	var out []model.Note
	for _, n := range s.notes {
		if n.AuthorID == authorID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (s *fakeNoteStore) ListLikedBy(_ context.Context, userID uint64) ([]model.Note, error) {
	var out []model.Note
	for _, id := range s.likedBy[userID] {
		if n, ok := s.notes[id]; ok {
			out = append(out, *n)
		}
	}
	return out, nil
}

type fakeLikeStore struct {
	notes *fakeNoteStore
	likes map[[2]uint64]bool // {user, note}
}

func newFakeLikeStore(notes *fakeNoteStore) *fakeLikeStore {
	return &fakeLikeStore{notes: notes, likes: map[[2]uint64]bool{}}
}

func (s *fakeLikeStore) Toggle(_ context.Context, userID, noteID uint64) (bool, error) {
	n, ok := s.notes.notes[noteID]
	if !ok {
		return false, repository.ErrNotFound
	}
	key := [2]uint64{userID, noteID}
	if s.likes[key] {
		delete(s.likes, key)
		n.LikeCount--
		return false, nil
	}
	s.likes[key] = true
	n.LikeCount++
	return true, nil
}

type fakeFollowStore struct {
	users *fakeUserStore
	pairs map[[2]uint64]bool // {follower, following}
}

func newFakeFollowStore(users *fakeUserStore) *fakeFollowStore {
	return &fakeFollowStore{users: users, pairs: map[[2]uint64]bool{}}
}

func (s *fakeFollowStore) Follow(_ context.Context, followerID, followingID uint64) error {
	key := [2]uint64{followerID, followingID}
	if s.pairs[key] {
		return repository.ErrDuplicate
	}
	s.pairs[key] = true
	return nil
}

func (s *fakeFollowStore) Unfollow(_ context.Context, followerID, followingID uint64) error {
	key := [2]uint64{followerID, followingID}
	if !s.pairs[key] {
		return repository.ErrNotFound
	}
	delete(s.pairs, key)
	return nil
}

func (s *fakeFollowStore) ListFollowers(_ context.Context, userID uint64) ([]model.User, error) {
	var out []model.User
	for pair := range s.pairs {
		if pair[1] == userID {
			if u, ok := s.users.users[pair[0]]; ok {
				out = append(out, *u)
			}
		}
	}
	return out, nil
}

func (s *fakeFollowStore) ListFollowing(_ context.Context, userID uint64) ([]model.User, error) {
	var out []model.User
	for pair := range s.pairs {
		if pair[0] == userID {
			if u, ok := s.users.users[pair[1]]; ok {
				out = append(out, *u)
			}
		}
	}
	return out, nil
}

// capturePublish records activity events instead of talking to the broker.
func capturePublish(events *[]queue.ActivityEvent) PublishFunc {
	return func(_ context.Context, event queue.ActivityEvent) error {
		*events = append(*events, event)
		return nil
	}
}

// ----- request helpers -----

func testConfig() config.Config {
	return config.Config{
		Env:            "test",
		AccessSecret:   "access-secret",
		RefreshSecret:  "refresh-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     bcrypt.MinCost,
		ClientURI:      "https://notes.example.com",
	}
}

// bodyReader marshals a request body to JSON.
func bodyReader(t *testing.T, body any) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(raw)
}

// newJSONContext builds an Echo context carrying an optional JSON body.
func newJSONContext(t *testing.T, method, target string, body any) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	reader := bytes.NewReader(nil)
	if body != nil {
		reader = bodyReader(t, body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

// asUser marks the context as authenticated, the way JWTAuth would.
func asUser(c echo.Context, u model.User) {
	c.Set(middleware.CtxUserID, u.ID)
	c.Set(middleware.CtxUsername, u.Username)
	c.Set(middleware.CtxRole, u.Role)
}

// decodeBody unmarshals the JSON response into a generic map.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}
