package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-marchenko/hookah-notes-api/internal/model"
)

func validNoteReq() noteReq {
	return noteReq{
		Title:    "Evening mix",
		Duration: 3,
		Strength: 4,
		Tobaccos: []tobaccoInput{
			{Brand: "Darkside", Name: "Supernova", Percentage: 60},
			{Brand: "Tangiers", Name: "Cane Mint", Percentage: 40},
		},
		Tags: []tagInput{{Title: "mint", Hue: 120}},
	}
}

func TestNoteValidation(t *testing.T) {
	tweak := func(f func(*noteReq)) noteReq {
		req := validNoteReq()
		f(&req)
		return req
	}

	cases := []struct {
		name string
		req  noteReq
		want string
	}{
		{"valid", validNoteReq(), ""},
		{"title too short", tweak(func(r *noteReq) { r.Title = "a" }),
			"title length can be from 2 to 48 characters"},
		{"title at 48 chars", tweak(func(r *noteReq) { r.Title = strings.Repeat("x", 48) }), ""},
		{"title at 49 chars", tweak(func(r *noteReq) { r.Title = strings.Repeat("x", 49) }),
			"title length can be from 2 to 48 characters"},
		{"duration zero", tweak(func(r *noteReq) { r.Duration = 0 }), "incorrect duration value"},
		{"duration six", tweak(func(r *noteReq) { r.Duration = 6 }), "incorrect duration value"},
		{"strength zero", tweak(func(r *noteReq) { r.Strength = 0 }), "incorrect strength value"},
		{"no tobaccos", tweak(func(r *noteReq) { r.Tobaccos = nil }),
			"from 1 to 4 tobacco items required"},
		{"five tobaccos", tweak(func(r *noteReq) {
			r.Tobaccos = []tobaccoInput{
				{Brand: "a", Name: "a", Percentage: 20}, {Brand: "b", Name: "b", Percentage: 20},
				{Brand: "c", Name: "c", Percentage: 20}, {Brand: "d", Name: "d", Percentage: 20},
				{Brand: "e", Name: "e", Percentage: 20},
			}
		}), "from 1 to 4 tobacco items required"},
		{"single tobacco at 100", tweak(func(r *noteReq) {
			r.Tobaccos = []tobaccoInput{{Brand: "Darkside", Name: "Supernova", Percentage: 100}}
		}), ""},
		{"sum 99", tweak(func(r *noteReq) { r.Tobaccos[1].Percentage = 39 }),
			"tobacco percentages must sum to 100"},
		{"sum 101", tweak(func(r *noteReq) { r.Tobaccos[1].Percentage = 41 }),
			"tobacco percentages must sum to 100"},
		{"zero percentage", tweak(func(r *noteReq) { r.Tobaccos[0].Percentage = 0 }),
			"tobacco percentage must be between 1 and 100"},
		{"blank brand", tweak(func(r *noteReq) { r.Tobaccos[0].Brand = "  " }),
			"tobacco brand and name are required"},
		{"five tags", tweak(func(r *noteReq) {
			r.Tags = []tagInput{{Title: "a"}, {Title: "b"}, {Title: "c"}, {Title: "d"}, {Title: "e"}}
		}), "up to 4 tags allowed"},
		{"no tags is fine", tweak(func(r *noteReq) { r.Tags = nil }), ""},
		{"hue 359", tweak(func(r *noteReq) { r.Tags[0].Hue = 359 }), ""},
		{"hue 360", tweak(func(r *noteReq) { r.Tags[0].Hue = 360 }),
			"tag hue must be between 0 and 359"},
		{"negative hue", tweak(func(r *noteReq) { r.Tags[0].Hue = -1 }),
			"tag hue must be between 0 and 359"},
		{"blank tag title", tweak(func(r *noteReq) { r.Tags[0].Title = " " }),
			"tag title is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			assert.Equal(t, tc.want, req.validate())
		})
	}
}

func TestNoteCreate(t *testing.T) {
	notes := newFakeNoteStore()
	h := NewNoteHandler(notes)
	author := model.User{ID: 7, Username: "alice", Role: model.RoleUser}

	t.Run("created with children", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodPost, "/v1/notes", validNoteReq())
		asUser(c, author)

		require.NoError(t, h.Create(c))
		require.Equal(t, http.StatusCreated, rec.Code)

		stored, err := notes.GetByID(c.Request().Context(), 1)
		require.NoError(t, err)
		assert.Equal(t, author.ID, stored.AuthorID)
		assert.Len(t, stored.Tobaccos, 2)
		assert.Len(t, stored.Tags, 1)
	})

	t.Run("invalid payload is rejected before the store", func(t *testing.T) {
		req := validNoteReq()
		req.Tobaccos[0].Percentage = 55 // sum 95
		c, rec := newJSONContext(t, http.MethodPost, "/v1/notes", req)
		asUser(c, author)

		before := len(notes.notes)
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Len(t, notes.notes, before)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodPost, "/v1/notes", validNoteReq())
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestNoteUpdateOwnership(t *testing.T) {
	notes := newFakeNoteStore()
	h := NewNoteHandler(notes)
	author := model.User{ID: 7, Username: "alice"}
	other := model.User{ID: 8, Username: "bob"}

	seedReq := validNoteReq()
	seed := seedReq.toModel(author.ID)
	require.NoError(t, notes.Create(t.Context(), seed))

	t.Run("author may edit", func(t *testing.T) {
		req := validNoteReq()
		req.Title = "Updated mix"
		c, rec := newJSONContext(t, http.MethodPut, "/v1/notes/1", req)
		c.SetParamNames("id")
		c.SetParamValues("1")
		asUser(c, author)

		require.NoError(t, h.Update(c))
		require.Equal(t, http.StatusOK, rec.Code)

		stored, _ := notes.GetByID(c.Request().Context(), seed.ID)
		assert.Equal(t, "Updated mix", stored.Title)
	})

	t.Run("non-author gets 403", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodPut, "/v1/notes/1", validNoteReq())
		c.SetParamNames("id")
		c.SetParamValues("1")
		asUser(c, other)

		require.NoError(t, h.Update(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "permission denied", decodeBody(t, rec)["error"])
	})

	t.Run("missing note gets 404", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodPut, "/v1/notes/999", validNoteReq())
		c.SetParamNames("id")
		c.SetParamValues("999")
		asUser(c, author)

		require.NoError(t, h.Update(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestNoteDelete(t *testing.T) {
	notes := newFakeNoteStore()
	h := NewNoteHandler(notes)
	author := model.User{ID: 7, Username: "alice"}
	other := model.User{ID: 8, Username: "bob"}

	seedReq := validNoteReq()
	seed := seedReq.toModel(author.ID)
	require.NoError(t, notes.Create(t.Context(), seed))

	t.Run("non-author gets 403", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodDelete, "/v1/notes/1", nil)
		c.SetParamNames("id")
		c.SetParamValues("1")
		asUser(c, other)

		require.NoError(t, h.Delete(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("author deletes", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodDelete, "/v1/notes/1", nil)
		c.SetParamNames("id")
		c.SetParamValues("1")
		asUser(c, author)

		require.NoError(t, h.Delete(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, notes.notes)
	})
}

func TestNoteReads(t *testing.T) {
	notes := newFakeNoteStore()
	h := NewNoteHandler(notes)
	alice := model.User{ID: 7, Username: "alice"}

	firstReq := validNoteReq()
	first := firstReq.toModel(alice.ID)
	require.NoError(t, notes.Create(t.Context(), first))
	secondReq := validNoteReq()
	second := secondReq.toModel(9)
	second.Title = "Someone else's mix"
	require.NoError(t, notes.Create(t.Context(), second))
	notes.likedBy[alice.ID] = []uint64{second.ID}

	t.Run("get by id", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodGet, "/v1/notes/1", nil)
		c.SetParamNames("id")
		c.SetParamValues("1")

		require.NoError(t, h.Get(c))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Evening mix", decodeBody(t, rec)["title"])
	})

	t.Run("unknown id", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodGet, "/v1/notes/42", nil)
		c.SetParamNames("id")
		c.SetParamValues("42")

		require.NoError(t, h.Get(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("list by author", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodGet, "/v1/users/7/notes", nil)
		c.SetParamNames("id")
		c.SetParamValues("7")

		require.NoError(t, h.ListByUser(c))
		require.Equal(t, http.StatusOK, rec.Code)
		items := decodeBody(t, rec)["items"].([]any)
		assert.Len(t, items, 1)
	})

	t.Run("favorites", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodGet, "/v1/me/favorites", nil)
		asUser(c, alice)

		require.NoError(t, h.Favorites(c))
		require.Equal(t, http.StatusOK, rec.Code)
		items := decodeBody(t, rec)["items"].([]any)
		require.Len(t, items, 1)
		note := items[0].(map[string]any)
		assert.Equal(t, "Someone else's mix", note["title"])
	})
}
