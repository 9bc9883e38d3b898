package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-marchenko/hookah-notes-api/internal/model"
	"github.com/a-marchenko/hookah-notes-api/internal/queue"
)

func TestLikeToggle(t *testing.T) {
	notes := newFakeNoteStore()
	likes := newFakeLikeStore(notes)
	var events []queue.ActivityEvent
	h := NewLikeHandler(likes, notes, capturePublish(&events))

	alice := model.User{ID: 7, Username: "alice"}
	req := validNoteReq()
	note := req.toModel(9)
	require.NoError(t, notes.Create(t.Context(), note))

	toggle := func(t *testing.T, u model.User, id string) (int, map[string]any) {
		t.Helper()
		c, rec := newJSONContext(t, http.MethodPost, "/v1/notes/"+id+"/like", nil)
		c.SetParamNames("id")
		c.SetParamValues(id)
		asUser(c, u)
		require.NoError(t, h.Toggle(c))
		return rec.Code, decodeBody(t, rec)
	}

	t.Run("first toggle likes", func(t *testing.T) {
		code, body := toggle(t, alice, "1")
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, true, body["liked"])
		assert.Equal(t, 1, notes.notes[note.ID].LikeCount)
	})

	t.Run("second toggle unlikes", func(t *testing.T) {
		code, body := toggle(t, alice, "1")
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, false, body["liked"])
		assert.Equal(t, 0, notes.notes[note.ID].LikeCount, "counter never goes negative")
	})

	t.Run("missing note", func(t *testing.T) {
		code, body := toggle(t, alice, "42")
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "note not found", body["error"])
	})

	t.Run("events published with note title", func(t *testing.T) {
		require.Len(t, events, 2, "one event per successful toggle")
		assert.Equal(t, queue.EventNoteLiked, events[0].Type)
		assert.Equal(t, "Evening mix", events[0].NoteTitle)
		assert.True(t, events[0].Liked)
		assert.False(t, events[1].Liked)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodPost, "/v1/notes/1/like", nil)
		c.SetParamNames("id")
		c.SetParamValues("1")
		require.NoError(t, h.Toggle(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
