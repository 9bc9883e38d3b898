package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/a-marchenko/hookah-notes-api/internal/model"
)

// dbTimeout bounds every database call made from a handler.
const dbTimeout = 5 * time.Second

func reqContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// ----- shared response DTOs -----

// userPart is the public projection of a user; password hashes and emails
// never leave the API.
type userPart struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
	Language string `json:"language,omitempty"`
}

func toUserPart(u model.User) userPart {
	return userPart{ID: u.ID, Username: u.Username, Role: u.Role, Language: u.Language}
}

func toUserParts(users []model.User) []userPart {
	out := make([]userPart, 0, len(users))
	for _, u := range users {
		out = append(out, userPart{ID: u.ID, Username: u.Username, Language: u.Language})
	}
	return out
}

type tobaccoPart struct {
	ID         uint64 `json:"id"`
	Brand      string `json:"brand"`
	Name       string `json:"name"`
	Percentage int    `json:"percentage"`
}

type tagPart struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
	Hue   int    `json:"hue"`
}

type notePart struct {
	ID          uint64        `json:"id"`
	Author      userPart      `json:"author"`
	Title       string        `json:"title"`
	Duration    int           `json:"duration"`
	Strength    int           `json:"strength"`
	Description string        `json:"description,omitempty"`
	Tobaccos    []tobaccoPart `json:"tobaccos"`
	Tags        []tagPart     `json:"tags"`
	LikeCount   int           `json:"like_count"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func toNotePart(n model.Note) notePart {
	p := notePart{
		ID:          n.ID,
		Title:       n.Title,
		Duration:    n.Duration,
		Strength:    n.Strength,
		Description: n.Description,
		LikeCount:   n.LikeCount,
		UpdatedAt:   n.UpdatedAt,
		Tobaccos:    make([]tobaccoPart, 0, len(n.Tobaccos)),
		Tags:        make([]tagPart, 0, len(n.Tags)),
	}
	if n.Author != nil {
		p.Author = userPart{ID: n.Author.ID, Username: n.Author.Username}
	} else {
		p.Author = userPart{ID: n.AuthorID}
	}
	for _, t := range n.Tobaccos {
		p.Tobaccos = append(p.Tobaccos, tobaccoPart{ID: t.ID, Brand: t.Brand, Name: t.Name, Percentage: t.Percentage})
	}
	for _, t := range n.Tags {
		p.Tags = append(p.Tags, tagPart{ID: t.ID, Title: t.Title, Hue: t.Hue})
	}
	return p
}

func toNoteParts(notes []model.Note) []notePart {
	out := make([]notePart, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNotePart(n))
	}
	return out
}

// normalizeLanguage narrows a requested language to the supported set.
func normalizeLanguage(lang string) string {
	if lang == "ru" {
		return "ru"
	}
	return "en"
}
