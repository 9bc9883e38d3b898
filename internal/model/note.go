package model

import "time"

// Note mirrors the `notes` table. Duration and Strength are 1..5 scores.
// LikeCount is denormalized and kept in step with the likes table inside
// the like-toggle transaction.
type Note struct {
	ID          uint64    // notes.id
	AuthorID    uint64    // notes.author_id
	Author      *User     // joined author row, nil when not loaded
	Title       string    // notes.title
	Duration    int       // notes.duration (1..5)
	Strength    int       // notes.strength (1..5)
	Description string    // notes.description (empty when NULL)
	LikeCount   int       // notes.like_count
	Tobaccos    []Tobacco // child rows from tobaccos
	Tags        []Tag     // joined via note_tags
	UpdatedAt   time.Time // notes.updated_at
}

// Tobacco mirrors the `tobaccos` table. Each row is one allocation inside a
// note's mix; the percentages of a note's tobaccos always sum to 100.
type Tobacco struct {
	ID         uint64 // tobaccos.id
	NoteID     uint64 // tobaccos.note_id
	Brand      string // tobaccos.brand
	Name       string // tobaccos.name
	Percentage int    // tobaccos.percentage
}

// Tag mirrors the `tags` table. Hue is the display color (0..359).
type Tag struct {
	ID    uint64 // tags.id
	Title string // tags.title
	Hue   int    // tags.hue
}
