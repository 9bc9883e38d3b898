package model

// Like mirrors the `likes` table. One row per (user, note) pair; rows are
// deleted when the like is toggled off or the note is removed.
type Like struct {
	ID     uint64 // likes.id
	UserID uint64 // likes.user_id
	NoteID uint64 // likes.note_id
}

// Follow mirrors the `follows` table. Follower follows Following; the pair
// is unique and self-follows are rejected before insert.
type Follow struct {
	ID          uint64 // follows.id
	FollowerID  uint64 // follows.follower_id
	FollowingID uint64 // follows.following_id
}
