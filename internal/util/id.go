package util

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID returns a random identifier such as "idea_3f2a…". The prefix names
// the entity kind (usr, prf, cat, idea, vote, cmt, rft) so ids stay readable
// in logs and in the database; an empty prefix yields the bare hex value.
// 16 random bytes keep collisions out of reach without coordinating state.
func NewID(prefix string) string {
	raw := make([]byte, 16)
	_, _ = rand.Read(raw)
	id := hex.EncodeToString(raw)
	if prefix == "" {
		return id
	}
	return prefix + "_" + id
}
