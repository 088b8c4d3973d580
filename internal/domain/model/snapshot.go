package model

import (
	"encoding/binary"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// SnapshotHash returns a content hash of an activity snapshot. Results cached
// by agent name alone can go stale; keying by (agent, snapshot hash) ties a
// cached score to the exact activity it was computed from.
func SnapshotHash(profile AgentProfile, posts []Post, comments []Comment) uint64 {
	d := xxhash.New()
	writeString(d, profile.Name)
	writeInt64(d, profile.CreatedAt.Unix())
	writeString(d, strconv.FormatBool(profile.IsClaimed))
	writeInt64(d, int64(profile.FollowerCount))
	writeInt64(d, int64(profile.FollowingCount))
	writeString(d, profile.Description)
	if profile.Owner != nil {
		writeString(d, profile.Owner.Handle)
		writeInt64(d, int64(profile.Owner.FollowerCount))
		writeString(d, strconv.FormatBool(profile.Owner.Verified))
	}
	for i := range posts {
		writeInt64(d, posts[i].CreatedAt.Unix())
		writeString(d, posts[i].Title)
		writeString(d, posts[i].Content)
		writeInt64(d, int64(posts[i].Upvotes))
		writeInt64(d, int64(posts[i].CommentCount))
	}
	for i := range comments {
		writeInt64(d, comments[i].CreatedAt.Unix())
		writeString(d, comments[i].Content)
		writeInt64(d, int64(comments[i].Upvotes))
		if comments[i].Parent != nil {
			writeString(d, comments[i].Parent.ID)
		}
	}
	return d.Sum64()
}

func writeString(d *xxhash.Digest, s string) {
	_, _ = d.WriteString(s)
	_, _ = d.Write([]byte{0}) // field separator
}

func writeInt64(d *xxhash.Digest, v int64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	_, _ = d.Write(buf[:])
}
