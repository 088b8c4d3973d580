package model_test

import (
	"testing"
	"time"

	model "github.com/okian/scout/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSnapshotHash(t *testing.T) {
	Convey("Given an agent activity snapshot", t, func() {
		createdAt := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
		profile := model.AgentProfile{
			Name:           "alice",
			CreatedAt:      createdAt,
			IsClaimed:      true,
			FollowerCount:  120,
			FollowingCount: 80,
			Description:    "research bot",
		}
		posts := []model.Post{{
			Author:       "alice",
			CreatedAt:    createdAt.Add(time.Hour),
			Title:        "first post",
			Content:      "hello",
			Upvotes:      4,
			CommentCount: 2,
		}}
		comments := []model.Comment{{
			Author:    "alice",
			CreatedAt: createdAt.Add(2 * time.Hour),
			Content:   "reply",
			Upvotes:   1,
			Parent:    &model.PostRef{ID: "post-9"},
		}}

		Convey("When hashing the same snapshot twice", func() {
			first := model.SnapshotHash(profile, posts, comments)
			second := model.SnapshotHash(profile, posts, comments)

			Convey("Then the hash should be deterministic", func() {
				So(second, ShouldEqual, first)
			})
		})

		Convey("When the profile changes", func() {
			base := model.SnapshotHash(profile, posts, comments)

			renamed := profile
			renamed.Name = "alice2"

			claimed := profile
			claimed.IsClaimed = false

			Convey("Then the hash should change", func() {
				So(model.SnapshotHash(renamed, posts, comments), ShouldNotEqual, base)
				So(model.SnapshotHash(claimed, posts, comments), ShouldNotEqual, base)
			})
		})

		Convey("When the activity changes", func() {
			base := model.SnapshotHash(profile, posts, comments)

			edited := append([]model.Post(nil), posts...)
			edited[0].Upvotes = 5

			Convey("Then the hash should change", func() {
				So(model.SnapshotHash(profile, edited, comments), ShouldNotEqual, base)
				So(model.SnapshotHash(profile, posts, nil), ShouldNotEqual, base)
			})
		})

		Convey("When an owner link is attached", func() {
			base := model.SnapshotHash(profile, nil, nil)

			linked := profile
			linked.Owner = &model.OwnerLink{Handle: "human", FollowerCount: 900, Verified: true}

			Convey("Then the hash should change", func() {
				So(model.SnapshotHash(linked, nil, nil), ShouldNotEqual, base)
			})
		})

		Convey("When the snapshot is empty", func() {
			empty := model.SnapshotHash(model.AgentProfile{CreatedAt: time.Unix(0, 0)}, nil, nil)

			Convey("Then it still yields a stable hash", func() {
				So(model.SnapshotHash(model.AgentProfile{CreatedAt: time.Unix(0, 0)}, nil, nil), ShouldEqual, empty)
			})
		})
	})
}
