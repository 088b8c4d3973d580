package dedupe_test

import (
	"context"
	"fmt"
	"testing"

	dedupe "github.com/okian/scout/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSeenAndRecord(t *testing.T) {
	Convey("Given an in-memory deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()
		ctx := context.Background()

		Convey("When an ID is seen for the first time", func() {
			seen := d.SeenAndRecord(ctx, "job-1")

			Convey("Then it is newly recorded", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the same ID arrives twice", func() {
			So(d.SeenAndRecord(ctx, "job-1"), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "job-1"), ShouldBeTrue)

			Convey("Then the size does not grow", func() {
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When distinct IDs arrive", func() {
			So(d.SeenAndRecord(ctx, "job-1"), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "job-2"), ShouldBeFalse)

			So(d.Size(), ShouldEqual, 2)
		})
	})
}

func TestUnrecord(t *testing.T) {
	Convey("Given a deduper with a recorded ID", t, func() {
		d := dedupe.NewInMemoryDeduper()
		ctx := context.Background()
		So(d.SeenAndRecord(ctx, "job-1"), ShouldBeFalse)

		Convey("When the ID is unrecorded", func() {
			d.Unrecord(ctx, "job-1")

			Convey("Then it can be recorded again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "job-1"), ShouldBeFalse)
			})
		})

		Convey("When an unknown ID is unrecorded", func() {
			d.Unrecord(ctx, "never-seen")

			Convey("Then nothing changes", func() {
				So(d.Size(), ShouldEqual, 1)
			})
		})
	})
}

func TestBoundedEviction(t *testing.T) {
	Convey("Given a deduper bounded to three entries", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		ctx := context.Background()

		for i := 1; i <= 3; i++ {
			So(d.SeenAndRecord(ctx, fmt.Sprintf("job-%d", i)), ShouldBeFalse)
		}
		So(d.Size(), ShouldEqual, 3)

		Convey("When a fourth ID arrives", func() {
			So(d.SeenAndRecord(ctx, "job-4"), ShouldBeFalse)

			Convey("Then the oldest entry is evicted", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "job-1"), ShouldBeFalse) // forgotten, re-recordable
			})

			Convey("Then newer entries survive", func() {
				So(d.SeenAndRecord(ctx, "job-3"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "job-4"), ShouldBeTrue)
			})
		})
	})
}
