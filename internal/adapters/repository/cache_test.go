package repository_test

import (
	"testing"

	repository "github.com/okian/scout/internal/adapters/repository"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResultCache(t *testing.T) {
	Convey("Given a result cache", t, func() {
		c, err := repository.NewResultCache(8)
		So(err, ShouldBeNil)

		key := repository.CacheKey{Agent: "alice", Hash: 0xdeadbeef}

		Convey("When the snapshot has not been scored", func() {
			_, ok := c.Get(key)

			So(ok, ShouldBeFalse)
		})

		Convey("When a result is cached", func() {
			c.Add(key, result("alice", 72))

			Convey("Then the same snapshot hits", func() {
				res, ok := c.Get(key)
				So(ok, ShouldBeTrue)
				So(res.Score, ShouldEqual, 72)
				So(c.Len(), ShouldEqual, 1)
			})

			Convey("Then a changed snapshot misses", func() {
				_, ok := c.Get(repository.CacheKey{Agent: "alice", Hash: 0xcafe})
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When constructed with a non-positive size", func() {
			fallback, err := repository.NewResultCache(0)

			Convey("Then the default capacity applies", func() {
				So(err, ShouldBeNil)
				So(fallback.Len(), ShouldEqual, 0)
			})
		})
	})
}
