package stats_test

import (
	"testing"
	"time"

	stats "github.com/okian/scout/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWilsonLowerBound(t *testing.T) {
	Convey("Given the Wilson lower bound", t, func() {
		Convey("When there are no trials", func() {
			So(stats.WilsonLowerBound(0, 0, 0.95), ShouldEqual, 0)
		})

		Convey("When all trials are positive", func() {
			small := stats.WilsonLowerBound(5, 5, 0.95)
			large := stats.WilsonLowerBound(500, 500, 0.95)

			Convey("Then the bound stays below the observed ratio", func() {
				So(small, ShouldBeLessThan, 1)
				So(large, ShouldBeLessThan, 1)
			})

			Convey("Then more evidence tightens the bound", func() {
				So(large, ShouldBeGreaterThan, small)
			})
		})

		Convey("When the confidence level is lower", func() {
			narrow := stats.WilsonLowerBound(50, 100, 0.90)
			wide := stats.WilsonLowerBound(50, 100, 0.95)

			Convey("Then the 90% bound is less conservative", func() {
				So(narrow, ShouldBeGreaterThan, wide)
			})
		})

		Convey("When positives exceed the total", func() {
			b := stats.WilsonLowerBound(150, 100, 0.95)

			Convey("Then the observed ratio is clamped to 1", func() {
				So(b, ShouldBeLessThanOrEqualTo, 1)
				So(b, ShouldBeGreaterThan, 0.9)
			})
		})

		Convey("When no trials are positive", func() {
			So(stats.WilsonLowerBound(0, 100, 0.95), ShouldEqual, 0)
		})
	})
}

func TestTrustDecay(t *testing.T) {
	Convey("Given exponential trust decay", t, func() {
		Convey("When activity is recent", func() {
			So(stats.TrustDecay(0, 30), ShouldEqual, 1.0)
			So(stats.TrustDecay(1, 30), ShouldEqual, 1.0)
		})

		Convey("When one half-life has passed", func() {
			So(stats.TrustDecay(30, 30), ShouldAlmostEqual, 0.5, 1e-9)
		})

		Convey("When two half-lives have passed", func() {
			So(stats.TrustDecay(60, 30), ShouldAlmostEqual, 0.25, 1e-9)
		})

		Convey("When dormancy grows", func() {
			d10 := stats.TrustDecay(10, 30)
			d20 := stats.TrustDecay(20, 30)

			Convey("Then decay is monotonically decreasing", func() {
				So(d20, ShouldBeLessThan, d10)
				So(d10, ShouldBeLessThan, 1.0)
			})
		})
	})
}

func TestBurstiness(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	Convey("Given an event timestamp sequence", t, func() {
		Convey("When there are fewer than three events", func() {
			b := stats.Burstiness([]time.Time{base, base.Add(time.Hour)})

			Convey("Then the result is neutral", func() {
				So(b.B, ShouldEqual, 0)
				So(b.M, ShouldEqual, 0)
			})
		})

		Convey("When events fire on a fixed schedule", func() {
			events := make([]time.Time, 10)
			for i := range events {
				events[i] = base.Add(time.Duration(i) * time.Hour)
			}
			b := stats.Burstiness(events)

			Convey("Then B approaches -1", func() {
				So(b.B, ShouldAlmostEqual, -1, 1e-9)
			})
		})

		Convey("When events cluster into bursts", func() {
			events := []time.Time{
				base,
				base.Add(time.Second),
				base.Add(2 * time.Second),
				base.Add(48 * time.Hour),
				base.Add(48*time.Hour + time.Second),
				base.Add(96 * time.Hour),
			}
			b := stats.Burstiness(events)

			Convey("Then B is well above the mechanical floor", func() {
				So(b.B, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When timestamps arrive out of order", func() {
			ordered := []time.Time{base, base.Add(time.Hour), base.Add(3 * time.Hour), base.Add(7 * time.Hour)}
			shuffled := []time.Time{ordered[2], ordered[0], ordered[3], ordered[1]}

			Convey("Then the result matches the sorted sequence", func() {
				So(stats.Burstiness(shuffled).B, ShouldAlmostEqual, stats.Burstiness(ordered).B, 1e-9)
			})
		})
	})
}

func TestNCD(t *testing.T) {
	Convey("Given compression distance between texts", t, func() {
		Convey("When either text is empty", func() {
			So(stats.NCD("", "anything"), ShouldEqual, 1.0)
			So(stats.NCD("anything", ""), ShouldEqual, 1.0)
		})

		Convey("When texts are identical", func() {
			text := "the quick brown fox jumps over the lazy dog, again and again and again"
			d := stats.NCD(text, text)

			Convey("Then the distance is near zero", func() {
				So(d, ShouldBeLessThan, 0.3)
			})
		})

		Convey("When texts share nothing", func() {
			a := "alpha bravo charlie delta echo foxtrot golf hotel india juliet"
			b := "zx9 qw7 mn3 pl1 kj5 hg8 fd2 sa6 vc4 bn0 tr west north south east"
			d := stats.NCD(a, b)

			Convey("Then the distance is clearly larger than for duplicates", func() {
				So(d, ShouldBeGreaterThan, stats.NCD(a, a))
			})
		})
	})
}

func TestGini(t *testing.T) {
	Convey("Given the Gini coefficient of sorted values", t, func() {
		Convey("When the slice is empty", func() {
			So(stats.Gini(nil), ShouldEqual, 0)
		})

		Convey("When everything is zero", func() {
			So(stats.Gini([]float64{0, 0, 0}), ShouldEqual, 0)
		})

		Convey("When the distribution is perfectly even", func() {
			So(stats.Gini([]float64{5, 5, 5, 5}), ShouldAlmostEqual, 0, 1e-9)
		})

		Convey("When one target receives everything", func() {
			g := stats.Gini([]float64{0, 0, 0, 10})

			Convey("Then concentration is high", func() {
				So(g, ShouldAlmostEqual, 0.75, 1e-9)
			})
		})

		Convey("When concentration increases", func() {
			even := stats.Gini([]float64{3, 3, 3, 3})
			skewed := stats.Gini([]float64{1, 1, 2, 8})

			So(skewed, ShouldBeGreaterThan, even)
		})
	})
}
