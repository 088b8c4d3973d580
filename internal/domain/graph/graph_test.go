package graph_test

import (
	"testing"
	"time"

	graph "github.com/okian/scout/internal/domain/graph"
	"github.com/okian/scout/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAddInteraction(t *testing.T) {
	Convey("Given an empty interaction graph", t, func() {
		g := graph.New()

		Convey("When adding a valid interaction", func() {
			err := g.AddInteraction("alice", "bob", 2)

			Convey("Then both agents appear as nodes with one edge", func() {
				So(err, ShouldBeNil)
				So(g.Nodes(), ShouldEqual, 2)
				So(g.Edges(), ShouldEqual, 1)
			})
		})

		Convey("When repeating an interaction", func() {
			So(g.AddInteraction("alice", "bob", 1), ShouldBeNil)
			So(g.AddInteraction("alice", "bob", 1), ShouldBeNil)

			Convey("Then weight accumulates on the same edge", func() {
				So(g.Edges(), ShouldEqual, 1)
				So(g.Stats().TotalWeight, ShouldEqual, 2)
			})
		})

		Convey("When the interaction is a self-loop", func() {
			err := g.AddInteraction("alice", "alice", 1)

			Convey("Then it is rejected", func() {
				So(err, ShouldEqual, graph.ErrSelfLoop)
				So(g.Nodes(), ShouldEqual, 0)
			})
		})

		Convey("When an agent name is empty", func() {
			So(g.AddInteraction("", "bob", 1), ShouldEqual, graph.ErrEmptyAgent)
			So(g.AddInteraction("alice", "", 1), ShouldEqual, graph.ErrEmptyAgent)
		})

		Convey("When the weight is below one", func() {
			So(g.AddInteraction("alice", "bob", 0), ShouldBeNil)

			Convey("Then it is floored to one", func() {
				So(g.Stats().TotalWeight, ShouldEqual, 1)
			})
		})
	})
}

func TestBuildFromThreads(t *testing.T) {
	Convey("Given a batch of comment threads", t, func() {
		g := graph.New()
		now := time.Now()

		threads := []model.Thread{
			{
				Author: "poster",
				Comments: []model.Comment{
					{Author: "fan-1", CreatedAt: now, Content: "nice"},
					{Author: "fan-2", CreatedAt: now, Content: "agreed"},
					{Author: "poster", CreatedAt: now, Content: "thanks all"}, // self-comment
					{Author: "", CreatedAt: now, Content: "anonymous"},
				},
			},
			{Author: "", Comments: []model.Comment{{Author: "lost", Content: "orphan"}}},
		}

		g.BuildFromThreads(threads)

		Convey("Then commenters gain edges toward the author", func() {
			So(g.Nodes(), ShouldEqual, 3)
			So(g.Edges(), ShouldEqual, 2)
		})

		Convey("Then self-comments and anonymous entries are skipped", func() {
			So(g.Stats().TotalWeight, ShouldEqual, 2)
		})
	})
}

func TestSybilRank(t *testing.T) {
	Convey("Given an interaction graph", t, func() {
		g := graph.New()

		Convey("When the graph is empty", func() {
			So(g.SybilRank(nil), ShouldBeEmpty)
		})

		Convey("When trust is perfectly symmetric", func() {
			So(g.AddInteraction("a", "b", 1), ShouldBeNil)
			So(g.AddInteraction("b", "a", 1), ShouldBeNil)

			ranks := g.SybilRank(nil)

			Convey("Then the flat vector maps everyone to 50", func() {
				So(ranks["a"], ShouldEqual, 50)
				So(ranks["b"], ShouldEqual, 50)
			})
		})

		Convey("When seeds anchor one side of the graph", func() {
			// Honest cluster around the seed, plus a disconnected pair that
			// only endorses itself.
			So(g.AddInteraction("seed", "honest-1", 3), ShouldBeNil)
			So(g.AddInteraction("honest-1", "seed", 2), ShouldBeNil)
			So(g.AddInteraction("seed", "honest-2", 2), ShouldBeNil)
			So(g.AddInteraction("honest-2", "honest-1", 1), ShouldBeNil)
			So(g.AddInteraction("sybil-1", "sybil-2", 5), ShouldBeNil)
			So(g.AddInteraction("sybil-2", "sybil-1", 5), ShouldBeNil)

			ranks := g.SybilRank([]string{"SEED"}) // case-insensitive match

			Convey("Then every agent is ranked in [0,100]", func() {
				So(len(ranks), ShouldEqual, 5)
				for _, score := range ranks {
					So(score, ShouldBeBetweenOrEqual, 0, 100)
				}
			})

			Convey("Then the seeded cluster outranks the isolated pair", func() {
				So(ranks["honest-1"], ShouldBeGreaterThan, ranks["sybil-1"])
				So(ranks["honest-1"], ShouldBeGreaterThan, ranks["sybil-2"])
			})
		})

		Convey("When no seeds are given", func() {
			So(g.AddInteraction("popular", "quiet", 1), ShouldBeNil)
			So(g.AddInteraction("fan-1", "popular", 1), ShouldBeNil)
			So(g.AddInteraction("fan-2", "popular", 1), ShouldBeNil)
			So(g.AddInteraction("fan-3", "popular", 1), ShouldBeNil)

			ranks := g.SybilRank(nil)

			Convey("Then well-endorsed agents rank above unendorsed ones", func() {
				So(ranks["popular"], ShouldBeGreaterThan, ranks["fan-1"])
			})
		})

		Convey("When propagation is tuned", func() {
			So(g.AddInteraction("a", "b", 1), ShouldBeNil)
			So(g.AddInteraction("b", "c", 1), ShouldBeNil)
			So(g.AddInteraction("c", "a", 1), ShouldBeNil)

			ranks := g.SybilRank([]string{"a"},
				graph.WithIterations(1),
				graph.WithDamping(0.5),
				graph.WithFinalNormalizationOnly(),
			)

			Convey("Then the run still yields bounded scores", func() {
				So(len(ranks), ShouldEqual, 3)
				for _, score := range ranks {
					So(score, ShouldBeBetweenOrEqual, 0, 100)
				}
			})
		})
	})
}

func TestFindReciprocals(t *testing.T) {
	Convey("Given a graph with mutual interaction", t, func() {
		g := graph.New()
		So(g.AddInteraction("ring-a", "ring-b", 6), ShouldBeNil)
		So(g.AddInteraction("ring-b", "ring-a", 6), ShouldBeNil)
		So(g.AddInteraction("ring-a", "casual", 4), ShouldBeNil)
		So(g.AddInteraction("casual", "ring-a", 1), ShouldBeNil)
		So(g.AddInteraction("oneway", "ring-a", 9), ShouldBeNil)

		Convey("When searching with a threshold both directions must meet", func() {
			rings := g.FindReciprocals(3)

			Convey("Then only the symmetric pair qualifies", func() {
				So(len(rings), ShouldEqual, 1)
				So(rings[0].Agents, ShouldResemble, [2]string{"ring-a", "ring-b"})
				So(rings[0].Symmetry, ShouldEqual, 1.0)
			})
		})

		Convey("When the threshold admits weaker pairs", func() {
			rings := g.FindReciprocals(1)

			Convey("Then results are sorted by descending symmetry", func() {
				So(len(rings), ShouldEqual, 2)
				So(rings[0].Symmetry, ShouldEqual, 1.0)
				So(rings[1].Agents, ShouldResemble, [2]string{"casual", "ring-a"})
				So(rings[1].Symmetry, ShouldEqual, 0.25)
			})
		})

		Convey("When nothing is mutual enough", func() {
			So(g.FindReciprocals(7), ShouldBeEmpty)
		})
	})
}

func TestDiversity(t *testing.T) {
	Convey("Given agents with different interaction spreads", t, func() {
		g := graph.New()
		// spread interacts evenly with five agents, funnel dumps everything
		// on a single target.
		for _, target := range []string{"t1", "t2", "t3", "t4", "t5"} {
			So(g.AddInteraction("spread", target, 2), ShouldBeNil)
		}
		So(g.AddInteraction("funnel", "t1", 10), ShouldBeNil)

		Convey("When comparing diversity scores", func() {
			ds := g.Diversity("spread")
			df := g.Diversity("funnel")

			Convey("Then the even distribution scores higher", func() {
				So(ds.DiversityScore, ShouldBeGreaterThan, df.DiversityScore)
				So(ds.UniqueOutgoing, ShouldEqual, 5)
				So(ds.TotalOutgoing, ShouldEqual, 10)
				So(ds.OutgoingConcentration, ShouldAlmostEqual, 0, 1e-9)
			})
		})

		Convey("When the agent is unknown", func() {
			So(g.Diversity("nobody"), ShouldResemble, graph.Diversity{})
		})
	})
}

func TestStats(t *testing.T) {
	Convey("Given a small graph", t, func() {
		g := graph.New()
		So(g.AddInteraction("a", "b", 2), ShouldBeNil)
		So(g.AddInteraction("b", "a", 1), ShouldBeNil)
		So(g.AddInteraction("a", "c", 1), ShouldBeNil)

		s := g.Stats()

		Convey("Then counts and density line up", func() {
			So(s.Nodes, ShouldEqual, 3)
			So(s.Edges, ShouldEqual, 3)
			So(s.TotalWeight, ShouldEqual, 4)
			So(s.Density, ShouldAlmostEqual, 0.5, 1e-9)
			So(s.AvgDegree, ShouldEqual, 1.0)
		})
	})

	Convey("Given an empty graph", t, func() {
		s := graph.New().Stats()

		So(s.Nodes, ShouldEqual, 0)
		So(s.Edges, ShouldEqual, 0)
		So(s.Density, ShouldEqual, 0)
	})
}
