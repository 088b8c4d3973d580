// Package graph implements the interaction graph and Sybil-resistance engine.
//
// The graph is a directed weighted multigraph of who-interacts-with-whom
// edges: A -> B means A commented on B's post, with the edge weight
// accumulating per interaction. On top of it sit a SybilRank-style trust
// propagation, reciprocal ring detection and per-node diversity metrics.
//
// The graph is an owned, session-scoped structure: single-writer mutation,
// read-only queries. Callers needing concurrent mutation synchronize
// externally.
package graph

import (
	"math"
	"sort"
	"strings"

	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/stats"
)

// Propagation defaults.
const (
	defaultDamping = 0.85
	minIterations  = 3

	diversityUniqueCap = 10.0
)

// Graph holds the interaction graph. Node names are interned to integer
// indices at insertion time so propagation works over dense arrays.
type Graph struct {
	index map[string]int  // name -> node index
	names []string        // node index -> name
	out   []map[int]int   // node -> target -> accumulated weight
	in    []map[int]int   // node -> source -> accumulated weight
	edges int             // distinct directed edges
}

// New creates an empty interaction graph.
func New() *Graph {
	return &Graph{index: make(map[string]int)}
}

// node interns a name, returning its index.
func (g *Graph) node(name string) int {
	if idx, ok := g.index[name]; ok {
		return idx
	}
	idx := len(g.names)
	g.index[name] = idx
	g.names = append(g.names, name)
	g.out = append(g.out, make(map[int]int))
	g.in = append(g.in, make(map[int]int))
	return idx
}

// AddInteraction records that from interacted with (commented on) to,
// accumulating weight onto the directed edge and its incoming mirror.
// Self-loops and empty identifiers are rejected.
func (g *Graph) AddInteraction(from, to string, weight int) error {
	if from == "" || to == "" {
		return ErrEmptyAgent
	}
	if from == to {
		return ErrSelfLoop
	}
	if weight < 1 {
		weight = 1
	}

	src := g.node(from)
	dst := g.node(to)
	if _, ok := g.out[src][dst]; !ok {
		g.edges++
	}
	g.out[src][dst] += weight
	g.in[dst][src] += weight
	return nil
}

// BuildFromThreads derives interaction edges from a batch of post threads:
// every commenter gains an edge toward the thread's author. Self-comments
// and anonymous entries are skipped.
func (g *Graph) BuildFromThreads(threads []model.Thread) {
	for i := range threads {
		author := threads[i].Author
		if author == "" {
			continue
		}
		g.node(author)
		for j := range threads[i].Comments {
			commenter := threads[i].Comments[j].Author
			if commenter == "" || commenter == author {
				continue
			}
			_ = g.AddInteraction(commenter, author, 1)
		}
	}
}

// SybilRank propagates trust from seed nodes through the graph and returns
// per-agent scores normalized to [0,100].
//
// Seeds are matched case-insensitively and initialized to 1/|seeds|. With no
// seeds, every node starts at (inDegree+1)/(2|V|), a degree-based prior.
// iterations <= 0 selects the default max(3, ceil(log2 |V|)); early stopping
// keeps trust from over-mixing into the Sybil region. The trust vector is
// renormalized to sum 1 after every round (tunable via
// WithFinalNormalizationOnly should spread compression become a problem).
func (g *Graph) SybilRank(seeds []string, opts ...RankOption) map[string]int {
	cfg := rankConfig{damping: defaultDamping, perRoundNormalize: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	n := len(g.names)
	if n == 0 {
		return map[string]int{}
	}

	iterations := cfg.iterations
	if iterations <= 0 {
		iterations = minIterations
		if logIters := int(math.Ceil(math.Log2(float64(n)))); logIters > iterations {
			iterations = logIters
		}
	}

	trust := make([]float64, n)
	seedSet := make(map[string]struct{}, len(seeds))
	for _, s := range seeds {
		seedSet[strings.ToLower(s)] = struct{}{}
	}
	if len(seeds) > 0 {
		share := 1.0 / float64(len(seeds))
		for i, name := range g.names {
			if _, ok := seedSet[strings.ToLower(name)]; ok {
				trust[i] = share
			}
		}
	} else {
		// Degree-based prior: more distinct endorsers, more starting trust.
		for i := range g.names {
			trust[i] = float64(len(g.in[i])+1) / float64(2*n)
		}
	}

	// Precompute total outgoing weight per node.
	outWeight := make([]float64, n)
	for i := range g.out {
		for _, w := range g.out[i] {
			outWeight[i] += float64(w)
		}
	}

	newTrust := make([]float64, n)
	for iter := 0; iter < iterations; iter++ {
		restart := (1 - cfg.damping) / float64(n)
		for node := 0; node < n; node++ {
			var incoming float64
			for source, weight := range g.in[node] {
				if outWeight[source] > 0 {
					incoming += trust[source] * float64(weight) / outWeight[source]
				}
			}
			newTrust[node] = cfg.damping*incoming + restart
		}

		if cfg.perRoundNormalize || iter == iterations-1 {
			var total float64
			for _, t := range newTrust {
				total += t
			}
			if total > 0 {
				for i := range newTrust {
					newTrust[i] /= total
				}
			}
		}
		trust, newTrust = newTrust, trust
	}

	// Min-max normalize onto [0,100]; a flat vector maps everyone to 50.
	minTrust, maxTrust := trust[0], trust[0]
	for _, t := range trust {
		minTrust = math.Min(minTrust, t)
		maxTrust = math.Max(maxTrust, t)
	}

	scores := make(map[string]int, n)
	if maxTrust == minTrust {
		for _, name := range g.names {
			scores[name] = 50
		}
		return scores
	}
	spread := maxTrust - minTrust
	for i, name := range g.names {
		scores[name] = int(math.Round((trust[i] - minTrust) / spread * 100))
	}
	return scores
}

// Reciprocal is a pair of agents with significant mutual interaction.
// High symmetry with significant weight is the signature of a two-agent
// mutual-boosting ring.
type Reciprocal struct {
	Agents   [2]string `json:"agents"`
	WeightAB int       `json:"weight_ab"`
	WeightBA int       `json:"weight_ba"`
	Symmetry float64   `json:"symmetry"`
}

// FindReciprocals returns every agent pair whose interaction weights both
// meet minWeight, sorted by descending symmetry = min(w)/max(w).
func (g *Graph) FindReciprocals(minWeight int) []Reciprocal {
	if minWeight < 1 {
		minWeight = 1
	}
	rings := []Reciprocal{}

	for a := range g.out {
		for b, weightAB := range g.out[a] {
			if weightAB < minWeight {
				continue
			}
			weightBA := g.out[b][a]
			if weightBA < minWeight {
				continue
			}
			// Emit each pair once.
			if g.names[a] >= g.names[b] {
				continue
			}
			rings = append(rings, Reciprocal{
				Agents:   [2]string{g.names[a], g.names[b]},
				WeightAB: weightAB,
				WeightBA: weightBA,
				Symmetry: float64(min(weightAB, weightBA)) / float64(max(weightAB, weightBA)),
			})
		}
	}

	sort.Slice(rings, func(i, j int) bool {
		if rings[i].Symmetry != rings[j].Symmetry {
			return rings[i].Symmetry > rings[j].Symmetry
		}
		return rings[i].Agents[0] < rings[j].Agents[0]
	})
	return rings
}

// Diversity describes how spread out an agent's interactions are.
type Diversity struct {
	UniqueOutgoing        int     `json:"unique_outgoing"`
	TotalOutgoing         int     `json:"total_outgoing"`
	UniqueIncoming        int     `json:"unique_incoming"`
	TotalIncoming         int     `json:"total_incoming"`
	OutgoingConcentration float64 `json:"outgoing_concentration"`
	DiversityScore        int     `json:"diversity_score"`
}

// Diversity computes interaction diversity metrics for one agent. Unknown
// agents get the zero value.
func (g *Graph) Diversity(agent string) Diversity {
	idx, ok := g.index[agent]
	if !ok {
		return Diversity{}
	}

	var totalOut, totalIn int
	outWeights := make([]float64, 0, len(g.out[idx]))
	for _, w := range g.out[idx] {
		totalOut += w
		outWeights = append(outWeights, float64(w))
	}
	for _, w := range g.in[idx] {
		totalIn += w
	}
	sort.Float64s(outWeights)
	gini := stats.Gini(outWeights)

	uniqueOut := len(g.out[idx])
	uniqueIn := len(g.in[idx])
	score := math.Min(1, float64(uniqueOut)/diversityUniqueCap)*50 +
		math.Min(1, float64(uniqueIn)/diversityUniqueCap)*30 +
		(1-gini)*20

	return Diversity{
		UniqueOutgoing:        uniqueOut,
		TotalOutgoing:         totalOut,
		UniqueIncoming:        uniqueIn,
		TotalIncoming:         totalIn,
		OutgoingConcentration: gini,
		DiversityScore:        int(math.Round(score)),
	}
}

// Stats summarizes the graph.
type Stats struct {
	Nodes       int     `json:"nodes"`
	Edges       int     `json:"edges"`
	TotalWeight int     `json:"total_weight"`
	Density     float64 `json:"density"`
	AvgDegree   float64 `json:"avg_degree"`
}

// Stats returns node/edge counts, density and average out-degree.
func (g *Graph) Stats() Stats {
	nodes := len(g.names)
	var totalWeight int
	for i := range g.out {
		for _, w := range g.out[i] {
			totalWeight += w
		}
	}

	var density, avgDegree float64
	if nodes > 1 {
		density = float64(g.edges) / float64(nodes*(nodes-1))
	}
	if nodes > 0 {
		avgDegree = math.Round(float64(g.edges)/float64(nodes)*10) / 10
	}

	return Stats{
		Nodes:       nodes,
		Edges:       g.edges,
		TotalWeight: totalWeight,
		Density:     density,
		AvgDegree:   avgDegree,
	}
}

// Nodes returns the number of agents in the graph.
func (g *Graph) Nodes() int { return len(g.names) }

// Edges returns the number of distinct directed edges.
func (g *Graph) Edges() int { return g.edges }
