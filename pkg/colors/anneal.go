package colors

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/matzehuels/setgrid/pkg/observability"
)

// Annealing defaults.
const (
	DefaultSigmaC     = 5.0
	DefaultSigmaS     = 3.0
	DefaultIterations = 10000
	DefaultTempStart  = 1.0
	DefaultTempEnd    = 0.001
	DefaultSeed       = 1
)

// Params tunes a Session.
type Params struct {
	// SigmaC controls how fast the penalty decays with color distance.
	SigmaC float64 `json:"sigma_c" toml:"sigma_c"`
	// SigmaS controls how fast the penalty decays with grid distance.
	SigmaS     float64 `json:"sigma_s" toml:"sigma_s"`
	Iterations int     `json:"iterations" toml:"iterations"`
	TempStart  float64 `json:"temp_start" toml:"temp_start"`
	TempEnd    float64 `json:"temp_end" toml:"temp_end"`
	Seed       uint64  `json:"seed" toml:"seed"`
}

// SetDefaults fills unset parameters.
func (p *Params) SetDefaults() {
	if p.SigmaC <= 0 {
		p.SigmaC = DefaultSigmaC
	}
	if p.SigmaS <= 0 {
		p.SigmaS = DefaultSigmaS
	}
	if p.Iterations <= 0 {
		p.Iterations = DefaultIterations
	}
	if p.TempStart <= 0 {
		p.TempStart = DefaultTempStart
	}
	if p.TempEnd <= 0 || p.TempEnd > p.TempStart {
		p.TempEnd = min(DefaultTempEnd, p.TempStart)
	}
	if p.Seed == 0 {
		p.Seed = DefaultSeed
	}
}

// Outcome is the best assignment a Session found.
type Outcome struct {
	// Assignment[i] indexes the palette for target i.
	Assignment []int
	Energy     float64
	// Iterations is the number of iterations run before the schedule ended
	// or the context expired.
	Iterations int
}

// Session anneals one palette assignment. The energy of an assignment is
// the sum over target pairs of exp(-ΔE/σc)·exp(-d/σs): similar colors on
// nearby entities are expensive. A Session is not safe for concurrent use.
type Session struct {
	params Params
	n      int
	pal    int

	color   [][]float64 // exp(-ΔE/σc) per palette pair
	spatial [][]float64 // exp(-d/σs) per target pair

	rng     *rand.Rand
	history []float64
}

// NewSession prepares an annealing run over the targets described by the
// spatial distance matrix.
func NewSession(palette []string, matrix [][]float64, p Params) (*Session, error) {
	p.SetDefaults()
	if len(palette) == 0 {
		return nil, fmt.Errorf("empty palette")
	}
	for i, row := range matrix {
		if len(row) != len(matrix) {
			return nil, fmt.Errorf("spatial matrix row %d has %d entries, want %d", i, len(row), len(matrix))
		}
	}

	s := &Session{
		params: p,
		n:      len(matrix),
		pal:    len(palette),
		rng:    rand.New(rand.NewPCG(p.Seed, p.Seed^0x9e3779b97f4a7c15)),
	}

	s.color = make([][]float64, len(palette))
	for a := range palette {
		s.color[a] = make([]float64, len(palette))
		for b := range palette {
			d, err := Distance(palette[a], palette[b])
			if err != nil {
				return nil, err
			}
			s.color[a][b] = math.Exp(-d / p.SigmaC)
		}
	}

	s.spatial = make([][]float64, s.n)
	for i := range s.n {
		s.spatial[i] = make([]float64, s.n)
		for j := range s.n {
			s.spatial[i][j] = math.Exp(-matrix[i][j] / p.SigmaS)
		}
	}
	return s, nil
}

// Params returns the effective parameters.
func (s *Session) Params() Params { return s.params }

// History returns the best energy after each iteration, starting with the
// energy of the initial assignment. It never increases.
func (s *Session) History() []float64 { return slices.Clone(s.history) }

// Energy evaluates an assignment.
func (s *Session) Energy(assign []int) float64 {
	var e float64
	for i := range s.n {
		for j := i + 1; j < s.n; j++ {
			e += s.color[assign[i]][assign[j]] * s.spatial[i][j]
		}
	}
	return e
}

// Initial is the starting assignment: target i takes palette color i,
// wrapping around when there are more targets than colors.
func (s *Session) Initial() []int {
	out := make([]int, s.n)
	for i := range out {
		out[i] = i % s.pal
	}
	return out
}

// swapDelta is the energy change of exchanging the colors of i and j. The
// pair (i, j) itself is unaffected.
func (s *Session) swapDelta(a []int, i, j int) float64 {
	var d float64
	ci, cj := a[i], a[j]
	for k := range s.n {
		if k == i || k == j {
			continue
		}
		ck := a[k]
		d += (s.color[cj][ck] - s.color[ci][ck]) * s.spatial[i][k]
		d += (s.color[ci][ck] - s.color[cj][ck]) * s.spatial[j][k]
	}
	return d
}

// ctxCheckEvery is how many iterations pass between context checks.
const ctxCheckEvery = 256

// Run anneals from the initial assignment with a geometric cooling
// schedule. When ctx expires the best assignment so far is returned with
// ctx's error.
func (s *Session) Run(ctx context.Context) (Outcome, error) {
	start := time.Now()
	cur := s.Initial()
	curE := s.Energy(cur)
	best, bestE := slices.Clone(cur), curE
	s.history = append(s.history[:0], bestE)

	p := s.params
	it := 0
	var err error
	if s.n >= 2 {
		for ; it < p.Iterations; it++ {
			if it%ctxCheckEvery == 0 {
				if err = ctx.Err(); err != nil {
					break
				}
			}
			t := p.TempStart * math.Pow(p.TempEnd/p.TempStart, float64(it)/float64(p.Iterations))

			i, j := s.rng.IntN(s.n), s.rng.IntN(s.n)
			if i != j {
				delta := s.swapDelta(cur, i, j)
				if delta < 0 || s.rng.Float64() < math.Exp(-delta/t) {
					cur[i], cur[j] = cur[j], cur[i]
					curE += delta
					if curE < bestE {
						bestE = curE
						copy(best, cur)
					}
				}
			}
			s.history = append(s.history, bestE)
		}
	}

	// Recompute to shed the drift of summed deltas.
	out := Outcome{Assignment: best, Energy: s.Energy(best), Iterations: it}
	observability.Color().OnAnnealComplete(ctx, s.n, it, out.Energy, time.Since(start))
	return out, err
}
