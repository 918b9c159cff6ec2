package colors

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/setgrid/pkg/cache"
	"github.com/matzehuels/setgrid/pkg/entity"
	"github.com/matzehuels/setgrid/pkg/observability"
	"github.com/matzehuels/setgrid/pkg/text"
)

// Options configures one assignment.
type Options struct {
	Params
	// Palette defaults to Tableau20. It is ignored in grayscale mode.
	Palette []string
	// Grayscale gives every colored entity its own gray without annealing.
	Grayscale bool
	// Deadline bounds annealing; the best assignment found in time is used.
	Deadline time.Duration
}

func (o *Options) setDefaults() {
	o.Params.SetDefaults()
	if len(o.Palette) == 0 {
		o.Palette = Tableau20
	}
}

// Assignment is the outcome of coloring a set of entities.
type Assignment struct {
	// Key identifies the colored entities in the store.
	Key string
	// Targets are the entities that received a palette color, one per
	// distinct name.
	Targets []*entity.Entity
	Colors  []string
	Energy  float64
	// Cached reports whether the assignment was read from the store.
	Cached bool
}

// Reoptimization reports a post-run search for a better assignment.
type Reoptimization struct {
	Key      string
	Previous float64
	Energy   float64
	Improved bool
}

// Assigner colors entities and remembers the assignments it computes.
// It is safe for concurrent use.
type Assigner struct {
	Store  *cache.ColorStore
	Logger *log.Logger

	flight singleflight.Group
}

// NewAssigner returns an Assigner backed by store. A nil store disables
// caching; a nil logger discards output.
func NewAssigner(store *cache.ColorStore, logger *log.Logger) *Assigner {
	if store == nil {
		store = cache.NewColorStore(nil, 0)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Assigner{Store: store, Logger: logger}
}

// =============================================================================
// Target selection
// =============================================================================

// Targets returns the entities that take part in coloring: the first entity
// of every name that holds more than one statement, then one copy of every
// repeated name not seen yet. groups lists all copies per repeated name.
func Targets(es []*entity.Entity, repeated map[string]bool) (targets []*entity.Entity, groups map[string][]*entity.Entity) {
	groups = make(map[string][]*entity.Entity)
	var order []string
	for _, e := range es {
		name := e.PrimaryName()
		if !repeated[name] {
			continue
		}
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], e)
	}

	seen := make(map[string]bool)
	for _, e := range es {
		if name := e.PrimaryName(); len(e.Statements) > 1 && !seen[name] {
			seen[name] = true
			targets = append(targets, e)
		}
	}
	for _, name := range order {
		if !seen[name] {
			seen[name] = true
			targets = append(targets, groups[name][0])
		}
	}
	return targets, groups
}

// =============================================================================
// Assignment
// =============================================================================

// Assign colors the headers of es. es must not have been merged yet;
// repeated names the names held by more than one entity. A cached
// assignment for the same targets is reused as is; otherwise one is
// annealed and stored.
func (a *Assigner) Assign(ctx context.Context, es []*entity.Entity, repeated map[string]bool, opts Options) (*Assignment, error) {
	opts.setDefaults()
	targets, groups := Targets(es, repeated)
	if opts.Grayscale {
		return a.grayscale(es, targets, groups), nil
	}

	key := cache.ColorKey(primaryNames(targets))
	res := &Assignment{Key: key, Targets: targets}
	if len(targets) == 0 {
		apply(es, targets, groups, nil)
		return res, nil
	}

	// Callers share a run only when every input to the search matches.
	matrix := Matrix(es, targets, groups)
	flightKey := cache.Key("flight", key, fmt.Sprintf("%v", opts), fmt.Sprint(matrix))
	ch := a.flight.DoChan(flightKey, func() (any, error) {
		return a.lookupOrAnneal(context.WithoutCancel(ctx), key, len(targets), matrix, opts)
	})

	var got lookup
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		got = r.Val.(lookup)
	}
	if !fits(got.assignment, len(targets), opts.Palette) {
		return nil, fmt.Errorf("color assignment for %s does not fit the palette", key)
	}
	res.Colors = pick(opts.Palette, got.assignment)
	res.Energy = got.energy
	res.Cached = got.cached

	apply(es, targets, groups, res.Colors)
	return res, nil
}

type lookup struct {
	assignment []int
	energy     float64
	cached     bool
}

func (a *Assigner) lookupOrAnneal(ctx context.Context, key string, n int, matrix [][]float64, opts Options) (lookup, error) {
	var computed *lookup
	stored, err := a.Store.Update(ctx, key, func(cur cache.ColorEntry, ok bool) (cache.ColorEntry, bool, error) {
		if ok && usable(cur, n, opts.Palette) {
			return cur, false, nil
		}
		out, err := a.anneal(ctx, matrix, opts)
		if err != nil {
			return cur, false, err
		}
		computed = &lookup{assignment: out.Assignment, energy: out.Energy}
		return cache.ColorEntry{Assignment: out.Assignment, Palette: opts.Palette, Energy: out.Energy}, true, nil
	})

	if computed != nil {
		if err != nil {
			a.Logger.Warn("color cache write failed", "key", key, "err", err)
		}
		return *computed, nil
	}
	if err != nil {
		return lookup{}, err
	}

	a.Logger.Debug("reusing cached colors", "key", key, "energy", stored.Energy)
	return lookup{assignment: slices.Clone(stored.Assignment), energy: stored.Energy, cached: true}, nil
}

// anneal runs one session over the targets measured by matrix.
func (a *Assigner) anneal(ctx context.Context, matrix [][]float64, opts Options) (Outcome, error) {
	s, err := NewSession(opts.Palette, matrix, opts.Params)
	if err != nil {
		return Outcome{}, fmt.Errorf("annealing: %w", err)
	}

	runCtx := ctx
	if opts.Deadline > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, opts.Deadline)
		defer cancel()
	}

	start := time.Now()
	out, err := s.Run(runCtx)
	if err != nil {
		if ctx.Err() != nil {
			return Outcome{}, ctx.Err()
		}
		a.Logger.Debug("annealing stopped at deadline", "iterations", out.Iterations)
	}
	a.Logger.Debug("annealed colors", "targets", len(matrix), "iterations", out.Iterations,
		"energy", out.Energy, "duration", time.Since(start))
	return out, nil
}

// Reoptimize anneals again with a fresh seed and stores the result only if
// its energy is strictly below the stored one. Colors on es are left as
// they are.
func (a *Assigner) Reoptimize(ctx context.Context, es []*entity.Entity, repeated map[string]bool, opts Options) (*Reoptimization, error) {
	opts.setDefaults()
	opts.Seed = rand.Uint64() | 1
	targets, groups := Targets(es, repeated)
	key := cache.ColorKey(primaryNames(targets))
	res := &Reoptimization{Key: key, Previous: math.Inf(1)}
	if len(targets) == 0 {
		return res, nil
	}

	out, err := a.anneal(ctx, Matrix(es, targets, groups), opts)
	if err != nil {
		return nil, err
	}
	res.Energy = out.Energy

	_, err = a.Store.Update(ctx, key, func(cur cache.ColorEntry, ok bool) (cache.ColorEntry, bool, error) {
		if ok && usable(cur, len(targets), opts.Palette) {
			res.Previous = cur.Energy
		}
		if out.Energy >= res.Previous {
			return cur, false, nil
		}
		res.Improved = true
		return cache.ColorEntry{Assignment: out.Assignment, Palette: opts.Palette, Energy: out.Energy}, true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("color cache: %w", err)
	}

	observability.Color().OnReoptimize(ctx, res.Previous, res.Energy, res.Improved)
	if res.Improved {
		a.Logger.Info("found better assignment", "key", key, "energy", res.Energy, "previous", res.Previous)
	} else {
		a.Logger.Info("no better assignment found", "key", key, "energy", res.Energy, "previous", res.Previous)
	}
	return res, nil
}

// grayscale hands out one gray per target, in target order.
func (a *Assigner) grayscale(es, targets []*entity.Entity, groups map[string][]*entity.Entity) *Assignment {
	grays := Grayscale(len(es))
	colors := grays[:len(targets)]
	apply(es, targets, groups, colors)
	return &Assignment{
		Key:     cache.ColorKey(primaryNames(targets)),
		Targets: targets,
		Colors:  slices.Clone(colors),
	}
}

// =============================================================================
// Helpers
// =============================================================================

// apply writes colors to the primary headers of es. Target i gets colors[i]
// and passes it on to every copy of its name; entities outside every target
// group are drawn white.
func apply(es, targets []*entity.Entity, groups map[string][]*entity.Entity, colors []string) {
	for _, e := range es {
		e.Headers[0].Color = text.White
	}
	for i, t := range targets {
		if g, ok := groups[t.PrimaryName()]; ok {
			for _, e := range g {
				e.Headers[0].Color = colors[i]
			}
			continue
		}
		t.Headers[0].Color = colors[i]
	}
}

// usable reports whether a stored entry fits the current targets and
// palette.
func usable(e cache.ColorEntry, n int, palette []string) bool {
	return slices.Equal(e.Palette, palette) && fits(e.Assignment, n, palette)
}

// fits reports whether assign holds n valid indexes into palette.
func fits(assign []int, n int, palette []string) bool {
	if len(assign) != n {
		return false
	}
	for _, idx := range assign {
		if idx < 0 || idx >= len(palette) {
			return false
		}
	}
	return true
}

func pick(palette []string, assign []int) []string {
	out := make([]string, len(assign))
	for i, idx := range assign {
		out[i] = palette[idx]
	}
	return out
}

func primaryNames(es []*entity.Entity) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.PrimaryName()
	}
	return out
}
