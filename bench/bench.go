package bench

import (
	"context"
	"math/rand"
	"time"

	"github.com/eaugeas/bstree/concurrent"
	"github.com/eaugeas/bstree/container/tree"
	"github.com/eaugeas/bstree/logs"
	"github.com/google/btree"
	"github.com/pkg/errors"
)

// Phase identifies one of the steps of a trial
type Phase string

const (
	PhaseRandomInsert  Phase = "random_insert"
	PhaseRandomFind    Phase = "random_find"
	PhaseRandomDelete  Phase = "random_delete"
	PhaseLinearInsert  Phase = "linear_insert"
	PhaseLinearFind    Phase = "linear_find"
	PhaseReverseDelete Phase = "reverse_delete"
)

// Phases in the order in which a trial runs them
var Phases = []Phase{
	PhaseRandomInsert,
	PhaseRandomFind,
	PhaseRandomDelete,
	PhaseLinearInsert,
	PhaseLinearFind,
	PhaseReverseDelete,
}

// Opts are the options to configure a benchmark run
type Opts struct {
	// Size is the number of values of each trial
	Size int

	// Trials is the number of independent trials
	Trials int

	// Concurrency is the number of trials that run at the same time
	Concurrency int

	// Seed for the values and the coins of the trials. Trial i
	// uses Seed + i
	Seed int64

	// Verify checks the consistency of the tree after every phase
	Verify bool

	// Baseline runs the phases of every trial a second time on a
	// B-tree, as a reference for the durations
	Baseline bool

	Logger logs.Logger
}

// PhaseResult is the time a phase took
type PhaseResult struct {
	Phase    Phase
	Duration time.Duration
}

// Log is the implementation of logs.Loggable for PhaseResult
func (r PhaseResult) Log(fields logs.Fields) {
	fields.Add("phase", string(r.Phase))
	fields.Add("duration", r.Duration.String())
}

// TrialReport is the result of a single trial
type TrialReport struct {
	Trial  int
	Phases []PhaseResult

	// BaselinePhases are the durations of the same phases on
	// a B-tree, when enabled
	BaselinePhases []PhaseResult

	// RandomHeight is the height of the tree once all the
	// values were inserted in random order
	RandomHeight int
}

// Report is the result of a benchmark run
type Report struct {
	Opts   Opts
	Trials []TrialReport
}

// Mean returns the mean duration of the phase across trials
func (r *Report) Mean(phase Phase) time.Duration {
	return r.mean(phase, func(trial TrialReport) []PhaseResult { return trial.Phases })
}

// MeanBaseline returns the mean duration of the phase on the
// B-tree across trials
func (r *Report) MeanBaseline(phase Phase) time.Duration {
	return r.mean(phase, func(trial TrialReport) []PhaseResult { return trial.BaselinePhases })
}

func (r *Report) mean(phase Phase, results func(TrialReport) []PhaseResult) time.Duration {
	if len(r.Trials) == 0 {
		return 0
	}

	var total time.Duration
	for _, trial := range r.Trials {
		for _, res := range results(trial) {
			if res.Phase == phase {
				total += res.Duration
			}
		}
	}

	return total / time.Duration(len(r.Trials))
}

// MeanRandomHeight returns the mean height of the trees built
// by inserting in random order
func (r *Report) MeanRandomHeight() float64 {
	if len(r.Trials) == 0 {
		return 0
	}

	total := 0
	for _, trial := range r.Trials {
		total += trial.RandomHeight
	}

	return float64(total) / float64(len(r.Trials))
}

// Run runs opts.Trials independent trials, each one on its own
// tree. It fails with the error of the first failed trial
func Run(ctx context.Context, opts Opts) (*Report, error) {
	if opts.Size <= 0 {
		return nil, errors.Errorf("size must be positive, got %d", opts.Size)
	}

	if opts.Trials <= 0 {
		return nil, errors.Errorf("trials must be positive, got %d", opts.Trials)
	}

	if opts.Logger == nil {
		return nil, errors.New("logger must be set")
	}

	suppliers := make([]concurrent.Supplier[TrialReport], 0, opts.Trials)
	for i := 0; i < opts.Trials; i++ {
		t := &trial{index: i, opts: opts, logger: opts.Logger.ForClass("bench", "trial")}
		suppliers = append(suppliers, concurrent.SupplierFunc[TrialReport](func() (TrialReport, error) {
			return t.run(ctx)
		}))
	}

	results := concurrent.BatchSliceWithOpts(ctx, suppliers, concurrent.BatchOpts{
		Concurrency: opts.Concurrency,
	})

	report := &Report{Opts: opts, Trials: make([]TrialReport, 0, len(results))}
	for _, res := range results {
		if err := res.Err(); err != nil {
			return nil, errors.Wrapf(err, "trial %d failed", res.Index())
		}

		report.Trials = append(report.Trials, res.Value())
	}

	return report, nil
}

type trial struct {
	index  int
	opts   Opts
	logger logs.Logger
}

// orderedSet is the set of operations every phase runs
type orderedSet interface {
	insert(v int) bool
	find(v int) bool
	delete(v int) bool
	len() int
}

type treeSet struct {
	tree *tree.Tree[int]
}

func (s treeSet) insert(v int) bool { return s.tree.Insert(v) }
func (s treeSet) find(v int) bool   { return s.tree.Find(v) != nil }
func (s treeSet) len() int          { return s.tree.Len() }

func (s treeSet) delete(v int) bool {
	_, ok := s.tree.Delete(v)
	return ok
}

type btreeSet struct {
	tree *btree.BTreeG[int]
}

func (s btreeSet) len() int { return s.tree.Len() }

func (s btreeSet) insert(v int) bool {
	_, replaced := s.tree.ReplaceOrInsert(v)
	return !replaced
}

func (s btreeSet) find(v int) bool {
	_, ok := s.tree.Get(v)
	return ok
}

func (s btreeSet) delete(v int) bool {
	_, ok := s.tree.Delete(v)
	return ok
}

const btreeDegree = 32

func (t *trial) run(ctx context.Context) (TrialReport, error) {
	seed := t.opts.Seed + int64(t.index)
	report := TrialReport{Trial: t.index}

	tr := tree.NewTreeWithOpts[int](tree.IntLesser{}, tree.TreeOpts[int]{
		Coin: tree.NewRandomCoin(seed),
	})
	phases, err := t.runPhases(ctx, treeSet{tree: tr}, seed, func(phase Phase) error {
		if phase == PhaseRandomInsert {
			report.RandomHeight = tr.Height()
		}

		if t.opts.Verify {
			return tr.Verify()
		}

		return nil
	})
	report.Phases = phases
	if err != nil || !t.opts.Baseline {
		return report, err
	}

	report.BaselinePhases, err = t.runPhases(ctx, btreeSet{tree: btree.NewOrderedG[int](btreeDegree)}, seed, nil)
	return report, errors.Wrap(err, "baseline")
}

// runPhases runs all the phases on s with the values generated from
// seed, calling after, when set, once each phase completes
func (t *trial) runPhases(
	ctx context.Context,
	s orderedSet,
	seed int64,
	after func(Phase) error,
) ([]PhaseResult, error) {
	r := rand.New(rand.NewSource(seed))
	values := r.Perm(t.opts.Size)
	ordered := make([]int, t.opts.Size)
	for i := range ordered {
		ordered[i] = i
	}

	steps := []struct {
		phase Phase
		fn    func() error
	}{
		{PhaseRandomInsert, func() error { return insertAll(s, values) }},
		{PhaseRandomFind, func() error { return findAll(s, shuffled(r, values)) }},
		{PhaseRandomDelete, func() error { return deleteAll(s, shuffled(r, values)) }},
		{PhaseLinearInsert, func() error { return insertAll(s, ordered) }},
		{PhaseLinearFind, func() error { return findAll(s, ordered) }},
		{PhaseReverseDelete, func() error { return deleteAll(s, reversed(ordered)) }},
	}

	results := make([]PhaseResult, 0, len(steps))
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		start := time.Now()
		if err := step.fn(); err != nil {
			return results, errors.Wrapf(err, "phase %s", step.phase)
		}
		res := PhaseResult{Phase: step.phase, Duration: time.Since(start)}
		results = append(results, res)

		if after != nil {
			if err := after(step.phase); err != nil {
				return results, errors.Wrapf(err, "phase %s", step.phase)
			}
		}

		t.logger.Debug(ctx, "phase completed", res, logs.MapFields{"trial": t.index})
	}

	if s.len() != 0 {
		return results, errors.Errorf("%d values left after deleting them all", s.len())
	}

	return results, nil
}

func insertAll(s orderedSet, values []int) error {
	for _, v := range values {
		if !s.insert(v) {
			return errors.Errorf("value %d already inserted", v)
		}
	}

	return nil
}

func findAll(s orderedSet, values []int) error {
	for _, v := range values {
		if !s.find(v) {
			return errors.Errorf("value %d not found", v)
		}
	}

	return nil
}

func deleteAll(s orderedSet, values []int) error {
	for _, v := range values {
		if !s.delete(v) {
			return errors.Errorf("value %d not deleted", v)
		}
	}

	return nil
}

func shuffled(r *rand.Rand, values []int) []int {
	res := make([]int, len(values))
	copy(res, values)
	r.Shuffle(len(res), func(i, j int) {
		res[i], res[j] = res[j], res[i]
	})

	return res
}

func reversed(values []int) []int {
	res := make([]int, len(values))
	for i, v := range values {
		res[len(values)-1-i] = v
	}

	return res
}
