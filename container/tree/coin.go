package tree

import (
	"math/rand"
	"sync"
)

// Coin decides which subtree gives up its extremum when a node with
// two children is removed
type Coin interface {
	Flip() Direction
}

// CoinFunc allows a function to act as a Coin
type CoinFunc func() Direction

// Flip is the implementation of Coin for CoinFunc
func (f CoinFunc) Flip() Direction {
	return f()
}

type randomCoin struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandomCoin creates a fair coin backed by a pseudo random source
// initialized with seed
func NewRandomCoin(seed int64) Coin {
	return &randomCoin{r: rand.New(rand.NewSource(seed))}
}

func (c *randomCoin) Flip() Direction {
	// rand.Rand is not safe for concurrent use
	c.mu.Lock()
	n := c.r.Intn(2)
	c.mu.Unlock()

	if n == 0 {
		return Left
	}

	return Right
}

// SequenceCoin returns a fixed sequence of directions, starting over
// once it is exhausted. It makes deletions deterministic.
type SequenceCoin struct {
	seq   []Direction
	flips int
}

// NewSequenceCoin creates a coin that cycles through seq
func NewSequenceCoin(seq ...Direction) *SequenceCoin {
	if len(seq) == 0 {
		panic("sequence coin requires at least one direction")
	}

	return &SequenceCoin{seq: seq}
}

// Flip returns the next direction in the sequence
func (c *SequenceCoin) Flip() Direction {
	d := c.seq[c.flips%len(c.seq)]
	c.flips++
	return d
}

// Flips returns the number of times the coin was flipped
func (c *SequenceCoin) Flips() int {
	return c.flips
}
