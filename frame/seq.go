package frame

import "sync"

// SeqGenerator hands out incremental frame sequence numbers
type SeqGenerator struct {
	seq uint64
	sync.Mutex
}

// NewSeqGenerator returns a generator whose first number is 1
func NewSeqGenerator() *SeqGenerator {
	return &SeqGenerator{}
}

// Next returns the next sequence number
func (g *SeqGenerator) Next() uint64 {
	g.Lock()
	defer g.Unlock()
	g.seq++
	return g.seq
}
