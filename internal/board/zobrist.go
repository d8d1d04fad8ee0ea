package board

// Zobrist keys for board hashing.
// Uses PRNG with fixed seed for reproducibility.
var (
	zobristCell [MaxSize * MaxSize][3]uint64 // [square][Cell], Empty slot stays zero
	zobristSide [3]uint64                    // perspective keys for caches
	zobristSize [MaxSize + 1]uint64          // seeds the hash of an empty board
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234)

	for sq := range zobristCell {
		zobristCell[sq][First] = rng.next()
		zobristCell[sq][Second] = rng.next()
	}
	zobristSide[First] = rng.next()
	zobristSide[Second] = rng.next()
	for n := MinSize; n <= MaxSize; n++ {
		zobristSize[n] = rng.next()
	}
}

// ZobristCell returns the key for cell value c on square index sq.
func ZobristCell(sq int, c Cell) uint64 {
	return zobristCell[sq][c]
}

// ZobristSide returns the key that tags a hash with a player's perspective.
func ZobristSide(c Cell) uint64 {
	return zobristSide[c]
}
