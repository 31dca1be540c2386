package permutation

import (
	"math/big"

	"github.com/vybium/vybium-sponge/pkg/vybium-sponge/field"
)

// Poseidon is a configurable Poseidon permutation: round constants are
// generated by a Grain LFSR and the linear layer is a Cauchy MDS matrix,
// following the Poseidon paper's parameter-generation recipe rather than a
// fixed precomputed constant table.
type Poseidon struct {
	roundsFull    int
	roundsPartial int
	sboxPower     int
	width         int
	rate          int

	roundConstants [][]field.Element
	mdsMatrix      [][]field.Element
}

// PoseidonParameters configures a Poseidon permutation instance.
type PoseidonParameters struct {
	SecurityLevel int
	FieldSize     int
	Width         int
	Rate          int
	RoundsFull    int
	RoundsPartial int
	SboxPower     int
}

// DefaultPoseidonParameters returns the 128-bit-security parameter set for
// the Goldilocks field: width 4, rate 3, capacity 1.
func DefaultPoseidonParameters() *PoseidonParameters {
	return &PoseidonParameters{
		SecurityLevel: 128,
		FieldSize:     64,
		Width:         4,
		Rate:          3,
		RoundsFull:    8,
		RoundsPartial: 84,
		SboxPower:     5,
	}
}

// NewPoseidon builds a Poseidon permutation from params, generating its
// round constants and MDS matrix. A nil params uses DefaultPoseidonParameters.
func NewPoseidon(params *PoseidonParameters) *Poseidon {
	if params == nil {
		params = DefaultPoseidonParameters()
	}
	return &Poseidon{
		roundsFull:     params.RoundsFull,
		roundsPartial:  params.RoundsPartial,
		sboxPower:      params.SboxPower,
		width:          params.Width,
		rate:           params.Rate,
		roundConstants: generatePoseidonRoundConstants(params),
		mdsMatrix:      generatePoseidonMDSMatrix(params.Width),
	}
}

func (p *Poseidon) Width() int { return p.width }
func (p *Poseidon) Rate() int  { return p.rate }

// Permute mutates state (len Width()) in place through the full/partial/full
// round schedule.
func (p *Poseidon) Permute(state []field.Element) {
	if len(state) != p.width {
		panic("permutation: poseidon state length does not match configured width")
	}

	round := 0
	for i := 0; i < p.roundsFull/2; i++ {
		p.fullRound(state, round)
		round++
	}
	for i := 0; i < p.roundsPartial; i++ {
		p.partialRound(state, round)
		round++
	}
	for i := 0; i < p.roundsFull/2; i++ {
		p.fullRound(state, round)
		round++
	}
}

func (p *Poseidon) fullRound(state []field.Element, round int) {
	for i := 0; i < p.width; i++ {
		state[i] = state[i].Add(p.roundConstants[round][i])
	}
	for i := 0; i < p.width; i++ {
		state[i] = p.sbox(state[i])
	}
	p.applyMDS(state)
}

func (p *Poseidon) partialRound(state []field.Element, round int) {
	for i := 0; i < p.width; i++ {
		state[i] = state[i].Add(p.roundConstants[round][i])
	}
	state[0] = p.sbox(state[0])
	p.applyMDS(state)
}

func (p *Poseidon) sbox(x field.Element) field.Element {
	if p.sboxPower == 5 {
		x2 := x.Square()
		x4 := x2.Square()
		return x.Mul(x4)
	}
	result := x
	for i := 1; i < p.sboxPower; i++ {
		result = result.Mul(x)
	}
	return result
}

func (p *Poseidon) applyMDS(state []field.Element) {
	next := make([]field.Element, p.width)
	for i := 0; i < p.width; i++ {
		next[i] = field.Zero
		for j := 0; j < p.width; j++ {
			next[i] = next[i].Add(state[j].Mul(p.mdsMatrix[i][j]))
		}
	}
	copy(state, next)
}

func generatePoseidonRoundConstants(params *PoseidonParameters) [][]field.Element {
	lfsr := newGrainLFSR(params)
	totalRounds := params.RoundsFull + params.RoundsPartial
	constants := make([][]field.Element, totalRounds)
	for round := 0; round < totalRounds; round++ {
		constants[round] = make([]field.Element, params.Width)
		for i := 0; i < params.Width; i++ {
			constants[round][i] = lfsr.nextFieldElement()
		}
	}
	return constants
}

// generatePoseidonMDSMatrix builds a Cauchy matrix, which is always MDS:
// M[i][j] = 1/(x_i + y_j) for distinct x_i, y_j.
func generatePoseidonMDSMatrix(width int) [][]field.Element {
	matrix := make([][]field.Element, width)
	for i := 0; i < width; i++ {
		matrix[i] = make([]field.Element, width)
		for j := 0; j < width; j++ {
			x := field.New(uint64(i + 1))
			y := field.New(uint64(j + width + 1))
			matrix[i][j] = x.Add(y).Inverse()
		}
	}
	return matrix
}

// grainLFSR generates Poseidon's round constants per the paper's
// self-shrinking Grain-like LFSR parameter-generation scheme.
type grainLFSR struct {
	state  [80]bool
	params *PoseidonParameters
}

func newGrainLFSR(params *PoseidonParameters) *grainLFSR {
	g := &grainLFSR{params: params}
	g.initialize()
	return g
}

func (g *grainLFSR) initialize() {
	g.state[0] = true
	g.state[1] = true

	for i := 0; i < 4; i++ {
		g.state[2+i] = (g.params.SboxPower>>i)&1 == 1
	}
	for i := 0; i < 12; i++ {
		g.state[6+i] = (g.params.FieldSize>>i)&1 == 1
	}
	for i := 0; i < 12; i++ {
		g.state[18+i] = (g.params.Width>>i)&1 == 1
	}
	for i := 0; i < 10; i++ {
		g.state[30+i] = (g.params.RoundsFull>>i)&1 == 1
	}
	for i := 0; i < 10; i++ {
		g.state[40+i] = (g.params.RoundsPartial>>i)&1 == 1
	}
	for i := 50; i < 80; i++ {
		g.state[i] = true
	}

	for i := 0; i < 160; i++ {
		g.update()
	}
}

func (g *grainLFSR) update() {
	newBit := g.state[62] != g.state[51] != g.state[38] != g.state[23] != g.state[13] != g.state[0]
	copy(g.state[:79], g.state[1:])
	g.state[79] = newBit
}

func (g *grainLFSR) nextFieldElement() field.Element {
	value := big.NewInt(0)
	for i := 0; i < 64; i++ {
		bit1 := g.sampleBit()
		bit2 := g.sampleBit()
		if bit1 && bit2 {
			value.SetBit(value, i, 1)
		}
	}
	value.Mod(value, big.NewInt(0).SetUint64(field.P))
	return field.New(value.Uint64())
}

func (g *grainLFSR) sampleBit() bool {
	for {
		bit1 := g.state[0]
		g.update()
		bit2 := g.state[0]
		g.update()
		if bit1 {
			return bit2
		}
	}
}
