package permutation

import "github.com/vybium/vybium-sponge/pkg/vybium-sponge/field"

// Arion is a width-3 permutation built from Generalized Triangular
// Dynamical Systems (GTDS): a nonlinear layer mixing all three branches
// through a triangular dependency, alternated with an affine layer (a
// circulant MDS multiplication plus round constants). Reference: "ARION:
// Arithmetization-Oriented Permutation and Hashing from Generalized
// Triangular Dynamical Systems", https://eprint.iacr.org/2023/1479.
type Arion struct{}

const (
	arionStateSize = 3
	arionRate      = 2
	arionRounds    = 10
	arionD1        = 3
)

// arionInverseExponent is the multiplicative inverse of 121 modulo P-1 for
// the Goldilocks field, used as the GTDS last branch's near-involution.
var arionInverseExponent = field.New(4878477770423691721)

type arionQuadraticParams struct {
	alpha1 field.Element
	alpha2 field.Element
	beta   field.Element
}

var arionQuadraticParamsGoldilocks = [arionStateSize]arionQuadraticParams{
	{alpha1: field.New(18446744069414584320), alpha2: field.New(2), beta: field.Zero},
	{alpha1: field.New(18446744069414584320), alpha2: field.New(2), beta: field.Zero},
	{alpha1: field.Zero, alpha2: field.Zero, beta: field.Zero},
}

var (
	arionRoundConstants = generateArionRoundConstants()
	arionMDSMatrix      = generateArionMDSMatrix()
)

func (Arion) Width() int { return arionStateSize }
func (Arion) Rate() int  { return arionRate }

// Permute applies the full Arion permutation: arionRounds iterations of the
// GTDS layer followed by the affine layer (circulant MDS plus round
// constants).
func (Arion) Permute(state []field.Element) {
	if len(state) != arionStateSize {
		panic("permutation: Arion.Permute requires a state of length 3")
	}
	var s [arionStateSize]field.Element
	copy(s[:], state)

	for round := 0; round < arionRounds; round++ {
		gtdsLayer(&s)
		affineLayer(&s, round)
	}
	copy(state, s[:])
}

// gtdsLayer computes, for each branch i from N-1 down to 0, a feedback term
// f_i folding in every branch with a higher index, then adds f_i back into x_i. Branch
// N-1 is the special case x^E; branches below it each combine a low-degree
// power of their own value with two quadratics of the partial sum of
// everything above them.
func gtdsLayer(s *[arionStateSize]field.Element) {
	n := arionStateSize
	var f [arionStateSize]field.Element

	f[n-1] = s[n-1].ModPow(arionInverseExponent.Value())

	for i := n - 2; i >= 0; i-- {
		sigma := field.Zero
		for j := i + 1; j < n; j++ {
			sigma = sigma.Add(s[j].Add(f[j]))
		}

		params := arionQuadraticParamsGoldilocks[i]
		xiPowD1 := powerD1(s[i])
		gi := evaluateQuadratic(sigma, params.alpha1, params.alpha2)
		hi := evaluateQuadratic(sigma, params.beta, field.Zero)
		f[i] = xiPowD1.Mul(gi).Add(hi)
	}

	for i := 0; i < n; i++ {
		s[i] = s[i].Add(f[i])
	}
}

func powerD1(x field.Element) field.Element {
	x2 := x.Mul(x)
	return x2.Mul(x)
}

// evaluateQuadratic computes x^2 + a*x + b.
func evaluateQuadratic(x, a, b field.Element) field.Element {
	return x.Mul(x).Add(a.Mul(x)).Add(b)
}

// affineLayer multiplies the state by the circulant MDS matrix and adds this
// round's constants.
func affineLayer(s *[arionStateSize]field.Element, round int) {
	next := applyCirculantMDS(s)
	for i := 0; i < arionStateSize; i++ {
		s[i] = next[i].Add(arionRoundConstants[round][i])
	}
}

// applyCirculantMDS multiplies by circ(1, 2, 3) in O(N) rather than O(N^2),
// following the running-sum algorithm: w_0 = sigma + sum(i*v_i), then each
// subsequent w_i rolls the window by removing sigma and adding N*v_{i-1}.
func applyCirculantMDS(s *[arionStateSize]field.Element) [arionStateSize]field.Element {
	n := arionStateSize
	var result [arionStateSize]field.Element

	sigma := field.Zero
	for i := 0; i < n; i++ {
		sigma = sigma.Add(s[i])
	}

	result[0] = sigma
	for i := 0; i < n; i++ {
		result[0] = result[0].Add(field.New(uint64(i)).Mul(s[i]))
	}

	nField := field.New(uint64(n))
	for i := 1; i < n; i++ {
		result[i] = result[i-1].Sub(sigma).Add(nField.Mul(s[i-1]))
	}
	return result
}

func generateArionRoundConstants() [arionRounds][arionStateSize]field.Element {
	var constants [arionRounds][arionStateSize]field.Element
	seed := []byte("Arion-Goldilocks-N3-R10")

	for round := 0; round < arionRounds; round++ {
		for pos := 0; pos < arionStateSize; pos++ {
			val := uint64(0)
			for i, b := range seed {
				val ^= uint64(b) << (i % 64)
			}
			val ^= uint64(round) * 0x9E3779B97F4A7C15
			val ^= uint64(pos) * 0x517CC1B727220A95
			val = val*6364136223846793005 + 1442695040888963407
			constants[round][pos] = field.New(val)
		}
	}
	return constants
}

// generateArionMDSMatrix is unused by applyCirculantMDS (which computes the
// circulant product directly) but documents the matrix that product
// implements: circ(1, 2, 3), each row a right rotation of the one above it.
func generateArionMDSMatrix() [arionStateSize][arionStateSize]field.Element {
	var matrix [arionStateSize][arionStateSize]field.Element
	for j := 0; j < arionStateSize; j++ {
		matrix[0][j] = field.New(uint64(j + 1))
	}
	for i := 1; i < arionStateSize; i++ {
		for j := 0; j < arionStateSize; j++ {
			srcIdx := (j - i + arionStateSize) % arionStateSize
			matrix[i][j] = matrix[0][srcIdx]
		}
	}
	return matrix
}
