package permutation

import "github.com/vybium/vybium-sponge/pkg/vybium-sponge/field"

// Tip5 parameters: a 16-element state split into a rate of 10 and a
// capacity of 6, permuted over 5 rounds by a split-and-lookup S-box
// followed by a generated MDS-equivalent linear layer.
// Reference: https://eprint.iacr.org/2023/107.pdf
const (
	tip5StateSize         = 16
	tip5NumSplitAndLookup = 4
	tip5NumRounds         = 5
)

// tip5LookupTable maps 8-bit values through a carefully chosen permutation
// used by the split-and-lookup S-box.
var tip5LookupTable = [256]uint8{
	0, 7, 26, 63, 124, 215, 85, 254, 214, 228, 45, 185, 140, 173, 33, 240, 29, 177, 176, 32, 8,
	110, 87, 202, 204, 99, 150, 106, 230, 14, 235, 128, 213, 239, 212, 138, 23, 130, 208, 6, 44,
	71, 93, 116, 146, 189, 251, 81, 199, 97, 38, 28, 73, 179, 95, 84, 152, 48, 35, 119, 49, 88,
	242, 3, 148, 169, 72, 120, 62, 161, 166, 83, 175, 191, 137, 19, 100, 129, 112, 55, 221, 102,
	218, 61, 151, 237, 68, 164, 17, 147, 46, 234, 203, 216, 22, 141, 65, 57, 123, 12, 244, 54, 219,
	231, 96, 77, 180, 154, 5, 253, 133, 165, 98, 195, 205, 134, 245, 30, 9, 188, 59, 142, 186, 197,
	181, 144, 92, 31, 224, 163, 111, 74, 58, 69, 113, 196, 67, 246, 225, 10, 121, 50, 60, 157, 90,
	122, 2, 250, 101, 75, 178, 159, 24, 36, 201, 11, 243, 132, 198, 190, 114, 233, 39, 52, 21, 209,
	108, 238, 91, 187, 18, 104, 194, 37, 153, 34, 200, 143, 126, 155, 236, 118, 64, 80, 172, 89,
	94, 193, 135, 183, 86, 107, 252, 13, 167, 206, 136, 220, 207, 103, 171, 160, 76, 182, 227, 217,
	158, 56, 174, 4, 66, 109, 139, 162, 184, 211, 249, 47, 125, 232, 117, 43, 16, 42, 127, 20, 241,
	25, 149, 105, 156, 51, 53, 168, 145, 247, 223, 79, 78, 226, 15, 222, 82, 115, 70, 210, 27, 41,
	1, 170, 40, 131, 192, 229, 248, 255,
}

var tip5RoundConstants = [tip5NumRounds * tip5StateSize]field.Element{
	field.New(13630775303355457758), field.New(16896927574093233874), field.New(10379449653650130495),
	field.New(1965408364413093495), field.New(15232538947090185111), field.New(15892634398091747074),
	field.New(3989134140024871768), field.New(2851411912127730865), field.New(8709136439293758776),
	field.New(3694858669662939734), field.New(12692440244315327141), field.New(10722316166358076749),
	field.New(12745429320441639448), field.New(17932424223723990421), field.New(7558102534867937463),
	field.New(15551047435855531404), field.New(17532528648579384106), field.New(5216785850422679555),
	field.New(15418071332095031847), field.New(11921929762955146258), field.New(9738718993677019874),
	field.New(3464580399432997147), field.New(13408434769117164050), field.New(264428218649616431),
	field.New(4436247869008081381), field.New(4063129435850804221), field.New(2865073155741120117),
	field.New(5749834437609765994), field.New(6804196764189408435), field.New(17060469201292988508),
	field.New(9475383556737206708), field.New(12876344085611465020), field.New(13835756199368269249),
	field.New(1648753455944344172), field.New(9836124473569258483), field.New(12867641597107932229),
	field.New(11254152636692960595), field.New(16550832737139861108), field.New(11861573970480733262),
	field.New(1256660473588673495), field.New(13879506000676455136), field.New(10564103842682358721),
	field.New(16142842524796397521), field.New(3287098591948630584), field.New(685911471061284805),
	field.New(5285298776918878023), field.New(18310953571768047354), field.New(3142266350630002035),
	field.New(549990724933663297), field.New(4901984846118077401), field.New(11458643033696775769),
	field.New(8706785264119212710), field.New(12521758138015724072), field.New(11877914062416978196),
	field.New(11333318251134523752), field.New(3933899631278608623), field.New(16635128972021157924),
	field.New(10291337173108950450), field.New(4142107155024199350), field.New(16973934533787743537),
	field.New(11068111539125175221), field.New(17546769694830203606), field.New(5315217744825068993),
	field.New(4609594252909613081), field.New(3350107164315270407), field.New(17715942834299349177),
	field.New(9600609149219873996), field.New(12894357635820003949), field.New(4597649658040514631),
	field.New(7735563950920491847), field.New(1663379455870887181), field.New(13889298103638829706),
	field.New(7375530351220884434), field.New(3502022433285269151), field.New(9231805330431056952),
	field.New(9252272755288523725), field.New(10014268662326746219), field.New(15565031632950843234),
	field.New(1209725273521819323), field.New(6024642864597845108),
}

// Tip5 is the split-and-lookup permutation used by the Goldilocks engine's
// default backend.
type Tip5 struct{}

func (Tip5) Width() int { return tip5StateSize }
func (Tip5) Rate() int  { return tip5StateSize - 6 }

// Permute mutates state (len 16) in place through five rounds of
// S-box-layer, generated-MDS-layer, and round-constant addition.
func (Tip5) Permute(state []field.Element) {
	if len(state) != tip5StateSize {
		panic("permutation: tip5 state must have 16 elements")
	}
	for round := 0; round < tip5NumRounds; round++ {
		tip5SboxLayer(state)
		tip5MDS(state)
		for i := 0; i < tip5StateSize; i++ {
			state[i] = state[i].Add(tip5RoundConstants[round*tip5StateSize+i])
		}
	}
}

func tip5SboxLayer(state []field.Element) {
	for i := 0; i < tip5NumSplitAndLookup; i++ {
		tip5SplitAndLookup(&state[i])
	}
	for i := tip5NumSplitAndLookup; i < tip5StateSize; i++ {
		sq := state[i].Square()
		qu := sq.Square()
		state[i] = state[i].Mul(sq).Mul(qu) // x^7
	}
}

func tip5SplitAndLookup(element *field.Element) {
	bytes := element.ToBytes()
	for i := 0; i < 8; i++ {
		bytes[i] = tip5LookupTable[bytes[i]]
	}
	*element = field.FromBytes(bytes)
}

// tip5MDS applies the generated MDS-equivalent linear layer, operating on
// the low and high 32-bit halves of each limb separately to stay within
// native 64-bit multiplication.
func tip5MDS(state []field.Element) {
	var lo, hi [tip5StateSize]uint64
	for i := 0; i < tip5StateSize; i++ {
		b := state[i].RawValue()
		hi[i] = b >> 32
		lo[i] = b & 0xFFFFFFFF
	}

	lo = tip5GeneratedFunction(lo)
	hi = tip5GeneratedFunction(hi)

	for r := 0; r < tip5StateSize; r++ {
		s := (uint128(lo[r]) >> 4) + (uint128(hi[r]) << 28)
		sHi := uint64(s >> 32)
		sLo := uint64(s)

		res := sLo + sHi*0xFFFFFFFF
		if res < sLo {
			res += 0xFFFFFFFF
		}
		state[r] = field.NewFromRaw(res)
	}
}

type uint128 uint64

// tip5GeneratedFunction is the optimized MDS matrix multiplication: a
// pre-factored circulant-matrix product computed as a fixed butterfly
// network instead of 16x16 scalar multiplications.
func tip5GeneratedFunction(input [tip5StateSize]uint64) [tip5StateSize]uint64 {
	node34 := input[0] + input[8]
	node38 := input[4] + input[12]
	node36 := input[2] + input[10]
	node40 := input[6] + input[14]
	node35 := input[1] + input[9]
	node39 := input[5] + input[13]
	node37 := input[3] + input[11]
	node41 := input[7] + input[15]

	node50 := node34 + node38
	node52 := node36 + node40
	node51 := node35 + node39
	node53 := node37 + node41

	node160 := input[0] - input[8]
	node161 := input[1] - input[9]
	node165 := input[5] - input[13]
	node163 := input[3] - input[11]
	node167 := input[7] - input[15]
	node162 := input[2] - input[10]
	node166 := input[6] - input[14]
	node164 := input[4] - input[12]

	node58 := node50 + node52
	node59 := node51 + node53
	node90 := node34 - node38
	node91 := node35 - node39
	node93 := node37 - node41
	node92 := node36 - node40

	node64 := (node58 + node59) * 524757
	node67 := (node58 - node59) * 52427
	node71 := node50 - node52
	node72 := node51 - node53

	node177 := node161 + node165
	node179 := node163 + node167
	node178 := node162 + node166
	node176 := node160 + node164

	node69 := node64 + node67
	node397 := node71*18446744073709525744 - node72*53918
	node1857 := node90 * 395512
	node99 := node91 + node93
	node1865 := node91 * 18446744073709254400
	node1869 := node93 * 179380
	node1873 := node92 * 18446744073709509368
	node1879 := node160 * 35608
	node185 := node161 + node163
	node1915 := node161 * 18446744073709340312
	node1921 := node163 * 18446744073709494992
	node1927 := node162 * 18446744073709450808
	node228 := node165 + node167
	node1939 := node165 * 18446744073709420056
	node1945 := node167 * 18446744073709505128
	node1951 := node166 * 216536
	node1957 := node164 * 18446744073709515080

	node70 := node64 - node67
	node702 := node71*53918 + node72*18446744073709525744
	node1961 := node90 * 18446744073709254400
	node1963 := node91 * 395512
	node1965 := node92 * 179380
	node1967 := node93 * 18446744073709509368
	node1970 := node160 * 18446744073709340312
	node1973 := node161 * 35608
	node1982 := node162 * 18446744073709494992
	node1985 := node163 * 18446744073709450808
	node1988 := node166 * 18446744073709505128
	node1991 := node167 * 216536
	node1994 := node164 * 18446744073709420056
	node1997 := node165 * 18446744073709515080

	node98 := node90 + node92
	node184 := node160 + node162
	node227 := node164 + node166

	node86 := node69 + node397
	node403 := node1857 - (node99*18446744073709433780 - node1865 - node1869 + node1873)
	node271 := node177 + node179
	node1891 := node177 * 18446744073709208752
	node1897 := node179 * 18446744073709448504
	node1903 := node178 * 115728
	node1909 := node185 * 18446744073709283688
	node1933 := node228 * 18446744073709373568

	node88 := node70 + node702
	node708 := node1961 + node1963 - (node1965 + node1967)
	node1976 := node178 * 18446744073709448504
	node1979 := node179 * 115728

	node87 := node69 - node397
	node897 := node1865 + node98*353264 - node1857 - node1873 - node1869
	node2007 := node184 * 18446744073709486416
	node2013 := node227 * 180000

	node89 := node70 - node702
	node1077 := node98*18446744073709433780 + node99*353264 - (node1961 + node1963) - (node1965 + node1967)
	node2020 := node184 * 18446744073709283688
	node2023 := node185 * 18446744073709486416
	node2026 := node227 * 18446744073709373568
	node2029 := node228 * 180000
	node2035 := node176 * 18446744073709550688
	node2038 := node176 * 18446744073709208752
	node2041 := node177 * 18446744073709550688

	node270 := node176 + node178

	node152 := node86 + node403
	node412 := node1879 + node185*18446744073709433780 - node1915 - node1921 - node1927
	node1237 := node2035 - node1891 - node1897 - node1903 - node1909

	node154 := node88 + node708
	node717 := node1921 + node2007 - node1970 - node1973 - node1982 - node1985
	node1375 := node1927 + node2013 - node1994 - node1997 - node1988 - node1991

	node156 := node87 + node897
	node906 := node1873 + node1909 + node2020 - node1879 - node1915 - node1921 - node1927
	node1492 := node1951 + node1933 + node2026 - node1939 - node1945 - node1957 - node1997

	node158 := node89 + node1077
	node1086 := node1961 + node1963 + node1979 + node2023 - node1973 - node1982 - node1985 - node1976
	node1657 := node1994 + node1997 + node1991 + node2029 - node1939 - node1945 - node1957 - node1988

	node153 := node270*114800 + node271*18446744073709433780 - node2038 - node2041 - node1976 - node1979 - (node2020 + node2023 - node1970 - node1973 - node1982 - node1985) - (node2026 + node2029 - node1994 - node1997 - node1988 - node1991)
	node155 := node270*18446744073709433780 + node271*114800 - node1891 - node1897 - node1903 - (node1879 + node1909 + node2020 - node1915 - node1921 - node1927) - (node1939 + node1933 + node2026 - node1951 - node1957 - node1988 - node1991)
	node157 := node1879 + node270*353264 - node2035 - node2038 - node2041 - node1976 - node1979 - (node1915 + node1909 + node2020 + node2023 - node1927 - node1982 - node1985 - node1973) - (node1939 + node1933 + node2026 + node2029 - node1951 - node1957 - node1988 - node1991)
	node159 := node1939 + node271*114800 - node2038 - node2041 - node1976 - node1979 - (node2020 + node2023 - node1970 - node1973 - node1982 - node1985) - (node2026 + node2029 - node1994 - node1997 - node1988 - node1991)

	return [tip5StateSize]uint64{
		node152 + node412, node154 + node717, node156 + node906, node158 + node1086,
		node153 + node1237, node155 + node1375, node157 + node1492, node159 + node1657,
		node152 - node412, node154 - node717, node156 - node906, node158 - node1086,
		node153 - node1237, node155 - node1375, node157 - node1492, node159 - node1657,
	}
}
