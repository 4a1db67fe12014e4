package lattelab

import "fmt"

// Model selects one of the supported velocity sets.
type Model int

const (
	D2Q9 Model = iota
	D3Q7
	D3Q15
	D3Q19
	D3Q27
)

// ParseModel converts a model name such as "D2Q9" into a Model.
func ParseModel(s string) (Model, error) {
	switch s {
	case "D2Q9":
		return D2Q9, nil
	case "D3Q7":
		return D3Q7, nil
	case "D3Q15":
		return D3Q15, nil
	case "D3Q19":
		return D3Q19, nil
	case "D3Q27":
		return D3Q27, nil
	}
	return 0, fmt.Errorf("unsupported model: %q (use D2Q9, D3Q7, D3Q15, D3Q19 or D3Q27)", s)
}

func (m Model) String() string {
	switch m {
	case D2Q9:
		return "D2Q9"
	case D3Q7:
		return "D3Q7"
	case D3Q15:
		return "D3Q15"
	case D3Q19:
		return "D3Q19"
	case D3Q27:
		return "D3Q27"
	}
	return fmt.Sprintf("Model(%d)", int(m))
}

// lattice holds the constant tables of a velocity set. The direction order
// matches the device-side tables emitted by velocitySetSource: rest direction
// first, then opposite directions in adjacent pairs.
type lattice struct {
	model    Model
	d        int
	q        int
	c        [][3]int32
	w        []float32
	opposite []int32
}

var latticeTables = map[Model]*lattice{
	D2Q9: {
		model: D2Q9, d: 2, q: 9,
		c: [][3]int32{
			{0, 0, 0}, {1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0},
			{1, 1, 0}, {-1, -1, 0}, {1, -1, 0}, {-1, 1, 0},
		},
		w: []float32{
			4.0 / 9.0, 1.0 / 9.0, 1.0 / 9.0, 1.0 / 9.0, 1.0 / 9.0,
			1.0 / 36.0, 1.0 / 36.0, 1.0 / 36.0, 1.0 / 36.0,
		},
	},
	D3Q7: {
		model: D3Q7, d: 3, q: 7,
		c: [][3]int32{
			{0, 0, 0}, {1, 0, 0}, {-1, 0, 0}, {0, 1, 0},
			{0, -1, 0}, {0, 0, 1}, {0, 0, -1},
		},
		w: []float32{
			1.0 / 4.0, 1.0 / 8.0, 1.0 / 8.0, 1.0 / 8.0, 1.0 / 8.0, 1.0 / 8.0, 1.0 / 8.0,
		},
	},
	D3Q15: {
		model: D3Q15, d: 3, q: 15,
		c: [][3]int32{
			{0, 0, 0}, {1, 0, 0}, {-1, 0, 0}, {0, 1, 0},
			{0, -1, 0}, {0, 0, 1}, {0, 0, -1}, {1, 1, 1},
			{-1, -1, -1}, {1, 1, -1}, {-1, -1, 1}, {1, -1, 1},
			{-1, 1, -1}, {-1, 1, 1}, {1, -1, -1},
		},
		w: []float32{
			2.0 / 9.0, 1.0 / 9.0, 1.0 / 9.0, 1.0 / 9.0, 1.0 / 9.0,
			1.0 / 9.0, 1.0 / 9.0, 1.0 / 72.0, 1.0 / 72.0, 1.0 / 72.0,
			1.0 / 72.0, 1.0 / 72.0, 1.0 / 72.0, 1.0 / 72.0, 1.0 / 72.0,
		},
	},
	D3Q19: {
		model: D3Q19, d: 3, q: 19,
		c: [][3]int32{
			{0, 0, 0}, {1, 0, 0}, {-1, 0, 0}, {0, 1, 0},
			{0, -1, 0}, {0, 0, 1}, {0, 0, -1}, {1, 1, 0},
			{-1, -1, 0}, {1, 0, 1}, {-1, 0, -1}, {0, 1, 1},
			{0, -1, -1}, {1, -1, 0}, {-1, 1, 0}, {1, 0, -1},
			{-1, 0, 1}, {0, 1, -1}, {0, -1, 1},
		},
		w: []float32{
			1.0 / 3.0, 1.0 / 18.0, 1.0 / 18.0, 1.0 / 18.0, 1.0 / 18.0,
			1.0 / 18.0, 1.0 / 18.0, 1.0 / 36.0, 1.0 / 36.0, 1.0 / 36.0,
			1.0 / 36.0, 1.0 / 36.0, 1.0 / 36.0, 1.0 / 36.0, 1.0 / 36.0,
			1.0 / 36.0, 1.0 / 36.0, 1.0 / 36.0, 1.0 / 36.0,
		},
	},
	D3Q27: {
		model: D3Q27, d: 3, q: 27,
		c: [][3]int32{
			{0, 0, 0}, {1, 0, 0}, {-1, 0, 0}, {0, 1, 0},
			{0, -1, 0}, {0, 0, 1}, {0, 0, -1}, {1, 1, 0},
			{-1, -1, 0}, {1, 0, 1}, {-1, 0, -1}, {0, 1, 1},
			{0, -1, -1}, {1, -1, 0}, {-1, 1, 0}, {1, 0, -1},
			{-1, 0, 1}, {0, 1, -1}, {0, -1, 1}, {1, 1, 1},
			{-1, -1, -1}, {1, 1, -1}, {-1, -1, 1}, {1, -1, 1},
			{-1, 1, -1}, {-1, 1, 1}, {1, -1, -1},
		},
		w: []float32{
			8.0 / 27.0, 2.0 / 27.0, 2.0 / 27.0, 2.0 / 27.0, 2.0 / 27.0,
			2.0 / 27.0, 2.0 / 27.0, 1.0 / 54.0, 1.0 / 54.0, 1.0 / 54.0,
			1.0 / 54.0, 1.0 / 54.0, 1.0 / 54.0, 1.0 / 54.0, 1.0 / 54.0,
			1.0 / 54.0, 1.0 / 54.0, 1.0 / 54.0, 1.0 / 54.0, 1.0 / 216.0,
			1.0 / 216.0, 1.0 / 216.0, 1.0 / 216.0, 1.0 / 216.0, 1.0 / 216.0,
			1.0 / 216.0, 1.0 / 216.0,
		},
	},
}

func init() {
	for model, lat := range latticeTables {
		opp, err := pairDirections(lat.c)
		if err != nil {
			panic(fmt.Sprintf("lattelab: %s velocity set: %v", model, err))
		}
		lat.opposite = opp
		if err := lat.validate(); err != nil {
			panic(fmt.Sprintf("lattelab: %s velocity set: %v", model, err))
		}
	}
}

// latticeFor returns the table set for a model. All tables are validated at
// package init.
func latticeFor(model Model) (*lattice, error) {
	lat, ok := latticeTables[model]
	if !ok {
		return nil, fmt.Errorf("unsupported model: %v", model)
	}
	return lat, nil
}

// pairDirections derives the opposite table: for each q the unique index
// whose velocity vector negates c[q].
func pairDirections(c [][3]int32) ([]int32, error) {
	opp := make([]int32, len(c))
	for q := range c {
		found := -1
		for p := range c {
			if c[p][0] == -c[q][0] && c[p][1] == -c[q][1] && c[p][2] == -c[q][2] {
				if found >= 0 {
					return nil, fmt.Errorf("direction %d has multiple opposites", q)
				}
				found = p
			}
		}
		if found < 0 {
			return nil, fmt.Errorf("direction %d has no opposite", q)
		}
		opp[q] = int32(found)
	}
	return opp, nil
}

func (lat *lattice) validate() error {
	if len(lat.c) != lat.q || len(lat.w) != lat.q || len(lat.opposite) != lat.q {
		return fmt.Errorf("table length mismatch for Q=%d", lat.q)
	}
	if lat.c[0] != [3]int32{0, 0, 0} || lat.opposite[0] != 0 {
		return fmt.Errorf("rest direction must be q=0")
	}
	var sum float64
	for q := 0; q < lat.q; q++ {
		o := lat.opposite[q]
		if lat.opposite[o] != int32(q) {
			return fmt.Errorf("opposite table is not an involution at q=%d", q)
		}
		if lat.w[q] != lat.w[o] {
			return fmt.Errorf("weights differ between q=%d and its opposite", q)
		}
		if lat.d == 2 && lat.c[q][2] != 0 {
			return fmt.Errorf("2D direction %d has a z component", q)
		}
		sum += float64(lat.w[q])
	}
	if diff := sum - 1.0; diff > 1e-6 || diff < -1e-6 {
		return fmt.Errorf("weights sum to %v, want 1", sum)
	}
	return nil
}
