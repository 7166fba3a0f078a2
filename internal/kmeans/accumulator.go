package kmeans

import "github.com/viterin/vek/vek32"

// Accumulator holds the running mean and member count of one cluster.
type Accumulator struct {
	Mean  []float32
	Count int
}

// Accumulators is one Accumulator per cluster plus a scratch vector used
// by the online update.
type Accumulators struct {
	Clusters []Accumulator
	scratch  []float32
}

// NewAccumulators allocates k zeroed accumulators of the given dimension.
func NewAccumulators(k, dim int) *Accumulators {
	data := make([]float32, k*dim)
	clusters := make([]Accumulator, k)
	for i := range clusters {
		clusters[i].Mean = data[i*dim : (i+1)*dim : (i+1)*dim]
	}
	return &Accumulators{
		Clusters: clusters,
		scratch:  make([]float32, dim),
	}
}

// Reset zeroes every mean and count.
func (a *Accumulators) Reset() {
	for i := range a.Clusters {
		clear(a.Clusters[i].Mean)
		a.Clusters[i].Count = 0
	}
}

// Add folds vec into the running mean of cluster c:
//
//	mean = mean*(count-1)/count + vec/count
func (a *Accumulators) Add(c int, vec []float32) {
	acc := &a.Clusters[c]
	acc.Count++
	inv := 1 / float32(acc.Count)

	copy(a.scratch, vec)
	vek32.MulNumber_Inplace(a.scratch, inv)
	vek32.MulNumber_Inplace(acc.Mean, float32(acc.Count-1)*inv)
	vek32.Add_Inplace(acc.Mean, a.scratch)
}

// Merge combines per-chunk accumulators into a: each cluster mean becomes
// the count-weighted mean of the chunk means. a is reset first.
func (a *Accumulators) Merge(parts []*Accumulators) {
	a.Reset()
	for c := range a.Clusters {
		dst := &a.Clusters[c]
		for _, p := range parts {
			src := p.Clusters[c]
			if src.Count == 0 {
				continue
			}
			copy(a.scratch, src.Mean)
			vek32.MulNumber_Inplace(a.scratch, float32(src.Count))
			vek32.Add_Inplace(dst.Mean, a.scratch)
			dst.Count += src.Count
		}
		if dst.Count > 0 {
			vek32.MulNumber_Inplace(dst.Mean, 1/float32(dst.Count))
		}
	}
}
