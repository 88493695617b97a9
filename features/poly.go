package features

// PolynomialExpand applies a degree-2 polynomial expansion without a bias
// term: the inputs x0..x(n-1) followed by xi*xj for every i <= j, in the
// order i ascending then j ascending.
func PolynomialExpand(x []float64) []float64 {
	n := len(x)
	out := make([]float64, 0, ExpandedLen(n))
	out = append(out, x...)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			out = append(out, x[i]*x[j])
		}
	}
	return out
}

// ExpandedLen is the output length of PolynomialExpand for n inputs:
// n linear terms plus C(n,2) cross terms plus n squares.
func ExpandedLen(n int) int {
	return n + n*(n-1)/2 + n
}

// VectorLen is the length of every vector Vectorize returns
func VectorLen() int {
	return ExpandedLen(len(featureNames))
}
