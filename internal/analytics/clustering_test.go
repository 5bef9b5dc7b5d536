package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	Blob string
	X, Y float64
}

var pointDims = []func(point) float64{
	func(p point) float64 { return p.X },
	func(p point) float64 { return p.Y },
}

func blob(name string, cx, cy float64) []point {
	return []point{
		{name, cx, cy},
		{name, cx + 0.5, cy + 1},
		{name, cx + 1, cy},
		{name, cx, cy + 0.5},
	}
}

func TestEuclideanDistance(t *testing.T) {
	assert.Equal(t, 5.0, EuclideanDistance([]float64{0, 0}, []float64{3, 4}))
	assert.Equal(t, 3.0, EuclideanDistance([]float64{0, 0, 9}, []float64{3}))
}

func TestKMeansClusteringSeparatesBlobs(t *testing.T) {
	data := append(blob("low", 1, 1), blob("high", 10, 10)...)

	res := KMeansClustering(data, 2, pointDims, 0, seeded(3))

	require.Len(t, res.Clusters, 2)
	assert.Equal(t, 2, res.K)
	assert.True(t, res.Converged)

	total := 0
	for _, c := range res.Clusters {
		total += c.Size
		require.Len(t, c.Centroid, 2)
		require.NotEmpty(t, c.Members)
		for _, m := range c.Members {
			assert.Equal(t, c.Members[0].Blob, m.Blob)
		}
	}
	assert.Equal(t, len(data), total)
}

func TestKMeansClusteringIsReproducibleWithSeed(t *testing.T) {
	data := append(append(blob("a", 0, 0), blob("b", 5, 5)...), blob("c", 0, 9)...)

	first := KMeansClustering(data, 3, pointDims, 50, seeded(11))
	second := KMeansClustering(data, 3, pointDims, 50, seeded(11))

	assert.Equal(t, first, second)
}

func TestKMeansClusteringTooFewItems(t *testing.T) {
	res := KMeansClustering(blob("a", 0, 0), 5, pointDims, 0, nil)

	assert.Empty(t, res.Clusters)
	assert.Equal(t, 5, res.K)
}

func TestSuggestOptimalClusters(t *testing.T) {
	data := append(append(blob("a", 0, 0), blob("b", 20, 20)...), blob("c", 0, 40)...)

	res := SuggestOptimalClusters(data, pointDims, 0, seeded(5))

	require.Len(t, res.Evaluations, 5)
	for i, e := range res.Evaluations {
		assert.Equal(t, i+2, e.K)
		assert.GreaterOrEqual(t, e.Silhouette, 0.0)
		assert.LessOrEqual(t, e.Silhouette, 1.0)
	}
	// Within-SS collapses at k=3 and barely moves after, so the elbow is at 3.
	assert.Equal(t, 3, res.OptimalK)
	assert.Greater(t, res.Evaluations[0].WithinSS, 100*res.Evaluations[1].WithinSS)
}

func TestSuggestOptimalClustersInsufficient(t *testing.T) {
	res := SuggestOptimalClusters(blob("a", 0, 0)[:3], pointDims, 6, nil)

	assert.Empty(t, res.Evaluations)
	assert.Equal(t, 0, res.OptimalK)
	assert.NotEmpty(t, res.Interpretation)
}
