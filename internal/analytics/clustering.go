package analytics

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// DefaultMaxIterations bounds Lloyd's algorithm when no positive limit is given.
const DefaultMaxIterations = 100

// DefaultMaxClusters bounds SuggestOptimalClusters when no positive limit is given.
const DefaultMaxClusters = 6

// Cluster is one k-means cluster. Centroid has one coordinate per dimension extractor.
type Cluster[T any] struct {
	ClusterID             int       `json:"cluster_id"`
	Centroid              []float64 `json:"centroid"`
	Members               []T       `json:"members"`
	Size                  int       `json:"size"`
	WithinClusterVariance float64   `json:"within_cluster_variance"`
}

// KMeansResult is the outcome of KMeansClustering. Clusters are sorted by descending size.
type KMeansResult[T any] struct {
	Clusters      []Cluster[T] `json:"clusters"`
	K             int          `json:"k"`
	Iterations    int          `json:"iterations"`
	Converged     bool         `json:"converged"`
	TotalWithinSS float64      `json:"total_within_ss"`
}

// EuclideanDistance returns the L2 distance between two points of equal dimension. Only
// the common prefix is compared when dimensions differ.
func EuclideanDistance(a, b []float64) float64 {
	n := min(len(a), len(b))
	return floats.Distance(a[:n], b[:n], 2)
}

func squaredDistance(a, b []float64) float64 {
	d := EuclideanDistance(a, b)
	return d * d
}

// KMeansClustering partitions data into k clusters over the coordinates produced by
// dimensions. Seeding follows k-means++: the first centroid is uniform, later ones are
// drawn with probability proportional to the squared distance to the nearest chosen
// centroid. Lloyd iterations stop when no assignment changes or after maxIterations
// (100 when <= 0). rng nil means GlobalRand. With fewer items than k the result has no
// clusters.
func KMeansClustering[T any](data []T, k int, dimensions []func(T) float64, maxIterations int, rng RandSource) KMeansResult[T] {
	if k < 1 || len(dimensions) == 0 || len(data) < k {
		return KMeansResult[T]{K: k}
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	if rng == nil {
		rng = GlobalRand
	}

	points := make([][]float64, len(data))
	for i, item := range data {
		p := make([]float64, len(dimensions))
		for d, extract := range dimensions {
			p[d] = extract(item)
		}
		points[i] = p
	}

	centroids := seedCentroids(points, k, rng)
	assignment := make([]int, len(points))
	for i := range assignment {
		assignment[i] = -1
	}

	iterations, converged := 0, false
	for iter := 0; iter < maxIterations; iter++ {
		iterations = iter + 1
		changed := false
		for i, p := range points {
			c := nearestCentroid(p, centroids)
			if assignment[i] != c {
				assignment[i] = c
				changed = true
			}
		}
		if !changed {
			converged = true
			break
		}
		updateCentroids(points, assignment, centroids)
	}

	clusters := make([]Cluster[T], k)
	for c := range clusters {
		clusters[c] = Cluster[T]{ClusterID: c, Centroid: roundAll(centroids[c], 2)}
	}
	sumSquares := make([]float64, k)
	var total float64
	for i, c := range assignment {
		clusters[c].Members = append(clusters[c].Members, data[i])
		sq := squaredDistance(points[i], centroids[c])
		sumSquares[c] += sq
		total += sq
	}
	for c := range clusters {
		clusters[c].Size = len(clusters[c].Members)
		if clusters[c].Size > 0 {
			clusters[c].WithinClusterVariance = Round(sumSquares[c]/float64(clusters[c].Size), 4)
		}
	}
	sort.SliceStable(clusters, func(i, j int) bool { return clusters[i].Size > clusters[j].Size })

	return KMeansResult[T]{
		Clusters:      clusters,
		K:             k,
		Iterations:    iterations,
		Converged:     converged,
		TotalWithinSS: Round(total, 4),
	}
}

func seedCentroids(points [][]float64, k int, rng RandSource) [][]float64 {
	n := len(points)
	pick := func(u float64) int {
		return min(int(u*float64(n)), n-1)
	}

	centroids := make([][]float64, 0, k)
	centroids = append(centroids, append([]float64(nil), points[pick(rng.Float64())]...))

	weights := make([]float64, n)
	for len(centroids) < k {
		var total float64
		for i, p := range points {
			best := math.Inf(1)
			for _, c := range centroids {
				best = math.Min(best, squaredDistance(p, c))
			}
			weights[i] = best
			total += best
		}

		next := pick(rng.Float64())
		if total > 0 {
			target := rng.Float64() * total
			var cumulative float64
			for i, w := range weights {
				cumulative += w
				if cumulative >= target && w > 0 {
					next = i
					break
				}
			}
		}
		centroids = append(centroids, append([]float64(nil), points[next]...))
	}
	return centroids
}

func nearestCentroid(p []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := squaredDistance(p, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// updateCentroids moves each centroid to the mean of its members; empty clusters keep
// their previous centroid.
func updateCentroids(points [][]float64, assignment []int, centroids [][]float64) {
	dims := len(centroids[0])
	sums := make([][]float64, len(centroids))
	counts := make([]int, len(centroids))
	for c := range sums {
		sums[c] = make([]float64, dims)
	}
	for i, c := range assignment {
		floats.Add(sums[c], points[i])
		counts[c]++
	}
	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		floats.Scale(1/float64(counts[c]), sums[c])
		centroids[c] = sums[c]
	}
}

// ClusterEvaluation scores one candidate k.
type ClusterEvaluation struct {
	K          int     `json:"k"`
	WithinSS   float64 `json:"within_ss"`
	Silhouette float64 `json:"silhouette"`
}

// ClusterSuggestion is the outcome of SuggestOptimalClusters.
type ClusterSuggestion struct {
	Evaluations    []ClusterEvaluation `json:"evaluations"`
	OptimalK       int                 `json:"optimal_k"`
	Interpretation string              `json:"interpretation"`
}

// SuggestOptimalClusters runs k-means for k = 2..min(maxK, n/2) and picks the elbow: the
// k with the largest second difference of within-cluster sum of squares. With fewer than
// three candidates the best silhouette proxy 1 - withinSS/(n*dims*100), clamped to
// [0, 1], decides instead.
func SuggestOptimalClusters[T any](data []T, dimensions []func(T) float64, maxK int, rng RandSource) ClusterSuggestion {
	if maxK <= 0 {
		maxK = DefaultMaxClusters
	}
	upper := min(maxK, len(data)/2)
	if upper < 2 || len(dimensions) == 0 {
		return ClusterSuggestion{Interpretation: "Datos insuficientes para sugerir un número de grupos"}
	}

	scale := float64(len(data)) * float64(len(dimensions)) * 100
	var evaluations []ClusterEvaluation
	var withinSS []float64
	for k := 2; k <= upper; k++ {
		res := KMeansClustering(data, k, dimensions, DefaultMaxIterations, rng)
		silhouette := math.Max(0, math.Min(1, 1-res.TotalWithinSS/scale))
		evaluations = append(evaluations, ClusterEvaluation{
			K:          k,
			WithinSS:   Round(res.TotalWithinSS, 2),
			Silhouette: Round(silhouette, 4),
		})
		withinSS = append(withinSS, res.TotalWithinSS)
	}

	optimal := evaluations[0].K
	if len(evaluations) >= 3 {
		bestDiff := math.Inf(-1)
		for i := 1; i < len(withinSS)-1; i++ {
			diff := withinSS[i-1] - 2*withinSS[i] + withinSS[i+1]
			if diff > bestDiff {
				bestDiff, optimal = diff, evaluations[i].K
			}
		}
	} else {
		best := evaluations[0].Silhouette
		for _, e := range evaluations[1:] {
			if e.Silhouette > best {
				best, optimal = e.Silhouette, e.K
			}
		}
	}

	return ClusterSuggestion{
		Evaluations:    evaluations,
		OptimalK:       optimal,
		Interpretation: fmt.Sprintf("Se sugieren %d grupos según el método del codo", optimal),
	}
}
