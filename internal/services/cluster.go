package services

import (
	"context"
	"delivery-scenario-service/internal/domain"
	"fmt"
	"slices"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// PartitionStrategy selects how stops are grouped into clusters.
type PartitionStrategy string

const (
	// PartitionKMeans groups stops around k centers refined by k-means.
	PartitionKMeans PartitionStrategy = "kmeans"
	// PartitionBands sorts stops by distance from a reference point and
	// cuts the list into k contiguous, weight-balanced bands.
	PartitionBands PartitionStrategy = "bands"
)

// ParsePartitionStrategy accepts "kmeans" or "bands"; empty means kmeans.
func ParsePartitionStrategy(s string) (PartitionStrategy, error) {
	switch PartitionStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PartitionKMeans:
		return PartitionKMeans, nil
	case PartitionBands:
		return PartitionBands, nil
	}
	return "", fmt.Errorf("unknown partition strategy %q", s)
}

const (
	DefaultKMeansIterations = 20
	DefaultBalanceSlack     = 0.2
)

type ClusterOptions struct {
	Strategy PartitionStrategy
	// MaxIterations caps k-means refinement. Zero means DefaultKMeansIterations.
	MaxIterations int
	// BalanceSlack lets a cluster carry up to (1+slack) times the average
	// weight before the balance pass moves stops out. Zero means
	// DefaultBalanceSlack; negative disables the pass.
	BalanceSlack float64
	// Depot, when set, is the reference point for band ordering.
	Depot *domain.Coordinates
}

// Clusterer partitions a StopSet into k non-empty, geographically coherent groups.
// It is stateless and safe for concurrent use.
type Clusterer struct {
	opts ClusterOptions
}

func NewClusterer(opts ClusterOptions) *Clusterer {
	if opts.Strategy == "" {
		opts.Strategy = PartitionKMeans
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultKMeansIterations
	}
	if opts.BalanceSlack == 0 {
		opts.BalanceSlack = DefaultBalanceSlack
	}
	return &Clusterer{opts: opts}
}

// Partition splits set into exactly min(k, set.Len()) clusters whose union is
// the whole set. The result depends only on the stops and k: stops are
// processed in canonical order and every tie is broken by index.
// Clusters are returned ordered by their smallest stop id.
func (c *Clusterer) Partition(ctx context.Context, set *domain.StopSet, k int) ([]domain.Cluster, error) {
	if k < 1 {
		return nil, fmt.Errorf("partition: k=%d: %w", k, domain.ErrInvalidDriverCount)
	}
	if set == nil || set.Len() == 0 {
		return nil, fmt.Errorf("partition: %w", domain.ErrEmptyStopSet)
	}

	stops := set.Canonical()
	k = min(k, len(stops))

	if k == 1 {
		return []domain.Cluster{domain.NewCluster(stops)}, nil
	}

	var assign []int
	switch c.opts.Strategy {
	case PartitionBands:
		assign = bandAssign(stops, k, c.reference(stops))
	default:
		var err error
		assign, err = c.kMeans(ctx, stops, k)
		if err != nil {
			return nil, err
		}
	}

	// Guarantee non-empty clusters regardless of strategy.
	assign = fillEmpty(stops, assign, k)

	return buildClusters(stops, assign, k), nil
}

func (c *Clusterer) reference(stops []domain.Stop) domain.Coordinates {
	if c.opts.Depot != nil {
		return *c.opts.Depot
	}
	return centroid(stops, allIndices(len(stops)))
}

func (c *Clusterer) kMeans(ctx context.Context, stops []domain.Stop, k int) ([]int, error) {
	seeds := farthestPointSeeds(stops, k)
	centers := make([]domain.Coordinates, k)
	for i, s := range seeds {
		centers[i] = stops[s].Coordinates
	}

	var assign []int
	for iter := 0; iter < c.opts.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("partition: %w", err)
		}

		next := assignNearest(stops, centers)
		changed := !slices.Equal(next, assign)
		assign = next

		// Each iteration works on a fresh center snapshot.
		centers = recomputeCenters(stops, assign, centers)
		if !changed {
			break
		}
	}

	assign = fillEmpty(stops, assign, k)
	if c.opts.BalanceSlack > 0 {
		assign = rebalance(stops, assign, k, c.opts.BalanceSlack)
	}
	return assign, nil
}

// farthestPointSeeds picks k stop indices: first the stop farthest from the
// weighted centroid, then repeatedly the stop farthest from its nearest seed.
func farthestPointSeeds(stops []domain.Stop, k int) []int {
	center := centroid(stops, allIndices(len(stops)))

	chosen := make([]bool, len(stops))
	first, firstDist := 0, -1.0
	for i, s := range stops {
		if d := domain.HaversineMeters(s.Coordinates, center); d > firstDist {
			first, firstDist = i, d
		}
	}

	seeds := []int{first}
	chosen[first] = true

	// minDist[i] is the distance from stop i to its nearest seed so far.
	minDist := make([]float64, len(stops))
	for i, s := range stops {
		minDist[i] = domain.HaversineMeters(s.Coordinates, stops[first].Coordinates)
	}

	for len(seeds) < k {
		next, nextDist := -1, -1.0
		for i := range stops {
			if chosen[i] {
				continue
			}
			if minDist[i] > nextDist {
				next, nextDist = i, minDist[i]
			}
		}

		seeds = append(seeds, next)
		chosen[next] = true
		for i, s := range stops {
			if d := domain.HaversineMeters(s.Coordinates, stops[next].Coordinates); d < minDist[i] {
				minDist[i] = d
			}
		}
	}

	return seeds
}

// assignNearest maps every stop to its nearest center; ties go to the lower index.
func assignNearest(stops []domain.Stop, centers []domain.Coordinates) []int {
	out := make([]int, len(stops))
	for i, s := range stops {
		best, bestDist := 0, domain.HaversineMeters(s.Coordinates, centers[0])
		for j := 1; j < len(centers); j++ {
			if d := domain.HaversineMeters(s.Coordinates, centers[j]); d < bestDist {
				best, bestDist = j, d
			}
		}
		out[i] = best
	}
	return out
}

// recomputeCenters returns the weighted centroid of each cluster. An empty
// cluster keeps its previous center.
func recomputeCenters(stops []domain.Stop, assign []int, prev []domain.Coordinates) []domain.Coordinates {
	members := groupMembers(assign, len(prev))
	out := make([]domain.Coordinates, len(prev))
	for j, idx := range members {
		if len(idx) == 0 {
			out[j] = prev[j]
			continue
		}
		out[j] = centroid(stops, idx)
	}
	return out
}

// fillEmpty moves the stop farthest from the centroid of the largest cluster
// into each empty cluster until none is empty. Requires k <= len(stops).
func fillEmpty(stops []domain.Stop, assign []int, k int) []int {
	out := slices.Clone(assign)
	for {
		members := groupMembers(out, k)

		empty := slices.IndexFunc(members, func(m []int) bool { return len(m) == 0 })
		if empty < 0 {
			return out
		}

		largest := 0
		for j := 1; j < k; j++ {
			if len(members[j]) > len(members[largest]) {
				largest = j
			}
		}

		center := centroid(stops, members[largest])
		outlier, outlierDist := -1, -1.0
		for _, i := range members[largest] {
			if d := domain.HaversineMeters(stops[i].Coordinates, center); d > outlierDist {
				outlier, outlierDist = i, d
			}
		}
		out[outlier] = empty
	}
}

// rebalance moves stops out of clusters heavier than (1+slack) times the
// average weight. Each move picks the stop and receiving cluster with the
// smallest increase in distance to its center among receivers with room.
// At most len(stops) moves are made; no cluster is emptied.
func rebalance(stops []domain.Stop, assign []int, k int, slack float64) []int {
	out := slices.Clone(assign)

	total := 0.0
	for _, s := range stops {
		total += s.Weight
	}
	limit := total / float64(k) * (1 + slack)

	for moves := 0; moves < len(stops); moves++ {
		members := groupMembers(out, k)
		weights := make([]float64, k)
		centers := make([]domain.Coordinates, k)
		for j, idx := range members {
			for _, i := range idx {
				weights[j] += stops[i].Weight
			}
			centers[j] = centroid(stops, idx)
		}

		heavy := 0
		for j := 1; j < k; j++ {
			if weights[j] > weights[heavy] {
				heavy = j
			}
		}
		if weights[heavy] <= limit || len(members[heavy]) <= 1 {
			return out
		}

		bestStop, bestDest, bestDelta := -1, -1, 0.0
		for _, i := range members[heavy] {
			from := domain.HaversineMeters(stops[i].Coordinates, centers[heavy])
			for j := 0; j < k; j++ {
				if j == heavy || weights[j]+stops[i].Weight > limit {
					continue
				}
				delta := domain.HaversineMeters(stops[i].Coordinates, centers[j]) - from
				if bestStop < 0 || delta < bestDelta {
					bestStop, bestDest, bestDelta = i, j, delta
				}
			}
		}
		if bestStop < 0 {
			return out
		}
		out[bestStop] = bestDest
	}

	return out
}

// bandAssign orders stops by distance from ref (ties by id) and cuts the
// ordered list into k contiguous bands of roughly equal weight.
func bandAssign(stops []domain.Stop, k int, ref domain.Coordinates) []int {
	order := allIndices(len(stops))
	dist := make([]float64, len(stops))
	for i, s := range stops {
		dist[i] = domain.HaversineMeters(s.Coordinates, ref)
	}

	// Sort by reference distance so each driver receives a contiguous "band" of stops.
	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case dist[a] < dist[b]:
			return -1
		case dist[a] > dist[b]:
			return 1
		}
		return strings.Compare(stops[a].ID, stops[b].ID)
	})

	total := 0.0
	for _, s := range stops {
		total += s.Weight
	}
	target := total / float64(k)

	assign := make([]int, len(stops))
	band, bandSize, cum := 0, 0, 0.0
	for pos, i := range order {
		remaining := len(order) - pos
		// Leave at least one stop for every band after the current one.
		if bandSize > 0 && remaining <= k-1-band {
			band++
			bandSize = 0
		}

		assign[i] = band
		bandSize++
		cum += stops[i].Weight

		if band < k-1 && cum >= target*float64(band+1) && len(order)-pos-1 > 0 {
			band++
			bandSize = 0
		}
	}

	return assign
}

func buildClusters(stops []domain.Stop, assign []int, k int) []domain.Cluster {
	members := groupMembers(assign, k)
	clusters := make([]domain.Cluster, 0, k)
	for _, idx := range members {
		group := make([]domain.Stop, len(idx))
		for n, i := range idx {
			group[n] = stops[i]
		}
		clusters = append(clusters, domain.NewCluster(group))
	}

	slices.SortFunc(clusters, func(a, b domain.Cluster) int {
		return strings.Compare(a.Stops[0].ID, b.Stops[0].ID)
	})
	return clusters
}

func groupMembers(assign []int, k int) [][]int {
	members := make([][]int, k)
	for i, j := range assign {
		members[j] = append(members[j], i)
	}
	return members
}

// centroid is the weighted mean of the coordinates of stops[idx].
func centroid(stops []domain.Stop, idx []int) domain.Coordinates {
	lats := make([]float64, len(idx))
	lons := make([]float64, len(idx))
	weights := make([]float64, len(idx))
	for n, i := range idx {
		lats[n] = stops[i].Coordinates.Lat
		lons[n] = stops[i].Coordinates.Lon
		weights[n] = stops[i].Weight
	}
	return domain.Coordinates{
		Lat: stat.Mean(lats, weights),
		Lon: stat.Mean(lons, weights),
	}
}

func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
