package analysis

import (
	"fmt"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/couchcryptid/nri-explorer/internal/domain"
)

// maxClusters caps k; beyond ten groups the view stops being readable.
const maxClusters = 10

// clusterDims are the score axes fed to the partitioner, in order.
var clusterDims = []string{"risk_score", "sovi_score", "resl_score", "eal"}

// ClusterCenter is a denormalized cluster centroid keyed by score axis.
type ClusterCenter map[string]float64

// Cluster is one group of counties from the k-means pass.
type Cluster struct {
	ID     int           `json:"id"`
	Size   int           `json:"size"`
	Center ClusterCenter `json:"center"`
	FIPS   []string      `json:"fips"`
}

// ClusterResult is the full clustering summary.
type ClusterResult struct {
	K        int       `json:"k"`
	Clusters []Cluster `json:"clusters"`
}

// countyObservation carries the county identity through the partitioner.
type countyObservation struct {
	coords clusters.Coordinates
	fips   string
}

func (o countyObservation) Coordinates() clusters.Coordinates { return o.coords }

func (o countyObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// KMeans partitions the records into k clusters over their
// (risk, sovi, resl, eal) vectors. Each axis is min-max normalized before
// partitioning so the dollar-scaled EAL does not dominate the unit-scaled
// scores; centers are denormalized back for reporting.
func KMeans(records []domain.CountyRecord, k int) (ClusterResult, error) {
	if k < 2 {
		return ClusterResult{}, fmt.Errorf("k must be at least 2, got %d", k)
	}
	if k > maxClusters {
		return ClusterResult{}, fmt.Errorf("k must be at most %d, got %d", maxClusters, k)
	}
	if len(records) < k {
		return ClusterResult{}, fmt.Errorf("clustering %d records into %d groups", len(records), k)
	}

	vectors := make([][]float64, len(records))
	for i, rec := range records {
		vectors[i] = []float64{rec.RiskScore, rec.SoviScore, rec.ReslScore, rec.EAL}
	}
	mins, maxs := axisBounds(vectors)

	observations := make(clusters.Observations, len(records))
	for i, rec := range records {
		observations[i] = countyObservation{
			coords: normalize(vectors[i], mins, maxs),
			fips:   rec.FIPS,
		}
	}

	km := kmeans.New()
	partitioned, err := km.Partition(observations, k)
	if err != nil {
		return ClusterResult{}, fmt.Errorf("partition records: %w", err)
	}

	result := ClusterResult{K: k, Clusters: make([]Cluster, 0, len(partitioned))}
	for i, c := range partitioned {
		cluster := Cluster{
			ID:     i,
			Size:   len(c.Observations),
			Center: denormalizeCenter(c.Center, mins, maxs),
			FIPS:   make([]string, 0, len(c.Observations)),
		}
		for _, obs := range c.Observations {
			if co, ok := obs.(countyObservation); ok {
				cluster.FIPS = append(cluster.FIPS, co.fips)
			}
		}
		result.Clusters = append(result.Clusters, cluster)
	}
	return result, nil
}

func axisBounds(vectors [][]float64) (mins, maxs []float64) {
	dims := len(clusterDims)
	mins = make([]float64, dims)
	maxs = make([]float64, dims)
	copy(mins, vectors[0])
	copy(maxs, vectors[0])
	for _, v := range vectors[1:] {
		for d := 0; d < dims; d++ {
			if v[d] < mins[d] {
				mins[d] = v[d]
			}
			if v[d] > maxs[d] {
				maxs[d] = v[d]
			}
		}
	}
	return mins, maxs
}

// normalize maps a vector onto [0,1] per axis. Axes with no spread map to 0.
func normalize(v, mins, maxs []float64) clusters.Coordinates {
	out := make(clusters.Coordinates, len(v))
	for d := range v {
		span := maxs[d] - mins[d]
		if span == 0 {
			continue
		}
		out[d] = (v[d] - mins[d]) / span
	}
	return out
}

func denormalizeCenter(center clusters.Coordinates, mins, maxs []float64) ClusterCenter {
	out := make(ClusterCenter, len(clusterDims))
	for d, name := range clusterDims {
		out[name] = mins[d] + center[d]*(maxs[d]-mins[d])
	}
	return out
}
