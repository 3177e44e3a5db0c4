package graph

import (
	"math"
	"testing"

	"github.com/causamap/backend/pkg/common"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float32
	}{
		{name: "identical vectors", a: []float32{1, 0}, b: []float32{1, 0}, want: 1},
		{name: "orthogonal vectors", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "opposite vectors", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1},
		{name: "zero vector", a: []float32{0, 0}, b: []float32{1, 1}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("cosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCentroid(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		if got := centroid(nil); got != nil {
			t.Errorf("expected nil centroid, got %v", got)
		}
	})

	t.Run("mean of vectors", func(t *testing.T) {
		got := centroid([][]float32{{0, 2}, {2, 0}})
		want := []float32{1, 1}
		if len(got) != len(want) {
			t.Fatalf("centroid length = %d, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("centroid[%d] = %v, want %v", i, got[i], want[i])
			}
		}
	})
}

func TestAssignRemainderByCentroid(t *testing.T) {
	variables := []common.Variable{
		{ID: "v1", Name: "A", Embedding: []float32{1, 0}},
		{ID: "v2", Name: "B", Embedding: []float32{0, 1}},
		{ID: "v3", Name: "C", Embedding: []float32{0.9, 0.1}},
	}
	clusters := []common.Cluster{
		{ID: "c1", Label: "First", Variables: []string{"v1"}},
		{ID: "c2", Label: "Second", Variables: []string{"v2"}},
	}
	assigned := map[string]string{"A": "c1", "B": "c2"}

	assignRemainderByCentroid(variables, clusters, assigned)

	if variables[2].ClusterID != "c1" {
		t.Errorf("expected C to join cluster c1, got %q", variables[2].ClusterID)
	}
	if len(clusters[0].Variables) != 2 {
		t.Errorf("expected cluster c1 to have 2 members, got %d", len(clusters[0].Variables))
	}
	if assigned["C"] != "c1" {
		t.Errorf("assignment map not updated, got %q", assigned["C"])
	}
}

func TestAssignRemainderByCentroid_NoEmbeddingsFallsBackToLargestCluster(t *testing.T) {
	variables := []common.Variable{
		{ID: "v1", Name: "A"},
		{ID: "v2", Name: "B"},
		{ID: "v3", Name: "C"},
	}
	clusters := []common.Cluster{
		{ID: "c1", Label: "Big", Variables: []string{"v1", "v2"}},
		{ID: "c2", Label: "Small", Variables: []string{}},
	}
	assigned := map[string]string{"A": "c1", "B": "c1"}

	assignRemainderByCentroid(variables, clusters, assigned)

	if variables[2].ClusterID != "c1" {
		t.Errorf("expected C to fall back to largest cluster, got %q", variables[2].ClusterID)
	}
}
