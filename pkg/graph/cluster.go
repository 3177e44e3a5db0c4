package graph

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/causamap/backend/internal/util"
	"github.com/causamap/backend/pkg/ai"
	"github.com/causamap/backend/pkg/common"
	"github.com/causamap/backend/pkg/logger"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

type clusterAssignment struct {
	Label     string   `json:"label" jsonschema_description:"Short concept label for the cluster, title case"`
	Variables []string `json:"variables" jsonschema_description:"Names of the variables belonging to this cluster, exactly as provided"`
}

type clusterResponse struct {
	Clusters []clusterAssignment `json:"clusters" jsonschema_description:"Concept clusters grouping the provided variables"`
}

// clusterVariables asks the model to group the variables into labeled concept
// clusters and writes the assignment back onto the variables. Variables the
// model leaves out are attached to the nearest cluster centroid by embedding
// similarity. Returns the resulting clusters; Cluster.Variables holds
// variable IDs.
func clusterVariables(
	ctx context.Context,
	variables []common.Variable,
	client ai.GraphAIClient,
) ([]common.Cluster, error) {
	if len(variables) == 0 {
		return nil, nil
	}

	byName := make(map[string]*common.Variable, len(variables))
	var list strings.Builder
	for i := range variables {
		byName[variables[i].Name] = &variables[i]
		fmt.Fprintf(&list, "- %s: %s\n", variables[i].Name, variables[i].Description)
	}

	prompt := fmt.Sprintf(ai.ClusterPrompt, list.String())

	var res clusterResponse
	err := client.GenerateCompletionWithFormat(
		ctx,
		"cluster_variables",
		"Group research variables into labeled concept clusters.",
		prompt,
		&res,
	)
	if err != nil {
		return nil, err
	}

	clusters := make([]common.Cluster, 0, len(res.Clusters))
	assigned := make(map[string]string)

	for _, c := range res.Clusters {
		label := strings.TrimSpace(c.Label)
		if label == "" {
			continue
		}

		cID, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("failed to generate ID for cluster: %w", err)
		}

		cluster := common.Cluster{
			ID:    cID,
			Label: label,
		}
		for _, name := range c.Variables {
			canonical := util.CanonicalName(name)
			v, ok := byName[canonical]
			if !ok {
				continue
			}
			if _, taken := assigned[canonical]; taken {
				continue
			}
			assigned[canonical] = cID
			v.ClusterID = cID
			cluster.Variables = append(cluster.Variables, v.ID)
		}
		if len(cluster.Variables) == 0 {
			continue
		}
		clusters = append(clusters, cluster)
	}

	if len(clusters) == 0 {
		// Model returned nothing usable; fall back to one catch-all cluster.
		cID, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("failed to generate ID for cluster: %w", err)
		}
		cluster := common.Cluster{ID: cID, Label: "General"}
		for i := range variables {
			variables[i].ClusterID = cID
			cluster.Variables = append(cluster.Variables, variables[i].ID)
		}
		return []common.Cluster{cluster}, nil
	}

	assignRemainderByCentroid(variables, clusters, assigned)

	return clusters, nil
}

// assignRemainderByCentroid attaches every unassigned variable to the cluster
// whose member centroid is closest in embedding space.
func assignRemainderByCentroid(
	variables []common.Variable,
	clusters []common.Cluster,
	assigned map[string]string,
) {
	byID := make(map[string]*common.Variable, len(variables))
	for i := range variables {
		byID[variables[i].ID] = &variables[i]
	}

	centroids := make([][]float32, len(clusters))
	for i, c := range clusters {
		members := make([][]float32, 0, len(c.Variables))
		for _, vID := range c.Variables {
			if v, ok := byID[vID]; ok && len(v.Embedding) > 0 {
				members = append(members, v.Embedding)
			}
		}
		centroids[i] = centroid(members)
	}

	for i := range variables {
		v := &variables[i]
		if _, ok := assigned[v.Name]; ok {
			continue
		}

		best := -1
		bestSim := float32(-2)
		for j := range clusters {
			if len(centroids[j]) == 0 || len(v.Embedding) == 0 {
				continue
			}
			sim := cosineSimilarity(v.Embedding, centroids[j])
			if sim > bestSim {
				bestSim = sim
				best = j
			}
		}
		if best < 0 {
			// No usable embeddings; fall back to the largest cluster.
			for j := range clusters {
				if best < 0 || len(clusters[j].Variables) > len(clusters[best].Variables) {
					best = j
				}
			}
		}

		logger.Debug("[Graph][Cluster] Assigning leftover variable by centroid",
			"variable", v.Name,
			"cluster", clusters[best].Label,
		)

		assigned[v.Name] = clusters[best].ID
		v.ClusterID = clusters[best].ID
		clusters[best].Variables = append(clusters[best].Variables, v.ID)
	}
}

func centroid(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}
	out := make([]float32, len(vectors[0]))
	for _, v := range vectors {
		for i := range out {
			if i < len(v) {
				out[i] += v[i]
			}
		}
	}
	for i := range out {
		out[i] /= float32(len(vectors))
	}
	return out
}

func cosineSimilarity(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
