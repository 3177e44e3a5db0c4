package graph

import (
	"context"
	"fmt"

	"github.com/causamap/backend/pkg/ai"
	"github.com/causamap/backend/pkg/common"

	"golang.org/x/sync/errgroup"
)

// embedVariables generates a vector embedding for every variable in place.
// Embeddings are computed from the variable name and its merged description
// so that semantically close variables end up close in vector space.
func embedVariables(
	ctx context.Context,
	variables []common.Variable,
	client ai.GraphAIClient,
	parallel int,
) error {
	if len(variables) == 0 {
		return nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i := range variables {
		idx := i
		g.Go(func() error {
			input := fmt.Sprintf("%s: %s", variables[idx].Name, variables[idx].Description)
			emb, err := client.GenerateEmbedding(gCtx, []byte(input))
			if err != nil {
				return fmt.Errorf("failed to embed variable %s: %w", variables[idx].Name, err)
			}
			variables[idx].Embedding = emb
			return nil
		})
	}

	return g.Wait()
}
