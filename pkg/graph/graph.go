package graph

import (
	"context"
	"fmt"
	"sync"

	"github.com/causamap/backend/pkg/ai"
	"github.com/causamap/backend/pkg/common"
	"github.com/causamap/backend/pkg/loader"
	"github.com/causamap/backend/pkg/logger"
	"github.com/causamap/backend/pkg/store"

	"golang.org/x/sync/errgroup"
)

// ProcessGraph builds the causal variable graph of a session from the
// provided source files. Files are processed in parallel; variables and links
// from all files are merged by canonical name, embedded, clustered, and the
// finished graph replaces the stored one in a single operation.
func (g *GraphClient) ProcessGraph(
	ctx context.Context,
	files []loader.SourceFile,
	sessionID string,
	aiClient ai.GraphAIClient,
	storeClient store.GraphStorage,
) error {
	logger.Info("[Graph] Processing", "total_files", len(files), "session_id", sessionID)

	variables := make([]common.Variable, 0)
	links := make([]common.CausalLink, 0)
	units := make([]*common.Unit, 0)
	mergeMu := sync.Mutex{}

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.parallelFiles)

	for _, file := range files {
		f := file
		eg.Go(func() error {
			select {
			case <-gCtx.Done():
				return nil
			default:
				result, err := processFile(gCtx, f, g.tokenEncoder, aiClient, g.parallelAiRequests, g.maxRetries)
				if err != nil {
					return err
				}

				mergeMu.Lock()
				defer mergeMu.Unlock()

				units = append(units, result.units...)
				variables, links = mergeVariablesAndLinks(variables, result.variables, links, result.links)
				return nil
			}
		})
	}

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("failed to process files:\n%w", err)
	}

	logger.Info("[Graph] Files processed", "variables", len(variables), "links", len(links), "units", len(units))

	if err := embedVariables(ctx, variables, aiClient, g.parallelAiRequests); err != nil {
		return fmt.Errorf("failed to embed variables: %w", err)
	}

	logger.Info("[Graph] Variables embedded")

	clusters, err := clusterVariables(ctx, variables, aiClient)
	if err != nil {
		return fmt.Errorf("failed to cluster variables: %w", err)
	}

	logger.Info("[Graph] Variables clustered", "clusters", len(clusters))

	finalGraph := &common.Graph{
		ID:        sessionID,
		Variables: variables,
		Links:     links,
		Clusters:  clusters,
		Units:     units,
	}

	if err := storeClient.ReplaceGraph(ctx, sessionID, finalGraph); err != nil {
		return fmt.Errorf("failed to store graph: %w", err)
	}

	logger.Info("[Graph] Graph build completed", "session_id", sessionID)

	return nil
}
