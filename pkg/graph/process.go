package graph

import (
	"context"
	"fmt"
	"sync"

	gUtil "github.com/causamap/backend/internal/util"
	"github.com/causamap/backend/pkg/ai"
	"github.com/causamap/backend/pkg/common"
	"github.com/causamap/backend/pkg/loader"

	"golang.org/x/sync/errgroup"
)

type processFileResult struct {
	variables []common.Variable
	links     []common.CausalLink
	units     []*common.Unit
}

type extractResult struct {
	unit      *common.Unit
	variables []common.Variable
	links     []common.CausalLink
}

func processFile(
	ctx context.Context,
	file loader.SourceFile,
	encoder string,
	client ai.GraphAIClient,
	parallelMax int,
	maxRetries int,
) (*processFileResult, error) {
	units, err := getUnitsFromText(ctx, file, encoder)
	if err != nil {
		return nil, fmt.Errorf("failed to extract units from input text:\n%w", err)
	}

	variables := make([]common.Variable, 0)
	links := make([]common.CausalLink, 0)
	finalUnits := make([]*common.Unit, 0, len(units))
	mergeMu := sync.Mutex{}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(parallelMax)
	for _, unit := range units {
		u := unit
		g.Go(func() error {
			select {
			case <-gCtx.Done():
				return nil
			default:
				res, err := gUtil.RetryWithContext(gCtx, maxRetries, func(ctx context.Context) (extractResult, error) {
					fu, v, l, err := extractFromUnit(ctx, u, file.FilePath, client)
					return extractResult{unit: fu, variables: v, links: l}, err
				})
				if err != nil {
					return fmt.Errorf("failed to extract variables and links from text:\n%w", err)
				}

				mergeMu.Lock()
				finalUnits = append(finalUnits, res.unit)
				variables, links = mergeVariablesAndLinks(variables, res.variables, links, res.links)
				mergeMu.Unlock()
				return nil
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &processFileResult{
		variables: variables,
		links:     links,
		units:     finalUnits,
	}, nil
}
