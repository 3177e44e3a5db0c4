package graph

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/causamap/backend/internal/util"
	"github.com/causamap/backend/pkg/ai"
	"github.com/causamap/backend/pkg/common"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

type extractVariable struct {
	VariableName        string `json:"variable_name" jsonschema_description:"Name of the variable, all letters capitalized"`
	VariableDescription string `json:"variable_description" jsonschema_description:"Comprehensive description of what the variable measures or represents, based on the source text."`
}

type extractLink struct {
	CauseVariable   string  `json:"cause_variable" jsonschema_description:"Name of the cause variable, as identified in step 1"`
	EffectVariable  string  `json:"effect_variable" jsonschema_description:"Name of the effect variable, as identified in step 1"`
	LinkDescription string  `json:"link_description" jsonschema_description:"Explanation of the causal mechanism by which the cause variable influences the effect variable"`
	Confidence      float64 `json:"confidence" jsonschema_description:"A score between 0 and 1 indicating how strongly the text supports this causal claim"`
}

type extractResponse struct {
	Variables []extractVariable `json:"variables" jsonschema_description:"Research variables identified in the text document"`
	Links     []extractLink     `json:"links" jsonschema_description:"Causal links identified in the text document"`
}

func extractFromUnit(
	ctx context.Context,
	unit processUnit,
	filePath string,
	client ai.GraphAIClient,
) (*common.Unit, []common.Variable, []common.CausalLink, error) {
	baseName := filepath.Base(filePath)
	systemPrompt := fmt.Sprintf(ai.ExtractPrompt, baseName)

	var res extractResponse
	opts := []ai.GenerateOption{
		ai.WithSystemPrompts(systemPrompt),
	}
	err := client.GenerateCompletionWithFormat(
		ctx,
		"extract_variables_and_links",
		"Extract research variables and causal links from a provided document.",
		unit.text,
		&res,
		opts...,
	)
	if err != nil {
		return nil, nil, nil, err
	}

	finalUnit := &common.Unit{
		ID:         unit.id,
		DocumentID: unit.documentID,
		Start:      unit.start,
		End:        unit.end,
		Text:       unit.text,
	}

	variables := make([]common.Variable, 0, len(res.Variables))
	links := make([]common.CausalLink, 0, len(res.Links))

	for _, v := range res.Variables {
		name := util.CanonicalName(v.VariableName)
		if name == "" {
			continue
		}

		vID, err := gonanoid.New()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to generate ID for variable: %w", err)
		}
		sID, err := gonanoid.New()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to generate ID for source: %w", err)
		}
		s := common.Source{
			ID:          sID,
			Unit:        finalUnit,
			Description: v.VariableDescription,
		}
		variables = append(variables, common.Variable{
			ID:          vID,
			Name:        name,
			Description: v.VariableDescription,
			Sources:     []common.Source{s},
		})
	}

	for _, link := range res.Links {
		cause := util.CanonicalName(link.CauseVariable)
		effect := util.CanonicalName(link.EffectVariable)
		if cause == "" || effect == "" || cause == effect {
			continue
		}

		var src, tgt *common.Variable
		for i := range variables {
			if variables[i].Name == cause {
				src = &variables[i]
				continue
			}
			if variables[i].Name == effect {
				tgt = &variables[i]
				continue
			}
		}
		if src == nil || tgt == nil {
			continue
		}

		lID, err := gonanoid.New()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to generate ID for link: %w", err)
		}
		sID, err := gonanoid.New()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to generate ID for source: %w", err)
		}
		s := common.Source{
			ID:          sID,
			Unit:        finalUnit,
			Description: link.LinkDescription,
		}
		links = append(links, common.CausalLink{
			ID:          lID,
			Source:      src,
			Target:      tgt,
			Description: link.LinkDescription,
			Confidence:  clampConfidence(link.Confidence),
			Sources:     []common.Source{s},
		})
	}

	return finalUnit, variables, links, nil
}

func clampConfidence(c float64) float64 {
	// Models occasionally answer on a 0-10 or 0-100 scale despite the prompt.
	if c > 1 && c <= 10 {
		c = c / 10
	} else if c > 10 {
		c = c / 100
	}
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
