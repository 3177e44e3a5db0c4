package graph

import (
	"github.com/causamap/backend/pkg/common"
)

// mergeVariablesAndLinks folds freshly extracted variables and links into the
// accumulated graph state. Variables are matched by canonical name; a repeated
// variable gains the new sources instead of a second node. Links are matched
// by their directed (cause, effect) pair; a repeated link keeps the highest
// confidence and gains the new sources. Self-loops and links whose endpoints
// are unknown are dropped.
func mergeVariablesAndLinks(
	variables []common.Variable,
	newVariables []common.Variable,
	links []common.CausalLink,
	newLinks []common.CausalLink,
) ([]common.Variable, []common.CausalLink) {
	for _, variable := range newVariables {
		found := false
		for j := range variables {
			if variables[j].Name == variable.Name {
				variables[j].Sources = append(variables[j].Sources, variable.Sources...)
				if len(variable.Description) > len(variables[j].Description) {
					variables[j].Description = variable.Description
				}
				found = true
				break
			}
		}
		if !found {
			variables = append(variables, variable)
		}
	}

	variableMap := make(map[string]*common.Variable)
	for i := range variables {
		variableMap[variables[i].Name] = &variables[i]
	}

	for _, link := range newLinks {
		if link.Source == nil || link.Target == nil {
			continue
		}
		if link.Source.Name == link.Target.Name {
			continue
		}
		src, tgt := variableMap[link.Source.Name], variableMap[link.Target.Name]
		if src == nil || tgt == nil {
			continue
		}

		link.Source = src
		link.Target = tgt

		found := false
		for j := range links {
			if links[j].Source == nil || links[j].Target == nil {
				continue
			}
			if links[j].Source.Name == link.Source.Name &&
				links[j].Target.Name == link.Target.Name {
				links[j].Sources = append(links[j].Sources, link.Sources...)
				if link.Confidence > links[j].Confidence {
					links[j].Confidence = link.Confidence
					links[j].Description = link.Description
				}
				found = true
				break
			}
		}

		if !found {
			links = append(links, link)
		}
	}

	return variables, links
}
