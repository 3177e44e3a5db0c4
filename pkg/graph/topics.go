package graph

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/causamap/backend/internal/util"
	"github.com/causamap/backend/pkg/ai"
	"github.com/causamap/backend/pkg/common"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const maxTopics = 7

type topicSuggestion struct {
	Title     string   `json:"title" jsonschema_description:"Concise research topic title phrased as a research direction"`
	Rationale string   `json:"rationale" jsonschema_description:"Why this topic is promising, referencing the causal structure in the graph"`
	Variables []string `json:"variables" jsonschema_description:"Names of the graph variables this topic builds on, exactly as provided"`
}

type topicResponse struct {
	Topics []topicSuggestion `json:"topics" jsonschema_description:"Proposed research topics, between 3 and 7"`
}

// GenerateTopics proposes research topics from a finished causal graph.
// Suggestions without a title are dropped; at most seven topics are returned.
func GenerateTopics(
	ctx context.Context,
	g *common.Graph,
	client ai.GraphAIClient,
) ([]common.Topic, error) {
	if g == nil || len(g.Variables) == 0 {
		return nil, fmt.Errorf("graph has no variables")
	}

	prompt := fmt.Sprintf(ai.TopicPrompt, renderGraph(g))

	var res topicResponse
	err := client.GenerateCompletionWithFormat(
		ctx,
		"propose_research_topics",
		"Propose research topics grounded in a causal variable graph.",
		prompt,
		&res,
	)
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(g.Variables))
	for _, v := range g.Variables {
		known[v.Name] = struct{}{}
	}

	topics := make([]common.Topic, 0, len(res.Topics))
	for _, t := range res.Topics {
		title := strings.TrimSpace(t.Title)
		if title == "" {
			continue
		}

		tID, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("failed to generate ID for topic: %w", err)
		}

		vars := make([]string, 0, len(t.Variables))
		for _, name := range t.Variables {
			canonical := util.CanonicalName(name)
			if _, ok := known[canonical]; ok {
				vars = append(vars, canonical)
			}
		}

		topics = append(topics, common.Topic{
			ID:        tID,
			Title:     title,
			Rationale: strings.TrimSpace(t.Rationale),
			Variables: vars,
		})
		if len(topics) == maxTopics {
			break
		}
	}

	return topics, nil
}

// renderGraph flattens a graph into the textual form the topic prompt expects:
// variables annotated with their cluster label, then causal links ordered by
// descending confidence.
func renderGraph(g *common.Graph) string {
	labelByID := make(map[string]string, len(g.Clusters))
	for _, c := range g.Clusters {
		labelByID[c.ID] = c.Label
	}

	var sb strings.Builder
	sb.WriteString("Variables (with cluster):\n")
	for _, v := range g.Variables {
		label := labelByID[v.ClusterID]
		if label == "" {
			label = "unclustered"
		}
		fmt.Fprintf(&sb, "- %s [%s]: %s\n", v.Name, label, v.Description)
	}

	links := make([]common.CausalLink, len(g.Links))
	copy(links, g.Links)
	sort.SliceStable(links, func(i, j int) bool {
		return links[i].Confidence > links[j].Confidence
	})

	sb.WriteString("\nCausal links (by confidence):\n")
	for _, l := range links {
		if l.Source == nil || l.Target == nil {
			continue
		}
		fmt.Fprintf(&sb, "- %s -> %s (%.2f): %s\n",
			l.Source.Name, l.Target.Name, l.Confidence, l.Description)
	}

	return sb.String()
}
