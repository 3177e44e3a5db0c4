package graph

import (
	"testing"

	"github.com/causamap/backend/pkg/common"
)

func makeVariable(id, name, desc string) common.Variable {
	return common.Variable{
		ID:          id,
		Name:        name,
		Description: desc,
		Sources: []common.Source{
			{ID: "src-" + id, Description: desc},
		},
	}
}

func makeLink(id string, src, tgt *common.Variable, confidence float64) common.CausalLink {
	return common.CausalLink{
		ID:         id,
		Source:     src,
		Target:     tgt,
		Confidence: confidence,
		Sources: []common.Source{
			{ID: "src-" + id},
		},
	}
}

func TestMergeVariablesAndLinks_DuplicateVariableGainsSources(t *testing.T) {
	existing := []common.Variable{makeVariable("v1", "SLEEP QUALITY", "short")}
	incoming := []common.Variable{makeVariable("v2", "SLEEP QUALITY", "a much longer description")}

	variables, _ := mergeVariablesAndLinks(existing, incoming, nil, nil)

	if len(variables) != 1 {
		t.Fatalf("expected 1 variable, got %d", len(variables))
	}
	if len(variables[0].Sources) != 2 {
		t.Errorf("expected 2 sources, got %d", len(variables[0].Sources))
	}
	if variables[0].Description != "a much longer description" {
		t.Errorf("expected longer description to win, got %q", variables[0].Description)
	}
	if variables[0].ID != "v1" {
		t.Errorf("expected original ID to be kept, got %q", variables[0].ID)
	}
}

func TestMergeVariablesAndLinks_NewVariableAppended(t *testing.T) {
	existing := []common.Variable{makeVariable("v1", "CAFFEINE INTAKE", "")}
	incoming := []common.Variable{makeVariable("v2", "ALERTNESS", "")}

	variables, _ := mergeVariablesAndLinks(existing, incoming, nil, nil)

	if len(variables) != 2 {
		t.Fatalf("expected 2 variables, got %d", len(variables))
	}
}

func TestMergeVariablesAndLinks_DuplicateLinkKeepsMaxConfidence(t *testing.T) {
	a := makeVariable("v1", "A", "")
	b := makeVariable("v2", "B", "")

	variables := []common.Variable{a, b}
	links := []common.CausalLink{makeLink("l1", &variables[0], &variables[1], 0.4)}

	newA := makeVariable("v3", "A", "")
	newB := makeVariable("v4", "B", "")
	newLink := makeLink("l2", &newA, &newB, 0.9)
	newLink.Description = "stronger evidence"

	variables, links = mergeVariablesAndLinks(variables, []common.Variable{newA, newB}, links, []common.CausalLink{newLink})

	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}
	if links[0].Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", links[0].Confidence)
	}
	if links[0].Description != "stronger evidence" {
		t.Errorf("description = %q, want description of the stronger link", links[0].Description)
	}
	if len(links[0].Sources) != 2 {
		t.Errorf("expected 2 sources, got %d", len(links[0].Sources))
	}
}

func TestMergeVariablesAndLinks_OppositeDirectionIsSeparateLink(t *testing.T) {
	a := makeVariable("v1", "A", "")
	b := makeVariable("v2", "B", "")

	variables := []common.Variable{a, b}
	links := []common.CausalLink{makeLink("l1", &variables[0], &variables[1], 0.5)}

	newA := makeVariable("v3", "A", "")
	newB := makeVariable("v4", "B", "")
	reversed := makeLink("l2", &newB, &newA, 0.6)

	_, links = mergeVariablesAndLinks(variables, []common.Variable{newA, newB}, links, []common.CausalLink{reversed})

	if len(links) != 2 {
		t.Fatalf("expected 2 links (directions are distinct), got %d", len(links))
	}
}

func TestMergeVariablesAndLinks_SelfLoopDropped(t *testing.T) {
	a := makeVariable("v1", "A", "")

	variables := []common.Variable{}
	loop := makeLink("l1", &a, &a, 0.8)

	variables, links := mergeVariablesAndLinks(variables, []common.Variable{a}, nil, []common.CausalLink{loop})

	if len(variables) != 1 {
		t.Fatalf("expected 1 variable, got %d", len(variables))
	}
	if len(links) != 0 {
		t.Errorf("expected self-loop to be dropped, got %d links", len(links))
	}
}

func TestMergeVariablesAndLinks_DanglingLinkDropped(t *testing.T) {
	a := makeVariable("v1", "A", "")
	ghost := makeVariable("", "GHOST", "")

	dangling := makeLink("l1", &a, &ghost, 0.7)

	_, links := mergeVariablesAndLinks(nil, []common.Variable{a}, nil, []common.CausalLink{dangling})

	if len(links) != 0 {
		t.Errorf("expected dangling link to be dropped, got %d links", len(links))
	}
}

func TestMergeVariablesAndLinks_LinkEndpointsRepointedAtMergedVariables(t *testing.T) {
	existing := []common.Variable{makeVariable("v1", "A", ""), makeVariable("v2", "B", "")}

	newA := makeVariable("v3", "A", "")
	newB := makeVariable("v4", "B", "")
	link := makeLink("l1", &newA, &newB, 0.5)

	variables, links := mergeVariablesAndLinks(existing, []common.Variable{newA, newB}, nil, []common.CausalLink{link})

	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}
	if links[0].Source != &variables[0] || links[0].Target != &variables[1] {
		t.Error("link endpoints were not repointed at the merged variables")
	}
}

func TestClampConfidence(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "already normalized", in: 0.75, want: 0.75},
		{name: "zero", in: 0, want: 0},
		{name: "one", in: 1, want: 1},
		{name: "ten scale", in: 8, want: 0.8},
		{name: "hundred scale", in: 85, want: 0.85},
		{name: "negative clamped", in: -0.5, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampConfidence(tt.in); got != tt.want {
				t.Errorf("clampConfidence(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
