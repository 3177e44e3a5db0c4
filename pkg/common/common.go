package common

// Graph represents the causal variable graph inferred for a session.
// It captures which variables the source documents discuss, how they
// influence each other, and which text units ground every claim.
//
// A graph contains:
//   - Variables: nodes representing measurable or conceptual research variables
//   - Links: directional cause-effect edges between variables
//   - Clusters: labeled concept groupings over the variables
//   - Units: the original text segments that provide provenance
type Graph struct {
	ID        string       `json:"id"`
	Variables []Variable   `json:"variables"`
	Links     []CausalLink `json:"links"`
	Clusters  []Cluster    `json:"clusters"`
	Units     []*Unit      `json:"units"`
}

// Variable represents a node in the causal graph: a research variable the
// model identified in the source documents. Names are canonicalized
// (upper-cased, whitespace-collapsed) before merging, so the same variable
// mentioned across documents becomes a single node. Each variable may have
// multiple sources that provide descriptive information.
type Variable struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ClusterID   string    `json:"cluster_id,omitempty"`
	Embedding   []float32 `json:"-"`
	Sources     []Source  `json:"sources"`
}

// Source represents a provenance record for a variable or causal link.
// It links a description back to the original unit of text from which
// it was derived.
type Source struct {
	ID          string `json:"id"`
	Unit        *Unit  `json:"unit"`
	Description string `json:"description"`
}

// CausalLink represents a directed cause-effect edge between two variables.
// Confidence is the model's assessment of how strongly the documents support
// the causal claim, normalized to [0, 1].
//
// Links are directional, with a Source variable and a Target variable.
// Self-loops are dropped during merging; duplicate links keep the highest
// confidence.
type CausalLink struct {
	ID          string    `json:"id"`
	Source      *Variable `json:"source"`
	Target      *Variable `json:"target"`
	Description string    `json:"description"`
	Confidence  float64   `json:"confidence"`
	Sources     []Source  `json:"sources"`
}

// Cluster is a labeled grouping of variables under a shared concept.
// Clusters are proposed by the model and afterwards editable by the user.
type Cluster struct {
	ID        string   `json:"id"`
	Label     string   `json:"label"`
	Variables []string `json:"variables"`
}

// Topic is a research-topic suggestion derived from the graph: a title,
// the reasoning behind it, and the variables it builds on.
type Topic struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Rationale string   `json:"rationale"`
	Variables []string `json:"variables"`
}

// Unit represents a contiguous segment of text extracted from a document.
// Units are the smallest building blocks in the graph and serve as the
// provenance for variables and causal links.
//
// Each unit is associated with a document, a character span, and the raw
// text content. Units are created by splitting documents into
// token-limited chunks for downstream AI processing.
type Unit struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Text       string `json:"text"`
}
