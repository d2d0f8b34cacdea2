package nlp

// Operation costs of the weighted aligner.
const (
	CostAlignMismatch = 2.0
	CostInsert        = 1.0
	CostInsertInVar   = 0.875
	CostDelete        = 2.0
)

// DefaultCutoff is the template acceptance cutoff: normalised scores above it are dropped.
const DefaultCutoff = 0.7

type choice uint8

const (
	opAlign choice = iota
	opInsert
	opDelete
)

type element struct {
	literal rune
	name    string
	isVar   bool
}

// VariableSpan is the input range absorbed by one variable token. Start and End are
// rune offsets into the aligned input, End exclusive.
type VariableSpan struct {
	Name  string `json:"name"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Value string `json:"value"`
}

// Alignment is the outcome of aligning one input against one template.
type Alignment struct {
	Cost       float64        `json:"cost"`
	AbsorbCost float64        `json:"absorb_cost"`
	Spans      []VariableSpan `json:"spans"`

	covered int
}

// Variables returns the non-empty extracted values keyed by variable name as written in
// the template. When a name occurs twice the first occurrence wins.
func (a Alignment) Variables() map[string]string {
	out := make(map[string]string, len(a.Spans))
	for _, span := range a.Spans {
		if span.Value == "" {
			continue
		}
		if _, exists := out[span.Name]; exists {
			continue
		}
		out[span.Name] = span.Value
	}
	return out
}

// MatchResult is one template surviving the matcher cutoff.
type MatchResult struct {
	Template  *Template         `json:"-"`
	Index     int               `json:"index"`
	Text      string            `json:"template"`
	Score     float64           `json:"score"`
	Cost      float64           `json:"cost"`
	Variables map[string]string `json:"variables"`
}
