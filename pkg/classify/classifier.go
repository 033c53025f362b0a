package classify

import (
	"math"
	"sort"
)

// DefaultMaxInputBytes is the documented cap on classification input. Larger
// snippets skip classification entirely (an empty Result) instead of failing
// the request; classification is an enhancement, not a required step.
const DefaultMaxInputBytes = 64 * 1024

// DefaultConfidenceFloor is the minimum confidence the top candidate needs
// before its label is used instead of deferring to the rendering engine.
const DefaultConfidenceFloor = 0.60

// Candidate is one ranked language guess.
type Candidate struct {
	Language   string
	Confidence float64
}

// Result is a list of candidates ordered by descending confidence. Equal
// confidences are ordered by label so ranking is deterministic.
type Result []Candidate

// Top returns the highest-confidence candidate, if any.
func (r Result) Top() (Candidate, bool) {
	if len(r) == 0 {
		return Candidate{}, false
	}
	return r[0], true
}

// Classifier performs read-only inference against a loaded Model. It is safe
// for concurrent use.
type Classifier struct {
	model    *Model
	maxInput int
}

// New wraps a loaded model. maxInputBytes <= 0 selects DefaultMaxInputBytes.
func New(model *Model, maxInputBytes int) *Classifier {
	if maxInputBytes <= 0 {
		maxInputBytes = DefaultMaxInputBytes
	}
	return &Classifier{model: model, maxInput: maxInputBytes}
}

// LoadFile loads a model from disk and wraps it in a Classifier.
func LoadFile(path string, maxInputBytes int) (*Classifier, error) {
	model, err := LoadModel(path)
	if err != nil {
		return nil, err
	}
	return New(model, maxInputBytes), nil
}

// LoadEmbedded wraps the model compiled into the binary.
func LoadEmbedded(maxInputBytes int) (*Classifier, error) {
	model, err := EmbeddedModel()
	if err != nil {
		return nil, err
	}
	return New(model, maxInputBytes), nil
}

// Languages returns the labels the classifier can produce.
func (c *Classifier) Languages() []string {
	return c.model.Labels()
}

// Classify ranks the model's languages for the given code. It never returns
// an error: oversized input, empty input, or input with no recognizable
// tokens all produce an empty Result. For a fixed model the output is a pure
// function of the input.
func (c *Classifier) Classify(code string) Result {
	if len(code) == 0 || len(code) > c.maxInput {
		return nil
	}
	tokens := Tokenize(code)
	if len(tokens) == 0 {
		return nil
	}

	counts := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}

	// Score every class; remember whether any token was in-vocabulary at
	// all. A snippet the model has no vocabulary for yields no candidates.
	scores := make(map[string]float64, len(c.model.labels))
	known := false
	for _, label := range c.model.labels {
		stats := c.model.classes[label]
		var score float64
		for token, count := range counts {
			if logProb, ok := stats.logProb[token]; ok {
				score += count * logProb
				known = true
			} else {
				score += count * stats.unknown
			}
		}
		scores[label] = score
	}
	if !known {
		return nil
	}

	return softmax(scores)
}

// softmax converts per-class log scores into a ranked Result with
// confidences summing to 1. Ties break on label order.
func softmax(scores map[string]float64) Result {
	maxScore := math.Inf(-1)
	for _, score := range scores {
		if score > maxScore {
			maxScore = score
		}
	}

	var total float64
	exp := make(map[string]float64, len(scores))
	for label, score := range scores {
		e := math.Exp(score - maxScore)
		exp[label] = e
		total += e
	}

	result := make(Result, 0, len(scores))
	for label, e := range exp {
		result = append(result, Candidate{Language: label, Confidence: e / total})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Confidence != result[j].Confidence {
			return result[i].Confidence > result[j].Confidence
		}
		return result[i].Language < result[j].Language
	})
	return result
}
