package classify

import (
	"embed"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed model/default.yaml
var embeddedModel embed.FS

// modelFile is the on-disk YAML layout written by cmd/modelgen.
type modelFile struct {
	Version   int             `yaml:"version"`
	Languages []languageEntry `yaml:"languages"`
}

type languageEntry struct {
	Name   string             `yaml:"name"`
	Tokens map[string]float64 `yaml:"tokens"`
}

// Model holds the trained token statistics in inference-ready form. It is
// immutable after construction.
type Model struct {
	labels  []string
	classes map[string]*classStats
}

// classStats caches per-language log probabilities with add-one smoothing
// applied over the model-wide vocabulary.
type classStats struct {
	logProb map[string]float64
	unknown float64
}

// ParseModel decodes and validates a YAML model document.
func ParseModel(data []byte) (*Model, error) {
	var file modelFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decoding model: %w", err)
	}
	if file.Version != 1 {
		return nil, fmt.Errorf("unsupported model version %d", file.Version)
	}
	if len(file.Languages) == 0 {
		return nil, fmt.Errorf("model contains no languages")
	}

	vocab := make(map[string]bool)
	seen := make(map[string]bool)
	for _, lang := range file.Languages {
		if lang.Name == "" {
			return nil, fmt.Errorf("model contains a language with no name")
		}
		if seen[lang.Name] {
			return nil, fmt.Errorf("duplicate language %q in model", lang.Name)
		}
		seen[lang.Name] = true
		if len(lang.Tokens) == 0 {
			return nil, fmt.Errorf("language %q has no tokens", lang.Name)
		}
		for token, count := range lang.Tokens {
			if count < 0 {
				return nil, fmt.Errorf("language %q token %q has negative count", lang.Name, token)
			}
			vocab[token] = true
		}
	}

	model := &Model{classes: make(map[string]*classStats, len(file.Languages))}
	vocabSize := float64(len(vocab))
	for _, lang := range file.Languages {
		var total float64
		for _, count := range lang.Tokens {
			total += count
		}
		stats := &classStats{
			logProb: make(map[string]float64, len(lang.Tokens)),
			unknown: math.Log(1 / (total + vocabSize)),
		}
		for token, count := range lang.Tokens {
			stats.logProb[token] = math.Log((count + 1) / (total + vocabSize))
		}
		model.classes[lang.Name] = stats
		model.labels = append(model.labels, lang.Name)
	}
	sort.Strings(model.labels)
	return model, nil
}

// LoadModel reads a model from disk.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model %s: %w", path, err)
	}
	model, err := ParseModel(data)
	if err != nil {
		return nil, fmt.Errorf("parsing model %s: %w", path, err)
	}
	return model, nil
}

// EmbeddedModel returns the compact model compiled into the binary.
func EmbeddedModel() (*Model, error) {
	data, err := embeddedModel.ReadFile("model/default.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded model: %w", err)
	}
	return ParseModel(data)
}

// Labels returns the language labels the model can predict, sorted.
func (m *Model) Labels() []string {
	labels := make([]string, len(m.labels))
	copy(labels, m.labels)
	return labels
}
