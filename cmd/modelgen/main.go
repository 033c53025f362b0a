// Command modelgen trains a language classification model from a corpus
// directory and writes it as YAML.
//
// The corpus layout is one subdirectory per language, each containing sample
// source files:
//
//	corpus/
//	  go/
//	    server.go
//	    worker.go
//	  python/
//	    app.py
//
// Usage:
//
//	modelgen -corpus ./corpus -out model.yaml
package main

import (
	"flag"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/watzon/inkify/pkg/classify"
)

type modelDoc struct {
	Version   int         `yaml:"version"`
	Languages []langEntry `yaml:"languages"`
}

type langEntry struct {
	Name   string             `yaml:"name"`
	Tokens map[string]float64 `yaml:"tokens"`
}

func main() {
	corpusDir := flag.String("corpus", "", "corpus directory (one subdirectory per language)")
	outPath := flag.String("out", "model.yaml", "output model file")
	minCount := flag.Float64("min-count", 2, "drop tokens seen fewer times than this")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if *corpusDir == "" {
		log.Fatal("-corpus is required")
	}

	doc, err := train(log, *corpusDir, *minCount)
	if err != nil {
		log.WithError(err).Fatal("training failed")
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		log.WithError(err).Fatal("encoding model")
	}

	// Round-trip through the loader so a broken model never ships.
	if _, err := classify.ParseModel(data); err != nil {
		log.WithError(err).Fatal("generated model failed validation")
	}

	if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		log.WithError(err).Fatal("writing model")
	}

	log.WithFields(logrus.Fields{
		"languages": len(doc.Languages),
		"out":       *outPath,
	}).Info("model written")
}

func train(log *logrus.Logger, corpusDir string, minCount float64) (*modelDoc, error) {
	entries, err := os.ReadDir(corpusDir)
	if err != nil {
		return nil, err
	}

	doc := &modelDoc{Version: 1}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		language := entry.Name()
		counts, files, err := countTokens(filepath.Join(corpusDir, language))
		if err != nil {
			return nil, err
		}

		for token, count := range counts {
			if count < minCount {
				delete(counts, token)
			}
		}
		if len(counts) == 0 {
			log.WithField("language", language).Warn("no tokens survived, skipping")
			continue
		}

		log.WithFields(logrus.Fields{
			"language": language,
			"files":    files,
			"tokens":   len(counts),
		}).Debug("trained language")

		doc.Languages = append(doc.Languages, langEntry{Name: language, Tokens: counts})
	}

	sort.Slice(doc.Languages, func(i, j int) bool {
		return doc.Languages[i].Name < doc.Languages[j].Name
	})
	return doc, nil
}

func countTokens(dir string) (map[string]float64, int, error) {
	counts := make(map[string]float64)
	files := 0

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files++
		for _, token := range classify.Tokenize(string(data)) {
			counts[token]++
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return counts, files, nil
}
