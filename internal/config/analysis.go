package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/domain"
)

// LoadAnalysis reads a completed engine run: a list with one entry per mainline
// position, the root first. .json files are JSON; anything else is YAML, with
// JSON accepted as a fallback.
//
//	- best:
//	    - score: {type: cp, value: 30}
//	      uci_moves: [e2e4, e7e5]
//	  novelty: false
func LoadAnalysis(path string) ([]domain.AnalysisEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read analysis %s: %w", path, err)
	}
	var entries []domain.AnalysisEntry
	if filepath.Ext(path) == ".json" {
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("parse analysis %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &entries); err != nil {
		if jsonErr := json.Unmarshal(data, &entries); jsonErr != nil {
			return nil, fmt.Errorf("parse analysis %s (tried YAML and JSON): YAML error: %v, JSON error: %w", path, err, jsonErr)
		}
	}
	for i, e := range entries {
		for _, b := range e.Best {
			if b.Score.Type != domain.ScoreCP && b.Score.Type != domain.ScoreMate {
				return nil, fmt.Errorf("analysis %s: entry %d: unknown score type %q", path, i, b.Score.Type)
			}
		}
	}
	return entries, nil
}
