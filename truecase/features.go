package truecase

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/shiomiya/percepgo/pkg/errors"
)

// Constant feature strings.
const (
	biasFeature       = "*bias*"
	initialFeature    = "*initial*"
	peninitialFeature = "*peninitial*"
	hyphenFeature     = "*hyphen*"
	numberFeature     = "*number*"
)

var foldCaser = cases.Fold()

// EmissionFeatures extracts one emission feature bundle per token of a
// sentence: the case-folded token itself, a two-token window of left and
// right context, and shape features for hyphens and digits. The features
// deliberately ignore the tokens' casing, since casing is what the model
// predicts.
func EmissionFeatures(tokens []string) [][]string {
	folded := make([]string, len(tokens))
	for i, token := range tokens {
		folded[i] = foldCaser.String(token)
	}
	vectors := make([][]string, len(folded))
	for i, token := range folded {
		vector := []string{biasFeature, "w_i=" + token}
		if i == 0 {
			vector = append(vector, initialFeature)
		} else {
			vector = append(vector, "w_i-1="+folded[i-1])
			if i == 1 {
				vector = append(vector, peninitialFeature)
			} else {
				vector = append(vector, "w_i-2="+folded[i-2])
			}
		}
		if i < len(folded)-1 {
			vector = append(vector, "w_i+1="+folded[i+1])
			if i < len(folded)-2 {
				vector = append(vector, "w_i+2="+folded[i+2])
			}
		}
		if strings.Contains(token, "-") {
			vector = append(vector, hyphenFeature)
		}
		if strings.ContainsFunc(token, unicode.IsDigit) {
			vector = append(vector, numberFeature)
		}
		vectors[i] = vector
	}
	return vectors
}

// Labels classifies every token of a sentence, discarding Mixed patterns.
// It pairs with EmissionFeatures to build training data for a case
// restoration model.
func Labels(tokens []string) []int {
	labels := make([]int, len(tokens))
	for i, token := range tokens {
		tc, _ := Classify(token)
		labels[i] = int(tc)
	}
	return labels
}

// Restore applies predicted casing classes back onto case-folded tokens.
// Labels outside the TokenCase range are reported, not applied.
func Restore(tokens []string, labels []int) ([]string, error) {
	if len(tokens) != len(labels) {
		return nil, errors.NewDimensionError("Restore", len(tokens), len(labels))
	}
	out := make([]string, len(tokens))
	for i, token := range tokens {
		restored, err := Apply(token, TokenCase(labels[i]), nil)
		if err != nil {
			return nil, err
		}
		out[i] = restored
	}
	return out, nil
}
