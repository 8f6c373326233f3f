package agent

import (
	"context"
	"log"
	"regexp"
	"strings"

	"github.com/zhe.chen/agent-letter-story/pkg/types"
)

// allClear matches "все четко" with the usual ё/е and Latin look-alike substitutions
var allClear = regexp.MustCompile(`(?i)в[сc][её]\s+ч[её]тк[оo]`)

// AllFactsClear is the Decision used for the fact-verification judgment
func AllFactsClear(response string) bool {
	return allClear.MatchString(response)
}

// FactChecker extracts verifiable facts from a story and grades them
type FactChecker struct {
	classifier *Classifier
}

// NewFactChecker creates a fact checker
func NewFactChecker(classifier *Classifier) *FactChecker {
	return &FactChecker{classifier: classifier}
}

// Check returns Verified, or NeedsReview with the disputed facts as details
func (f *FactChecker) Check(ctx context.Context, story string) (types.FactVerdict, error) {
	facts, err := f.classifier.Ask(ctx, ExtractFactsTemplate, Vars{"history": story})
	if err != nil {
		return types.FactVerdict{}, types.NewUnavailable(types.MsgFactCheckFailed, err)
	}
	facts = strings.TrimSpace(facts)
	if facts == "" {
		log.Println("[FactCheck] no verifiable facts extracted")
		return types.FactVerdict{Status: types.FactsVerified}, nil
	}

	verified, response, err := f.classifier.Decide(ctx, CheckFactsTemplate, Vars{"facts": facts}, AllFactsClear)
	if err != nil {
		return types.FactVerdict{}, err
	}
	if verified {
		return types.FactVerdict{Status: types.FactsVerified}, nil
	}

	return types.FactVerdict{
		Status:  types.FactsNeedsReview,
		Details: strings.TrimSpace(response),
	}, nil
}
