package agent

import (
	"context"
	"log"
	"regexp"
	"strings"

	"github.com/zhe.chen/agent-letter-story/pkg/types"
)

// tonesMarker finds the fixed answer line; everything after it on that line is the tag list
var tonesMarker = regexp.MustCompile(`(?i)Эмоции и чувства:\s*(.*)`)

// ToneSource records which resolution path ran for a request
type ToneSource string

const (
	NoEmotionSource ToneSource = "none"
	QueryDriven     ToneSource = "query"
	LetterDriven    ToneSource = "letter"
)

// ToneResolution is the outcome of EmotionResolver.Resolve
type ToneResolution struct {
	Source ToneSource
	Tones  types.ToneSet
}

// ParseTones extracts the tag list from a model answer. ok is false when the model
// produced nothing usable (empty answer or no marker line); callers treat that as no tone.
func ParseTones(response string) (tones types.ToneSet, ok bool) {
	if response == "" {
		return nil, false
	}

	match := tonesMarker.FindStringSubmatch(response)
	if match == nil {
		return nil, false
	}

	list := strings.TrimSpace(match[1])
	if strings.HasPrefix(list, "(") && strings.HasSuffix(list, ")") && len(list) >= 2 {
		list = list[1 : len(list)-1]
	}

	tones = types.ToneSet{}
	for _, tag := range strings.Split(list, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tones = append(tones, tag)
		}
	}
	return tones, true
}

// EmotionResolver decides the emotional tone injected into story generation
type EmotionResolver struct {
	classifier *Classifier
}

// NewEmotionResolver creates a resolver sharing the request's classifier
func NewEmotionResolver(classifier *Classifier) *EmotionResolver {
	return &EmotionResolver{classifier: classifier}
}

// FromLetter asks for at most five emotions of the letter's author
func (r *EmotionResolver) FromLetter(ctx context.Context, letter string) (types.ToneSet, bool, error) {
	return r.extract(ctx, LetterEmotionsTemplate, Vars{"letter": letter})
}

// FromQuery asks for the tone words the user explicitly requested
func (r *EmotionResolver) FromQuery(ctx context.Context, query string) (types.ToneSet, bool, error) {
	return r.extract(ctx, QueryEmotionsTemplate, Vars{"query": query})
}

func (r *EmotionResolver) extract(ctx context.Context, tmpl *Template, vars Vars) (types.ToneSet, bool, error) {
	response, err := r.classifier.Ask(ctx, tmpl, vars)
	if err != nil {
		return nil, false, types.NewUnavailable(types.MsgToneFailed, err)
	}
	tones, ok := ParseTones(response)
	return tones, ok, nil
}

// Resolve runs exactly one resolution path. The branch is chosen once from the
// emotion-intent judgment on the query; a letter is used only when that judgment is
// negative or there is no query.
func (r *EmotionResolver) Resolve(ctx context.Context, query, letter *string) (ToneResolution, error) {
	intent := false
	if query != nil {
		var err error
		intent, err = r.classifier.Classify(ctx, EmotionIntentTemplate, Vars{"query": *query})
		if err != nil {
			return ToneResolution{}, err
		}
	}

	var (
		res = ToneResolution{Source: NoEmotionSource}
		ok  bool
		err error
	)
	switch {
	case intent:
		res.Source = QueryDriven
		res.Tones, ok, err = r.FromQuery(ctx, *query)
	case letter != nil:
		res.Source = LetterDriven
		res.Tones, ok, err = r.FromLetter(ctx, *letter)
	default:
		log.Println("[Emotion] no emotion source, tone left empty")
		return res, nil
	}
	if err != nil {
		return ToneResolution{}, err
	}
	if !ok {
		log.Printf("[Emotion] model produced no tones (source: %s)", res.Source)
		res.Tones = nil
	}

	log.Printf("[Emotion] source=%s tones=%q", res.Source, res.Tones.String())
	return res, nil
}
