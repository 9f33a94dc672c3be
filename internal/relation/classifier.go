package relation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jcastellanos/legajo/internal/document"
)

// Scoring weights and bounds. Scores are additive and clamped to [0, 100];
// candidates at or below the threshold are dropped.
const (
	weightIdenticalTitle   = 50
	weightIdenticalContent = 100
	weightSharedPerson     = 10
	weightSharedOrg        = 5
	weightSameSeries       = 5

	contentPrefixLen = 100
	scoreThreshold   = 10
	maxScore         = 100
)

// Classify scores every candidate against the target and returns the
// matches worth surfacing, strongest first. The corpus must not contain the
// target itself; a document never relates to itself.
//
// Duplicate signals are checked first; any hit marks the pair a duplicate
// and suppresses dossier scoring for that candidate.
func Classify(target document.Document, corpus []document.Document) []document.RelationMatch {
	matches := make([]document.RelationMatch, 0, len(corpus))

	for _, candidate := range corpus {
		if candidate.ID == target.ID {
			continue
		}
		if m, ok := score(target, candidate); ok {
			matches = append(matches, m)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		ci := candidateByID(corpus, matches[i].CandidateID)
		cj := candidateByID(corpus, matches[j].CandidateID)
		if !ci.CreatedAt.Equal(cj.CreatedAt) {
			return ci.CreatedAt.After(cj.CreatedAt)
		}
		return matches[i].CandidateID < matches[j].CandidateID
	})

	return matches
}

func score(target, candidate document.Document) (document.RelationMatch, bool) {
	match := document.RelationMatch{
		TargetID:    target.ID,
		CandidateID: candidate.ID,
		Kind:        document.KindSameDossier,
	}

	titleSuggestion := strings.TrimSpace(target.Field(document.FieldTitleSuggestion).Value)
	if titleSuggestion != "" && strings.TrimSpace(candidate.Title) != "" &&
		ExactMatch(candidate.Title, titleSuggestion) {
		match.Score += weightIdenticalTitle
		match.Rationale = append(match.Rationale, "identical title")
		match.Kind = document.KindDuplicate
	}

	if strings.TrimSpace(candidate.Content) != "" && strings.TrimSpace(target.Content) != "" &&
		PrefixOverlap(candidate.Content, target.Content, contentPrefixLen) {
		match.Score += weightIdenticalContent
		match.Rationale = append(match.Rationale, "identical leading content")
		match.Kind = document.KindDuplicate
	}

	// Dossier signals only apply when no duplicate signal fired.
	if match.Kind != document.KindDuplicate {
		scoreDossier(target, candidate, &match)
	}

	if match.Score > maxScore {
		match.Score = maxScore
	}
	return match, match.Score > scoreThreshold
}

func scoreDossier(target, candidate document.Document, match *document.RelationMatch) {
	sharedPeople := Shared(candidate.Entities.Values(document.EntityPeople),
		target.Entities.Values(document.EntityPeople))
	if len(sharedPeople) > 0 {
		match.Score += weightSharedPerson * len(sharedPeople)
		match.Rationale = append(match.Rationale,
			fmt.Sprintf("shared people: %s", strings.Join(firstN(sharedPeople, 2), ", ")))
	}

	sharedOrgs := SetOverlap(candidate.Entities.Values(document.EntityOrganizations),
		target.Entities.Values(document.EntityOrganizations))
	if sharedOrgs > 0 {
		match.Score += weightSharedOrg * sharedOrgs
		match.Rationale = append(match.Rationale, "shared organizations")
	}

	candidateSeries := strings.TrimSpace(candidate.Field(document.FieldSuggestedSeries).Value)
	targetSeries := strings.TrimSpace(target.Field(document.FieldSuggestedSeries).Value)
	if candidateSeries != "" && targetSeries != "" && ExactMatch(candidateSeries, targetSeries) {
		match.Score += weightSameSeries
		match.Rationale = append(match.Rationale,
			fmt.Sprintf("same documentary series: %s", targetSeries))
	}
}

func firstN(values []string, n int) []string {
	if len(values) <= n {
		return values
	}
	return values[:n]
}

func candidateByID(corpus []document.Document, id string) document.Document {
	for _, c := range corpus {
		if c.ID == id {
			return c
		}
	}
	return document.Document{}
}
