package extract

import (
	"sort"
	"strings"

	"github.com/voces-project/voces/internal/model"
)

// TagExtractor derives semantic tags from a turn's annotation bundle. Each of
// the four annotation axes maps through its own fixed lookup table into the
// closed tag taxonomy; results are unioned and deduplicated. Unknown axis
// values simply contribute no tags - no input is fatal.
type TagExtractor struct {
	roleTags     map[string][]model.SemanticTag
	topicTags    map[string][]model.SemanticTag
	emotionTags  map[string][]model.SemanticTag
	evidenceTags map[string][]model.SemanticTag
}

// NewTagExtractor creates a tag extractor with the built-in taxonomy tables
func NewTagExtractor() *TagExtractor {
	return &TagExtractor{
		roleTags: map[string][]model.SemanticTag{
			"solution_proposal":   {model.TagSolutionProposal},
			"improvement_request": {model.TagImprovementRequest},
			"proposal":            {model.TagSolutionProposal},
		},
		topicTags: map[string][]model.SemanticTag{
			"security":       {model.TagSecurityConcern},
			"safety":         {model.TagSecurityConcern},
			"crime":          {model.TagSecurityConcern},
			"health":         {model.TagHealthConcern},
			"healthcare":     {model.TagHealthConcern},
			"economy":        {model.TagEconomicConcern},
			"employment":     {model.TagEconomicConcern},
			"work":           {model.TagEconomicConcern},
			"education":      {model.TagEducationConcern},
			"school":         {model.TagEducationConcern},
			"infrastructure": {model.TagInfrastructureConcern},
			"transport":      {model.TagInfrastructureConcern},
			"housing":        {model.TagHousingConcern},
			"environment":    {model.TagEnvironmentConcern},
			"pollution":      {model.TagEnvironmentConcern},
			"community":      {model.TagCommunityConcern},
		},
		emotionTags: map[string][]model.SemanticTag{
			"fear":        {model.TagFearExpression},
			"anxiety":     {model.TagFearExpression},
			"anger":       {model.TagAngerExpression},
			"sadness":     {model.TagSadnessExpression},
			"grief":       {model.TagSadnessExpression},
			"hope":        {model.TagHopeExpression},
			"pride":       {model.TagPrideExpression},
			"frustration": {model.TagFrustrationExpression},
		},
		evidenceTags: map[string][]model.SemanticTag{
			model.EvidencePersonalExperience: {model.TagPersonalExperience},
			model.EvidenceObservation:        {model.TagDirectObservation},
			model.EvidenceHearsay:            {model.TagSecondhandAccount},
			model.EvidenceOpinion:            {model.TagOpinionStatement},
		},
	}
}

// ExtractTags maps the turn's four annotation axes into the tag taxonomy.
// The result is deduplicated and sorted so downstream comparisons are stable.
func (e *TagExtractor) ExtractTags(ann model.TurnAnnotation) []model.SemanticTag {
	seen := make(map[model.SemanticTag]bool)

	add := func(tags []model.SemanticTag) {
		for _, t := range tags {
			seen[t] = true
		}
	}

	add(e.roleTags[normalizeAxisValue(ann.Functional.Role)])
	for _, topic := range ann.Content.Topics {
		add(e.topicTags[normalizeAxisValue(topic)])
	}
	add(e.emotionTags[normalizeAxisValue(ann.Emotional.PrimaryEmotion)])
	add(e.evidenceTags[normalizeAxisValue(ann.Evidence.EvidenceType)])

	tags := make([]model.SemanticTag, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// InsightTags derives the tag set for an interview-level insight from its
// theme, falling back to scanning the content for topic names when the theme
// is not in the taxonomy.
func (e *TagExtractor) InsightTags(insight model.Insight) []model.SemanticTag {
	seen := make(map[model.SemanticTag]bool)

	for _, t := range e.topicTags[normalizeAxisValue(insight.Theme)] {
		seen[t] = true
	}

	if len(seen) == 0 && insight.Content != "" {
		lower := strings.ToLower(insight.Content)
		for topic, tags := range e.topicTags {
			if strings.Contains(lower, topic) {
				for _, t := range tags {
					seen[t] = true
				}
			}
		}
	}

	tags := make([]model.SemanticTag, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// TagOverlap returns the tags shared by both sets and the overlap ratio
// normalized by the insight tag count. An empty insight set yields ratio 0.
func TagOverlap(insightTags, turnTags []model.SemanticTag) ([]model.SemanticTag, float64) {
	if len(insightTags) == 0 {
		return nil, 0
	}

	turnSet := make(map[model.SemanticTag]bool, len(turnTags))
	for _, t := range turnTags {
		turnSet[t] = true
	}

	var shared []model.SemanticTag
	for _, t := range insightTags {
		if turnSet[t] {
			shared = append(shared, t)
		}
	}

	return shared, float64(len(shared)) / float64(len(insightTags))
}

// normalizeAxisValue lowercases and trims an annotation axis value so lookup
// tables are insensitive to upstream formatting drift
func normalizeAxisValue(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
