package domain

type LanguageResult struct {
	Language   string             `json:"language"`
	Confidence float64            `json:"confidence"`
	Scores     map[string]float64 `json:"scores,omitempty"`
}

type TopicScore struct {
	Topic string  `json:"topic"`
	Score float64 `json:"score"`
}

type TopicResult struct {
	Primary       string       `json:"primary"`
	Confidence    float64      `json:"confidence"`
	Topics        []TopicScore `json:"topics,omitempty"`
	SuggestedTags []string     `json:"suggested_tags,omitempty"`
}

type ClassificationResult struct {
	Language LanguageResult `json:"language"`
	Topic    TopicResult    `json:"topic"`
}

// Extraction is what the text-extraction service returns for one image.
// Confidence is on the 0-100 scale the OCR engine reports.
type Extraction struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

type SimilarFile struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"`
}

type NameCandidate struct {
	Name       string  `json:"name"`
	Score      float64 `json:"score"`
	Uniqueness float64 `json:"uniqueness"`
	Relevance  float64 `json:"relevance"`
}
