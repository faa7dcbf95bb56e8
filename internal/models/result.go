package models

// ResumeDocument is one uploaded resume handed to the screening pipeline.
type ResumeDocument struct {
	Filename string
	Data     []byte
}

// ClassificationResult is the per-resume outcome reported to the caller.
type ClassificationResult struct {
	Filename string `json:"filename"`
	Category string `json:"category"`
	Score    int    `json:"score"`
}

// BatchReport is the response of a single screening run. AllResults keeps
// processing order; Top10 is sorted by descending score, ties keeping
// their original position.
type BatchReport struct {
	Top10      []ClassificationResult `json:"top10"`
	AllResults []ClassificationResult `json:"allResults"`
}

// SimilarResume is a single match from the similarity index.
type SimilarResume struct {
	ResumeID string  `json:"resume_id"`
	Filename string  `json:"filename"`
	Score    float32 `json:"score"`
}

type SearchResponse struct {
	Query   string          `json:"query"`
	Matches []SimilarResume `json:"matches"`
}
