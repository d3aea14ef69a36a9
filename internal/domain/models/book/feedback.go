package book

import "fmt"

// HistogramBuckets is the fixed number of score buckets (scores 1..10)
const HistogramBuckets = 10

// FeedbackKind names one reader reaction counter
type FeedbackKind string

const (
	FeedbackLike       FeedbackKind = "like"
	FeedbackDislike    FeedbackKind = "dislike"
	FeedbackInsightful FeedbackKind = "insightful"
	FeedbackUplifting  FeedbackKind = "uplifting"
	FeedbackView       FeedbackKind = "view"
)

// Feedback aggregates reader reactions to an article
type Feedback struct {
	Likes          int   `json:"likes"`
	Dislikes       int   `json:"dislikes"`
	Insightful     int   `json:"insightful"`
	Uplifting      int   `json:"uplifting"`
	Views          int   `json:"views"`
	ScoreHistogram []int `json:"scoreHistogram"`

	// Extra keeps counters added by newer writers
	Extra map[string]any `json:"-"`
}

// MarshalJSON emits the canonical fields followed by any pass-through fields
func (f Feedback) MarshalJSON() ([]byte, error) {
	type plain Feedback
	return marshalWithExtra(plain(f), f.Extra)
}

// NewFeedback returns a record with every counter at zero
func NewFeedback() Feedback {
	return Feedback{ScoreHistogram: make([]int, HistogramBuckets)}
}

// Record increments the counter for one reaction
func (f *Feedback) Record(kind FeedbackKind) error {
	switch kind {
	case FeedbackLike:
		f.Likes++
	case FeedbackDislike:
		f.Dislikes++
	case FeedbackInsightful:
		f.Insightful++
	case FeedbackUplifting:
		f.Uplifting++
	case FeedbackView:
		f.Views++
	default:
		return newValidation(fmt.Sprintf("unknown feedback kind %q", kind))
	}
	return nil
}

// RecordScore counts one score in the 1..10 histogram
func (f *Feedback) RecordScore(score int) error {
	if score < 1 || score > HistogramBuckets {
		return newValidation(fmt.Sprintf("score must be between 1 and %d, got %d", HistogramBuckets, score))
	}
	if len(f.ScoreHistogram) != HistogramBuckets {
		f.ScoreHistogram = resizeHistogram(f.ScoreHistogram)
	}
	f.ScoreHistogram[score-1]++
	return nil
}

// resizeHistogram pads or truncates counts to exactly HistogramBuckets entries
func resizeHistogram(counts []int) []int {
	out := make([]int, HistogramBuckets)
	copy(out, counts)
	return out
}

// NormalizedHistogram returns counts with exactly HistogramBuckets entries
func NormalizedHistogram(counts []int) []int {
	return resizeHistogram(counts)
}
