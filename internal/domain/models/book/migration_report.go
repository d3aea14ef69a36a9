package book

// MigrationReport counts what a migration pass had to fill in
type MigrationReport struct {
	Chapters          int `json:"chapters"`
	Articles          int `json:"articles"`
	Blocks            int `json:"blocks"`
	ChapterIDs        int `json:"chapter_ids_assigned"`
	BlockIDs          int `json:"block_ids_assigned"`
	CommentIDs        int `json:"comment_ids_assigned"`
	SynthesizedBlocks int `json:"synthesized_blocks"`
	FoldedFields      int `json:"folded_legacy_fields"`
	SyntheticDates    int `json:"synthetic_created_at"`
}

// Changed reports whether the pass modified anything structural
func (r MigrationReport) Changed() bool {
	return r.ChapterIDs+r.BlockIDs+r.CommentIDs+r.SynthesizedBlocks+r.FoldedFields+r.SyntheticDates > 0
}
