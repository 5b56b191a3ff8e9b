package model

// Snapshot is the latest known merged progress state for the active job.
// Every field is optional: absence means unknown, never zero. Partial updates
// merge additively via Merge; nothing is unset until a new job starts.
type Snapshot struct {
	Title      string   `json:"title,omitempty"`
	Percent    *float64 `json:"percent,omitempty"`
	Speed      string   `json:"speed,omitempty"`
	ETA        string   `json:"eta,omitempty"`
	ETASeconds *int     `json:"eta_seconds,omitempty"`
	ItemIndex  int      `json:"item_index,omitempty"` // 1-based
	ItemCount  int      `json:"item_count,omitempty"`
}

// Merge folds a partial update into the snapshot, overwriting only the fields
// the update carries.
func (s *Snapshot) Merge(part Snapshot) {
	if part.Title != "" {
		s.Title = part.Title
	}
	if part.Percent != nil {
		s.Percent = part.Percent
	}
	if part.Speed != "" {
		s.Speed = part.Speed
	}
	if part.ETA != "" {
		s.ETA = part.ETA
	}
	if part.ETASeconds != nil {
		s.ETASeconds = part.ETASeconds
	}
	if part.ItemIndex > 0 {
		s.ItemIndex = part.ItemIndex
	}
	if part.ItemCount > 0 {
		s.ItemCount = part.ItemCount
	}
}

// IsZero reports whether the snapshot carries no information at all.
func (s Snapshot) IsZero() bool {
	return s.Title == "" && s.Percent == nil && s.Speed == "" && s.ETA == "" &&
		s.ETASeconds == nil && s.ItemIndex == 0 && s.ItemCount == 0
}
