package hierarchy

import "github.com/spec-kit/orgchart-service/internal/domain"

// RankIndex resolves designation titles to levels. Unresolvable titles never
// block a pairing.
type RankIndex struct {
	levels map[string]int
}

// NewRankIndex indexes the active designation set. The first designation
// carrying a title wins.
func NewRankIndex(designations []domain.Designation) *RankIndex {
	levels := make(map[string]int, len(designations))
	for _, d := range designations {
		key := NormalizeTitle(d.Title)
		if _, ok := levels[key]; ok {
			continue
		}
		levels[key] = d.Level
	}
	return &RankIndex{levels: levels}
}

// Level returns the level of title, if known.
func (r *RankIndex) Level(title string) (int, bool) {
	if r == nil {
		return 0, false
	}
	level, ok := r.levels[NormalizeTitle(title)]
	return level, ok
}

// CanReportTo reports whether a holder of subordinateTitle may report to a
// holder of managerTitle: the manager must be strictly more senior.
func (r *RankIndex) CanReportTo(subordinateTitle, managerTitle string) bool {
	subLevel, ok := r.Level(subordinateTitle)
	if !ok {
		return true
	}
	mgrLevel, ok := r.Level(managerTitle)
	if !ok {
		return true
	}
	return mgrLevel < subLevel
}

// EligibleManagers keeps the candidates that subordinate may report to.
// The subordinate itself is never a candidate.
func (r *RankIndex) EligibleManagers(subordinate domain.Employee, candidates []domain.Employee) []domain.Employee {
	out := make([]domain.Employee, 0, len(candidates))
	for _, c := range candidates {
		if subordinate.ID != "" && c.ID == subordinate.ID {
			continue
		}
		if r.CanReportTo(subordinate.Designation, c.Designation) {
			out = append(out, c)
		}
	}
	return out
}

// SelectableDesignations lists the designations a new hire reporting to a holder
// of managerTitle may take. An unresolved manager exposes the full list.
func (r *RankIndex) SelectableDesignations(managerTitle string, active []domain.Designation) []domain.Designation {
	mgrLevel, ok := r.Level(managerTitle)
	out := make([]domain.Designation, 0, len(active))
	for _, d := range active {
		if !ok || d.Level > mgrLevel {
			out = append(out, d)
		}
	}
	return out
}
