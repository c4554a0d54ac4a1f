package tracker

import "sort"

// DefaultRows is used for patterns whose row count is not known
const DefaultRows = 64

// OrderResolution splits an order table into the patterns it uses and the
// entries that point past the last pattern.
type OrderResolution struct {
	Used    []int // unique, ascending
	Invalid []int // in order-table order, duplicates kept
}

// ResolveOrder resolves order table entries against patternCount
func ResolveOrder(order []uint8, patternCount int) OrderResolution {
	if patternCount < 0 {
		patternCount = 0
	}
	var res OrderResolution
	seen := make(map[int]bool, len(order))
	for _, entry := range order {
		idx := int(entry)
		if idx >= patternCount {
			res.Invalid = append(res.Invalid, idx)
			continue
		}
		if !seen[idx] {
			seen[idx] = true
			res.Used = append(res.Used, idx)
		}
	}
	sort.Ints(res.Used)
	return res
}

// SelectionEntry is one pattern offered to a consumer for display
type SelectionEntry struct {
	Pattern int  `json:"pattern" msgpack:"pattern"`
	Used    bool `json:"used" msgpack:"used"`
	Rows    int  `json:"rows" msgpack:"rows"`
}

// Selection is the list of patterns a consumer should present
type Selection struct {
	Entries []SelectionEntry `json:"entries" msgpack:"entries"`
	Invalid []int            `json:"invalid,omitempty" msgpack:"invalid,omitempty"`
}

// BuildSelection lists the used patterns in ascending order, or every
// kept pattern annotated with its used flag when showAll is set. Patterns
// past MaxPatterns are never listed since no grid is kept for them. When
// no pattern is used the selection falls back to pattern 0.
func BuildSelection(order []uint8, patternCount int, rowCounts []uint16, showAll bool) Selection {
	res := ResolveOrder(order, patternCount)
	sel := Selection{Invalid: res.Invalid}

	rows := func(idx int) int {
		if idx < len(rowCounts) {
			return max(1, int(rowCounts[idx]))
		}
		return DefaultRows
	}

	if showAll {
		used := make(map[int]bool, len(res.Used))
		for _, idx := range res.Used {
			used[idx] = true
		}
		for idx := 0; idx < min(patternCount, MaxPatterns); idx++ {
			sel.Entries = append(sel.Entries, SelectionEntry{Pattern: idx, Used: used[idx], Rows: rows(idx)})
		}
		return sel
	}

	for _, idx := range res.Used {
		sel.Entries = append(sel.Entries, SelectionEntry{Pattern: idx, Used: true, Rows: rows(idx)})
	}
	if len(sel.Entries) == 0 && patternCount > 0 {
		sel.Entries = append(sel.Entries, SelectionEntry{Pattern: 0, Rows: rows(0)})
	}
	return sel
}

// Selection returns the pattern selection for a decoded module
func (m *Module) Selection(showAll bool) Selection {
	if m == nil {
		return Selection{}
	}
	return BuildSelection(m.Info.OrderTable, int(m.Info.Patterns), m.Info.PatternRowCounts, showAll)
}
