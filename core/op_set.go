package core

import (
	"io"
	"momentsdb/table"
)

// OpSet is an ordered selection of statistics to report.
type OpSet struct {
	ids []ResultID
}

// NewOpSet resolves result names; no names selects all ten statistics.
// Duplicates are dropped, first occurrence wins.
func NewOpSet(names []string) (*OpSet, error) {
	if len(names) == 0 {
		return &OpSet{ids: AllResultIDs()}, nil
	}
	seen := make(map[ResultID]bool, len(names))
	ids := make([]ResultID, 0, len(names))
	for _, name := range names {
		id, err := ParseResultID(name)
		if err != nil {
			return nil, err
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return &OpSet{ids: ids}, nil
}

func (set *OpSet) IDs() []ResultID {
	return append([]ResultID(nil), set.ids...)
}

// Print writes every selected statistic of result as a titled table.
func (set *OpSet) Print(w io.Writer, result *Result, maxRows, maxCols int) error {
	for _, id := range set.ids {
		if err := table.Print(w, result.Table(id), id.Title(), maxRows, maxCols); err != nil {
			return err
		}
	}
	return nil
}
