package linalg

import "github.com/roach88/linalg/internal/ir"

// SliceInfo is a flat summary of a slice op's derived properties, used by
// reporting tools.
type SliceInfo struct {
	Result         string `json:"result"`
	Dim            int    `json:"dim"`
	ParentType     string `json:"parent_type"`
	ParentRank     int    `json:"parent_rank"`
	IndexingType   string `json:"indexing_type"`
	ResultType     string `json:"result_type"`
	Rank           int    `json:"rank"`
	ElementType    string `json:"element_type"`
	RankDecreasing bool   `json:"rank_decreasing"`
}

// Describe summarises s. The second result is false if s does not verify,
// since the derived accessors are only meaningful on a verified op.
func (s SliceOp) Describe() (SliceInfo, bool) {
	if s.Verify() != nil {
		return SliceInfo{}, false
	}
	dim, _ := s.SlicingDim()
	return SliceInfo{
		Result:         s.op.Result(0).String(),
		Dim:            dim,
		ParentType:     s.ParentViewType().String(),
		ParentRank:     s.ParentRank(),
		IndexingType:   s.Indexing().Type.String(),
		ResultType:     s.ViewType().String(),
		Rank:           s.Rank(),
		ElementType:    s.ElementType().String(),
		RankDecreasing: s.IsRankDecreasing(),
	}, true
}

// Slices returns every slice op in m, in program order.
func Slices(m *ir.Module) []SliceOp {
	var out []SliceOp
	for _, op := range m.Ops {
		if s, ok := AsSlice(op); ok {
			out = append(out, s)
		}
	}
	return out
}
