package api

import (
	"encoding/json"
	"net/http"

	"lottolab/domain/core"
	"lottolab/internal/fairness"
)

// UniformityRequest carries a 45-entry frequency vector and its total
type UniformityRequest struct {
	Frequency []int `json:"frequency"`
	Total     int   `json:"total"`
}

// PairsRequest carries a 45×45 co-occurrence matrix, the marginal
// frequencies and the number of draws. Q is optional; when present the pair
// results are FDR-corrected, and it must lie in (0, 1].
type PairsRequest struct {
	Cooccurrence [][]int  `json:"cooccurrence"`
	Frequency    []int    `json:"frequency"`
	Draws        int      `json:"draws"`
	Q            *float64 `json:"q,omitempty"`
}

// PairsResponse lists all pair tests and, when corrected, the survivors
type PairsResponse struct {
	Pairs       []fairness.PairResult `json:"pairs"`
	Significant []fairness.PairResult `json:"significant,omitempty"`
}

// FDRRequest carries raw p-values and the target false discovery rate
type FDRRequest struct {
	PValues []float64 `json:"p_values"`
	Q       float64   `json:"q"`
}

func decode(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return core.NewInvalidArgumentError("invalid request body: %v", err)
	}
	return nil
}

func (s *Server) handleUniformity(w http.ResponseWriter, r *http.Request) {
	var req UniformityRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	res, err := fairness.UniformityTest(req.Frequency, req.Total)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePairs(w http.ResponseWriter, r *http.Request) {
	var req PairsRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	pairs, err := fairness.PairSignificance(req.Cooccurrence, req.Frequency, req.Draws)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := PairsResponse{Pairs: pairs}
	if req.Q != nil {
		corrected, err := fairness.ApplyFDR(pairs, *req.Q)
		if err != nil {
			s.writeError(w, err)
			return
		}
		resp.Pairs = corrected
		resp.Significant = fairness.SignificantPairs(corrected)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFDR(w http.ResponseWriter, r *http.Request) {
	var req FDRRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	decisions, err := fairness.FDRCorrect(req.PValues, req.Q)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, decisions)
}
