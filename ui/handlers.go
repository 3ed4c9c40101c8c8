package ui

import (
	"net/http"
	"strconv"

	"lottolab/app"
	"lottolab/domain/core"
	"lottolab/domain/draw"

	"github.com/gin-gonic/gin"
)

func (s *Server) analysisRequest(c *gin.Context) (app.AnalysisRequest, error) {
	includeBonus, err := boolParam(c, "include_bonus", s.defaults.IncludeBonus)
	if err != nil {
		return app.AnalysisRequest{}, err
	}
	q, err := floatParam(c, "q", s.defaults.FDRLevel)
	if err != nil {
		return app.AnalysisRequest{}, err
	}
	return app.AnalysisRequest{IncludeBonus: includeBonus, Q: q}, nil
}

func (s *Server) recommendRequest(c *gin.Context) (app.RecommendRequest, error) {
	includeBonus, err := boolParam(c, "include_bonus", s.defaults.IncludeBonus)
	if err != nil {
		return app.RecommendRequest{}, err
	}
	lookback, err := intParam(c, "lookback", s.defaults.Lookback)
	if err != nil {
		return app.RecommendRequest{}, err
	}
	seed, err := intParam(c, "seed", int(s.defaults.Seed))
	if err != nil {
		return app.RecommendRequest{}, err
	}
	return app.RecommendRequest{
		IncludeBonus: includeBonus,
		Lookback:     lookback,
		Seed:         int64(seed),
		Pick:         draw.MainCount,
	}, nil
}

// handleIndex renders the markdown fairness report and heuristic picks
func (s *Server) handleIndex(c *gin.Context) {
	req, err := s.analysisRequest(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	report, err := s.services.Analysis.Analyze(c.Request.Context(), req)
	if core.IsInsufficientData(err) {
		s.renderTemplate(c, http.StatusOK, "index.html", gin.H{"Empty": true})
		return
	}
	if err != nil {
		s.respondError(c, err)
		return
	}

	data := gin.H{
		"Report":   renderMarkdown(app.RenderMarkdown(report, s.defaults.TopPairs)),
		"Lookback": s.defaults.Lookback,
	}
	if rreq, err := s.recommendRequest(c); err == nil {
		if recs, err := s.services.Recommendations.Recommend(c.Request.Context(), rreq); err == nil {
			data["Recommendations"] = recs
		} else {
			s.logger.Warn("[handleIndex] recommendations unavailable: %v", err)
		}
	}
	s.renderTemplate(c, http.StatusOK, "index.html", data)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleFairness(c *gin.Context) {
	req, err := s.analysisRequest(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	report, err := s.services.Analysis.Analyze(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	top, err := intParam(c, "top", -1)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if top >= 0 {
		trimmed := *report
		trimmed.Pairs = report.TopPairs(top)
		c.JSON(http.StatusOK, &trimmed)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleFairnessMarkdown(c *gin.Context) {
	req, err := s.analysisRequest(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	report, err := s.services.Analysis.Analyze(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(app.RenderMarkdown(report, s.defaults.TopPairs)))
}

func (s *Server) handleFrequency(c *gin.Context) {
	includeBonus, err := boolParam(c, "include_bonus", s.defaults.IncludeBonus)
	if err != nil {
		s.respondError(c, err)
		return
	}
	view, err := s.services.Statistics.Frequency(c.Request.Context(), includeBonus)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleRolling(c *gin.Context) {
	includeBonus, err := boolParam(c, "include_bonus", s.defaults.IncludeBonus)
	if err != nil {
		s.respondError(c, err)
		return
	}
	window, err := intParam(c, "window", s.defaults.RollingWindow)
	if err != nil {
		s.respondError(c, err)
		return
	}
	rows, err := s.services.Statistics.Rolling(c.Request.Context(), window, includeBonus)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"window": window, "include_bonus": includeBonus, "rows": rows})
}

func (s *Server) handleFeatures(c *gin.Context) {
	view, err := s.services.Statistics.Features(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleDraw(c *gin.Context) {
	no, err := strconv.Atoi(c.Param("no"))
	if err != nil {
		s.respondError(c, core.NewInvalidArgumentError("draw number must be an integer, got %q", c.Param("no")))
		return
	}
	view, err := s.services.Statistics.Draw(c.Request.Context(), no)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleRecommendations(c *gin.Context) {
	req, err := s.recommendRequest(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	recs, err := s.services.Recommendations.Recommend(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

// drawPayload is the JSON shape accepted by POST /api/draws
type drawPayload struct {
	No      int    `json:"draw_no" binding:"required"`
	Date    string `json:"date" binding:"required"`
	Numbers []int  `json:"numbers" binding:"required"`
	Bonus   int    `json:"bonus" binding:"required"`
}

func (p drawPayload) toDraw() (draw.Draw, error) {
	if len(p.Numbers) != draw.MainCount {
		return draw.Draw{}, core.NewInvalidDrawError(p.No, "expected 6 main numbers")
	}
	date, err := core.ParseDrawDate(p.Date)
	if err != nil {
		return draw.Draw{}, core.NewInvalidDrawError(p.No, "invalid date "+p.Date)
	}
	d := draw.Draw{No: p.No, Date: date, Bonus: p.Bonus}
	copy(d.Numbers[:], p.Numbers)
	return d, nil
}

func (s *Server) handleAddDraws(c *gin.Context) {
	var payload []drawPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.respondError(c, core.NewInvalidArgumentError("invalid draws payload: %v", err))
		return
	}
	draws := make([]draw.Draw, 0, len(payload))
	for _, p := range payload {
		d, err := p.toDraw()
		if err != nil {
			s.respondError(c, err)
			return
		}
		draws = append(draws, d)
	}
	result, err := s.services.Ingest.AddDraws(c.Request.Context(), draws)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleCacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.services.Caches.Stats())
}
