package ui

import (
	"strconv"

	"lottolab/domain/core"
	"lottolab/internal/errors"

	"github.com/gin-gonic/gin"
)

// respondError maps domain errors to status codes. Insufficient data is a
// normal state for a fresh install, not a failure.
func (s *Server) respondError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= 500 {
		s.logger.Error("[%s] %v", c.FullPath(), err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": errors.PublicMessage(err)})
}

func boolParam(c *gin.Context, name string, def bool) (bool, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, core.NewInvalidArgumentError("%s must be a boolean, got %q", name, raw)
	}
	return v, nil
}

func intParam(c *gin.Context, name string, def int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, core.NewInvalidArgumentError("%s must be an integer, got %q", name, raw)
	}
	return v, nil
}

func floatParam(c *gin.Context, name string, def float64) (float64, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, core.NewInvalidArgumentError("%s must be a number, got %q", name, raw)
	}
	return v, nil
}
