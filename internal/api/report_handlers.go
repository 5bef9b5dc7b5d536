package api

import (
	"net/http"

	"evalytics/domain/core"
	"evalytics/internal/errors"

	"github.com/gin-gonic/gin"
)

type generateReportRequest struct {
	InstrumentID string `json:"instrument_id"`
}

func (s *Server) handleGenerateReport(c *gin.Context) {
	cycleID, err := core.ParseCycleID(c.Param("cycleID"))
	if err != nil {
		s.respondError(c, errors.InvalidInput(err.Error()))
		return
	}

	instrumentID := c.Query("instrument_id")
	if c.Request.ContentLength != 0 {
		req, ok := bind[generateReportRequest](s, c)
		if !ok {
			return
		}
		if req.InstrumentID != "" {
			instrumentID = req.InstrumentID
		}
	}

	report, err := s.reports.GenerateCycleReport(c.Request.Context(), cycleID, core.ParseInstrumentID(instrumentID))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (s *Server) handleGetReport(c *gin.Context) {
	reportID, err := core.ParseReportID(c.Param("reportID"))
	if err != nil {
		s.respondError(c, errors.InvalidInput(err.Error()))
		return
	}
	report, err := s.reports.GetReport(c.Request.Context(), reportID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleListReports(c *gin.Context) {
	cycleID, err := core.ParseCycleID(c.Param("cycleID"))
	if err != nil {
		s.respondError(c, errors.InvalidInput(err.Error()))
		return
	}
	summaries, err := s.reports.ListReports(c.Request.Context(), cycleID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": summaries})
}
