package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/ninja0404/token-risk/internal/aggregator"
	"github.com/ninja0404/token-risk/pkg/logger"
)

const (
	errNoContract      = "No contract address provided"
	errInvalidContract = "Invalid contract address"
	errNoStore         = "Report store is not configured"
)

type analyzeRequest struct {
	Contract string `json:"contract"`
}

// analyzeHandler POST /analyze，JSON 解析失败按缺少地址处理
func (s *Server) analyzeHandler(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req.Contract = ""
	}

	contract := strings.TrimSpace(req.Contract)
	if contract == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errNoContract})
		return
	}
	if s.config.StrictAddress && !common.IsHexAddress(contract) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidContract})
		return
	}

	ctx := c.Request.Context()
	report, err := s.analyzer.AnalyzeReport(ctx, contract)
	if err != nil {
		if errors.Is(err, aggregator.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errNoContract})
			return
		}
		logger.LogFromContext(ctx).Error("分析失败", logger.FieldContract(contract), logger.FieldErr(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis failed"})
		return
	}

	if s.publisher != nil {
		s.publisher.Submit(report)
	}
	c.JSON(http.StatusOK, report.RiskRecord)
}

func (s *Server) preflightHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// listReportsHandler GET /reports/:contract?limit=N
func (s *Server) listReportsHandler(c *gin.Context) {
	if s.reports == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errNoStore})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	contract := strings.TrimSpace(c.Param("contract"))
	reports, err := s.reports.ListByContract(c.Request.Context(), contract, limit)
	if err != nil {
		logger.LogFromContext(c.Request.Context()).Error("查询报告失败", logger.FieldContract(contract), logger.FieldErr(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reports"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"contract": contract, "reports": reports})
}

// watchHandler POST /watchlist 把合约加入定期重扫列表
func (s *Server) watchHandler(c *gin.Context) {
	if s.watchlist == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errNoStore})
		return
	}

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req.Contract = ""
	}
	contract := strings.TrimSpace(req.Contract)
	if contract == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errNoContract})
		return
	}
	if s.config.StrictAddress && !common.IsHexAddress(contract) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidContract})
		return
	}

	if err := s.watchlist.Upsert(c.Request.Context(), contract); err != nil {
		logger.LogFromContext(c.Request.Context()).Error("加入观察列表失败", logger.FieldContract(contract), logger.FieldErr(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update watchlist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "contract": contract})
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
