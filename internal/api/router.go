package api

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/deusflow/newsmon/internal/app"
	"github.com/deusflow/newsmon/internal/config"
	"github.com/deusflow/newsmon/internal/logger"
	"github.com/deusflow/newsmon/internal/metrics"
	"github.com/deusflow/newsmon/internal/news"
	"github.com/deusflow/newsmon/internal/report"
)

//go:embed templates/index.html
var templates embed.FS

// Runner runs one search request end to end.
type Runner interface {
	Run(ctx context.Context, req news.SearchRequest) (report.Summary, error)
	DefaultRecipient() string
}

type Server struct {
	runner  Runner
	metrics *metrics.Metrics
}

func NewServer(runner Runner, m *metrics.Metrics) *Server {
	if m == nil {
		m = metrics.Global
	}
	return &Server{runner: runner, metrics: m}
}

// NewRouter builds a gin engine with the form page, the JSON API and the
// monitoring endpoints.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.SetHTMLTemplate(template.Must(template.ParseFS(templates, "templates/index.html")))
	s.RegisterRoutes(r)
	return r
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)
	r.GET("/metrics", s.stats)

	r.GET("/", s.form)
	r.POST("/", s.submitForm)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/reports", s.createReport)
	}
}

type pageData struct {
	Recipient string
	Keywords  string
	Days      int
	Summary   *report.Summary
	Error     string
}

type reportForm struct {
	Recipient string `form:"id"`
	Keywords  string `form:"keywords"`
	Days      string `form:"days"`
}

type reportRequest struct {
	Keywords  []string `json:"keywords"`
	Days      int      `json:"days"`
	Recipient string   `json:"recipient"`
}

func (s *Server) health(c *gin.Context) {
	stats := s.metrics.GetStats()

	status := "ok"
	code := http.StatusOK
	if healthy, _ := stats["is_healthy"].(bool); !healthy {
		status = "error"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	})
}

func (s *Server) stats(c *gin.Context) {
	c.JSON(http.StatusOK, s.metrics.GetStats())
}

func (s *Server) form(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", pageData{
		Recipient: c.DefaultQuery("id", s.runner.DefaultRecipient()),
		Days:      news.MinDays,
	})
}

func (s *Server) submitForm(c *gin.Context) {
	var form reportForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "index.html", pageData{Days: news.MinDays, Error: "잘못된 요청입니다"})
		return
	}

	data := pageData{
		Recipient: strings.TrimSpace(form.Recipient),
		Keywords:  form.Keywords,
		Days:      parseDays(form.Days),
	}

	sum, err := s.runner.Run(c.Request.Context(), news.SearchRequest{
		Keywords:  config.SplitKeywords(form.Keywords),
		Days:      data.Days,
		Recipient: data.Recipient,
	})
	if err != nil {
		code := http.StatusInternalServerError
		if app.IsRequestError(err) {
			code = http.StatusBadRequest
		}
		data.Error = err.Error()
		c.HTML(code, "index.html", data)
		return
	}

	data.Summary = &sum
	c.HTML(http.StatusOK, "index.html", data)
}

func (s *Server) createReport(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "bad_request",
			"message": err.Error(),
		})
		return
	}
	if req.Days == 0 {
		req.Days = news.MinDays
	}

	var keywords []string
	for _, kw := range req.Keywords {
		keywords = append(keywords, config.SplitKeywords(kw)...)
	}

	sum, err := s.runner.Run(c.Request.Context(), news.SearchRequest{
		Keywords:  keywords,
		Days:      req.Days,
		Recipient: req.Recipient,
	})
	if err != nil {
		if app.IsRequestError(err) {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "bad_request",
				"message": err.Error(),
			})
			return
		}
		logger.Error("report failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    sum,
	})
}

// parseDays reads the slider value, clamped to the allowed window.
func parseDays(raw string) int {
	days, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return news.MinDays
	}
	if days < news.MinDays {
		return news.MinDays
	}
	if days > news.MaxDays {
		return news.MaxDays
	}
	return days
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
		)
	}
}
