// Package server exposes the diagnosis service over HTTP.
package server

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/helmcode/homefix-ai/pkg/analyzer"
	"github.com/helmcode/homefix-ai/pkg/model"
)

const (
	RequestIDHeader = "X-Request-ID"

	shutdownTimeout = 10 * time.Second
	// Room for the text fields of a multipart upload on top of the image.
	formOverhead = 1 << 20
)

// Diagnoser is the part of analyzer.Analyzer the API needs.
type Diagnoser interface {
	Diagnose(ctx context.Context, req model.DiagnosisRequest) (*model.Guide, error)
	ParseNarrative(raw string) *model.Guide
	Model() string
}

type Server struct {
	diag          Diagnoser
	logger        *zap.Logger
	maxImageBytes int64
	engine        *gin.Engine
}

func New(diag Diagnoser, logger *zap.Logger, maxImageBytes int64) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		diag:          diag,
		logger:        logger,
		maxImageBytes: maxImageBytes,
		engine:        gin.New(),
	}
	s.engine.Use(requestID(), accessLog(logger), gin.Recovery())

	s.engine.GET("/healthz", s.handleHealth)
	api := s.engine.Group("/api")
	api.POST("/diagnose", s.handleDiagnose)
	api.POST("/parse", s.handleParse)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("HTTP API listening", zap.String("addr", addr), zap.String("model", s.diag.Model()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down HTTP API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

type diagnoseBody struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	// Base64 or data URL.
	Image string `json:"image"`
}

type parseBody struct {
	Text string `json:"text"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "model": s.diag.Model()})
}

func (s *Server) handleDiagnose(c *gin.Context) {
	req, err := s.bindDiagnosis(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	guide, err := s.diag.Diagnose(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, analyzer.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.logger.Error("Diagnosis failed", zap.String("request_id", c.GetString(RequestIDHeader)), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to get a diagnosis from the AI model, please try again"})
		return
	}
	c.JSON(http.StatusOK, guide)
}

func (s *Server) handleParse(c *gin.Context) {
	var body parseBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.diag.ParseNarrative(body.Text))
}

func (s *Server) bindDiagnosis(c *gin.Context) (model.DiagnosisRequest, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return s.bindMultipart(c)
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxJSONBytes())
	var body diagnoseBody
	if err := c.ShouldBindJSON(&body); err != nil {
		return model.DiagnosisRequest{}, fmt.Errorf("invalid JSON body: %w", err)
	}
	req := model.DiagnosisRequest{Description: body.Description, Category: body.Category}
	if body.Image != "" {
		data, err := decodeImageString(body.Image)
		if err != nil {
			return model.DiagnosisRequest{}, err
		}
		img, err := s.checkImage(data)
		if err != nil {
			return model.DiagnosisRequest{}, err
		}
		req.Image = img
	}
	return req, nil
}

func (s *Server) bindMultipart(c *gin.Context) (model.DiagnosisRequest, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxImageBytes+formOverhead)

	req := model.DiagnosisRequest{
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
	}
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil
	}
	if err != nil {
		return model.DiagnosisRequest{}, fmt.Errorf("invalid multipart form: %w", err)
	}
	if fh.Size > s.maxImageBytes {
		return model.DiagnosisRequest{}, fmt.Errorf("image is larger than %d bytes", s.maxImageBytes)
	}

	f, err := fh.Open()
	if err != nil {
		return model.DiagnosisRequest{}, fmt.Errorf("read image: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return model.DiagnosisRequest{}, fmt.Errorf("read image: %w", err)
	}
	img, err := s.checkImage(data)
	if err != nil {
		return model.DiagnosisRequest{}, err
	}
	req.Image = img
	return req, nil
}

// maxJSONBytes bounds a JSON diagnosis body: the base64 image plus room for
// the text fields.
func (s *Server) maxJSONBytes() int64 {
	return (s.maxImageBytes+2)/3*4 + formOverhead
}

func (s *Server) checkImage(data []byte) (*model.Image, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if int64(len(data)) > s.maxImageBytes {
		return nil, fmt.Errorf("image is larger than %d bytes", s.maxImageBytes)
	}
	return model.NewImage(data)
}

// decodeImageString accepts raw base64 or a "data:image/...;base64," URL.
func decodeImageString(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		idx := strings.Index(s, ",")
		if idx < 0 || !strings.HasSuffix(s[:idx], ";base64") {
			return nil, errors.New("image data URL must be base64 encoded")
		}
		s = s[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("image is not valid base64: %w", err)
	}
	return data, nil
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDHeader, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func accessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("HTTP request",
			zap.String("request_id", c.GetString(RequestIDHeader)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
