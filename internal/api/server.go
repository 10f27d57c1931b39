// Package api exposes the history service over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietddude/txhistory/internal/chain"
	"github.com/vietddude/txhistory/internal/core/domain"
	"github.com/vietddude/txhistory/internal/format"
	"github.com/vietddude/txhistory/internal/scan"
)

// Server serves wallet history over HTTP.
type Server struct {
	scanner  *scan.Service
	registry *chain.Registry
	log      *slog.Logger
	server   *http.Server
	port     int
}

// NewServer creates the HTTP server around the history service. The registry
// is shared with the scanner so responses can carry per-chain display context.
func NewServer(scanner *scan.Service, registry *chain.Registry, log *slog.Logger, port int) *Server {
	return &Server{
		scanner:  scanner,
		registry: registry,
		log:      log,
		port:     port,
	}
}

// Handler assembles the routed gin engine. Split from Start so tests can
// drive it through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestID())
	router.Use(s.cors())
	router.Use(s.requestLog())

	s.setupRoutes(router)
	return router
}

// Start blocks serving requests until Stop is called or the listener fails.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.Handler(),
	}

	s.log.Info("http server listening", "port", s.port)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests within the context's deadline.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) setupRoutes(router *gin.Engine) {
	router.GET("/health", s.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.GET("/chains", s.listChains)
		api.GET("/:chainID/:address/transactions", s.getTransactions)
		api.DELETE("/cache", s.clearCache)
	}
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func (s *Server) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetString("request_id"))
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"service":   "txhistory",
	})
}

func (s *Server) listChains(c *gin.Context) {
	chains := make([]gin.H, 0)
	for _, params := range s.registry.All() {
		chains = append(chains, gin.H{
			"chain_id": params.ChainID,
			"name":     params.Name,
			"symbol":   params.Symbol,
		})
	}
	c.JSON(http.StatusOK, gin.H{"chains": chains, "total": len(chains)})
}

func (s *Server) getTransactions(c *gin.Context) {
	chainID, err := strconv.ParseUint(c.Param("chainID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chain id"})
		return
	}

	address := strings.TrimSpace(c.Param("address"))
	if !validAddress(address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address"})
		return
	}

	fromBlock, err := optionalBlock(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from block"})
		return
	}
	toBlock, err := optionalBlock(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to block"})
		return
	}

	txs, err := s.scanner.GetTransactions(c.Request.Context(), address, domain.ChainID(chainID), fromBlock, toBlock)
	if err != nil {
		if errors.Is(err, chain.ErrUnsupportedChain) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if c.Query("formatted") == "true" {
		params, _ := s.registry.Resolve(domain.ChainID(chainID))
		ctx := format.ChainContext{
			Symbol:      params.Symbol,
			Decimals:    params.Decimals,
			ExplorerURL: params.ExplorerURL,
		}
		c.JSON(http.StatusOK, gin.H{
			"chain_id":     chainID,
			"address":      address,
			"transactions": format.Transactions(txs, ctx, time.Now()),
			"total":        len(txs),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"chain_id":     chainID,
		"address":      address,
		"transactions": txs,
		"total":        len(txs),
	})
}

func (s *Server) clearCache(c *gin.Context) {
	if err := s.scanner.ClearCache(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cache cleared"})
}

func optionalBlock(raw string) (*uint64, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func validAddress(address string) bool {
	if len(address) != 42 || !strings.HasPrefix(address, "0x") {
		return false
	}
	for _, r := range address[2:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
