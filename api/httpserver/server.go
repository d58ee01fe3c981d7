// Package httpserver adapts the order service to HTTP. REST endpoints
// carry commands and depth queries; a websocket feed streams trades.
package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vela/domain/book"
	"vela/service"
)

type Server struct {
	svc *service.OrderService
	hub *TradeHub
	log *zap.Logger
}

func NewServer(svc *service.OrderService, hub *TradeHub, log *zap.Logger) *Server {
	return &Server{svc: svc, hub: hub, log: log}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/v1")
	{
		v1.POST("/orders", s.placeOrder)
		v1.PUT("/orders/:id", s.modifyOrder)
		v1.DELETE("/orders/:id", s.cancelOrder)
		v1.GET("/depth", s.depth)
		v1.GET("/ws/trades", s.hub.Serve)
	}
	return r
}

type placeRequest struct {
	ID    uint64 `json:"id" binding:"required"`
	Side  string `json:"side" binding:"required"`
	Type  string `json:"type"`
	Price int64  `json:"price"`
	Qty   int64  `json:"qty" binding:"required"`
}

type modifyRequest struct {
	Side  string `json:"side" binding:"required"`
	Price int64  `json:"price"`
	Qty   int64  `json:"qty" binding:"required"`
}

type tradesResponse struct {
	Trades []book.Trade `json:"trades"`
}

func (s *Server) placeOrder(c *gin.Context) {
	var req placeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	side, ok := parseSide(req.Side)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "side must be buy or sell"})
		return
	}
	typ, ok := parseType(req.Type)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be gtc or fak"})
		return
	}

	trades, err := s.svc.Submit(req.ID, typ, side, req.Qty, req.Price)
	if err != nil {
		s.log.Error("submit failed", zap.Uint64("id", req.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "submit failed"})
		return
	}
	c.JSON(http.StatusOK, tradesResponse{Trades: trades})
}

func (s *Server) modifyOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req modifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	side, ok := parseSide(req.Side)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "side must be buy or sell"})
		return
	}

	trades, err := s.svc.Modify(id, side, req.Qty, req.Price)
	if err != nil {
		s.log.Error("modify failed", zap.Uint64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "modify failed"})
		return
	}
	c.JSON(http.StatusOK, tradesResponse{Trades: trades})
}

func (s *Server) cancelOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	if err := s.svc.Cancel(id); err != nil {
		s.log.Error("cancel failed", zap.Uint64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cancel failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) depth(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Depth())
}

func parseSide(v string) (book.Side, bool) {
	switch v {
	case "buy":
		return book.Buy, true
	case "sell":
		return book.Sell, true
	}
	return 0, false
}

func parseType(v string) (book.OrderType, bool) {
	switch v {
	case "", "gtc":
		return book.GoodTillCancel, true
	case "fak":
		return book.FillAndKill, true
	}
	return 0, false
}
