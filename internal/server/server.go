package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"pizza-shop/internal/config"
	"pizza-shop/internal/domain"
	"pizza-shop/internal/usecase"
)

const requestIDHeader = "X-Request-ID"

type OrderUsecase interface {
	Create(ctx context.Context, req *domain.OrderCreate) (int64, domain.OrderStatus, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
}

type RequestMetrics interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

type Server struct {
	orders  OrderUsecase
	menu    domain.Menu
	log     *zap.Logger
	metrics RequestMetrics
	engine  *gin.Engine
}

func New(orders OrderUsecase, menu domain.Menu, log *zap.Logger, metrics RequestMetrics) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		orders:  orders,
		menu:    menu,
		log:     log,
		metrics: metrics,
		engine:  gin.New(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.cors(s.engine), config.ServiceName)
}

func (s *Server) routes() {
	s.engine.HandleMethodNotAllowed = true
	s.engine.Use(s.requestID(), s.accessLog(), gin.CustomRecovery(s.recover))
	s.engine.NoRoute(func(c *gin.Context) {
		s.err(c, http.StatusNotFound, "NotFound", "route not found")
	})
	s.engine.NoMethod(func(c *gin.Context) {
		s.err(c, http.StatusMethodNotAllowed, "MethodNotAllowed", "method not allowed")
	})

	s.engine.GET("/menu", s.handleMenu)
	s.engine.POST("/orders", s.handleCreateOrder)
	s.engine.GET("/orders/:order_id", s.handleGetOrder)
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		if s.metrics != nil {
			s.metrics.ObserveRequest(c.Request.Method, route, status, elapsed)
		}
		s.log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", elapsed),
			zap.String("request_id", c.GetString("request_id")),
		)
	}
}

func (s *Server) recover(c *gin.Context, rec any) {
	s.log.Error("panic serving request", zap.Any("panic", rec), zap.String("request_id", c.GetString("request_id")))
	s.err(c, http.StatusInternalServerError, "ServerError", "internal error")
}

func (s *Server) handleMenu(c *gin.Context) {
	s.json(c, http.StatusOK, s.menu)
}

func (s *Server) handleCreateOrder(c *gin.Context) {
	var req domain.OrderCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		s.err(c, http.StatusBadRequest, "BadRequest", bindMessage(err))
		return
	}
	id, status, err := s.orders.Create(c.Request.Context(), &req)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.json(c, http.StatusOK, gin.H{"order_id": id, "status": status})
}

func (s *Server) handleGetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("order_id"), 10, 64)
	if err != nil {
		s.err(c, http.StatusBadRequest, "BadRequest", "order_id must be an integer")
		return
	}
	o, err := s.orders.Get(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.json(c, http.StatusOK, o)
}

// fail maps usecase errors onto the envelope. Storage faults are logged
// and hidden behind a generic 500.
func (s *Server) fail(c *gin.Context, err error) {
	var nf usecase.ErrNotFound
	var br usecase.ErrBadRequest
	switch {
	case errors.As(err, &nf):
		s.err(c, http.StatusNotFound, "NotFound", "Order not found")
	case errors.As(err, &br):
		s.err(c, http.StatusBadRequest, "BadRequest", br.Error())
	default:
		s.log.Error("order operation failed", zap.Error(err), zap.String("request_id", c.GetString("request_id")))
		s.err(c, http.StatusInternalServerError, "ServerError", "internal error")
	}
}

func bindMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			field := strings.TrimPrefix(fe.Namespace(), "OrderCreate.")
			msgs = append(msgs, field+" failed on "+fe.Tag())
		}
		return strings.Join(msgs, "; ")
	}
	var syn *json.SyntaxError
	var typ *json.UnmarshalTypeError
	if errors.As(err, &syn) || errors.As(err, &typ) {
		return "invalid json"
	}
	return "invalid request body"
}

func (s *Server) err(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":      code,
			"message":   msg,
			"requestId": c.GetString("request_id"),
		},
		"detail": msg,
	})
}

func (s *Server) json(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}
