package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"
	"golang.org/x/time/rate"

	"github.com/BlueberryTheta/wordGame/internal/types"
)

// getLimiter returns a rate limiter for the given key (usually client IP).
func (app *App) getLimiter(key string) *rate.Limiter {
	app.LimiterMutex.Lock()
	defer app.LimiterMutex.Unlock()
	if lim, ok := app.LimiterMap[key]; ok {
		return lim
	}

	if key == "" || key == "::1" {
		app.Log.Warn().Str("key", key).Msg("Rate limiter key is empty or loopback")
	}
	rps := app.RateLimitRPS
	if rps <= 0 {
		rps = 1
	}
	lim := rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), app.RateLimitBurst)
	app.LimiterMap[key] = lim
	return lim
}

// rateLimitMiddleware enforces per-client rate limiting.
func (app *App) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if !app.getLimiter(key).Allow() {
			zerolog.Ctx(c.Request.Context()).Warn().Str("client", key).Msg("Rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, types.ErrorResponse{Error: rateLimitedMessage})
			return
		}
		c.Next()
	}
}

// requestIDMiddleware tags each request with an ID and a logger carrying it.
func requestIDMiddleware(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.Request.Header.Get(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		l := base.With().Str("request_id", reqID).Logger()
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))
		c.Header(RequestIDHeader, reqID)
		c.Next()
	}
}

// accessLogMiddleware logs one line per request.
func accessLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		log := zerolog.Ctx(c.Request.Context())
		ev := log.Info()
		if status >= http.StatusInternalServerError {
			ev = log.Error()
		} else if status >= http.StatusBadRequest {
			ev = log.Warn()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client", c.ClientIP()).
			Msg("Request handled")
	}
}

// recoveryHandler turns a panic into the generic error body.
func recoveryHandler(c *gin.Context, err any) {
	zerolog.Ctx(c.Request.Context()).Error().Interface("panic", err).Str("path", c.Request.URL.Path).Msg("Recovered from panic")
	c.AbortWithStatusJSON(http.StatusInternalServerError, types.ErrorResponse{Error: ErrorInternal})
}

// cacheHeadersMiddleware lets static assets be cached in production and
// disables caching for everything else.
func cacheHeadersMiddleware(production bool) gin.HandlerFunc {
	static := cachecontrol.New(cachecontrol.Config{
		Public: true,
		MaxAge: cachecontrol.Duration(StaticCacheAge),
	})
	noStore := cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	})
	return func(c *gin.Context) {
		if production && strings.HasPrefix(c.Request.URL.Path, RouteStatic+"/") {
			c.Header("Vary", "Accept-Encoding")
			static(c)
			return
		}
		noStore(c)
	}
}
