package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

const pingTimeout = 5 * time.Second

// DBHealth is the body served by the database health endpoint.
type DBHealth struct {
	Status string    `json:"status"`
	PingMS int64     `json:"ping_ms"`
	Error  string    `json:"error,omitempty"`
	Conns  ConnStats `json:"connections"`
}

// ConnStats is a snapshot of the connection pool.
type ConnStats struct {
	Open      int32 `json:"open"`
	Idle      int32 `json:"idle"`
	InUse     int32 `json:"in_use"`
	Max       int32 `json:"max"`
	WaitCount int64 `json:"wait_count"`
}

func snapshotConns(pool *pgxpool.Pool) ConnStats {
	st := pool.Stat()
	return ConnStats{
		Open:      st.TotalConns(),
		Idle:      st.IdleConns(),
		InUse:     st.AcquiredConns(),
		Max:       st.MaxConns(),
		WaitCount: st.EmptyAcquireCount(),
	}
}

// HealthHandler serves the database health endpoint: a bounded ping plus a
// pool snapshot, 503 when the ping fails.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), pingTimeout)
		defer cancel()

		start := time.Now()
		err := pool.Ping(ctx)

		body := DBHealth{
			Status: "up",
			PingMS: time.Since(start).Milliseconds(),
			Conns:  snapshotConns(pool),
		}
		if err != nil {
			body.Status = "down"
			body.Error = err.Error()
			return c.JSON(http.StatusServiceUnavailable, body)
		}
		return c.JSON(http.StatusOK, body)
	}
}
