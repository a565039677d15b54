package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/dayeon/concert-seat-reservation/internal/config"
)

// captureWriter captures the response body and status while forwarding
// to the client, so a successful response can be stored after the
// handler runs.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 || cw.size < cw.limit {
		remain := cw.limit - cw.size
		if cw.limit <= 0 || int64(len(b)) <= remain {
			cw.buf.Write(b)
		} else if remain > 0 {
			cw.buf.Write(b[:remain])
		}
		cw.size += int64(len(b))
	}
	return cw.ResponseWriter.Write(b)
}

// cacheKey hashes the route and query under the configured prefix.
// Seat maps differ per concert, so the route parameters must be part
// of the key; using the raw URL path covers that.
func cacheKey(cfg config.CacheConfig, c echo.Context) string {
	r := c.Request()
	sum := sha1.Sum([]byte(r.Method + ":" + r.URL.Path + "?" + r.URL.RawQuery))
	var b strings.Builder
	b.WriteString(cfg.Prefix)
	b.WriteByte(':')
	const hexdigits = "0123456789abcdef"
	for _, x := range sum {
		b.WriteByte(hexdigits[x>>4])
		b.WriteByte(hexdigits[x&0x0f])
	}
	return b.String()
}

// payload layout: [4 bytes status][content type][0x00][body]
func encodePayload(status int, contentType string, body []byte) []byte {
	out := make([]byte, 0, 4+len(contentType)+1+len(body))
	var st [4]byte
	binary.BigEndian.PutUint32(st[:], uint32(status))
	out = append(out, st[:]...)
	out = append(out, contentType...)
	out = append(out, 0x00)
	out = append(out, body...)
	return out
}

func decodePayload(bs []byte) (status int, contentType string, body []byte, ok bool) {
	if len(bs) < 5 {
		return 0, "", nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	rest := bs[4:]
	sep := bytes.IndexByte(rest, 0x00)
	if sep < 0 {
		return 0, "", nil, false
	}
	return status, string(rest[:sep]), rest[sep+1:], true
}

// NewRedisCache caches successful GET responses in redis.  Browse
// responses (concert list, seat maps) are read-heavy and tolerate the
// short TTL of staleness; reservation endpoints must never go through
// this middleware.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	maxBody := int64(cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}

			ctx := c.Request().Context()
			key := cacheKey(cfg, c)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, contentType, body, ok := decodePayload(bs); ok {
					c.Response().Header().Set(echo.HeaderContentType, contentType)
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					if len(body) > 0 {
						_, _ = c.Response().Write(body)
					}
					return nil
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			body := cw.buf.Bytes()
			if cw.status == http.StatusOK && (maxBody <= 0 || cw.size <= maxBody) {
				payload := encodePayload(cw.status, c.Response().Header().Get(echo.HeaderContentType), body)
				_ = rdb.SetEx(context.Background(), key, payload, ttl).Err()
			}
			return nil
		}
	}
}
