package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiter ограничитель запросов с фиксированным окном в Redis.
// Общий для всех экземпляров сервиса.
type RateLimiter struct {
	rdb     redis.Scripter
	limit   int
	window  time.Duration
	prefix  string
	trusted []netip.Prefix
	logger  *zap.Logger
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// NewRateLimiter создаёт ограничитель. X-Forwarded-For учитывается только
// для соединений от trustedProxies.
func NewRateLimiter(rdb redis.Scripter, limit int, window time.Duration, trustedProxies []netip.Prefix, logger *zap.Logger) *RateLimiter {
	if limit <= 0 {
		limit = 120
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		rdb:     rdb,
		limit:   limit,
		window:  window,
		prefix:  "room_booking:rl",
		trusted: trustedProxies,
		logger:  logger,
	}
}

// Middleware отвечает 429 после limit запросов клиента за окно.
// Если Redis недоступен, запрос пропускается.
func (rl *RateLimiter) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			count, err := rl.incr(r.Context(), rl.prefix+":"+rl.clientKey(r))
			if err != nil {
				rl.logger.Warn("Rate limiter unavailable", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if count > int64(rl.limit) {
				w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) incr(ctx context.Context, key string) (int64, error) {
	res, err := fixedWindowScript.Run(ctx, rl.rdb, []string{key}, rl.window.Milliseconds()).Result()
	if err != nil {
		return 0, err
	}
	switch v := res.(type) {
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected redis script result type %T", res)
	}
}

// clientKey адрес клиента. Цепочка X-Forwarded-For разбирается справа налево,
// пока адреса принадлежат доверенным прокси; первый чужой адрес и есть клиент.
func (rl *RateLimiter) clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	remote, err := netip.ParseAddr(host)
	if err != nil || !rl.isTrusted(remote) {
		return host
	}

	hops := strings.Split(strings.Join(r.Header.Values("X-Forwarded-For"), ","), ",")
	client := host
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		addr, err := netip.ParseAddr(hop)
		if err != nil {
			// мусор в заголовке: дальше цепочке не верим
			return client
		}
		client = addr.Unmap().String()
		if !rl.isTrusted(addr) {
			return client
		}
	}
	return client
}

func (rl *RateLimiter) isTrusted(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, p := range rl.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
