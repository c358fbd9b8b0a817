// Ограничение частоты публичных заявок: на каждый адрес клиента заводится
// свой token bucket с ёмкостью в размер окна, так что за любой скользящий
// час с одного адреса проходит не больше разрешённого числа запросов.
//
// Ключ лимитера — хост из RemoteAddr. Если сервис стоит за доверенным
// прокси, в конфиге включается trust_proxy и приложение ставит перед
// лимитером chi middleware.RealIP, подменяющий RemoteAddr адресом из
// X-Forwarded-For / X-Real-IP.
package middlewarectx

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/manup-inc/sisterhood-backend/internal/config"
	"github.com/manup-inc/sisterhood-backend/internal/http/response"
	"github.com/manup-inc/sisterhood-backend/internal/metrics"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LimiterStore хранит лимитеры по адресам клиентов. Состояние живет только
// в памяти процесса: записи, простоявшие без обращений два окна, удаляются.
type LimiterStore struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	window    time.Duration
	lastSweep time.Time
}

// NewLimiterStore создает хранилище лимитеров: burst равен размеру окна,
// пополнение — requests за window.
func NewLimiterStore(cfg config.RateLimit) *LimiterStore {
	return &LimiterStore{
		visitors:  make(map[string]*visitor),
		limit:     rate.Limit(float64(cfg.Requests) / cfg.Window.Seconds()),
		burst:     cfg.Requests,
		window:    cfg.Window,
		lastSweep: time.Now(),
	}
}

// Allow атомарно проверяет и учитывает попытку с указанного адреса.
func (s *LimiterStore) Allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if now.Sub(s.lastSweep) > s.window {
		for k, v := range s.visitors {
			if now.Sub(v.lastSeen) > 2*s.window {
				delete(s.visitors, k)
			}
		}
		s.lastSweep = now
	}

	v, ok := s.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.Allow()
}

// RateLimitMiddleware отклоняет запрос с кодом 429 до чтения тела,
// если адрес клиента исчерпал лимит попыток в текущем окне.
func RateLimitMiddleware(store *LimiterStore, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RateLimitMiddleware"

			key := clientAddress(r)
			if !store.Allow(key) {
				log.Error("too many signup attempts",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("address", key),
				)
				metrics.SignupsRejected.WithLabelValues("rate_limited").Inc()
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many signup attempts, please try again later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
