package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

type ctxKey string

const ctxKeyUser ctxKey = "user"

const (
	// authCookieName — cookie с access-токеном (альтернатива заголовку).
	authCookieName = "token"
	// cartTokenCookieName — cookie гостевой корзины; при наличии cookie
	// заголовок X-Cart-Token игнорируется.
	cartTokenCookieName = "cartToken"
	cartTokenHeaderName = "X-Cart-Token"

	cartTokenCookieTTL = 30 * 24 * time.Hour
)

// authenticate разбирает учётные данные запроса. Невалидный или
// отсутствующий токен не ошибка: запрос продолжается как гостевой.
func (a *API) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := a.auth.ParseToken(raw)
		if err != nil {
			a.logger.WithError(err).Debug("токен отклонён, запрос продолжается как гостевой")
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUser, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAuth отклоняет запросы без аутентифицированного пользователя.
func (a *API) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := userFrom(r); !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", domain.ErrAuthRequired.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger пишет access-лог в стиле остальных компонентов.
func (a *API) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		a.logger.WithFields(log.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Debug("http request")
	})
}

// bearerToken достаёт токен из Authorization (с префиксом Bearer или без)
// либо из cookie.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header != "" {
		if strings.HasPrefix(header, "Bearer ") {
			return strings.TrimPrefix(header, "Bearer ")
		}
		return header
	}
	if cookie, err := r.Cookie(authCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// userFrom возвращает аутентифицированного пользователя запроса.
func userFrom(r *http.Request) (domain.User, bool) {
	user, ok := r.Context().Value(ctxKeyUser).(domain.User)
	return user, ok
}

// cartTokenFrom возвращает гостевой токен запроса и признак того, что он
// пришёл из cookie. Cookie авторитетна; заголовок учитывается только при
// её отсутствии.
func cartTokenFrom(r *http.Request) (token string, fromCookie bool) {
	if cookie, err := r.Cookie(cartTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	return r.Header.Get(cartTokenHeaderName), false
}

// setCartTokenCookie сохраняет свежевыпущенный гостевой токен.
func setCartTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cartTokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cartTokenCookieTTL.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}
