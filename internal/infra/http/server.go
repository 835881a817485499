package http

import (
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"
)

// Server оборачивает chi.Router с базовыми middlewares и CORS для фронтенда.
type Server struct {
	Router chi.Router
	cors   func(http.Handler) http.Handler
}

// NewServer создаёт роутер сервиса. allowedOrigin — origin фронтенда,
// которому разрешены кросс-доменные запросы с куками.
func NewServer(allowedOrigin string) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{allowedOrigin}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.AllowCredentials(),
	)

	return &Server{Router: r, cors: cors}
}

// Handler возвращает итоговый обработчик с CORS поверх роутера.
func (s *Server) Handler() http.Handler {
	return s.cors(s.Router)
}
