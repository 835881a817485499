package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	AnalysisRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rfm_analysis_requests_total",
		Help: "Общее количество запросов на RFM-расчёт",
	})
	AnalysisFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rfm_analysis_failures_total",
		Help: "Количество запросов, завершившихся ошибкой",
	})
	AnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "rfm_analysis_duration_seconds",
		Help:    "Время полного RFM-расчёта",
		Buckets: prometheus.DefBuckets,
	})
	DroppedRowsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rfm_dropped_rows_total",
		Help: "Строки транзакций, исключённые из-за нераспознанной даты",
	})
	RankFallbackTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rfm_rank_fallback_total",
		Help: "Срабатывания рангового запасного разбиения по метрикам",
	}, []string{"metric"})
	FileSwapTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rfm_file_swap_total",
		Help: "Запросы с перепутанным порядком загрузки файлов",
	})
)

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		AnalysisRequestsTotal,
		AnalysisFailuresTotal,
		AnalysisDuration,
		DroppedRowsTotal,
		RankFallbackTotal,
		FileSwapTotal,
	)
}

// ObserveAnalysis записывает длительность и исход одного расчёта.
func ObserveAnalysis(start time.Time, err error) {
	AnalysisRequestsTotal.Inc()
	AnalysisDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		AnalysisFailuresTotal.Inc()
	}
}

// AddDroppedRows учитывает исключённые строки транзакций.
func AddDroppedRows(n int) {
	if n > 0 {
		DroppedRowsTotal.Add(float64(n))
	}
}

// IncRankFallback учитывает срабатывание запасного разбиения для метрики.
func IncRankFallback(metric string) {
	RankFallbackTotal.WithLabelValues(metric).Inc()
}

// StartServer запускает HTTP сервер с эндпоинтом /metrics.
func StartServer(ctx context.Context, logger zerolog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: graceful shutdown failed")
		}
	}()

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics: server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: server stopped")
		}
	}()
}
