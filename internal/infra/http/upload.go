package http

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"rfm-analytics/internal/domain"
	"rfm-analytics/internal/infra/metrics"
)

// Имена файловых полей multipart-формы.
const (
	FieldTransactions = "transactions_file"
	FieldCustomers    = "customers_file"
)

// UploadHandler принимает два файла, запускает расчёт и отдаёт результат.
// Любая ошибка самого расчёта сворачивается в тело {"error": сообщение} —
// отдельных кодов ошибок наружу нет, процесс на плохом запросе не падает.
func UploadHandler(analyzer domain.Analyzer, logger zerolog.Logger, maxUploadBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		defer r.Body.Close()

		analysisID := uuid.NewString()
		log := logger.With().Str("analysis_id", analysisID).Logger()

		txData, txName, err := formFile(r, FieldTransactions)
		if err != nil {
			writeError(w, http.StatusBadRequest, "не удалось прочитать файл транзакций")
			return
		}
		custData, custName, err := formFile(r, FieldCustomers)
		if err != nil {
			writeError(w, http.StatusBadRequest, "не удалось прочитать файл клиентов")
			return
		}

		start := time.Now()
		result, err := analyzer.Analyze(r.Context(), domain.AnalysisRequest{
			TransactionsData: txData,
			CustomersData:    custData,
		})
		metrics.ObserveAnalysis(start, err)
		if err != nil {
			log.Warn().Err(err).Msg("upload: расчёт завершился ошибкой")
			writeJSON(w, map[string]any{"error": err.Error()})
			return
		}

		log.Info().
			Int("customers", result.Summary.TotalCustomers).
			Dur("took", time.Since(start)).
			Msg("upload: расчёт завершён")

		writeJSON(w, map[string]any{
			"filename_transactions": txName,
			"filename_customers":    custName,
			"summary":               result.Summary,
			"rfm_analysis":          result.Records,
		})
	}
}

// RootHandler отвечает подсказкой на GET /.
func RootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{
			"message": "Загрузите файлы transactions.csv и customers.csv для RFM-анализа.",
		})
	}
}

func formFile(r *http.Request, field string) ([]byte, string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", err
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return data, header.Filename, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": msg})
}
