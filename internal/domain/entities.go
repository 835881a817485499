package domain

import (
	"encoding/json"
	"time"
)

// TransactionRow описывает одно событие покупки из файла транзакций.
type TransactionRow struct {
	CustomerID    string
	TransactionID string
	PurchasedAt   *time.Time // nil, если дата не распозналась
	Amount        float64
}

// CustomerRow описывает метаданные клиента; колонки передаются как есть.
type CustomerRow struct {
	CustomerID string
	Attributes map[string]any
}

// RFMRecord содержит сырые метрики и баллы одного клиента.
type RFMRecord struct {
	CustomerID  string
	RecencyDays int
	Frequency   int
	Monetary    float64
	RScore      int
	FScore      int
	MScore      int
	Code        string // конкатенация трёх баллов, например "444"
}

// Offer описывает акцию из фиксированного каталога.
type Offer struct {
	Description string `json:"description"`
	Link        string `json:"link"`
}

// ResultRecord объединяет метрики клиента, его метаданные и подобранную акцию.
type ResultRecord struct {
	RFMRecord
	Customer map[string]any // все колонки файла клиентов; nil-значения при отсутствии совпадения
	Offer    Offer
}

// MarshalJSON разворачивает запись в плоский объект: метаданные клиента лежат
// рядом с метриками, акция — в поле LoyaltyOffer.
func (r ResultRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Customer)+9)
	for k, v := range r.Customer {
		if k == "CustomerID" {
			continue
		}
		out[k] = v
	}
	out["CustomerID"] = r.CustomerID
	out["Recency"] = r.RecencyDays
	out["Frequency"] = r.Frequency
	out["Monetary"] = r.Monetary
	out["R_Score"] = r.RScore
	out["F_Score"] = r.FScore
	out["M_Score"] = r.MScore
	out["RFM_Score"] = r.Code
	out["LoyaltyOffer"] = r.Offer
	return json.Marshal(out)
}

// Summary содержит агрегаты по всем записям одного запроса.
type Summary struct {
	TotalCustomers int     `json:"total_customers"`
	AvgRecency     float64 `json:"avg_recency"`
	AvgFrequency   float64 `json:"avg_frequency"`
	AvgMonetary    float64 `json:"avg_monetary"`
}

// AnalysisRequest содержит два загруженных файла целиком.
type AnalysisRequest struct {
	TransactionsData []byte
	CustomersData    []byte
}

// AnalysisResult — итог одного запроса: сводка и записи по клиентам.
type AnalysisResult struct {
	Summary Summary        `json:"summary"`
	Records []ResultRecord `json:"rfm_analysis"`
}
