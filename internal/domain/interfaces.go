package domain

import "context"

// Scorer разбивает колонку одной метрики на ординальные баллы 1..4
// (1 — наименьшие значения). Направление одинаково для всех трёх метрик,
// включая Recency: большее число дней с последней покупки даёт больший балл.
// rankFallback сообщает, что границы квартилей совпали и разбиение
// выполнено по рангам в порядке первого появления.
type Scorer interface {
	Score(values []float64) (labels []int, rankFallback bool, err error)
}

// Analyzer выполняет полный RFM-расчёт по двум загруженным файлам.
type Analyzer interface {
	Analyze(ctx context.Context, req AnalysisRequest) (AnalysisResult, error)
}
