package rfm

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"rfm-analytics/internal/adapters/parse"
	"rfm-analytics/internal/adapters/tabular"
	"rfm-analytics/internal/domain"
	"rfm-analytics/internal/infra/metrics"
)

// Service реализует полный RFM-расчёт: нормализация схемы, разбор значений,
// агрегация по клиентам, квартильные баллы, подбор акций и сводка.
type Service struct {
	scorer domain.Scorer
	log    zerolog.Logger
}

var _ domain.Analyzer = (*Service)(nil)

// NewService создаёт сервис расчёта.
func NewService(scorer domain.Scorer, logger zerolog.Logger) *Service {
	return &Service{scorer: scorer, log: logger}
}

// Analyze считает сегментацию по двум файлам. Расчёт синхронный, состояние
// между запросами не сохраняется.
func (s *Service) Analyze(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisResult, error) {
	_ = ctx // расчёт не прерывается: начатый запрос доходит до конца или до ошибки

	transactions, err := tabular.ReadFrame(bytes.NewReader(req.TransactionsData))
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("чтение файла транзакций: %w", err)
	}
	customers, err := tabular.ReadFrame(bytes.NewReader(req.CustomersData))
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("чтение файла клиентов: %w", err)
	}

	transactions, customers, swapped, err := tabular.PrepareDatasets(transactions, customers)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	if swapped {
		metrics.FileSwapTotal.Inc()
		s.log.Info().Msg("rfm: файлы загружены в обратном порядке, роли переставлены")
	}

	rows, dropped := transactionRows(transactions)
	metrics.AddDroppedRows(dropped)
	if dropped > 0 {
		s.log.Debug().Int("dropped", dropped).Msg("rfm: строки с нераспознанной датой исключены")
	}

	records, err := aggregate(rows)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	if err := s.assignScores(records); err != nil {
		return domain.AnalysisResult{}, err
	}

	results := joinCustomers(records, customers)
	return domain.AnalysisResult{Summary: buildSummary(results), Records: results}, nil
}

// transactionRows разбирает строки файла транзакций. Суммы разбираются
// терпимо (нет числа — 0.0), строки без распознанной даты отбрасываются;
// dropped — их количество.
func transactionRows(frame tabular.Frame) (rows []domain.TransactionRow, dropped int) {
	dateIdx, _ := frame.ColumnIndex(tabular.ColPurchaseDate)
	customerIdx, _ := frame.ColumnIndex(tabular.ColCustomerID)
	txIdx, hasTxID := frame.ColumnIndex(tabular.ColTransactionID)
	amountIdx, hasAmount := frame.ColumnIndex(tabular.ColAmount)

	for _, raw := range frame.Rows {
		ts, ok := parse.Timestamp(frame.Cell(raw, dateIdx))
		if !ok {
			dropped++
			continue
		}
		row := domain.TransactionRow{
			CustomerID:  frame.Cell(raw, customerIdx),
			PurchasedAt: &ts,
		}
		if hasTxID {
			row.TransactionID = frame.Cell(raw, txIdx)
		}
		if hasAmount {
			row.Amount = parse.Amount(frame.Cell(raw, amountIdx))
		}
		rows = append(rows, row)
	}
	return rows, dropped
}

// aggregate группирует транзакции по клиенту и считает сырые метрики.
// Порядок групп — порядок первого появления клиента, что делает выдачу
// детерминированной для одинакового входа.
func aggregate(rows []domain.TransactionRow) ([]domain.RFMRecord, error) {
	if len(rows) == 0 {
		return nil, domain.ErrEmptyDataset
	}

	var reference time.Time
	for _, row := range rows {
		if row.PurchasedAt.After(reference) {
			reference = *row.PurchasedAt
		}
	}
	reference = reference.Add(24 * time.Hour)

	grouped := make(map[string][]domain.TransactionRow)
	order := make([]string, 0)
	for _, row := range rows {
		if _, ok := grouped[row.CustomerID]; !ok {
			order = append(order, row.CustomerID)
		}
		grouped[row.CustomerID] = append(grouped[row.CustomerID], row)
	}

	records := make([]domain.RFMRecord, 0, len(order))
	for _, customerID := range order {
		group := grouped[customerID]
		latest := *group[0].PurchasedAt
		monetary := 0.0
		for _, row := range group {
			if row.PurchasedAt.After(latest) {
				latest = *row.PurchasedAt
			}
			monetary += row.Amount
		}
		records = append(records, domain.RFMRecord{
			CustomerID:  customerID,
			RecencyDays: int(reference.Sub(latest).Hours() / 24),
			Frequency:   len(group),
			Monetary:    monetary,
		})
	}
	return records, nil
}

// assignScores считает баллы 1..4 независимо по трём метрикам и собирает код.
func (s *Service) assignScores(records []domain.RFMRecord) error {
	recency := make([]float64, len(records))
	frequency := make([]float64, len(records))
	monetary := make([]float64, len(records))
	for i, r := range records {
		recency[i] = float64(r.RecencyDays)
		frequency[i] = float64(r.Frequency)
		monetary[i] = r.Monetary
	}

	columns := []struct {
		name   string
		values []float64
		assign func(i, label int)
	}{
		{"recency", recency, func(i, label int) { records[i].RScore = label }},
		{"frequency", frequency, func(i, label int) { records[i].FScore = label }},
		{"monetary", monetary, func(i, label int) { records[i].MScore = label }},
	}
	for _, col := range columns {
		labels, fallback, err := s.scorer.Score(col.values)
		if err != nil {
			return fmt.Errorf("баллы по метрике %s: %w", col.name, err)
		}
		if fallback {
			metrics.IncRankFallback(col.name)
			s.log.Debug().Str("metric", col.name).Msg("rfm: границы квартилей совпали, разбиение по рангам")
		}
		for i, label := range labels {
			col.assign(i, label)
		}
	}

	for i := range records {
		records[i].Code = fmt.Sprintf("%d%d%d", records[i].RScore, records[i].FScore, records[i].MScore)
	}
	return nil
}

// joinCustomers присоединяет метаданные клиентов слева: запись сохраняется и
// без совпадения (все колонки клиента — null), клиенты без транзакций в
// выдачу не попадают. Дата регистрации приводится к каноническому виду.
func joinCustomers(records []domain.RFMRecord, customers tabular.Frame) []domain.ResultRecord {
	customerIdx, hasCustomerID := customers.ColumnIndex(tabular.ColCustomerID)

	byID := make(map[string][]string, len(customers.Rows))
	if hasCustomerID {
		for _, row := range customers.Rows {
			id := customers.Cell(row, customerIdx)
			if _, ok := byID[id]; !ok {
				byID[id] = row
			}
		}
	}

	results := make([]domain.ResultRecord, 0, len(records))
	for _, record := range records {
		attrs := make(map[string]any, len(customers.Columns))
		row, matched := byID[record.CustomerID]
		for i, col := range customers.Columns {
			if col == tabular.ColCustomerID {
				continue
			}
			if !matched {
				attrs[col] = nil
				continue
			}
			value := customers.Cell(row, i)
			if col == tabular.ColCreatedAt {
				attrs[col] = canonicalTimestamp(value)
				continue
			}
			attrs[col] = value
		}
		results = append(results, domain.ResultRecord{
			RFMRecord: record,
			Customer:  attrs,
			Offer:     domain.OfferForCode(record.Code),
		})
	}
	return results
}

func canonicalTimestamp(raw string) any {
	ts, ok := parse.Timestamp(raw)
	if !ok {
		return nil
	}
	return ts.Format(time.RFC3339)
}

// buildSummary считает сводку. Пустая выдача сюда не доходит (агрегатор
// раньше вернёт ErrEmptyDataset), но деление на ноль всё равно закрыто.
func buildSummary(results []domain.ResultRecord) domain.Summary {
	summary := domain.Summary{TotalCustomers: len(results)}
	if len(results) == 0 {
		return summary
	}
	for _, r := range results {
		summary.AvgRecency += float64(r.RecencyDays)
		summary.AvgFrequency += float64(r.Frequency)
		summary.AvgMonetary += r.Monetary
	}
	n := float64(len(results))
	summary.AvgRecency /= n
	summary.AvgFrequency /= n
	summary.AvgMonetary /= n
	return summary
}
