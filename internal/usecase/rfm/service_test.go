package rfm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"rfm-analytics/internal/adapters/scoring"
	"rfm-analytics/internal/domain"
)

const transactionsCSV = "TransactionID,CustomerID,PurchaseDate,TransactionAmount\n" +
	"T1,C1,2024/03/01 10:00 AM (MSK),$100\n" +
	"T2,C1,2024/03/02 10:00 AM (MSK),$100\n" +
	"T3,C1,2024/03/03 10:00 AM (MSK),$100\n" +
	"T4,C1,2024/03/04 10:00 AM (MSK),$100\n" +
	"T5,C2,2023/03/05 10:00 AM (MSK),$10\n"

const customersCSV = "CustomerID,created_at,email\n" +
	"C1,2022/01/10 09:30 AM (MSK),c1@example.com\n" +
	"C2,2022/05/20 11:00 AM (MSK),c2@example.com\n" +
	"C3,2023/07/01 08:15 PM (MSK),c3@example.com\n"

func newTestService() *Service {
	return NewService(scoring.NewQuartile(), zerolog.Nop())
}

func analyze(t *testing.T, transactions, customers string) domain.AnalysisResult {
	t.Helper()
	result, err := newTestService().Analyze(context.Background(), domain.AnalysisRequest{
		TransactionsData: []byte(transactions),
		CustomersData:    []byte(customers),
	})
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	return result
}

func recordByID(t *testing.T, result domain.AnalysisResult, id string) domain.ResultRecord {
	t.Helper()
	for _, r := range result.Records {
		if r.CustomerID == id {
			return r
		}
	}
	t.Fatalf("клиент %s не найден в выдаче", id)
	return domain.ResultRecord{}
}

func TestAnalyzeEndToEnd(t *testing.T) {
	result := analyze(t, transactionsCSV, customersCSV)

	if result.Summary.TotalCustomers != 2 {
		t.Fatalf("ожидали 2 клиентов (C3 без покупок исключается), получили %d", result.Summary.TotalCustomers)
	}

	c1 := recordByID(t, result, "C1")
	c2 := recordByID(t, result, "C2")

	if c1.Frequency != 4 || c2.Frequency != 1 {
		t.Fatalf("ожидали частоты 4 и 1, получили %d и %d", c1.Frequency, c2.Frequency)
	}
	if c1.Monetary != 400 || c2.Monetary != 10 {
		t.Fatalf("ожидали суммы 400 и 10, получили %v и %v", c1.Monetary, c2.Monetary)
	}
	if c1.FScore <= c2.FScore || c1.MScore <= c2.MScore {
		t.Fatalf("C1 должен опережать C2 по Frequency и Monetary: %+v против %+v", c1.RFMRecord, c2.RFMRecord)
	}
	// Recency оценивается в том же возрастающем направлении, что и
	// остальные метрики: недавний C1 получает низкий R-балл.
	if c1.Code != "144" {
		t.Fatalf("ожидали код 144 для C1, получили %s", c1.Code)
	}
	if c2.Code != "411" {
		t.Fatalf("ожидали код 411 для C2, получили %s", c2.Code)
	}
	if c1.Offer != domain.OfferForCode("144") {
		t.Fatalf("акция C1 не совпала с каталогом")
	}

	if c1.Customer["email"] != "c1@example.com" {
		t.Fatalf("метаданные клиента не присоединились: %v", c1.Customer)
	}
	if c1.Customer["created_at"] != "2022-01-10T09:30:00Z" {
		t.Fatalf("ожидали каноничную дату регистрации, получили %v", c1.Customer["created_at"])
	}

	if result.Summary.AvgFrequency != 2.5 || result.Summary.AvgMonetary != 205 {
		t.Fatalf("сводка посчитана неверно: %+v", result.Summary)
	}
}

func TestAnalyzeSwappedFilesGiveSameResult(t *testing.T) {
	straight := analyze(t, transactionsCSV, customersCSV)
	swapped := analyze(t, customersCSV, transactionsCSV)

	a, err := json.Marshal(straight)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := json.Marshal(swapped)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("перепутанный порядок файлов должен давать идентичный результат")
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	first, err := json.Marshal(analyze(t, transactionsCSV, customersCSV))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := json.Marshal(analyze(t, transactionsCSV, customersCSV))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("одинаковый вход должен давать байт-в-байт одинаковую выдачу")
	}
}

func TestAnalyzeUnmatchedCustomer(t *testing.T) {
	transactions := "TransactionID,CustomerID,PurchaseDate,TransactionAmount\n" +
		"T1,C9,2024/03/01 10:00 AM (MSK),50\n"
	result := analyze(t, transactions, customersCSV)

	c9 := recordByID(t, result, "C9")
	if c9.Customer["email"] != nil || c9.Customer["created_at"] != nil {
		t.Fatalf("без совпадения метаданные должны быть null: %v", c9.Customer)
	}
	if c9.Offer.Link == "" {
		t.Fatalf("акция должна назначаться и без метаданных")
	}
}

func TestAnalyzeDropsUnparseableDates(t *testing.T) {
	transactions := "TransactionID,CustomerID,PurchaseDate,TransactionAmount\n" +
		"T1,C1,2024/03/01 10:00 AM (MSK),100\n" +
		"T2,C1,не дата,100\n" +
		"T3,C2,,100\n" +
		"T4,C2,2024/03/02 10:00 AM (MSK),100\n"
	result := analyze(t, transactions, customersCSV)

	c1 := recordByID(t, result, "C1")
	c2 := recordByID(t, result, "C2")
	if c1.Frequency != 1 || c2.Frequency != 1 {
		t.Fatalf("строки с нераспознанной датой должны исключаться: %d, %d", c1.Frequency, c2.Frequency)
	}
}

func TestAnalyzeLenientAmounts(t *testing.T) {
	transactions := "TransactionID,CustomerID,PurchaseDate,TransactionAmount\n" +
		"T1,C1,2024/03/01 10:00 AM (MSK),\"1,234.56 RUB\"\n" +
		"T2,C2,2024/03/02 10:00 AM (MSK),no number\n"
	result := analyze(t, transactions, customersCSV)

	if got := recordByID(t, result, "C1").Monetary; got != 1234.56 {
		t.Fatalf("ожидали 1234.56, получили %v", got)
	}
	if got := recordByID(t, result, "C2").Monetary; got != 0 {
		t.Fatalf("текст без числа должен давать 0.0, получили %v", got)
	}
}

func TestAnalyzeEmptyAfterDateFilter(t *testing.T) {
	transactions := "TransactionID,CustomerID,PurchaseDate,TransactionAmount\n" +
		"T1,C1,вчера,100\n"
	_, err := newTestService().Analyze(context.Background(), domain.AnalysisRequest{
		TransactionsData: []byte(transactions),
		CustomersData:    []byte(customersCSV),
	})
	if !errors.Is(err, domain.ErrEmptyDataset) {
		t.Fatalf("ожидали ErrEmptyDataset, получили %v", err)
	}
}

func TestAnalyzeSchemaError(t *testing.T) {
	noDates := "CustomerID,TransactionAmount\nC1,100\n"
	_, err := newTestService().Analyze(context.Background(), domain.AnalysisRequest{
		TransactionsData: []byte(noDates),
		CustomersData:    []byte("CustomerID,email\nC1,c1@example.com\n"),
	})
	if !errors.Is(err, domain.ErrSchema) {
		t.Fatalf("ожидали ErrSchema, получили %v", err)
	}
}

func TestBuildSummaryEmptyGuard(t *testing.T) {
	summary := buildSummary(nil)
	if summary.TotalCustomers != 0 || summary.AvgRecency != 0 || summary.AvgMonetary != 0 {
		t.Fatalf("пустая выдача должна давать нулевую сводку: %+v", summary)
	}
}
