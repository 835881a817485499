package tabular

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// Имена колонок, на которые опирается расчёт.
const (
	ColPurchaseDate  = "PurchaseDate"
	ColCustomerID    = "CustomerID"
	ColTransactionID = "TransactionID"
	ColAmount        = "TransactionAmount"
	ColCreatedAt     = "created_at"
)

// ErrNoHeader возвращается на файл без строки заголовка.
var ErrNoHeader = errors.New("файл не содержит строки заголовка")

// Frame хранит один табличный файл целиком: заголовок и строки.
type Frame struct {
	Columns []string
	Rows    [][]string
}

// ReadFrame читает табличный файл с заголовком (CSV, UTF-8).
func ReadFrame(r io.Reader) (Frame, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return Frame{}, err
	}
	if len(records) == 0 {
		return Frame{}, ErrNoHeader
	}
	return Frame{Columns: records[0], Rows: records[1:]}, nil
}

// ColumnIndex возвращает позицию колонки.
func (f Frame) ColumnIndex(name string) (int, bool) {
	for i, col := range f.Columns {
		if col == name {
			return i, true
		}
	}
	return 0, false
}

// HasColumn сообщает, есть ли колонка в заголовке.
func (f Frame) HasColumn(name string) bool {
	_, ok := f.ColumnIndex(name)
	return ok
}

// Cell возвращает значение строки в колонке с данным индексом.
// Короткие строки отдают пустую строку.
func (f Frame) Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// NormalizeColumns приводит имена колонок к каноническому виду:
// обрезает краевые пробелы и удаляет внутренние.
func (f *Frame) NormalizeColumns() {
	for i, col := range f.Columns {
		f.Columns[i] = strings.ReplaceAll(strings.TrimSpace(col), " ", "")
	}
}
