package tabular

import (
	"fmt"

	"rfm-analytics/internal/domain"
)

// PrepareDatasets приводит оба файла к каноническим именам колонок и
// исправляет перепутанный порядок загрузки: если дата покупки нашлась в
// файле клиентов, а не в файле транзакций, файлы меняются ролями
// (swapped=true). После проверки транзакции обязаны содержать
// PurchaseDate и CustomerID.
func PrepareDatasets(transactions, customers Frame) (tx, cust Frame, swapped bool, err error) {
	transactions.NormalizeColumns()
	customers.NormalizeColumns()

	if !transactions.HasColumn(ColPurchaseDate) && customers.HasColumn(ColPurchaseDate) {
		transactions, customers = customers, transactions
		swapped = true
	}

	for _, required := range []string{ColPurchaseDate, ColCustomerID} {
		if !transactions.HasColumn(required) {
			return Frame{}, Frame{}, false, fmt.Errorf("%w: %s", domain.ErrSchema, required)
		}
	}
	return transactions, customers, swapped, nil
}
