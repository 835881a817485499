package parse

import (
	"regexp"
	"strconv"
	"strings"
)

var amountPattern = regexp.MustCompile(`\d+(?:\.\d+)?|\.\d+`)

// Amount извлекает денежную сумму из произвольного текста: убирает запятые
// разрядов и берёт первую последовательность цифр, допускающую одну
// десятичную точку. Разбор намеренно терпимый и без ошибок: если числа в
// тексте нет, возвращается 0.0.
func Amount(value string) float64 {
	cleaned := strings.ReplaceAll(value, ",", "")
	match := amountPattern.FindString(cleaned)
	if match == "" {
		return 0.0
	}
	amount, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0.0
	}
	return amount
}
