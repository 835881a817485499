package parse

import (
	"strings"
	"time"
)

// Формат дат в выгрузках магазина фиксированный: "2024/03/05 07:45 PM (MSK)".
// Второй вариант принимает часы без ведущего нуля.
var timestampLayouts = []string{
	"2006/01/02 03:04 PM (MSK)",
	"2006/01/02 3:04 PM (MSK)",
}

// Timestamp разбирает дату покупки. Нераспознанные значения не считаются
// ошибкой запроса: строка помечается и исключается из агрегации.
func Timestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
