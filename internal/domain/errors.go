package domain

import "errors"

// ErrSchema возвращается, когда в транзакциях после проверки на перепутанные
// файлы всё ещё нет обязательной колонки.
var ErrSchema = errors.New("в данных транзакций нет обязательных колонок")

// ErrEmptyDataset возвращается, когда после отбрасывания нераспознанных дат
// не осталось ни одной транзакции.
var ErrEmptyDataset = errors.New("после фильтрации дат не осталось ни одной транзакции")

// ErrNoValues возвращается скорером на пустую колонку метрики.
var ErrNoValues = errors.New("нет значений для разбиения на квартили")
