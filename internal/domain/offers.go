package domain

// Segment описывает класс клиента по RFM-коду.
type Segment string

const (
	SegmentVIP      Segment = "VIP"
	SegmentLoyal    Segment = "Loyal"
	SegmentRegular  Segment = "Regular"
	SegmentInactive Segment = "Inactive"
)

// segmentCodes перечисляет коды с явной привязкой; все остальные коды
// относятся к Inactive.
var segmentCodes = map[string]Segment{
	"444": SegmentVIP,
	"344": SegmentVIP,
	"434": SegmentVIP,
	"144": SegmentLoyal,
	"244": SegmentLoyal,
	"411": SegmentRegular,
	"311": SegmentRegular,
}

// offers — неизменяемый каталог акций, по одной на сегмент.
var offers = map[Segment]Offer{
	SegmentVIP: {
		Description: "Вы наш лучший клиент! 🎉 Получите -20% на следующий заказ!",
		Link:        "https://shop.com/vip-offer",
	},
	SegmentLoyal: {
		Description: "Купите 2 товара — получите 3-й бесплатно! 🎁",
		Link:        "https://shop.com/loyalty",
	},
	SegmentRegular: {
		Description: "Персональная скидка -15% на ваш следующий заказ! 🔥",
		Link:        "https://shop.com/special-deal",
	},
	SegmentInactive: {
		Description: "Дарим 500 бонусов за возвращение! 💰",
		Link:        "https://shop.com/welcome-back",
	},
}

// SegmentForCode возвращает сегмент для RFM-кода.
func SegmentForCode(code string) Segment {
	if segment, ok := segmentCodes[code]; ok {
		return segment
	}
	return SegmentInactive
}

// OfferForCode возвращает акцию для RFM-кода. Отображение тотально:
// любой код получает ровно одну акцию.
func OfferForCode(code string) Offer {
	return offers[SegmentForCode(code)]
}
