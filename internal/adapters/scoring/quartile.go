package scoring

import (
	"sort"

	"rfm-analytics/internal/domain"
)

const bins = 4

// QuartileScorer реализует domain.Scorer квартильным разбиением в духе
// pandas.qcut: границы — интерполированные квантили, интервалы закрыты
// справа. Если значения настолько однородны, что границы совпали,
// разбиение повторяется по рангам значений (при равенстве ранг получает
// более раннее вхождение), что даёт невырожденные корзины при n >= 2.
type QuartileScorer struct{}

var _ domain.Scorer = QuartileScorer{}

// NewQuartile создаёт скорер.
func NewQuartile() QuartileScorer {
	return QuartileScorer{}
}

// Score присваивает каждому значению колонки балл 1..4.
// Единственному клиенту квартили не определены: он получает балл 1.
func (QuartileScorer) Score(values []float64) ([]int, bool, error) {
	if len(values) == 0 {
		return nil, false, domain.ErrNoValues
	}
	if len(values) == 1 {
		return []int{1}, false, nil
	}

	if edges, ok := quantileEdges(values); ok {
		return cut(values, edges), false, nil
	}

	ranks := firstOccurrenceRanks(values)
	edges, _ := quantileEdges(ranks)
	return cut(ranks, edges), true, nil
}

// quantileEdges считает границы четырёх корзин линейной интерполяцией по
// отсортированной копии. ok=false при совпавших границах.
func quantileEdges(values []float64) ([]float64, bool) {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	edges := make([]float64, bins+1)
	for i := 0; i <= bins; i++ {
		edges[i] = interpolate(sorted, float64(i)/bins)
	}
	for i := 0; i < bins; i++ {
		if edges[i] == edges[i+1] {
			return nil, false
		}
	}
	return edges, true
}

func interpolate(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// cut раскладывает значения по корзинам: корзина i покрывает
// (edges[i-1], edges[i]], первая дополнительно включает левую границу.
func cut(values, edges []float64) []int {
	labels := make([]int, len(values))
	for i, v := range values {
		label := bins
		for b := 1; b <= bins; b++ {
			if v <= edges[b] {
				label = b
				break
			}
		}
		labels[i] = label
	}
	return labels
}

// firstOccurrenceRanks возвращает ранги 1..n по возрастанию значения;
// равные значения ранжируются в порядке появления.
func firstOccurrenceRanks(values []float64) []float64 {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	ranks := make([]float64, len(values))
	for rank, idx := range order {
		ranks[idx] = float64(rank + 1)
	}
	return ranks
}
