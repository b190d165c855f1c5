package formatting

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidPrice = errors.New("invalid price")

// maxRubles - наибольшая сумма в рублях, копейки которой помещаются в int64
const maxRubles = math.MaxInt64 / 100

// FormatPrice форматирует цену из копеек в рубли
func FormatPrice(kopecks int64) string {
	return fmt.Sprintf("%.2f ₽", float64(kopecks)/100)
}

// FormatPriceShort форматирует цену без копеек если они равны 0
func FormatPriceShort(kopecks int64) string {
	if kopecks%100 == 0 {
		return fmt.Sprintf("%d ₽", kopecks/100)
	}
	return FormatPrice(kopecks)
}

// ParsePrice разбирает сумму в рублях ("1500", "1500.50", "1500,5") в копейки
func ParsePrice(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, ErrInvalidPrice
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) >= maxRubles {
		return 0, ErrInvalidPrice
	}
	return int64(math.Round(v * 100)), nil
}
