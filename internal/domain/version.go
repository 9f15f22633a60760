package domain

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// FirstVersion is assigned when a position has no stored profile yet.
const FirstVersion = "1.0"

// NextVersion returns the highest numeric version plus 0.1, formatted with
// one decimal. Non-numeric tags are ignored; if none are numeric the base is
// 1.0. With no versions at all the result is FirstVersion.
func NextVersion(versions []string) string {
	if len(versions) == 0 {
		return FirstVersion
	}
	found := false
	highest := 1.0
	for _, v := range versions {
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			continue
		}
		if !found || n > highest {
			highest = n
			found = true
		}
	}
	next := math.Round((highest+0.1)*10) / 10
	return strconv.FormatFloat(next, 'f', 1, 64)
}

// PeriodicityFromText maps a position's free-text EMO periodicity
// ("Semestral", "anual", "24 meses", ...) to months. Unrecognized text
// returns DefaultPeriodicity.
func PeriodicityFromText(s string) Periodicity {
	words := strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		switch w {
		case "semestral", "6":
			return PeriodicitySemiannual
		case "bianual", "bienal", "24":
			return PeriodicityBiennial
		case "trienal", "36":
			return PeriodicityTriennial
		case "anual", "12":
			return PeriodicityAnnual
		}
	}
	return DefaultPeriodicity
}
