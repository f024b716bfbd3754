// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package listing

import (
	"strconv"
	"strings"
	"unicode"
)

// Experience bands, in years.
const (
	BandJunior = "junior" // 0-3
	BandMid    = "mid"    // 4-6
	BandSenior = "senior" // 7+
)

// ExperienceBands lists the band selector values in display order.
var ExperienceBands = []string{BandJunior, BandMid, BandSenior}

// ParseYears reads the leading integer of a free-text experience field
// such as "7 years". It returns false when the text does not start with a
// number.
func ParseYears(text string) (int, bool) {
	text = strings.TrimSpace(text)
	end := 0
	for end < len(text) && unicode.IsDigit(rune(text[end])) {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(text[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// InBand reports whether the experience text falls in band. Text without a
// leading number matches no band, and an unknown band matches nothing.
func InBand(text, band string) bool {
	years, ok := ParseYears(text)
	if !ok {
		return false
	}
	switch band {
	case BandJunior:
		return years <= 3
	case BandMid:
		return years >= 4 && years <= 6
	case BandSenior:
		return years > 6
	}
	return false
}
