package core

import (
	"strconv"
	"strings"

	"github.com/xonecas/minichat/internal/constants"
)

var nameStripper = strings.NewReplacer("<", "", ">", "")

// SanitizeName trims the name, strips angle brackets and caps it at
// constants.MaxNameLength runes.
func SanitizeName(s string) string {
	s = nameStripper.Replace(strings.TrimSpace(s))
	runes := []rune(s)
	if len(runes) > constants.MaxNameLength {
		runes = runes[:constants.MaxNameLength]
	}
	return string(runes)
}

// GenerateName returns a seed name followed by a number in [10, 99].
func GenerateName(r Rand) string {
	return Pick(r, constants.NameSeeds) + strconv.Itoa(10+r.IntN(90))
}

// ResolveName turns modal input into a display name, generating one when
// the input is blank or sanitizes to nothing.
func ResolveName(input string, r Rand) string {
	if name := SanitizeName(input); name != "" {
		return name
	}
	return GenerateName(r)
}

// Initials returns up to two uppercase initials for an avatar badge.
func Initials(name string) string {
	var b strings.Builder
	count := 0
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			b.WriteRune(r)
			break
		}
		count++
		if count == 2 {
			break
		}
	}
	return strings.ToUpper(b.String())
}
