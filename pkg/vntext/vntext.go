// Package vntext holds Vietnamese text helpers: diacritic stripping for
// bank-transfer payment references and localized currency formatting.
package vntext

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// đ/Đ do not decompose into a base letter plus a combining mark,
// so they need an explicit mapping.
var dReplacer = strings.NewReplacer("đ", "d", "Đ", "D")

var stripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripDiacritics removes Vietnamese diacritics from s, leaving plain
// ASCII letters: "Nguyễn Thị Tú Anh" becomes "Nguyen Thi Tu Anh".
// The operation is idempotent.
func StripDiacritics(s string) string {
	stripped, _, err := transform.String(stripper, s)
	if err != nil {
		// Transform only fails on malformed input; pass it through
		// with the đ mapping applied so callers still get a string.
		return dReplacer.Replace(s)
	}
	return dReplacer.Replace(stripped)
}

var vn = message.NewPrinter(language.Vietnamese)

// FormatVND renders a whole-VND amount the way vi-VN currency text is
// displayed: grouped digits followed by the đồng sign, e.g. "260.000 ₫".
func FormatVND(amount int64) string {
	return vn.Sprintf("%d ₫", amount)
}
