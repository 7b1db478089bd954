// Package payment builds the bank-transfer QR reference for an order.
// It only constructs strings; settlement is never verified here.
package payment

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bizzon-vn/bepnhanga/internal/config"
	"github.com/bizzon-vn/bepnhanga/pkg/vntext"
)

// Description builds the free-text transfer memo a payer's banking app
// shows: the diacritic-stripped, upper-cased buyer name, a fixed
// separator and the phone number. "Tú Anh", "0912345678" yields
// "TU ANH - 0912345678".
func Description(name, phone string) string {
	return strings.ToUpper(vntext.StripDiacritics(name)) + " - " + phone
}

// QRURL builds the third-party QR image URL encoding the transfer.
// The description is escaped the way browsers escape URL components,
// with %20 for spaces.
func QRURL(bank config.Bank, amount int64, description string) string {
	return fmt.Sprintf("https://img.vietqr.io/image/%s-%s-%s.png?amount=%d&addInfo=%s&accountName=%s",
		bank.BankID,
		bank.AccountNo,
		bank.Template,
		amount,
		escape(description),
		escape(bank.AccountName),
	)
}

// escape matches encodeURIComponent output for the characters that
// occur in transfer memos: QueryEscape, with spaces as %20 rather
// than +.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
