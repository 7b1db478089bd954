package payment

import (
	"testing"

	"github.com/bizzon-vn/bepnhanga/internal/config"
	"github.com/stretchr/testify/assert"
)

var testBank = config.Bank{
	BankID:      "VAB",
	AccountNo:   "00125223",
	Template:    "compact",
	AccountName: "Nguyen Thi Tu Anh",
}

func TestDescription(t *testing.T) {
	tests := []struct {
		name  string
		buyer string
		phone string
		want  string
	}{
		{
			name:  "diacritics stripped and upper-cased",
			buyer: "Tú Anh",
			phone: "0912345678",
			want:  "TU ANH - 0912345678",
		},
		{
			name:  "full name",
			buyer: "Nguyễn Thị Tú Anh",
			phone: "0987654321",
			want:  "NGUYEN THI TU ANH - 0987654321",
		},
		{
			name:  "d with stroke",
			buyer: "Đặng Văn Đức",
			phone: "0900000000",
			want:  "DANG VAN DUC - 0900000000",
		},
	}
	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Description(tt.buyer, tt.phone))
		})
	}
}

func TestQRURL(t *testing.T) {
	t.Parallel()

	got := QRURL(testBank, 260000, Description("Tú Anh", "0912345678"))

	want := "https://img.vietqr.io/image/VAB-00125223-compact.png" +
		"?amount=260000" +
		"&addInfo=TU%20ANH%20-%200912345678" +
		"&accountName=Nguyen%20Thi%20Tu%20Anh"

	assert.Equal(t, want, got)
}

func TestQRURLAmountIsRaw(t *testing.T) {
	t.Parallel()

	// The amount parameter must stay an unformatted integer.
	got := QRURL(testBank, 1300000, "X - 0912345678")
	assert.Contains(t, got, "amount=1300000&")
}
