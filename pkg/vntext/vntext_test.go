package vntext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripDiacritics(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "full name",
			in:   "Nguyễn Thị Tú Anh",
			want: "Nguyen Thi Tu Anh",
		},
		{
			name: "lowercase d with stroke",
			in:   "đồng",
			want: "dong",
		},
		{
			name: "uppercase D with stroke",
			in:   "Đà Nẵng",
			want: "Da Nang",
		},
		{
			name: "plain ascii unchanged",
			in:   "Tu Anh",
			want: "Tu Anh",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}
	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := StripDiacritics(tt.in)
			assert.Equal(t, tt.want, got)

			// Stripping twice equals stripping once.
			assert.Equal(t, got, StripDiacritics(got), "not idempotent")
		})
	}
}

func TestFormatVND(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		want   string
	}{
		{name: "grouped", amount: 260000, want: "260.000 ₫"},
		{name: "single unit price", amount: 130000, want: "130.000 ₫"},
		{name: "millions", amount: 1300000, want: "1.300.000 ₫"},
		{name: "small", amount: 500, want: "500 ₫"},
		{name: "zero", amount: 0, want: "0 ₫"},
	}
	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, FormatVND(tt.amount))
		})
	}
}
