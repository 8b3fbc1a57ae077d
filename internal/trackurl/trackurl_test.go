package trackurl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		name    string
		number  string
		carrier string
		url     string
	}{
		{"ups", "1Z999AA10123456784", CarrierUPS, "https://www.ups.com/track?tracknum=1Z999AA10123456784"},
		{"ups lowercase with spaces", " 1z999aa1 0123456784 ", CarrierUPS, "https://www.ups.com/track?tracknum=1Z999AA10123456784"},
		{"usps impb", "9400111899223197428490", CarrierUSPS, "https://tools.usps.com/go/TrackConfirmAction?tLabels=9400111899223197428490"},
		{"usps international", "LZ123456789US", CarrierUSPS, "https://tools.usps.com/go/TrackConfirmAction?tLabels=LZ123456789US"},
		{"fedex", "123456789012", CarrierFedEx, "https://www.fedex.com/fedextrack/?trknbr=123456789012"},
		{"dhl", "1234567890", CarrierDHL, "https://www.dhl.com/en/express/tracking.html?AWB=1234567890"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			carrier, ok := Detect(tt.number)
			assert.True(t, ok)
			assert.Equal(t, tt.carrier, carrier)

			u, ok := Derive(tt.number)
			assert.True(t, ok)
			assert.Equal(t, tt.url, u)
		})
	}
}

func TestDeriveUnknown(t *testing.T) {
	for _, number := range []string{"", "abc", "ZZ0000000000000"} {
		_, ok := Derive(number)
		assert.False(t, ok, number)
	}
}

func TestURLFallback(t *testing.T) {
	u, ok := URL("ZZ0000000000000")
	assert.True(t, ok)
	assert.Equal(t, FallbackURL+"ZZ0000000000000", u)

	u, ok = URL("1Z999AA10123456784")
	assert.True(t, ok)
	assert.Equal(t, "https://www.ups.com/track?tracknum=1Z999AA10123456784", u)

	_, ok = URL("")
	assert.False(t, ok)
	_, ok = URL("n/a")
	assert.False(t, ok)
}
