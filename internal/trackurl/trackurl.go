// Package trackurl maps carrier tracking numbers to public tracking pages.
package trackurl

import (
	"net/url"
	"regexp"
	"strings"
)

// Carrier names returned by Detect.
const (
	CarrierUPS   = "UPS"
	CarrierUSPS  = "USPS"
	CarrierFedEx = "FedEx"
	CarrierDHL   = "DHL"
)

// FallbackURL is the carrier-agnostic tracking page used when a number
// matches no known carrier format.
const FallbackURL = "https://parcelsapp.com/en/tracking/"

type pattern struct {
	carrier string
	re      *regexp.Regexp
	url     string
}

// Checked in order; the first match wins.
var patterns = []pattern{
	{CarrierUPS, regexp.MustCompile(`^1Z[0-9A-Z]{16}$`), "https://www.ups.com/track?tracknum="},
	{CarrierUSPS, regexp.MustCompile(`^(94|93|92|95|82)[0-9]{18,20}$`), "https://tools.usps.com/go/TrackConfirmAction?tLabels="},
	{CarrierUSPS, regexp.MustCompile(`^[A-Z]{2}[0-9]{9}US$`), "https://tools.usps.com/go/TrackConfirmAction?tLabels="},
	{CarrierFedEx, regexp.MustCompile(`^([0-9]{12}|[0-9]{15}|[0-9]{20})$`), "https://www.fedex.com/fedextrack/?trknbr="},
	{CarrierDHL, regexp.MustCompile(`^[0-9]{10}$`), "https://www.dhl.com/en/express/tracking.html?AWB="},
}

var validNumber = regexp.MustCompile(`^[0-9A-Z]{8,40}$`)

// Normalize uppercases the number and strips spaces and dashes.
func Normalize(number string) string {
	number = strings.ToUpper(strings.TrimSpace(number))
	return strings.NewReplacer(" ", "", "-", "").Replace(number)
}

// Detect returns the carrier whose format matches number.
func Detect(number string) (string, bool) {
	p, ok := match(Normalize(number))
	if !ok {
		return "", false
	}
	return p.carrier, true
}

// Derive returns the carrier tracking page for number. It reports false when
// the number matches no known carrier format.
func Derive(number string) (string, bool) {
	n := Normalize(number)
	p, ok := match(n)
	if !ok {
		return "", false
	}
	return p.url + url.QueryEscape(n), true
}

// URL returns the carrier tracking page, or the generic fallback page for a
// plausible number of unknown format. It reports false for an empty or
// malformed number.
func URL(number string) (string, bool) {
	if u, ok := Derive(number); ok {
		return u, true
	}
	n := Normalize(number)
	if !validNumber.MatchString(n) {
		return "", false
	}
	return FallbackURL + url.PathEscape(n), true
}

func match(n string) (pattern, bool) {
	for _, p := range patterns {
		if p.re.MatchString(n) {
			return p, true
		}
	}
	return pattern{}, false
}
