// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oauth

import "time"

// DeviceCode is the response of the device code endpoint.  The user enters
// UserCode at VerificationURL, and the application then exchanges DeviceCode
// with Client.ExchangeDeviceCode, waiting Interval seconds between attempts.
type DeviceCode struct {
	DeviceCode      string
	UserCode        string
	VerificationURL string

	// Interval is the minimum number of seconds between token requests.
	Interval int64

	// Expiry is when DeviceCode and UserCode stop being valid.
	Expiry time.Time
}

// Expired reports whether the codes are expired.
func (d *DeviceCode) Expired() bool {
	if d.Expiry.IsZero() {
		return false
	}
	return d.Expiry.Round(0).Before(time.Now())
}
