// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oauth

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp/yandexid/internal/strutils"
)

const (
	minDeviceIDLen   = 6
	maxDeviceIDLen   = 50
	maxDeviceNameLen = 100
)

// ValidateDeviceID checks id is 6 to 50 characters long and only uses letters
// and digits.
func ValidateDeviceID(id string) error {
	const op = "ValidateDeviceID"
	n := utf8.RuneCountInString(id)
	switch {
	case n < minDeviceIDLen:
		return fmt.Errorf("%s: device id is too short: %w", op, ErrInvalidDeviceID)
	case n > maxDeviceIDLen:
		return fmt.Errorf("%s: device id is too long: %w", op, ErrInvalidDeviceID)
	}
	for _, r := range id {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return fmt.Errorf("%s: device id must contain only alphanumeric characters: %w", op, ErrInvalidDeviceID)
		}
	}
	return nil
}

// ValidateDeviceName checks name is at most 100 characters long.
func ValidateDeviceName(name string) error {
	const op = "ValidateDeviceName"
	if utf8.RuneCountInString(name) > maxDeviceNameLen {
		return fmt.Errorf("%s: device name is too long: %w", op, ErrInvalidDeviceName)
	}
	return nil
}

// validateDevice validates the optional device id and name of a request and
// warns about a device id without a name, or a name without an id.
func validateDevice(logger hclog.Logger, id, name string) error {
	if id != "" {
		if err := ValidateDeviceID(id); err != nil {
			logger.Error("invalid device id", "error", err)
			return err
		}
		if name == "" {
			logger.Warn("device_id is specified, but device_name is not; Yandex ID issues the token for an unknown device")
		}
	}
	if name != "" {
		if err := ValidateDeviceName(name); err != nil {
			logger.Error("invalid device name", "error", err)
			return err
		}
		if id == "" {
			logger.Warn("device_name is specified, but device_id is not; device_name will be ignored")
		}
	}
	return nil
}

// checkOptionalScopes warns about optional scopes which are not part of the
// requested scopes.  Nothing is checked when no scopes are requested.
func checkOptionalScopes(logger hclog.Logger, scopes, optional []string) {
	if len(scopes) == 0 || len(optional) == 0 {
		return
	}
	if missing := strutils.Missing(scopes, optional); len(missing) > 0 {
		logger.Warn("optional scopes are not in scope", "optional_scopes", strings.Join(missing, ", "))
	}
}
