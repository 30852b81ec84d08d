// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oauth

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-uuid"
)

// NewState generates a random value for the "state" parameter of an
// authorization URL.  The callback must get the same value back.
func NewState() (string, error) {
	const op = "NewState"
	id, err := uuid.GenerateUUID()
	if err != nil {
		return "", fmt.Errorf("%s: unable to generate state: %w: %w", op, ErrIdGeneratorFailed, err)
	}
	return id, nil
}

// NewDeviceID generates a random device id which passes ValidateDeviceID.
func NewDeviceID() (string, error) {
	const op = "NewDeviceID"
	id, err := uuid.GenerateUUID()
	if err != nil {
		return "", fmt.Errorf("%s: unable to generate device id: %w: %w", op, ErrIdGeneratorFailed, err)
	}
	return strings.ReplaceAll(id, "-", ""), nil
}
