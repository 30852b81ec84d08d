// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package identity

import "fmt"

// AvatarBaseURL serves user avatars.
const AvatarBaseURL = "https://avatars.yandex.net/get-yapic"

// AvatarSize of a user avatar.
type AvatarSize string

const (
	AvatarIslandsSmall        AvatarSize = "islands-small"         // 28x28
	AvatarIslands34           AvatarSize = "islands-34"            // 34x34
	AvatarIslandsMiddle       AvatarSize = "islands-middle"        // 42x42
	AvatarIslands50           AvatarSize = "islands-50"            // 50x50
	AvatarIslandsRetinaSmall  AvatarSize = "islands-retina-small"  // 56x56
	AvatarIslands68           AvatarSize = "islands-68"            // 68x68
	AvatarIslands75           AvatarSize = "islands-75"            // 75x75
	AvatarIslandsRetinaMiddle AvatarSize = "islands-retina-middle" // 84x84
	AvatarIslandsRetina50     AvatarSize = "islands-retina-50"     // 100x100
	AvatarIslands200          AvatarSize = "islands-200"           // 200x200

	DefaultAvatarSize = AvatarIslands200
)

var avatarSizes = map[AvatarSize]int{
	AvatarIslandsSmall:        28,
	AvatarIslands34:           34,
	AvatarIslandsMiddle:       42,
	AvatarIslands50:           50,
	AvatarIslandsRetinaSmall:  56,
	AvatarIslands68:           68,
	AvatarIslands75:           75,
	AvatarIslandsRetinaMiddle: 84,
	AvatarIslandsRetina50:     100,
	AvatarIslands200:          200,
}

// Pixels returns the width and height of the avatar size.
func (s AvatarSize) Pixels() (int, error) {
	const op = "AvatarSize.Pixels"
	px, ok := avatarSizes[s]
	if !ok {
		return 0, fmt.Errorf("%s: %q: %w", op, string(s), ErrUnknownAvatarSize)
	}
	return px, nil
}

// AvatarURL returns the avatar URL for the avatar id.  The empty size is
// DefaultAvatarSize.
func AvatarURL(avatarID string, size AvatarSize) string {
	if size == "" {
		size = DefaultAvatarSize
	}
	return AvatarBaseURL + "/" + avatarID + "/" + string(size)
}
