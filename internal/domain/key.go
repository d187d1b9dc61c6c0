package domain

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// ConferenceKey is the structured form of a websafe conference key: the
// conference's numeric ID scoped under its organizer's profile.
type ConferenceKey struct {
	OrganizerUserID string
	ID              int64
}

// Encode returns the opaque websafe string form of the key.
func (k ConferenceKey) Encode() string {
	raw := fmt.Sprintf("profile/%s/conference/%d", k.OrganizerUserID, k.ID)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeConferenceKey parses a websafe key string. Malformed input returns
// ErrInvalidKey; whether the conference exists is a separate question.
func DecodeConferenceKey(websafeKey string) (ConferenceKey, error) {
	raw, err := base64.RawURLEncoding.DecodeString(websafeKey)
	if err != nil {
		return ConferenceKey{}, ErrInvalidKey
	}
	parts := strings.Split(string(raw), "/")
	if len(parts) != 4 || parts[0] != "profile" || parts[2] != "conference" || parts[1] == "" {
		return ConferenceKey{}, ErrInvalidKey
	}
	id, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil || id <= 0 {
		return ConferenceKey{}, ErrInvalidKey
	}
	return ConferenceKey{OrganizerUserID: parts[1], ID: id}, nil
}
