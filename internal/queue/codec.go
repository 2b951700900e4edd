// Package queue holds the wire format and broker plumbing shared by
// the confirmation publisher and consumer.
package queue

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/srcnozturk/ECommerce-Mobiliva/pkg/models"
)

// ErrMalformed marks an envelope that cannot be decoded. Such a
// message is dead: redelivering it can never succeed.
var ErrMalformed = errors.New("malformed confirmation envelope")

func EncodeConfirmation(m models.ConfirmationMessage) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode confirmation: %w", err)
	}
	return data, nil
}

func DecodeConfirmation(data []byte) (models.ConfirmationMessage, error) {
	var m models.ConfirmationMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return models.ConfirmationMessage{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if m.To == "" {
		return models.ConfirmationMessage{}, fmt.Errorf("%w: empty recipient", ErrMalformed)
	}
	return m, nil
}
