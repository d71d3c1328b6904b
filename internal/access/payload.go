package access

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/shopspring/decimal"
)

// ErrInvalidPayload is returned when presented QR data cannot be decoded into a card payload.
var ErrInvalidPayload = errors.New("invalid data")

// maxPayloadBytes bounds the decoded payload; real cards are well under 1 KB.
const maxPayloadBytes = 4096

const payloadSchemaSource = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["studentId", "amount", "validFrom", "validUntil", "status"],
  "properties": {
    "studentId": {"type": "integer", "minimum": 1},
    "amount": {"type": ["number", "string"]},
    "validFrom": {"type": "string", "minLength": 1},
    "validUntil": {"type": "string", "minLength": 1},
    "status": {"type": "string", "minLength": 1},
    "verifyUrl": {"type": "string"}
  }
}`

var payloadSchema = jsonschema.MustCompileString("qr_payload.json", payloadSchemaSource)

// Payload is the unsigned content encoded in a card's QR code. It is a lookup key
// and a pre-filter only; the payment records stay authoritative.
type Payload struct {
	StudentID  uint            `json:"studentId"`
	Amount     decimal.Decimal `json:"amount"`
	ValidFrom  time.Time       `json:"validFrom"`
	ValidUntil time.Time       `json:"validUntil"`
	Status     string          `json:"status"`
	VerifyURL  string          `json:"verifyUrl,omitempty"`
}

// EncodePayload serialises the payload into the base64 text stored on the card.
func EncodePayload(payload Payload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode card payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodePayload parses base64 QR data back into a payload. Every failure is reported as ErrInvalidPayload.
func DecodePayload(raw string) (Payload, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Payload{}, ErrInvalidPayload
	}

	data, err := decodeBase64(trimmed)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if len(data) == 0 || len(data) > maxPayloadBytes {
		return Payload{}, ErrInvalidPayload
	}
	if !isJSON(data) {
		return Payload{}, fmt.Errorf("%w: payload is not json", ErrInvalidPayload)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var document interface{}
	if err := decoder.Decode(&document); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := payloadSchema.Validate(document); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	return payload, nil
}

func decodeBase64(value string) ([]byte, error) {
	if data, err := base64.StdEncoding.DecodeString(value); err == nil {
		return data, nil
	}
	if data, err := base64.RawStdEncoding.DecodeString(value); err == nil {
		return data, nil
	}
	return base64.URLEncoding.DecodeString(value)
}

func isJSON(data []byte) bool {
	for detected := mimetype.Detect(data); detected != nil; detected = detected.Parent() {
		if detected.Is("application/json") {
			return true
		}
	}
	return false
}
