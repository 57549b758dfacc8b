// Package scantoken encodes order snapshots into scannable tokens and verifies them.
package scantoken

import (
	"bytes"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"time"

	domainErrors "github.com/polkiloo/safepick/internal/domain/errors"
	"github.com/polkiloo/safepick/internal/domain/model"
)

// Payload is the order snapshot carried by a scan token. CreatedAt travels
// as RFC 3339 UTC, so a decoded payload always carries time.UTC.
type Payload struct {
	OrderID      string
	ChildID      string
	ChildName    string
	PickerName   string
	PickerCedula string
	Relationship model.Relationship
	CreatedAt    time.Time
}

type wirePayload struct {
	OrderID      string `json:"orderId"`
	ChildID      string `json:"childId"`
	ChildName    string `json:"childName"`
	PickerName   string `json:"pickerName"`
	PickerCedula string `json:"pickerCedula"`
	Relationship string `json:"relationship"`
	CreatedAt    string `json:"createdAt"`
}

var encoding = base64.StdEncoding.Strict()

// Codec is stateless; the zero value is ready to use.
type Codec struct{}

// New returns a Codec.
func New() *Codec {
	return &Codec{}
}

// PayloadFor builds the canonical payload of an order, with CreatedAt in UTC
// so it equals its own decoded form.
func PayloadFor(order *model.WithdrawalOrder, child *model.Child, credential *model.PickerCredential) Payload {
	return Payload{
		OrderID:      order.ID,
		ChildID:      child.ID,
		ChildName:    child.Name,
		PickerName:   credential.Name,
		PickerCedula: credential.Cedula,
		Relationship: credential.Relationship,
		CreatedAt:    order.CreatedAt.UTC(),
	}
}

// Encode serializes p as base64 over JSON.
func (c *Codec) Encode(p Payload) (string, error) {
	raw, err := json.Marshal(wirePayload{
		OrderID:      p.OrderID,
		ChildID:      p.ChildID,
		ChildName:    p.ChildName,
		PickerName:   p.PickerName,
		PickerCedula: p.PickerCedula,
		Relationship: string(p.Relationship),
		CreatedAt:    p.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return "", err
	}
	return encoding.EncodeToString(raw), nil
}

// Decode parses token. Every malformation yields ErrTamperedToken.
func (c *Codec) Decode(token string) (*Payload, error) {
	raw, err := encoding.DecodeString(token)
	if err != nil {
		return nil, domainErrors.ErrTamperedToken
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var w wirePayload
	if err := dec.Decode(&w); err != nil {
		return nil, domainErrors.ErrTamperedToken
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, domainErrors.ErrTamperedToken
	}

	if w.OrderID == "" || w.ChildID == "" || w.ChildName == "" || w.PickerName == "" ||
		w.PickerCedula == "" || w.Relationship == "" || w.CreatedAt == "" {
		return nil, domainErrors.ErrTamperedToken
	}
	createdAt, err := time.Parse(time.RFC3339Nano, w.CreatedAt)
	if err != nil {
		return nil, domainErrors.ErrTamperedToken
	}

	return &Payload{
		OrderID:      w.OrderID,
		ChildID:      w.ChildID,
		ChildName:    w.ChildName,
		PickerName:   w.PickerName,
		PickerCedula: w.PickerCedula,
		Relationship: model.Relationship(w.Relationship),
		CreatedAt:    createdAt,
	}, nil
}

// Verify decodes token and cross-checks it against the order of record and its
// current credential. Sub-check failures are not distinguished.
func (c *Codec) Verify(token string, order *model.WithdrawalOrder, credential *model.PickerCredential) (*Payload, error) {
	payload, err := c.Decode(token)
	if err != nil {
		return nil, domainErrors.ErrTamperedToken
	}
	if order == nil || credential == nil {
		return nil, domainErrors.ErrTamperedToken
	}

	orderMatches := payload.OrderID == order.ID
	tokenMatches := order.ScanToken != "" &&
		subtle.ConstantTimeCompare([]byte(order.ScanToken), []byte(token)) == 1
	pickerMatches := credential.OrderID == order.ID && payload.PickerCedula == credential.Cedula

	if !orderMatches || !tokenMatches || !pickerMatches {
		return nil, domainErrors.ErrTamperedToken
	}
	return payload, nil
}
