// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"encoding/json"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/near/borsh-go"

	"github.com/ava-labs/phoenixvm/auth"
	"github.com/ava-labs/phoenixvm/codec"
)

// Submission is a signed request to execute one action. The signature
// covers the action type, payload and expiry, so a submission can only be
// replayed until it expires.
type Submission struct {
	TypeID    uint8           `json:"typeID"`
	Action    json.RawMessage `json:"action"`
	ExpiresAt int64           `json:"expiresAt"` // unix milliseconds
	Auth      auth.ED25519    `json:"auth"`
}

type signedFields struct {
	TypeID    uint8
	Action    []byte
	ExpiresAt int64
}

// Digest returns the bytes the actor signs.
func (s *Submission) Digest() ([]byte, error) {
	return borsh.Serialize(signedFields{
		TypeID:    s.TypeID,
		Action:    s.Action,
		ExpiresAt: s.ExpiresAt,
	})
}

func (s *Submission) ID() ids.ID {
	digest, err := s.Digest()
	if err != nil {
		return ids.Empty
	}
	return ids.ID(hashing.ComputeHash256Array(digest))
}

func (s *Submission) Expiry() int64 {
	return s.ExpiresAt
}

func (s *Submission) Actor() codec.Address {
	return s.Auth.Actor()
}

// Verify checks the signature and that [now] is before the expiry and at
// most [window] milliseconds ahead of it.
func (s *Submission) Verify(now int64, window int64) error {
	if s.ExpiresAt <= now {
		return fmt.Errorf("%w: expired at %d, now %d", ErrExpired, s.ExpiresAt, now)
	}
	if s.ExpiresAt-now > window {
		return fmt.Errorf("%w: expires at %d, now %d", ErrExpiryTooFar, s.ExpiresAt, now)
	}
	digest, err := s.Digest()
	if err != nil {
		return err
	}
	return s.Auth.Verify(digest)
}

// Sign builds a submission of [typeID] signed by [factory].
func Sign(factory *auth.ED25519Factory, typeID uint8, action json.RawMessage, expiresAt int64) (*Submission, error) {
	s := &Submission{TypeID: typeID, Action: action, ExpiresAt: expiresAt}
	digest, err := s.Digest()
	if err != nil {
		return nil, err
	}
	s.Auth = factory.Sign(digest)
	return s, nil
}
