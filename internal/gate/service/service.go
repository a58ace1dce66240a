// Package service implements the shared passphrase gate in front of the
// admin routes.
package service

import (
	"context"
	"fmt"
	"time"

	"solar21_precheck/internal/gate/transport"
	"solar21_precheck/platform/apperr"
	"solar21_precheck/platform/config"
	"solar21_precheck/platform/httpkit"
	"solar21_precheck/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	gateSubject = "gate"

	msgGateDisabled      = "admin gate is disabled"
	msgInvalidPassphrase = "invalid passphrase"
)

// Service checks the passphrase and issues gate tokens.
type Service struct {
	hash   []byte
	secret []byte
	ttl    time.Duration
	log    *logger.Logger
	now    func() time.Time
}

// New creates the gate service. A plain passphrase is hashed once here so it
// is never compared in clear text.
func New(cfg config.GateConfig, log *logger.Logger) (*Service, error) {
	s := &Service{
		secret: []byte(cfg.GetGateTokenSecret()),
		ttl:    cfg.GetGateTokenTTL(),
		log:    log,
		now:    time.Now,
	}

	switch {
	case cfg.GetGatePassphraseHash() != "":
		hash := []byte(cfg.GetGatePassphraseHash())
		if _, err := bcrypt.Cost(hash); err != nil {
			return nil, fmt.Errorf("GATE_PASSPHRASE_HASH is not a bcrypt hash: %w", err)
		}
		s.hash = hash
	case cfg.GetGatePassphrase() != "":
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.GetGatePassphrase()), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash gate passphrase: %w", err)
		}
		s.hash = hash
	}
	return s, nil
}

// Enabled reports whether a passphrase is configured.
func (s *Service) Enabled() bool {
	return len(s.hash) > 0
}

// Unlock exchanges the passphrase for a signed gate token.
func (s *Service) Unlock(_ context.Context, passphrase, clientIP string) (transport.UnlockResponse, error) {
	if !s.Enabled() {
		s.log.GateEvent(clientIP, false, "gate disabled")
		return transport.UnlockResponse{}, apperr.Forbidden(msgGateDisabled)
	}
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(passphrase)); err != nil {
		s.log.GateEvent(clientIP, false, msgInvalidPassphrase)
		return transport.UnlockResponse{}, apperr.Unauthorized(msgInvalidPassphrase)
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	token, err := s.sign(now, expiresAt)
	if err != nil {
		return transport.UnlockResponse{}, apperr.Wrap(apperr.KindInternal, "could not issue gate token", err)
	}

	s.log.GateEvent(clientIP, true, "")
	return transport.UnlockResponse{Token: token, ExpiresAt: expiresAt.UTC().Truncate(time.Second)}, nil
}

func (s *Service) sign(issuedAt, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  gateSubject,
		"type": httpkit.GateTokenType,
		"jti":  uuid.NewString(),
		"exp":  expiresAt.Unix(),
		"iat":  issuedAt.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
