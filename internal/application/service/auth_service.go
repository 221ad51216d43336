package service

import (
	"context"
	"strings"
	"time"

	"github.com/ezequiel-pelliza/cajaclara/internal/domain/enum"
	"github.com/ezequiel-pelliza/cajaclara/pkg/apperror"
	"github.com/ezequiel-pelliza/cajaclara/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService exchanges operator PINs for role tokens
type AuthService struct {
	ownerHash   []byte
	cashierHash []byte
	jwtManager  *utils.JWTManager
	log         *zap.Logger
}

// NewAuthService hashes the configured PINs once so they are never compared in clear
func NewAuthService(ownerPIN, cashierPIN string, jwtManager *utils.JWTManager, log *zap.Logger) (*AuthService, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if ownerPIN == "" || cashierPIN == "" {
		return nil, apperror.NewBadRequestError("owner and cashier PINs must be configured")
	}
	if ownerPIN == cashierPIN {
		return nil, apperror.NewBadRequestError("owner and cashier PINs must differ")
	}
	ownerHash, err := bcrypt.GenerateFromPassword([]byte(ownerPIN), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	cashierHash, err := bcrypt.GenerateFromPassword([]byte(cashierPIN), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &AuthService{
		ownerHash:   ownerHash,
		cashierHash: cashierHash,
		jwtManager:  jwtManager,
		log:         log,
	}, nil
}

// LoginInput represents the PIN login input
type LoginInput struct {
	PIN        string
	TerminalID string
}

// LoginOutput represents the PIN login output
type LoginOutput struct {
	Role        enum.Role `json:"role"`
	TerminalID  string    `json:"terminal_id"`
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
}

// Login resolves the role of a PIN and issues a token bound to the terminal.
// A missing terminal id gets a fresh one.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	pin := strings.TrimSpace(input.PIN)
	if pin == "" {
		return nil, apperror.ErrInvalidPIN
	}

	var role enum.Role
	switch {
	case bcrypt.CompareHashAndPassword(s.ownerHash, []byte(pin)) == nil:
		role = enum.RoleOwner
	case bcrypt.CompareHashAndPassword(s.cashierHash, []byte(pin)) == nil:
		role = enum.RoleCashier
	default:
		s.log.Warn("rejected PIN attempt", zap.String("terminal_id", input.TerminalID))
		return nil, apperror.ErrInvalidPIN
	}

	terminalID := strings.TrimSpace(input.TerminalID)
	if terminalID == "" {
		terminalID = uuid.NewString()
	}

	token, err := s.jwtManager.GenerateAccessToken(role, terminalID)
	if err != nil {
		return nil, err
	}

	s.log.Info("operator signed in", zap.String("role", role.String()), zap.String("terminal_id", terminalID))
	return &LoginOutput{
		Role:        role,
		TerminalID:  terminalID,
		AccessToken: token,
		ExpiresIn:   int64(s.jwtManager.ExpiresIn() / time.Second),
	}, nil
}
