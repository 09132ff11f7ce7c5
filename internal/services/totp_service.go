package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image/png"

	"gate-backend/internal/auth"
	"gate-backend/internal/repositories"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const totpIssuer = "GateRegister"

var (
	ErrNoTOTPSecret    = errors.New("2FA setup not initiated")
	ErrInvalidTOTPCode = errors.New("invalid verification code")
	ErrTOTPNotEnabled  = errors.New("2FA is not enabled")
	ErrInvalidPassword = errors.New("invalid password")
)

// TOTPSetupResponse carries the provisioning secret and QR code shown
// once during enrollment.
type TOTPSetupResponse struct {
	Secret      string `json:"secret"`
	QRCode      string `json:"qr_code"`
	Issuer      string `json:"issuer"`
	AccountName string `json:"account_name"`
}

type TOTPService struct {
	userRepo *repositories.UserRepository
}

func NewTOTPService(userRepo *repositories.UserRepository) *TOTPService {
	return &TOTPService{userRepo: userRepo}
}

// GenerateSetup creates a fresh TOTP secret for the user and returns it
// with a QR code. The secret stays pending until VerifyAndEnable.
func (s *TOTPService) GenerateSetup(ctx context.Context, userID int) (*TOTPSetupResponse, error) {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SetTOTPSecret(ctx, user.ID, key.Secret()); err != nil {
		return nil, err
	}

	qrImage, err := key.Image(200, 200)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, qrImage); err != nil {
		return nil, err
	}

	return &TOTPSetupResponse{
		Secret:      key.Secret(),
		QRCode:      "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Issuer:      totpIssuer,
		AccountName: user.Email,
	}, nil
}

// VerifyAndEnable confirms the user scanned the secret and turns 2FA on.
func (s *TOTPService) VerifyAndEnable(ctx context.Context, userID int, code string) error {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if user.TOTPSecret == "" {
		return ErrNoTOTPSecret
	}
	if !totp.Validate(code, user.TOTPSecret) {
		return ErrInvalidTOTPCode
	}
	return s.userRepo.EnableTOTP(ctx, userID)
}

// Verify validates a TOTP code during login.
func (s *TOTPService) Verify(ctx context.Context, userID int, code string) error {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !user.TOTPEnabled || user.TOTPSecret == "" {
		return ErrTOTPNotEnabled
	}
	if !totp.Validate(code, user.TOTPSecret) {
		return ErrInvalidTOTPCode
	}
	return nil
}

// Disable turns 2FA off after re-verifying the password and current code.
func (s *TOTPService) Disable(ctx context.Context, userID int, password, code string) error {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return ErrInvalidPassword
	}
	if !totp.Validate(code, user.TOTPSecret) {
		return ErrInvalidTOTPCode
	}
	return s.userRepo.DisableTOTP(ctx, userID)
}
