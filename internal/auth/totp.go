package auth

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
)

// totpSecretSize matches the 20-byte secrets issued to existing accounts.
const totpSecretSize = 20

// qrSize is the pixel edge of the provisioning QR code.
const qrSize = 256

// TotpProvider issues and verifies time-based one-time-password secrets for
// two-factor enrollment.
type TotpProvider struct {
	issuer string
	skew   uint
}

// NewTotpProvider creates a TotpProvider. skew is the number of 30-second
// periods accepted on either side of now.
func NewTotpProvider(issuer string, skew uint) *TotpProvider {
	if issuer == "" {
		issuer = "TodoApp"
	}
	return &TotpProvider{issuer: issuer, skew: skew}
}

// Enrollment is a freshly generated two-factor secret plus the QR code the
// client renders for the authenticator app.
type Enrollment struct {
	Secret    string
	URL       string
	QRDataURL string
}

// GenerateSecret creates a new TOTP secret for the given account and renders
// its otpauth URL as a PNG data URL.
func (p *TotpProvider) GenerateSecret(account string) (*Enrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      p.issuer,
		AccountName: fmt.Sprintf("%s-%s", p.issuer, account),
		SecretSize:  totpSecretSize,
	})
	if err != nil {
		return nil, fmt.Errorf("generate totp secret: %w", err)
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}

	return &Enrollment{
		Secret:    key.Secret(),
		URL:       key.URL(),
		QRDataURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	}, nil
}

// VerifyCode reports whether code is valid for secret within the configured
// skew window.
func (p *TotpProvider) VerifyCode(secret, code string) bool {
	ok, err := totp.ValidateCustom(code, secret, time.Now(), totp.ValidateOpts{
		Period:    30,
		Skew:      p.skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}
