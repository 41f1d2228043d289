package tripshare

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

const (
	// SubmitCodeTTL bounds 4-digit login codes.
	SubmitCodeTTL = 10 * time.Minute
	// MagicLinkTTL bounds magic link tokens.
	MagicLinkTTL = 15 * time.Minute
)

// Verifier issues and redeems single-use, purpose-scoped, time-boxed
// verification secrets. Redemption consumes the record atomically: the DELETE
// inside the transaction has exactly one winner, so a code can never be
// matched twice even under concurrent requests.
type Verifier struct {
	repo       RepositoryManager
	mailer     Mailer
	baseURL    string
	production bool
	logger     Logger

	// Now is overridable for tests.
	Now func() time.Time
}

func NewVerifier(repo RepositoryManager, mailer Mailer, cfg Config, logger Logger) *Verifier {
	if logger == nil {
		logger = defLogger{}
	}
	return &Verifier{
		repo:       repo,
		mailer:     mailer,
		baseURL:    cfg.GetBaseURL(),
		production: cfg.IsProduction(),
		logger:     logger,
		Now:        time.Now,
	}
}

// SendCode issues a 4-digit code for the submit flow and mails it.
func (v *Verifier) SendCode(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	code, err := generateCode()
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate verification code")
	}

	record := &VerificationCode{
		Email:     normalizeEmail(email),
		Code:      code,
		Purpose:   PurposeSubmit,
		ExpiresAt: v.now().Add(SubmitCodeTTL),
	}

	v.cleanupExpiredFor(ctx, record.Email)

	if err := v.repo.VerificationCodes().Create(ctx, record); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist verification code")
	}

	// Operator side channel for local development; never in production.
	if !v.production {
		v.logger.Info("verification code for %s: %s", record.Email, code)
	}

	subject, body := composeVerificationCodeEmail(code)
	if err := v.mailer.Send(ctx, record.Email, subject, body); err != nil {
		v.logger.Error("failed to send verification code email to %s: %v", record.Email, err)
		return ErrEmailSendFailed
	}

	return nil
}

// SendMagicLink issues a login-purpose token and mails it as a clickable link.
func (v *Verifier) SendMagicLink(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	token, err := generateMagicToken()
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate magic token")
	}

	record := &VerificationCode{
		Email:     normalizeEmail(email),
		Code:      token,
		Purpose:   PurposeLogin,
		ExpiresAt: v.now().Add(MagicLinkTTL),
	}

	v.cleanupExpiredFor(ctx, record.Email)

	if err := v.repo.VerificationCodes().Create(ctx, record); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist magic token")
	}

	link := fmt.Sprintf("%s/auth/magic?token=%s", v.baseURL, token)
	subject, body := composeMagicLinkEmail(link)
	if err := v.mailer.Send(ctx, record.Email, subject, body); err != nil {
		v.logger.Error("failed to send magic link email to %s: %v", record.Email, err)
		return ErrEmailSendFailed
	}

	return nil
}

// RedeemCode validates an (email, code) pair against the submit flow and, on
// success, consumes the record and resolves the account, registering it
// lazily on first login.
//
// A miss is ErrCodeInvalid; a match past its expiry is ErrCodeExpired and the
// record is left in place for inspection.
func (v *Verifier) RedeemCode(ctx context.Context, email, code string) (*User, error) {
	record, err := v.repo.VerificationCodes().Find(ctx, email, code, PurposeSubmit)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up verification code")
	}
	return v.redeem(ctx, record)
}

// RedeemMagicLink is the login-purpose twin of RedeemCode, keyed by the token
// alone; the account email comes from the stored record.
func (v *Verifier) RedeemMagicLink(ctx context.Context, token string) (*User, error) {
	record, err := v.repo.VerificationCodes().FindByToken(ctx, token, PurposeLogin)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up magic token")
	}
	return v.redeem(ctx, record)
}

func (v *Verifier) redeem(ctx context.Context, record *VerificationCode) (*User, error) {
	if record == nil {
		return nil, ErrCodeInvalid
	}

	if record.Expired(v.now()) {
		return nil, ErrCodeExpired
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	var user *User
	err := v.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		consumed, err := v.repo.VerificationCodes().ConsumeTx(ctx, tx, record.ID)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to consume verification code")
		}
		if !consumed {
			// Another request redeemed it first.
			return ErrCodeInvalid
		}

		if user, err = v.repo.Users().GetOrRegisterTx(ctx, tx, record.Email); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resolve user account")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "verification redemption failed")
	}

	return user, nil
}

// cleanupExpiredFor drops the address's expired records while a fresh secret
// is being issued. Best effort: a failure here never blocks the send.
func (v *Verifier) cleanupExpiredFor(ctx context.Context, email string) {
	if _, err := v.repo.VerificationCodes().DeleteExpiredFor(ctx, email, v.now()); err != nil {
		v.logger.Warn("expired verification cleanup for %s failed: %v", email, err)
	}
}

// SweepExpired removes verification records past their expiry.
func (v *Verifier) SweepExpired(ctx context.Context) (int64, error) {
	return v.repo.VerificationCodes().DeleteExpired(ctx, v.now())
}

func (v *Verifier) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now()
}

// generateCode draws a uniform 4-digit code in [1000, 9999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", 1000+n.Int64()), nil
}

// generateMagicToken draws 256 bits of randomness, hex encoded.
func generateMagicToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
