package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/swapmarket/internal/client/api"
	"github.com/dmitrijs2005/swapmarket/internal/common"
)

// Register creates an account: the email is verified with a one-time code
// first, then nickname and password are collected.
func (a *App) Register(ctx context.Context) error {
	email, code, err := a.verifyEmail(ctx)
	if err != nil {
		return err
	}

	nickname, err := GetSimpleText(a.reader, "Choose a nickname", os.Stdout)
	if err != nil {
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.client.Register(ctx, email, nickname, string(password), code); err != nil {
		printlnFn("Registration failed:", api.AlertMessage(err))
		return err
	}
	printlnFn("Account created, you can log in now")
	return nil
}

// Reset runs the email verification half of the password-reset flow.
func (a *App) Reset(ctx context.Context) error {
	if _, _, err := a.verifyEmail(ctx); err != nil {
		return err
	}
	printlnFn("Email verified, follow the reset link sent to your inbox")
	return nil
}

// verifyEmail drives one OTP session: request, countdown, verify, with
// resend and cancel. Returns the verified address and the accepted code.
func (a *App) verifyEmail(ctx context.Context) (string, string, error) {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return "", "", err
	}

	if err := a.otp.Request(ctx, email); err != nil {
		if errors.Is(err, common.ErrInvalidEmail) {
			printlnFn("That doesn't look like an email address")
		} else {
			printlnFn("Could not send code:", api.AlertMessage(err))
		}
		return "", "", err
	}
	printlnFn(fmt.Sprintf("Code sent to %s, valid for %ds", email, a.otp.Remaining()))

	for {
		prompt := fmt.Sprintf("Enter code (%ds left, or 'resend' / 'cancel')", a.otp.Remaining())
		code, err := GetSimpleText(a.reader, prompt, os.Stdout)
		if err != nil {
			a.otp.Cancel()
			return "", "", err
		}

		switch code {
		case "cancel":
			a.otp.Cancel()
			return "", "", common.ErrNoSession
		case "resend":
			if err := a.otp.Resend(ctx); err != nil {
				printlnFn("Could not resend:", api.AlertMessage(err))
			} else {
				printlnFn(fmt.Sprintf("New code sent, valid for %ds", a.otp.Remaining()))
			}
			continue
		}

		ok, err := a.otp.Verify(ctx, code)
		switch {
		case errors.Is(err, common.ErrEmptyCode):
			printlnFn("Enter the code from the email")
		case errors.Is(err, common.ErrCodeExpired):
			printlnFn("Code expired, type 'resend' for a new one")
		case errors.Is(err, common.ErrCodeInvalid):
			printlnFn("Wrong code, try again")
		case err != nil:
			printlnFn("Verification failed:", api.AlertMessage(err))
		case ok:
			printlnFn("Email verified")
			return email, code, nil
		}
	}
}
