package auth

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
)

// GoogleVerifier validates Google-issued ID tokens against the app's OAuth
// client ID.
type GoogleVerifier struct {
	clientID string
}

var _ TokenVerifier = (*GoogleVerifier)(nil)

func NewGoogleVerifier(clientID string) (*GoogleVerifier, error) {
	if clientID == "" {
		return nil, errors.New("missing Google OAuth client ID")
	}
	return &GoogleVerifier{clientID: clientID}, nil
}

func (v *GoogleVerifier) Verify(ctx context.Context, token string) (string, error) {
	payload, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		return "", fmt.Errorf("validate id token: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return "", errors.New("id token missing email claim")
	}
	return email, nil
}
