package oauth

import (
	"context"

	"google.golang.org/api/idtoken"
)

// Payload carries the verified identity claims of an external ID token.
type Payload struct {
	Subject string
	Email   string
	Name    string
}

// Verifier validates a third-party ID token. A nil result means the token did
// not verify; the reason is intentionally not surfaced.
type Verifier interface {
	Validate(ctx context.Context, idToken string) *Payload
}

type GoogleVerifier struct {
	ClientID string
}

func (g *GoogleVerifier) Validate(ctx context.Context, rawToken string) *Payload {
	payload, err := idtoken.Validate(ctx, rawToken, g.ClientID)
	if err != nil {
		return nil
	}

	p := &Payload{Subject: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		p.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		p.Name = name
	}
	if p.Email == "" {
		return nil
	}
	return p
}
