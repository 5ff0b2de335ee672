package locations

import (
	"context"
	"fmt"
	"strings"
)

// Source tells which resolution rule produced a credential pair
type Source string

const (
	SourceRegistry     Source = "registry"
	SourceUnregistered Source = "explicit_unregistered"
	SourceDefault      Source = "default"
	SourceFallback     Source = "fallback"
)

// Credentials is what an upstream call needs
type Credentials struct {
	Token      string
	LocationID string
	Source     Source
}

// Fallback is the process-wide static credential pair
type Fallback struct {
	Token      string
	LocationID string
}

// Resolver picks the credential and location for a request.
// It reads the registry on every call and caches nothing.
type Resolver struct {
	store    *Store
	fallback Fallback
}

func NewResolver(store *Store, fallback Fallback) *Resolver {
	return &Resolver{
		store: store,
		fallback: Fallback{
			Token:      strings.TrimSpace(fallback.Token),
			LocationID: strings.TrimSpace(fallback.LocationID),
		},
	}
}

// Lookup resolves without requiring a usable token. First match wins:
//
//  1. explicit id registered: its stored token and id
//  2. explicit id unregistered: fallback token with that id
//  3. no id: the default registration
//  4. the fallback pair
func (r *Resolver) Lookup(ctx context.Context, locationID string) (Credentials, error) {
	if err := r.store.EnsureSchema(ctx); err != nil {
		return Credentials{}, fmt.Errorf("ensure registry schema: %w", err)
	}

	locationID = strings.TrimSpace(locationID)
	if locationID != "" {
		locs, err := queryLocations(ctx, r.store.db, selectLocations+` WHERE l.id = ?`, locationID)
		if err != nil {
			return Credentials{}, err
		}
		if len(locs) == 1 {
			return Credentials{Token: locs[0].Token, LocationID: locs[0].ID, Source: SourceRegistry}, nil
		}
		return Credentials{Token: r.fallback.Token, LocationID: locationID, Source: SourceUnregistered}, nil
	}

	def, err := r.store.Default(ctx)
	if err != nil {
		return Credentials{}, err
	}
	if def != nil {
		return Credentials{Token: def.Token, LocationID: def.ID, Source: SourceDefault}, nil
	}

	return Credentials{Token: r.fallback.Token, LocationID: r.fallback.LocationID, Source: SourceFallback}, nil
}

// Resolve is Lookup plus the guarantee that both a token and a location id are present
func (r *Resolver) Resolve(ctx context.Context, locationID string) (Credentials, error) {
	creds, err := r.Lookup(ctx, locationID)
	if err != nil {
		return Credentials{}, err
	}
	if creds.Token == "" {
		return Credentials{}, fmt.Errorf("%w: register a location or set GHL_API_KEY", ErrNoCredentials)
	}
	if creds.LocationID == "" {
		return Credentials{}, fmt.Errorf("%w: no locationId given, no default location, and GHL_LOCATION_ID is unset", ErrNoCredentials)
	}
	return creds, nil
}

// MaskToken hides all but the edges of a secret
func MaskToken(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
