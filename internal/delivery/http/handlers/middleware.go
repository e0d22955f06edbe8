package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/google/uuid"
)

const (
	HeaderAccountID   = "X-Account-ID"
	HeaderAccountRole = "X-Account-Role"

	maxBodyBytes = 1 << 20
)

type actorKey struct{}

var errNoAccount = fmt.Errorf("%w: missing or malformed %s", domain.ErrUnauthorized, HeaderAccountID)

// AttachActor reads the caller identity forwarded by the authenticating proxy.
// Requests without one reach the handlers with an anonymous actor.
func AttachActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := domain.Actor{Role: domain.RoleCustomer}
		if raw := strings.TrimSpace(r.Header.Get(HeaderAccountID)); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				actor.AccountID = id.String()
			}
		}
		if actor.AccountID != "" && strings.EqualFold(r.Header.Get(HeaderAccountRole), string(domain.RoleAdmin)) {
			actor.Role = domain.RoleAdmin
		}
		ctx := context.WithValue(r.Context(), actorKey{}, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func actorFrom(ctx context.Context) domain.Actor {
	actor, _ := ctx.Value(actorKey{}).(domain.Actor)
	return actor
}

// requireActor rejects anonymous callers before any usecase runs.
func requireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if actorFrom(r.Context()).AccountID == "" {
			writeDomainError(w, r, errNoAccount)
			return
		}
		next.ServeHTTP(w, r)
	})
}
