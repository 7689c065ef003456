package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	deliverycontext "tiffin/internal/delivery/context"
	"tiffin/internal/domain/entity"
	domainerrors "tiffin/internal/domain/errors"
	"tiffin/internal/domain/repository"
	"tiffin/internal/domain/service"
	"tiffin/internal/errors"
	"tiffin/internal/usecase"

	"github.com/go-playground/validator/v10"
	"go.uber.org/fx"
)

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	api       service.MarketplaceAPI
	channel   service.RealtimeChannel
	store     repository.LocalStore
	inspector service.TokenInspector
	toasts    usecase.ToastUsecase
	scoped    []usecase.SessionScoped
	validate  *validator.Validate
	now       func() time.Time
	logger    *slog.Logger

	mu         sync.RWMutex
	identity   *entity.Identity
	credential entity.Credential
	claims     *service.TokenClaims

	readyOnce sync.Once
	ready     chan struct{}
}

// SessionServiceParams holds dependencies for SessionService, injected by Fx.
type SessionServiceParams struct {
	fx.In

	API       service.MarketplaceAPI
	Channel   service.RealtimeChannel
	Store     repository.LocalStore
	Inspector service.TokenInspector
	Toasts    usecase.ToastUsecase
	Scoped    []usecase.SessionScoped `group:"session_scoped"`
	Logger    *slog.Logger
}

// NewSessionService is the constructor for sessionService. It registers itself
// as the REST client's handler for rejected credentials.
func NewSessionService(params SessionServiceParams) usecase.SessionUsecase {
	srv := &sessionService{
		api:       params.API,
		channel:   params.Channel,
		store:     params.Store,
		inspector: params.Inspector,
		toasts:    params.Toasts,
		scoped:    params.Scoped,
		validate:  validator.New(),
		now:       time.Now,
		logger:    params.Logger,
		ready:     make(chan struct{}),
	}

	params.API.OnUnauthorized(srv.handleUnauthorized)

	return srv
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Hydrate restores the persisted session. The stored identity is published at
// once and then replaced by the profile the API reports; if that call fails
// the credential is treated as revoked.
func (srv *sessionService) Hydrate(ctx context.Context) error {
	defer srv.readyOnce.Do(func() { close(srv.ready) })

	token, ok, err := srv.store.Get(ctx, repository.KeyToken)
	if err != nil {
		srv.log(ctx).Warn("Failed to read stored credential", slog.Any("error", err))

		return nil
	}
	if !ok || token == "" {
		return nil
	}

	identity, ok := repository.LoadJSON[entity.Identity](ctx, srv.store, repository.KeyUser, srv.log(ctx))
	if !ok {
		return nil
	}

	credential := entity.Credential(token)
	claims := srv.inspect(ctx, credential)
	if claims.Expired(srv.now()) {
		srv.log(ctx).Info("Stored credential expired", slog.Time("expires_at", *claims.ExpiresAt))
		srv.SignOut(ctx)

		return errors.WithStack(domainerrors.ErrSessionExpired)
	}

	srv.publish(identity, credential, claims)
	srv.openChannel(ctx, credential)

	profile, err := srv.api.GetProfile(ctx)
	if err != nil {
		srv.log(ctx).Warn("Profile refresh failed, discarding stored session", slog.Any("error", err))
		if srv.Credential() == credential {
			srv.SignOut(ctx)
		}

		return errors.Wrap(domainerrors.ErrSessionExpired.WithDetails(err.Error()), "hydrate session")
	}

	if !srv.replaceIdentity(credential, *profile) {
		return nil
	}
	srv.persistIdentity(ctx, *profile)

	srv.log(ctx).Info("Session restored", slog.Any("user_id", profile.ID), slog.String("role", string(profile.Role)))

	return nil
}

// Ready is closed once Hydrate has finished.
func (srv *sessionService) Ready() <-chan struct{} {
	return srv.ready
}

// SignIn authenticates, persists the session and opens the push channel.
// A failure leaves any persisted state untouched.
func (srv *sessionService) SignIn(ctx context.Context, req entity.SignInRequest) (*entity.Identity, error) {
	if err := srv.validate.Struct(req); err != nil {
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails(err.Error()))
	}

	resp, err := srv.api.SignIn(ctx, req)
	if err != nil {
		srv.log(ctx).Info("Sign-in rejected", slog.String("email", req.Email), slog.Any("error", err))

		return nil, errors.WithStack(domainerrors.ErrInvalidCredentials.
			WithMessage(domainerrors.ServerMessageOr(err, domainerrors.ErrInvalidCredentials.Message())).
			WithDetails(err.Error()))
	}
	if resp.AccessToken == "" {
		return nil, errors.WithStack(domainerrors.ErrInvalidCredentials.WithDetails("response carried no access token"))
	}

	identity := resp.Identity
	err = srv.store.Execute(ctx, func(tx repository.LocalStore) error {
		if err := tx.Set(ctx, repository.KeyToken, string(resp.AccessToken)); err != nil {
			return err
		}

		return repository.SaveJSON(ctx, tx, repository.KeyUser, identity)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to persist session", slog.Any("error", err))
	}

	srv.publish(identity, resp.AccessToken, srv.inspect(ctx, resp.AccessToken))
	srv.openChannel(ctx, resp.AccessToken)

	srv.log(ctx).Info("Signed in", slog.Any("user_id", identity.ID), slog.String("role", string(identity.Role)))

	return &identity, nil
}

// SignUp registers an account without signing in.
func (srv *sessionService) SignUp(ctx context.Context, req entity.SignUpRequest) error {
	if err := srv.validate.Struct(req); err != nil {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails(err.Error()))
	}

	if err := srv.api.SignUp(ctx, req); err != nil {
		srv.log(ctx).Info("Sign-up rejected", slog.String("email", req.Email), slog.Any("error", err))

		return errors.WithStack(domainerrors.ErrSignUpFailed.
			WithMessage(domainerrors.ServerMessageOr(err, domainerrors.ErrSignUpFailed.Message())).
			WithDetails(err.Error()))
	}

	srv.log(ctx).Info("Signed up", slog.String("email", req.Email))

	return nil
}

// SignOut drops the session, closes the channel and clears per-identity state.
func (srv *sessionService) SignOut(ctx context.Context) {
	srv.mu.Lock()
	srv.identity = nil
	srv.credential = ""
	srv.claims = nil
	srv.mu.Unlock()

	err := srv.store.Execute(ctx, func(tx repository.LocalStore) error {
		for _, key := range repository.SessionKeys {
			if err := tx.Remove(ctx, key); err != nil {
				return errors.Wrapf(err, "clear %s", key)
			}
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to clear stored session", slog.Any("error", err))
	}

	if err := srv.channel.Close(); err != nil {
		srv.log(ctx).Warn("Failed to close realtime channel", slog.Any("error", err))
	}

	for _, s := range srv.scoped {
		s.Clear(ctx)
	}

	srv.log(ctx).Info("Signed out")
}

// UpdateProfile changes profile fields and replaces the identity with the result.
func (srv *sessionService) UpdateProfile(ctx context.Context, update entity.ProfileUpdate) (*entity.Identity, error) {
	credential := srv.Credential()
	if credential == "" {
		return nil, errors.WithStack(domainerrors.ErrNotAuthenticated)
	}

	identity, err := srv.api.UpdateProfile(ctx, update)
	if err != nil {
		srv.toasts.Show(domainerrors.ServerMessageOr(err, "Failed to update profile"), entity.ToastError)

		return nil, errors.Wrap(err, "update profile")
	}

	if srv.replaceIdentity(credential, *identity) {
		srv.persistIdentity(ctx, *identity)
	}
	srv.toasts.Show("Profile updated", entity.ToastSuccess)

	return identity, nil
}

// IsAuthenticated reports whether both a credential and an identity are held.
func (srv *sessionService) IsAuthenticated() bool {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	return srv.credential != "" && srv.identity != nil
}

// HasRole checks the identity's role, falling back to the credential's role
// claim when the identity names no known role.
func (srv *sessionService) HasRole(role entity.Role) bool {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	if srv.identity == nil {
		return false
	}
	if srv.identity.Role.IsValid() {
		return srv.identity.Role == role
	}

	return srv.claims != nil && srv.claims.Role == role
}

// Identity returns a copy of the signed-in identity.
func (srv *sessionService) Identity() (entity.Identity, bool) {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	if srv.identity == nil {
		return entity.Identity{}, false
	}

	return *srv.identity, true
}

// Credential returns the held bearer credential, empty when signed out.
func (srv *sessionService) Credential() entity.Credential {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	return srv.credential
}

// handleUnauthorized runs when an authenticated call answers 401.
func (srv *sessionService) handleUnauthorized(ctx context.Context) {
	if !srv.IsAuthenticated() {
		return
	}

	srv.log(ctx).Warn("Credential rejected by the API, signing out")
	srv.SignOut(ctx)
	srv.toasts.Show(domainerrors.ErrSessionExpired.Message(), entity.ToastError)
}

func (srv *sessionService) publish(identity entity.Identity, credential entity.Credential, claims *service.TokenClaims) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	srv.identity = &identity
	srv.credential = credential
	srv.claims = claims
}

// replaceIdentity swaps the identity only while credential is still the held one.
func (srv *sessionService) replaceIdentity(credential entity.Credential, identity entity.Identity) bool {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if srv.credential != credential {
		return false
	}
	srv.identity = &identity

	return true
}

func (srv *sessionService) persistIdentity(ctx context.Context, identity entity.Identity) {
	if err := repository.SaveJSON(ctx, srv.store, repository.KeyUser, identity); err != nil {
		srv.log(ctx).Warn("Failed to persist identity", slog.Any("error", err))
	}
}

func (srv *sessionService) openChannel(ctx context.Context, credential entity.Credential) {
	if err := srv.channel.Open(ctx, credential); err != nil {
		srv.log(ctx).Warn("Realtime channel unavailable", slog.Any("error", err))
	}
}

// inspect reads the credential's claims. Opaque credentials yield nil claims,
// which count as unexpired.
func (srv *sessionService) inspect(ctx context.Context, credential entity.Credential) *service.TokenClaims {
	claims, err := srv.inspector.Inspect(credential)
	if err != nil {
		srv.log(ctx).Debug("Credential is not an inspectable token", slog.Any("error", err))

		return nil
	}

	return claims
}
