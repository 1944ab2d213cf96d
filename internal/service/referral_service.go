package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dice-token-backend/internal/core/domain"
	"dice-token-backend/internal/core/ports"
	"dice-token-backend/pkg/apperror"

	"github.com/rs/zerolog"
)

// codeRetryLimit bounds the collision-retry loop for code issuance. With an
// 8-character code over a 31-symbol alphabet, hitting it means the generator
// or the index is broken.
const codeRetryLimit = 5

// ReferralServiceImpl implements ports.ReferralService.
type ReferralServiceImpl struct {
	repo       ports.ReferralRepository
	transactor ports.DBTransactor
	linkBase   string
	codeLen    int
	log        zerolog.Logger
}

// NewReferralService creates a new ReferralServiceImpl.
func NewReferralService(
	repo ports.ReferralRepository,
	transactor ports.DBTransactor,
	linkBase string,
	codeLen int,
	log zerolog.Logger,
) *ReferralServiceImpl {
	return &ReferralServiceImpl{
		repo:       repo,
		transactor: transactor,
		linkBase:   linkBase,
		codeLen:    codeLen,
		log:        log,
	}
}

// GetOrCreateProfile returns the identity's profile, creating it with a fresh
// unique code on first lookup. Subsequent calls return the profile unchanged.
func (s *ReferralServiceImpl) GetOrCreateProfile(ctx context.Context, identity string) (*ports.ReferralInfo, error) {
	p, err := s.repo.GetByIdentity(ctx, identity)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("get profile: %w", err))
	}
	if p != nil {
		return s.info(p), nil
	}

	for attempt := 0; attempt < codeRetryLimit; attempt++ {
		p = &domain.ReferralProfile{
			Identity:  identity,
			Code:      domain.NewReferralCode(s.codeLen),
			CreatedAt: time.Now().UTC(),
		}
		err = s.repo.Create(ctx, p)
		if err == nil {
			s.log.Info().
				Str("identity", identity).
				Str("code", p.Code).
				Msg("referral profile created")
			return s.info(p), nil
		}
		if errors.Is(err, ports.ErrDuplicateIdentity) {
			// Lost a create race for this identity; the winner's profile is
			// the idempotent answer.
			p, err = s.repo.GetByIdentity(ctx, identity)
			if err != nil {
				return nil, apperror.ErrStorageFailure(fmt.Errorf("get profile after create race: %w", err))
			}
			if p == nil {
				return nil, apperror.InternalError(fmt.Errorf("profile for %q vanished after duplicate insert", identity))
			}
			return s.info(p), nil
		}
		if !errors.Is(err, ports.ErrDuplicateCode) {
			return nil, apperror.ErrStorageFailure(fmt.Errorf("create profile: %w", err))
		}
		s.log.Warn().Str("identity", identity).Msg("referral code collision, redrawing")
	}

	return nil, apperror.InternalError(fmt.Errorf("code generation exhausted after %d attempts", codeRetryLimit))
}

// Redeem resolves the code, rewards its owner and registers the new identity,
// all in one transaction. Replays fail with AlreadyRegistered so a referrer
// is rewarded at most once per referred identity.
func (s *ReferralServiceImpl) Redeem(ctx context.Context, code, newIdentity string) (*ports.RedeemResult, error) {
	owner, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("resolve code: %w", err))
	}
	if owner == nil {
		return nil, apperror.ErrInvalidCode()
	}
	if owner.Identity == newIdentity {
		return nil, apperror.ErrSelfReferral()
	}

	existing, err := s.repo.GetByIdentity(ctx, newIdentity)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("get redeemer profile: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrAlreadyRegistered()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.repo.IncrementCounters(ctx, dbTx, owner.Identity); err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("reward referrer: %w", err))
	}

	referrer := owner.Identity
	for attempt := 0; ; attempt++ {
		p := &domain.ReferralProfile{
			Identity:   newIdentity,
			Code:       domain.NewReferralCode(s.codeLen),
			ReferredBy: &referrer,
			CreatedAt:  time.Now().UTC(),
		}
		err = s.repo.CreateInTx(ctx, dbTx, p)
		if err == nil {
			break
		}
		if errors.Is(err, ports.ErrDuplicateIdentity) {
			// A concurrent redeem for the same identity committed first.
			return nil, apperror.ErrAlreadyRegistered()
		}
		if !errors.Is(err, ports.ErrDuplicateCode) {
			return nil, apperror.ErrStorageFailure(fmt.Errorf("create redeemer profile: %w", err))
		}
		if attempt+1 >= codeRetryLimit {
			return nil, apperror.InternalError(fmt.Errorf("code generation exhausted after %d attempts", codeRetryLimit))
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("referrer", owner.Identity).
		Str("referred", newIdentity).
		Msg("referral redeemed")

	return &ports.RedeemResult{Referrer: owner.Identity, Referred: newIdentity}, nil
}

func (s *ReferralServiceImpl) info(p *domain.ReferralProfile) *ports.ReferralInfo {
	return &ports.ReferralInfo{
		Profile: p,
		Link:    s.linkBase + p.Code,
	}
}
