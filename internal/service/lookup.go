// Package service contains the resolution orchestrator: the one pass that
// takes raw user input to a terminal lookup state.
//
// The pass is a fixed little state machine per request:
//
//	normalize → (cache) → try account → try group → not found
//
// Accounts are always attempted before groups; numeric-id collisions
// between the two namespaces resolve in favor of the account, matching
// platform semantics. Each phase runs exactly once — transient adapter
// failures are treated like misses for the request and only their reasons
// are logged. The orchestrator itself holds no per-request state.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nkka404/tginfo/internal/adapter"
	"github.com/nkka404/tginfo/internal/apperror"
	"github.com/nkka404/tginfo/internal/derive"
	"github.com/nkka404/tginfo/internal/metrics"
	"github.com/nkka404/tginfo/internal/model"
	"github.com/nkka404/tginfo/internal/normalize"
	"github.com/nkka404/tginfo/internal/repository"
)

// Resolver is the slice of the adapter the orchestrator needs.
type Resolver interface {
	ResolveAccount(ctx context.Context, id string) adapter.AccountOutcome
	ResolveGroup(ctx context.Context, id string) adapter.GroupOutcome
}

// LookupService orchestrates normalization, resolution and field
// derivation.
type LookupService struct {
	resolver Resolver
	cache    repository.LookupCache
	metrics  *metrics.Metrics
	logger   *slog.Logger
	cacheTTL time.Duration
	now      func() time.Time
}

// NewLookupService wires the orchestrator. cache may be nil to disable
// caching; metrics may be nil in tests.
func NewLookupService(resolver Resolver, cache repository.LookupCache, m *metrics.Metrics, logger *slog.Logger, cacheTTL time.Duration) *LookupService {
	return &LookupService{
		resolver: resolver,
		cache:    cache,
		metrics:  m,
		logger:   logger,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// Lookup resolves raw input to a Resolution or a domain error:
// apperror.ErrValidation for unparsable input, apperror.ErrNotFound when
// neither phase resolves. Transient adapter failures are folded into
// not-found for the caller; their reasons stay in the logs.
func (s *LookupService) Lookup(ctx context.Context, raw string) (*model.Resolution, error) {
	start := s.now()

	canonical, err := normalize.Normalize(raw)
	if err != nil {
		s.observe(metrics.OutcomeRejected, start)
		return nil, apperror.ValidationFailed("Invalid username or ID format")
	}

	cacheKey := strings.ToLower(canonical)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err != nil {
			s.logger.Warn("cache read failed", slog.String("error", err.Error()))
		} else if cached != nil {
			if s.metrics != nil {
				s.metrics.CacheHits.Inc()
			}
			s.observe(outcomeFor(cached.Kind), start)
			return cached, nil
		}
	}

	s.logger.Info("looking up entity", slog.String("id", canonical))

	if out := s.resolver.ResolveAccount(ctx, canonical); out.Status == adapter.StatusOK {
		res := s.accountResolution(out.Account)
		s.store(ctx, cacheKey, res)
		s.observe(metrics.OutcomeAccount, start)
		return res, nil
	} else if out.Status == adapter.StatusTransient {
		s.logger.Warn("account phase degraded",
			slog.String("id", canonical),
			slog.String("reason", out.Reason),
		)
	}

	if out := s.resolver.ResolveGroup(ctx, canonical); out.Status == adapter.StatusOK {
		res := s.groupResolution(out.Group)
		s.store(ctx, cacheKey, res)
		s.observe(metrics.OutcomeGroup, start)
		return res, nil
	} else if out.Status == adapter.StatusTransient {
		s.logger.Warn("group phase degraded",
			slog.String("id", canonical),
			slog.String("reason", out.Reason),
		)
	}

	s.observe(metrics.OutcomeNotFound, start)
	return nil, fmt.Errorf("resolving %q: %w", canonical,
		apperror.NotFound("Entity not found in Telegram database"))
}

func (s *LookupService) accountResolution(acc *model.Account) *model.Resolution {
	created := derive.CreationDate(acc.ID)
	links := derive.UserLinks(acc.ID)

	res := &model.Resolution{
		Kind:           model.KindAccount,
		Account:        acc,
		DCLocation:     derive.Geography(acc.DCID),
		AccountCreated: &created,
		AccountAge:     derive.AccountAge(created, s.now()),
		Links:          &links,
	}
	res.ProfilePhotoURL = derive.ProfilePhotoURL(res.Handle(), derive.DefaultPhotoSize)
	return res
}

func (s *LookupService) groupResolution(group *model.Group) *model.Resolution {
	res := &model.Resolution{
		Kind:       model.KindGroup,
		Group:      group,
		DCLocation: derive.Geography(group.DCID),
	}
	chatLinks := derive.ChatLinksFor(res.Handle(), group.ID)
	res.ChatLinks = &chatLinks
	res.ProfilePhotoURL = derive.ProfilePhotoURL(res.Handle(), derive.DefaultPhotoSize)
	return res
}

func (s *LookupService) store(ctx context.Context, key string, res *model.Resolution) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(ctx, key, res, s.cacheTTL); err != nil {
		s.logger.Warn("cache write failed", slog.String("error", err.Error()))
	}
}

func (s *LookupService) observe(outcome string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveLookup(outcome, s.now().Sub(start))
	}
}

func outcomeFor(kind model.Kind) string {
	if kind == model.KindGroup {
		return metrics.OutcomeGroup
	}
	return metrics.OutcomeAccount
}
