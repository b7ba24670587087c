package owner

import (
	"context"

	"property_listing_backend/internal/config"
	"property_listing_backend/internal/identity"
	"property_listing_backend/internal/user"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Strategy is one way of resolving an owner view. Strategies are tried in order until one succeeds.
type Strategy struct {
	Name    string
	Resolve func(ctx context.Context, uid string) (View, error)
}

// ProfileStrategy resolves owners from the stored profile documents.
func ProfileStrategy(repo user.Repository) Strategy {
	return Strategy{
		Name: "profile",
		Resolve: func(ctx context.Context, uid string) (View, error) {
			p, err := repo.FindByID(ctx, uid)
			if err != nil {
				return View{}, err
			}
			return FromProfile(uid, p), nil
		},
	}
}

// IdentityStrategy resolves owners from the identity provider's user records.
func IdentityStrategy(verifier identity.Verifier) Strategy {
	return Strategy{
		Name: "identity",
		Resolve: func(ctx context.Context, uid string) (View, error) {
			rec, err := verifier.GetUser(ctx, uid)
			if err != nil {
				return View{}, err
			}
			return FromUserRecord(uid, rec), nil
		},
	}
}

// Enricher resolves owner views for sets of user ids with bounded concurrency.
// Lookup failures never surface: an owner that no strategy resolves gets the placeholder view.
type Enricher struct {
	strategies  []Strategy
	concurrency int
	logger      *zap.Logger
}

// NewEnricher creates an enricher using the profile store first and the identity provider second.
func NewEnricher(cfg *config.Config, repo user.Repository, verifier identity.Verifier, logger *zap.Logger) *Enricher {
	return NewEnricherWithStrategies(cfg.OwnerLookupConcurrency, logger, ProfileStrategy(repo), IdentityStrategy(verifier))
}

// NewEnricherWithStrategies creates an enricher with an explicit strategy order.
func NewEnricherWithStrategies(concurrency int, logger *zap.Logger, strategies ...Strategy) *Enricher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Enricher{
		strategies:  strategies,
		concurrency: concurrency,
		logger:      logger.Named("OwnerEnricher"),
	}
}

// Resolve returns the owner view for a single uid.
func (e *Enricher) Resolve(ctx context.Context, uid string) View {
	for _, s := range e.strategies {
		v, err := s.Resolve(ctx, uid)
		if err == nil {
			return v
		}
		e.logger.Debug("Owner lookup strategy failed",
			zap.String("strategy", s.Name), zap.String("ownerID", uid), zap.Error(err))
	}
	e.logger.Warn("Owner could not be resolved, using placeholder", zap.String("ownerID", uid))
	return Placeholder(uid)
}

// ResolveAll resolves every distinct uid concurrently and returns the views keyed by uid.
func (e *Enricher) ResolveAll(ctx context.Context, uids []string) map[string]View {
	distinct := make([]string, 0, len(uids))
	seen := make(map[string]struct{}, len(uids))
	for _, uid := range uids {
		if _, ok := seen[uid]; ok {
			continue
		}
		seen[uid] = struct{}{}
		distinct = append(distinct, uid)
	}

	views := make([]View, len(distinct))
	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i, uid := range distinct {
		i, uid := i, uid
		g.Go(func() error {
			views[i] = e.Resolve(ctx, uid)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]View, len(distinct))
	for i, uid := range distinct {
		out[uid] = views[i]
	}
	return out
}
