package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/balcao-pos/balcao/internal/backend"
	"github.com/balcao-pos/balcao/internal/domain"
	"github.com/balcao-pos/balcao/internal/telemetry"
)

// maxRecommendations caps the suggestion strip.
const maxRecommendations = 6

// Recommender suggests products to add alongside the cart. The
// backend's recommendation endpoint is preferred; when it fails or
// returns nothing the recommender falls back to co-occurrence counts
// over today's orders. Recommendation failures never surface to the
// operator.
type Recommender struct {
	api     backend.API
	catalog map[string]domain.Product
	logger  *slog.Logger
	metrics *telemetry.BusinessMetrics
}

// NewRecommender creates a recommender. The product catalog resolves
// fallback product IDs into full records.
func NewRecommender(api backend.API, products []domain.Product, logger *slog.Logger, metrics *telemetry.BusinessMetrics) *Recommender {
	if logger == nil {
		logger = slog.Default()
	}
	catalog := make(map[string]domain.Product, len(products))
	for _, p := range products {
		catalog[p.ID] = p
	}
	return &Recommender{api: api, catalog: catalog, logger: logger, metrics: metrics}
}

// ForCart returns up to six products to suggest for the given cart
// contents. Products already in the cart are never suggested. An empty
// result is valid; errors are swallowed after logging.
func (r *Recommender) ForCart(ctx context.Context, s *Session) []domain.Product {
	inCart := s.CartProductIDs()
	if len(inCart) == 0 {
		return nil
	}

	if products := r.fromBackend(ctx, inCart); len(products) > 0 {
		return products
	}

	r.metrics.RecommendationFallback()
	return r.fromCoOccurrence(ctx, inCart)
}

func (r *Recommender) fromBackend(ctx context.Context, inCart []string) []domain.Product {
	products, err := r.api.Recommendations(ctx, inCart)
	if err != nil {
		r.logger.Warn("backend recommendations failed, using local fallback", "error", err)
		return nil
	}

	return excludeAndCap(products, inCart)
}

// fromCoOccurrence counts how often each product appears in today's
// orders that share at least one product with the cart, and suggests
// the most frequent ones.
func (r *Recommender) fromCoOccurrence(ctx context.Context, inCart []string) []domain.Product {
	orders, err := r.api.ListOrders(ctx, backend.ListOrdersParams{Date: time.Now()})
	if err != nil {
		r.logger.Warn("recommendation fallback failed", "error", err)
		return nil
	}

	cartSet := make(map[string]bool, len(inCart))
	for _, id := range inCart {
		cartSet[id] = true
	}

	counts := make(map[string]int)
	for _, order := range orders {
		if !ordersShareProduct(order, cartSet) {
			continue
		}
		for _, item := range order.Items {
			if cartSet[item.ProductID] {
				continue
			}
			counts[item.ProductID] += item.Quantity
		}
	}

	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})

	products := make([]domain.Product, 0, maxRecommendations)
	for _, id := range ids {
		product, ok := r.catalog[id]
		if !ok {
			continue
		}
		products = append(products, product)
		if len(products) == maxRecommendations {
			break
		}
	}
	return products
}

func ordersShareProduct(order domain.Order, cartSet map[string]bool) bool {
	for _, item := range order.Items {
		if cartSet[item.ProductID] {
			return true
		}
	}
	return false
}

func excludeAndCap(products []domain.Product, inCart []string) []domain.Product {
	cartSet := make(map[string]bool, len(inCart))
	for _, id := range inCart {
		cartSet[id] = true
	}

	out := make([]domain.Product, 0, maxRecommendations)
	for _, p := range products {
		if cartSet[p.ID] {
			continue
		}
		out = append(out, p)
		if len(out) == maxRecommendations {
			break
		}
	}
	return out
}
