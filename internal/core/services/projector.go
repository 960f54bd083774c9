package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/nearbyhq/nearby-core/internal/core/domain"
	"github.com/nearbyhq/nearby-core/internal/core/ports/driven"
)

// projectWorkers bounds the parallel fan-out of summary projection. Each
// projection issues an independent line-item read, so a handful in flight is
// enough to hide the round trips.
const projectWorkers = 4

// projector converts provider documents into display summaries
type projector struct {
	store driven.ProviderStore
}

// projectAll maps providers to summaries in parallel while preserving the
// input order on reassembly; the store's sort output must survive projection.
func (p *projector) projectAll(ctx context.Context, providers []*domain.Provider) ([]*domain.ProviderSummary, error) {
	summaries := make([]*domain.ProviderSummary, len(providers))
	errs := make([]error, len(providers))

	sem := make(chan struct{}, projectWorkers)
	var wg sync.WaitGroup
	for i, provider := range providers {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, provider *domain.Provider) {
			defer wg.Done()
			defer func() { <-sem }()
			summaries[i], errs[i] = p.project(ctx, provider)
		}(i, provider)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return summaries, nil
}

// project builds the display summary for a single provider, including the
// derived price range from its line-items.
func (p *projector) project(ctx context.Context, provider *domain.Provider) (*domain.ProviderSummary, error) {
	priceStr, priceRange, err := p.priceRange(ctx, provider.ID)
	if err != nil {
		return nil, err
	}

	locality := domain.UnknownLocality
	if provider.Address != nil {
		locality = provider.Address.City
	}

	image := provider.Image
	if image == "" {
		image = domain.PlaceholderImage
	}

	categories := []domain.Subcategory{}
	mainCategory := domain.GeneralCategory
	if sorted := provider.SortedCategories(); len(sorted) > 0 {
		mainCategory = sorted[0]
		for _, c := range sorted {
			categories = append(categories, provider.Category[c]...)
		}
	}

	return &domain.ProviderSummary{
		ID:           provider.ID,
		Title:        provider.Name,
		Provider:     provider.Name,
		Initials:     domain.Initials(provider.Name),
		Description:  provider.Description,
		Rating:       provider.AverageRating,
		Reviews:      provider.ReviewCount,
		Image:        image,
		Price:        priceStr,
		PriceRange:   priceRange,
		Location:     locality,
		Categories:   categories,
		MainCategory: mainCategory,
		AvailableNow: true, // live-availability computation is out of scope
	}, nil
}

// priceRange aggregates the provider's priced line-items
func (p *projector) priceRange(ctx context.Context, providerID string) (string, [2]float64, error) {
	items, err := p.store.ItemsByProvider(ctx, providerID)
	if err != nil {
		return "", [2]float64{}, fmt.Errorf("load line-items for %s: %w", providerID, err)
	}

	prices := make([]float64, 0, len(items))
	for _, item := range items {
		if item.Price != nil {
			prices = append(prices, *item.Price)
		}
	}

	str, rng := domain.FormatPriceRange(prices)
	return str, rng, nil
}
