// Package catalog assembles home-page data (categories plus featured
// products) from the commerce backend, with an optional short-TTL
// cache in front.
package catalog

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"storefront-bff/internal/domain"
)

const homeCacheKey = "storefront:catalog:home"

// Gateway is the slice of the commerce client the service needs.
type Gateway interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	Products(ctx context.Context) ([]domain.Product, error)
}

// Cache is a small get/set cache. Get returns ("", nil) on a miss.
// Cache failures are never fatal: the service falls through to the
// backend.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// HomePage is the data the storefront's landing page renders.
type HomePage struct {
	Categories []domain.Category `json:"categories"`
	Featured   []domain.Product  `json:"featured"`
}

type Service struct {
	gateway Gateway
	cache   Cache
	ttl     time.Duration
	logger  *log.Logger
}

// New builds the service. cache may be nil, which disables caching.
func New(gw Gateway, cache Cache, ttl time.Duration, logger *log.Logger) *Service {
	return &Service{gateway: gw, cache: cache, ttl: ttl, logger: logger}
}

// Home returns the landing-page catalog data. The backend's default
// "Uncategorized" bucket is hidden; featured products are limited to
// published simple products.
func (s *Service) Home(ctx context.Context) (HomePage, error) {
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil
	}

	categories, err := s.gateway.Categories(ctx)
	if err != nil {
		return HomePage{}, err
	}
	products, err := s.gateway.Products(ctx)
	if err != nil {
		return HomePage{}, err
	}

	page := HomePage{
		Categories: make([]domain.Category, 0, len(categories)),
		Featured:   make([]domain.Product, 0, len(products)),
	}
	for _, c := range categories {
		if c.Name == "Uncategorized" {
			continue
		}
		page.Categories = append(page.Categories, c)
	}
	for _, p := range products {
		if p.Featured && p.Status == "publish" && p.Type == "simple" {
			page.Featured = append(page.Featured, p)
		}
	}

	s.toCache(ctx, page)
	return page, nil
}

func (s *Service) fromCache(ctx context.Context) (HomePage, bool) {
	if s.cache == nil {
		return HomePage{}, false
	}
	raw, err := s.cache.Get(ctx, homeCacheKey)
	if err != nil {
		s.logger.Printf("catalog cache get: %v", err)
		return HomePage{}, false
	}
	if raw == "" {
		return HomePage{}, false
	}
	var page HomePage
	if err := json.Unmarshal([]byte(raw), &page); err != nil {
		s.logger.Printf("catalog cache decode: %v", err)
		return HomePage{}, false
	}
	return page, true
}

func (s *Service) toCache(ctx context.Context, page HomePage) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(page)
	if err != nil {
		s.logger.Printf("catalog cache encode: %v", err)
		return
	}
	if err := s.cache.Set(ctx, homeCacheKey, string(raw), s.ttl); err != nil {
		s.logger.Printf("catalog cache set: %v", err)
	}
}
