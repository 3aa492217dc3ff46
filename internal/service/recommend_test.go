package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balcao-pos/balcao/internal/backend"
	"github.com/balcao-pos/balcao/internal/domain"
)

func catalogProducts() []domain.Product {
	return []domain.Product{
		{ID: "pizza", Name: "Pizza", Price: 30},
		{ID: "coca", Name: "Coca-Cola", Price: 6},
		{ID: "suco", Name: "Suco", Price: 8},
		{ID: "pudim", Name: "Pudim", Price: 10},
	}
}

func TestRecommenderPrefersBackend(t *testing.T) {
	api := &mockAPI{
		recommendFn: func(_ context.Context, productIDs []string) ([]domain.Product, error) {
			assert.Equal(t, []string{"pizza"}, productIDs)
			return []domain.Product{
				{ID: "pizza", Name: "Pizza"}, // already in the cart
				{ID: "coca", Name: "Coca-Cola"},
			}, nil
		},
	}
	r := NewRecommender(api, catalogProducts(), nil, nil)

	s := sessionWithCart(t)
	products := r.ForCart(context.Background(), s)
	require.Len(t, products, 1)
	assert.Equal(t, "coca", products[0].ID, "in-cart products are never suggested")
}

func TestRecommenderFallsBackToCoOccurrence(t *testing.T) {
	api := &mockAPI{
		recommendFn: func(context.Context, []string) ([]domain.Product, error) {
			return nil, domain.Unavailable(nil, "backend.Recommendations", "down")
		},
		listOrdersFn: func(context.Context, backend.ListOrdersParams) ([]domain.Order, error) {
			return []domain.Order{
				{ID: "o1", Status: domain.StatusDelivered, Items: []domain.OrderItem{
					{ProductID: "pizza", Quantity: 1},
					{ProductID: "coca", Quantity: 2},
				}},
				{ID: "o2", Status: domain.StatusDelivered, Items: []domain.OrderItem{
					{ProductID: "pizza", Quantity: 1},
					{ProductID: "coca", Quantity: 1},
					{ProductID: "pudim", Quantity: 1},
				}},
				// No overlap with the cart: must not contribute.
				{ID: "o3", Status: domain.StatusDelivered, Items: []domain.OrderItem{
					{ProductID: "suco", Quantity: 10},
				}},
			}, nil
		},
	}
	r := NewRecommender(api, catalogProducts(), nil, nil)

	s := sessionWithCart(t)
	products := r.ForCart(context.Background(), s)
	require.Len(t, products, 2)
	assert.Equal(t, "coca", products[0].ID, "ranked by co-occurrence count")
	assert.Equal(t, "pudim", products[1].ID)
}

func TestRecommenderDegradesSilently(t *testing.T) {
	api := &mockAPI{
		recommendFn: func(context.Context, []string) ([]domain.Product, error) {
			return nil, domain.Unavailable(nil, "backend.Recommendations", "down")
		},
		listOrdersFn: func(context.Context, backend.ListOrdersParams) ([]domain.Order, error) {
			return nil, domain.Unavailable(nil, "backend.ListOrders", "down")
		},
	}
	r := NewRecommender(api, catalogProducts(), nil, nil)

	s := sessionWithCart(t)
	assert.Empty(t, r.ForCart(context.Background(), s), "failures yield an empty strip, not an error")
}

func TestRecommenderEmptyCartSuggestsNothing(t *testing.T) {
	r := NewRecommender(&mockAPI{}, catalogProducts(), nil, nil)
	s := NewSessionManager().Create()
	assert.Empty(t, r.ForCart(context.Background(), s))
}

func TestRecommenderCapsAtSix(t *testing.T) {
	many := make([]domain.Product, 0, 10)
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		many = append(many, domain.Product{ID: id, Name: id})
	}
	api := &mockAPI{
		recommendFn: func(context.Context, []string) ([]domain.Product, error) {
			return many, nil
		},
	}
	r := NewRecommender(api, nil, nil, nil)

	s := sessionWithCart(t)
	assert.Len(t, r.ForCart(context.Background(), s), maxRecommendations)
}
