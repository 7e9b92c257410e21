package domain

import "errors"

var (
	// ErrEmptyShoppingList is returned when a search has no usable items
	ErrEmptyShoppingList = errors.New("shopping list is empty")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrSellerNotFound is returned when a seller has no offers in the store
	ErrSellerNotFound = errors.New("seller not found")

	// ErrStoreUnavailable is returned when the offer store cannot be reached
	ErrStoreUnavailable = errors.New("offer store unavailable")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
