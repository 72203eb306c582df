package domain

import "errors"

var (
	// ErrEmptyCorpus is returned when the vector model cannot be built because
	// the dataset has no products with usable names
	ErrEmptyCorpus = errors.New("corpus has no usable product names")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrDatasetLoad is returned when the dataset file cannot be read or parsed
	ErrDatasetLoad = errors.New("failed to load dataset")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
