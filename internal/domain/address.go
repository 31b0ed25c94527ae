package domain

import "context"

// ResolvedAddress is the outcome of a best-effort address lookup. A nil
// latitude/longitude means the resolver could not geocode; an empty
// FullAddress means it could not resolve the postal code.
type ResolvedAddress struct {
	FullAddress string
	Latitude    *float64
	Longitude   *float64
}

// AddressResolver enriches an event's address. Implementations are
// best-effort: network failures, unparseable input, and empty lookup results
// come back as missing data, not as errors that block the caller. A non-nil
// error is reserved for programming mistakes (e.g. nil context).
type AddressResolver interface {
	Resolve(ctx context.Context, cep, fullAddress string) (*ResolvedAddress, error)
}
