// Package domain contains the core business entities and domain logic of
// the application: the deck tree and the type-tagged question family.
// It is independent of any specific infrastructure or delivery mechanism.
package domain
