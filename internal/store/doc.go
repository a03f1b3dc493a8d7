// Package store defines interfaces for data persistence operations over
// decks and questions, together with the error taxonomy every
// implementation maps its failures into. The interfaces keep the
// application's core logic independent of the embedded database behind
// them.
package store
