// Package study orders a topic's cards for a study session and walks a
// session through them.
//
// Two orderings are supported. Random mode is an unbiased Fisher–Yates
// shuffle. Focus mode is weighted sampling without replacement that favours
// low-scoring cards: the lowest score in the deck weighs 2^3 = 8, the highest
// weighs 1, and scores in between interpolate exponentially. Every pass over
// the deck ends with a fresh ordering under the current mode, so focus mode
// keeps surfacing the cards that were just missed.
//
// A Session is a plain value owned by its caller. Scheduler methods mutate it
// in place and never persist anything; saving scored cards is left to the
// caller, between Grade and Record.
package study
