// Package domain contains the core entities of FlashMind: topics, the cards
// they own, and the feedback a learner gives while studying. It has no
// knowledge of storage or delivery; the scoring and scheduling rules live in
// the scoring and study subpackages.
package domain
