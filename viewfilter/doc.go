// Package viewfilter implements free-text quick matching for view caches.
//
// A quick-match query is split on whitespace into a token set. Tokens are case
// folded unless a custom matcher is installed, and blank tokens are dropped. An
// item matches when the tokens, combined with the configured LogicalOperator,
// are found in the item's string projection:
//
//	OR       any token is contained
//	AND      every token is contained
//	NOT_OR   no token is contained
//	NOT_AND  at least one token is absent
//
// Filter remembers the active token set so callers can skip a rescan when a
// query produces the same set again, in any order and with any spacing.
//
// The helpers in this package (Tokenize, SameTokens, Contains, Predicate and the
// predicate combinators) are usable on their own by code that needs a custom
// match predicate.
package viewfilter
