// Package entitlement holds the authoritative premium-access record and the
// pure resolver feature gates consult.
//
// AccessRecord is the single source of truth for a user's premium flag and
// expiry; it is written only by the billing verifier. CheckAccess combines a
// record with the current time to produce a decision, re-checking expiry on
// every call so a stale premium flag can never grant access past its window.
package entitlement
