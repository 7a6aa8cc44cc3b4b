// Package models defines the core domain models for hallcount.
//
// # Records
//
// A scan produces one of two records:
//   - CountRecord: people counted in a lecture hall photo
//   - SignatureRecord: signatures counted on one or more sign-in sheet pages
//
// Comparing a CountRecord with a SignatureRecord produces a Verification and
// stamps the CountRecord with the signature count and match outcome.
//
// # Design Principles
//
//  1. Relationships use ID strings, never pointers between records
//  2. Optional values that must travel together live in one optional struct
//  3. Timestamps are UTC; storage keeps millisecond precision
package models
