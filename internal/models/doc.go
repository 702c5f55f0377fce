// Package models defines the core domain types for spltr3.
//
// Amounts are represented as shopspring decimals so that ledger arithmetic
// is exact in minor currency units; float64 never carries money here.
//
// Identity: users are provisioned from verified JWT claims issued by an
// external identity service. This package has no credential material.
//
// Relationships use ID strings rather than pointers to avoid circular
// references between groups, expenses, and settlements.
package models
