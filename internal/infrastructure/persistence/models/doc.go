// Package models holds the GORM persistence models. Domain types stay free
// of ORM tags; each model converts to and from its domain counterpart.
//
//   - base.go: identity and version columns
//   - accounting.go: account groups, ledgers, customers, vendors
//   - source.go: vouchers, trips, inventory stock, indirect sales
package models
