// Package integration contains the supplier integration bounded context.
// It mirrors locally placed orders into the supplier's shopping cart so an
// operator can complete procurement.
//
// Key concepts:
//   - SupplierCart: port for the supplier's session-based cart API
//   - CredentialsProvider: port returning the stored supplier account
//   - SyncLocker: port serializing sync attempts for one order
//   - SyncOutcome: aggregated, per-item result of one sync attempt
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration
