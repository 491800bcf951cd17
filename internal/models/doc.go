// Package models defines the core domain models for the Partela server.
//
// # Models
//
//   - Table: one shared bill-splitting session, identified by a short code
//   - Guest: one participant (device) seated at a table
//   - MenuItem: a line item on the shared bill, owned by exactly one guest
//   - PaymentInfo: the payment details a guest submits at checkout
//
// A Table exclusively owns its Guests; a Guest never outlives its Table.
// Connections hold non-owning references to guests by ID and are re-resolved
// on every inbound event, so a Guest survives disconnects and can be revived
// on reconnect.
//
// # DTOs
//
// TableDTO and GuestDTO are the client-facing projections. They never expose
// a guest's connection identity; clients only see the IsOnline flag. All
// JSON field names match the wire format consumed by the frontend
// (camelCase).
//
// # Design Principles
//
//  1. Models are plain data; all mutation goes through the registry and the
//     vote/split/payment services, always from the single serialized event
//     loop.
//  2. Relationships use ID strings, never pointers across aggregates, to
//     avoid circular references.
//  3. Derived state (totals, item assignments, remaining balance) is always
//     recomputed from the owning data, never edited directly.
package models
