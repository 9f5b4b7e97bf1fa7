// Package models defines the core domain models for Tripplanner.
//
// # Models
//
//   - User: Registered account; identity for votes and participant rows
//   - Group: People planning a trip together, joined through a join code
//   - Destination: Catalog entry members vote on (opaque ID)
//   - Vote: A user's single live vote for a destination
//   - Trip: The group's trip, its chosen destination and lifecycle status
//   - Participant: One member's confirmation and payment state on a trip
//
// # Design Principles
//
//  1. **ID references**: Relationships use ID strings, never pointers between models
//  2. **Single slot votes**: A user has at most one Vote; casting again replaces it
//  3. **Value participants**: Participants are owned by their Trip and keyed by UserID
//  4. **Copy on snapshot**: Clone helpers return deep copies so callers can keep
//     pre-mutation snapshots without aliasing live state
package models
