// Package tripshare implements the core of a small itinerary sharing
// application: passwordless authentication via emailed one-time codes and
// magic links, signed session cookies for users and admins, and ownership
// checks over itinerary records.
//
// The package is storage and transport agnostic at its edges: persistence is
// consumed through a RepositoryManager backed by bun, outbound email through
// a Mailer, and HTTP controllers bind the core to fiber.
package tripshare
