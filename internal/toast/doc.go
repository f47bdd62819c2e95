// Package toast implements deduplicated, session-scoped toast notifications.
//
// A toast's identity is a hash of its status and message. Adding the same
// toast twice within one flash lifetime bumps the existing record (a new
// occurrence is appended) instead of creating a duplicate.
//
// The package never owns persistence: a Store reads and writes an injected
// FlashBag, whose consume-once lifetime is managed by the host.
package toast
