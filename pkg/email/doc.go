// Package email sends transactional email through Postmark.
//
// EmailSender is the interface the rest of the application depends on. Two
// implementations are provided: a Postmark-backed client for production and
// a DevSender that writes messages to disk for local development.
//
// ContactMessage renders the contact-form notification delivered to the
// support inbox.
package email
