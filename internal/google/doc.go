// Package google provides OAuth2 authentication and token management for
// the Google Calendar API.
//
// Tokens are stored per account under the user cache directory, so one
// server can query free/busy data for several authorized calendars. The
// TokenProvider interface abstracts the token source, allowing storage
// other than the local filesystem to be plugged in.
package google
