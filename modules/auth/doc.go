// Package auth provides first-party email+password accounts: registration,
// login, and bearer-token identity resolution for the session API.
//
// Passwords are bcrypt-hashed; issued tokens are HMAC-SHA256 JWTs whose
// subject is the user id. The Authenticator middleware turns a valid bearer
// token into a user id in the request context, which downstream handlers
// read via UserIDFromContext.
package auth
