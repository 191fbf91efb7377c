// Package client builds WebX403 Authorization headers for wallet holders.
//
// A [Client] wraps an Ed25519 private key and signs the same canonical
// string the server reconstructs during verification — both sides call
// webx403.BuildSigningString, so the bytes can never diverge.
//
// # What this package must NOT do
//
//   - Persist or export the private key.
//   - Reimplement the signing-string format.
package client
