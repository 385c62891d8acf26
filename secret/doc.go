// Package secret resolves the upstream API credential without ever
// writing it to a config file.
//
// A configuration value is either the credential itself, a "${VAR}"
// expansion, or a reference the Resolver hands to a Provider:
//
//	secretref:env:API_SPORTS_KEY
//	secretref:file:/run/secrets/api_sports_key
//
// Expansion is strict: "${VAR}" with VAR unset is an error, so a missing
// credential fails at startup rather than on the first upstream call.
package secret
