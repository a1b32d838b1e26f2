// Package buyer provides a library of code that allows the standard
// library's http.Client to pay for HTTP content and services protected
// by L402 (formerly LSAT) payment challenges.
//
// When a server answers with 402 Payment Required, the challenge is read
// from the WWW-Authenticate header or, failing that, from the JSON body.
// The invoice is handed to an api.Payer and the request is sent again
// with the returned proof attached, either to the header the challenge
// names or to the configured proof header.
//
// It is anticipated that this software will commonly be used to allow
// AI agents to pay for the services they need.  When allowing automated
// payments on your behalf, care should be taken to limit your financial
// exposure.
//
// Defaults
//
//   - If the WithClient option is not specified, a copy of
//     http.DefaultClient is used with the http.DefaultTransport.
//   - If the WithLogger Option is not specified, a No-Op logger is used.
//   - If the WithProofHeader Option is not specified, proofs for
//     challenges that don't name a header are sent in X-L402-Proof.
//     Challenges from the WWW-Authenticate header default to the
//     Authorization header.
//   - If the WithMaxRetries Option is not specified, each request is
//     paid for and retried at most once.
package buyer
