// Package http implements the HTTP surface of a proof ledger node.
//
// It wires the JSON API, the peer ingest endpoint used by the federation
// and the read-only portal views. Request tracing, access logging,
// response compression and body integrity checks are handled here before
// requests reach the service layer.
package http
