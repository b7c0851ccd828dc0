// Package api defines the request and response messages of the splitledger RPC
// services. Messages travel as JSON over Connect (see Codec).
//
// Amounts are sent twice where they are returned: as integer cents (the
// *_cents fields) and as a formatted decimal string for display. Requests take
// decimal strings, e.g. "12.34".
package api
