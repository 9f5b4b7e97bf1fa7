// Package tripapi holds the wire messages of the tripplanner.v1 Connect
// services and the JSON codec they are exchanged with. Handlers and clients
// live in tripapiconnect.
package tripapi
