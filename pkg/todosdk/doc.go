// Package todosdk is a Go client for the todo service. It covers the
// authentication endpoints (password, refresh and client-credentials
// grants brokered through the upstream identity provider) and the
// bearer-authenticated todo CRUD surface.
//
// The request and response types in this package are also the wire types
// the service itself serves, so the two sides cannot drift apart.
package todosdk
