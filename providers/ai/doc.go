// Package ai defines the provider-agnostic chat-completion data model and
// the interfaces every chat vendor adapter implements. Adapters translate
// between these types and their vendor's native request/response/stream
// shapes; nothing in this package talks to the network.
package ai
