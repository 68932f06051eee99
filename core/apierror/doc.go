// Package apierror defines the error kinds raised at the provider-adapter
// boundary. Adapters catch vendor failures at the call site and re-wrap them
// into these types before they cross into the routing layer, which performs
// no additional wrapping. Nothing in this package retries anything.
package apierror
