// Package formio holds the wire-level data model shared by the client, the
// bridge, and the screen controllers: form definitions, polymorphic component
// trees, submissions, and the structured error body the form service returns.
//
// The service owns validation and storage; values in this package are treated
// as immutable once fetched. Component trees round-trip through JSON without
// loss, including component types and fields this package does not know about,
// so schema evolution on the service side never breaks local consumers.
package formio
