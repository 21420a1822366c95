// Package policy gates property suggestions behind Rego policies evaluated
// with Open Policy Agent before they reach the writeback executor.
//
// Built-in policies enforce the configured property-name allowlist, numeric
// values for setup/run hour properties, and warn on empty values. Additional
// .rego files can be loaded from configured paths; each policy's deny set is
// queried per suggestion and error-severity violations block the write.
package policy
