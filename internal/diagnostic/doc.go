// Package diagnostic collects structured errors and warnings produced while
// resolving a batch of implementations, so that every problem can be
// reported in one pass.
package diagnostic
