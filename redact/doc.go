// Package redact provides best-effort, regex-based PII redaction for source
// text before it is chunked, embedded, and stored.
//
// Detection is pattern matching, not understanding: the detectors catch
// email-, SSN-, card-, and phone-shaped strings plus a short first-name
// denylist, and they are applied in a fixed order where each detector scans
// the output of the previous one. Perfect PII detection is explicitly out of
// scope.
package redact
