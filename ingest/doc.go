// Package ingest drives source material through the memory pipeline:
// extract records from a payload, redact each record's text, split it into
// bounded chunks, embed the chunks in batched calls, and upsert the resulting
// rows into a memory store.
//
// One entry point exists per source type (chat logs, meeting transcripts,
// documents, tabular data). All of them return core.IngestStats; degenerate
// input surfaces as warning codes in the stats, never as an error. Only the
// embedding and storage boundaries can fail an ingest call.
package ingest
