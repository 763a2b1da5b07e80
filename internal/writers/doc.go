// Package writers turns predictions into serialized outputs.
//
// Design:
//   • Writers own all presentation knowledge (PDB, JSON, JSONL).
//   • core/ stays domain-only; pipeline stays orchestration-only.
//   • Everything goes through pkg/api (v1) so the formats agree on content.
package writers
