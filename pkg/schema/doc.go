// Package schema defines the declarative form model the wizard runs on: an
// ordered sequence of sections, each an ordered group of fields with a fixed
// kind enumeration, length bounds, and option sets. Schemas are loaded from
// YAML or JSON documents (file, fs.FS, or URL sources), sanitized, and
// structurally validated once; after that they are read-only for the session.
package schema
