// Package identifier implements the ULID primary key type used by every
// entity, together with the codec that maps it to a column representation
// (raw 16 bytes, standard UUID layout or 26-character canonical text).
package identifier
