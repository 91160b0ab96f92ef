// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package commitgraph

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sort"
)

// IDSize is the width, in bytes, of a ChangesetId, a 32-byte content hash.
const IDSize = 32

// ChangesetId is an opaque, content-addressable changeset identifier.
// Equality is bitwise; ordering is lexicographic over the raw bytes.
type ChangesetId [IDSize]byte

// ParseChangesetId decodes a hex-encoded changeset id.
func ParseChangesetId(s string) (ChangesetId, error) {
	var id ChangesetId
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("commitgraph: invalid changeset id %q: %w", s, err)
	}
	if len(b) != IDSize {
		return id, fmt.Errorf("commitgraph: changeset id %q has %d bytes, want %d", s, len(b), IDSize)
	}
	copy(id[:], b)
	return id, nil
}

func (id ChangesetId) String() string {
	return hex.EncodeToString(id[:])
}

// Less reports whether id sorts strictly before other, lexicographically.
func (id ChangesetId) Less(other ChangesetId) bool {
	return bytes.Compare(id[:], other[:]) < 0
}

// Compare returns -1, 0 or 1 as id is less than, equal to, or greater than other.
func (id ChangesetId) Compare(other ChangesetId) int {
	return bytes.Compare(id[:], other[:])
}

// IsZero reports whether id is the zero value (never a valid changeset id
// in practice, but useful as a caller-side sentinel).
func (id ChangesetId) IsZero() bool {
	return id == ChangesetId{}
}

// SortChangesetIds sorts ids ascending in place and returns it for chaining.
func SortChangesetIds(ids []ChangesetId) []ChangesetId {
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}
