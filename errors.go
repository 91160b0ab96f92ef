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
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

// The three error kinds the core surfaces. Callers should use
// errors.Is/errors.As against these, never string-match messages.
var (
	// ErrMissingChangeset is returned when an id that is required to exist
	// (any *Required Storage path, or a declared head) was not found.
	ErrMissingChangeset = stderrors.New("commitgraph: missing changeset")

	// ErrStorage wraps any failure surfaced by the Storage capability.
	// Unwrap it to reach the underlying cause.
	ErrStorage = stderrors.New("commitgraph: storage error")

	// ErrInvariantViolation marks a returned edge or traversal state that
	// contradicts the DAG invariants this package depends on (e.g. a
	// generation inconsistent with a known parent's generation). A
	// correctly implemented Storage should never trigger this.
	ErrInvariantViolation = stderrors.New("commitgraph: invariant violation")
)

// missingChangesetErr builds an ErrMissingChangeset wrapping the offending id.
func missingChangesetErr(id ChangesetId) error {
	return fmt.Errorf("%w: %s", ErrMissingChangeset, id)
}

// storageErr wraps an error returned by a Storage call with ErrStorage so
// callers can errors.Is(err, ErrStorage) regardless of the backend.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

// invariantErr builds an ErrInvariantViolation with context, using
// pkg/errors so the message carries a stack-annotated cause the way the
// rest of the call chain does.
func invariantErr(format string, args ...any) error {
	return errors.Wrapf(ErrInvariantViolation, format, args...)
}
