/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package model

import "time"

// Timestamps is embedded by every entity. DeletedAt is the tombstone set by
// a quasi-delete; it is never cleared.
type Timestamps struct {
	CreatedAt time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt *time.Time `bun:"deleted_at" json:"deleted_at,omitempty"`
}

// Normalize converts t to the precision every supported backend keeps.
func Normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// Stamp records a write at now. A create sets both timestamps to the same
// instant; an update moves UpdatedAt strictly forward even when the clock
// has not advanced past the stored value.
func (t *Timestamps) Stamp(now time.Time, created bool) {
	now = Normalize(now)
	if created {
		t.CreatedAt = now
		t.UpdatedAt = now
		return
	}
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Microsecond)
	}
	t.UpdatedAt = now
}

// Tombstone sets DeletedAt unless it is already set.
func (t *Timestamps) Tombstone(now time.Time) {
	if t.DeletedAt != nil {
		return
	}
	n := Normalize(now)
	t.DeletedAt = &n
}

func (t *Timestamps) Tombstoned() bool {
	return t.DeletedAt != nil
}
