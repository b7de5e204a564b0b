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

package identifier

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode matches every *DecodeError via errors.Is.
	ErrDecode = errors.New("identifier: decode failed")

	ErrUnsupportedType = errors.New("unsupported input type")
	ErrLength          = errors.New("unrecognized length")
	ErrRange           = errors.New("value out of 128-bit unsigned range")
)

// DecodeError reports input that matches no recognized identifier form.
type DecodeError struct {
	// Type is the Go type of the rejected input.
	Type  string
	Input string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("identifier: cannot decode %s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("identifier: cannot decode %s %q: %v", e.Type, e.Input, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }
