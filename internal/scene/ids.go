/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixRect  = "rect"
	PrefixArrow = "arrow"
)

// NewID returns a fresh sortable id prefixed by the shape kind, e.g. rect_01h2x...
func NewID(k Kind) string {
	prefix := PrefixRect
	if k == KindArrow {
		prefix = PrefixArrow
	}
	return typeid.MustGenerate(prefix).String()
}

// ValidateID checks that id is a generated id of kind k.
func ValidateID(id string, k Kind) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid shape id %q: %w", id, err)
	}
	want := PrefixRect
	if k == KindArrow {
		want = PrefixArrow
	}
	if parsed.Prefix() != want {
		return fmt.Errorf("expected prefix %q but got %q in id %q", want, parsed.Prefix(), id)
	}
	return nil
}
