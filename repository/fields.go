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

package repository

import (
	"database/sql"
	"reflect"
	"sort"

	"github.com/uptrace/bun/schema"
)

// column is one value supplied by a payload.
type column struct {
	name  string
	value reflect.Value
}

// payloadColumns extracts the set columns of a payload. A payload is a
// struct (or pointer to one) whose column names come from bun tags, or a
// map keyed by column name. Nil pointers, maps, slices and interfaces are
// treated as absent.
func payloadColumns(dialect schema.Dialect, payload any) ([]column, error) {
	if payload == nil {
		return nil, nil
	}
	v := reflect.ValueOf(payload)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		table := dialect.Tables().Get(v.Type())
		cols := make([]column, 0, len(table.Fields))
		for _, f := range table.Fields {
			fv := v.FieldByIndex(f.Index)
			if isAbsent(fv) {
				continue
			}
			cols = append(cols, column{name: f.Name, value: fv})
		}
		return cols, nil
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, invalidPayload("map payload must be keyed by column name, got %s", v.Type())
		}
		keys := v.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		cols := make([]column, 0, len(keys))
		for _, k := range keys {
			fv := v.MapIndex(k)
			if isAbsent(fv) {
				continue
			}
			cols = append(cols, column{name: k.String(), value: fv})
		}
		return cols, nil
	default:
		return nil, invalidPayload("unsupported payload type %T", payload)
	}
}

func isAbsent(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		if v.IsNil() {
			return true
		}
		if v.Kind() == reflect.Interface {
			return isAbsent(v.Elem())
		}
	}
	return false
}

var scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()

// assign stores src into the entity field dst. Besides plain assignment it
// dereferences optional payload values, converts between named types of the
// same kind (identifier.ID into identifier.Field) and falls back to the
// field's sql.Scanner for raw values such as identifier strings.
func assign(dst, src reflect.Value) error {
	for src.Kind() == reflect.Interface {
		src = src.Elem()
	}
	dt, st := dst.Type(), src.Type()

	switch {
	case st.AssignableTo(dt):
		dst.Set(src)
		return nil
	case st.ConvertibleTo(dt) && st.Kind() == dt.Kind():
		dst.Set(src.Convert(dt))
		return nil
	case src.Kind() == reflect.Ptr:
		return assign(dst, src.Elem())
	case dst.Kind() == reflect.Ptr:
		p := reflect.New(dt.Elem())
		if err := assign(p.Elem(), src); err != nil {
			return err
		}
		dst.Set(p)
		return nil
	case reflect.PointerTo(dt).Implements(scannerType) && dst.CanAddr():
		if err := dst.Addr().Interface().(sql.Scanner).Scan(src.Interface()); err != nil {
			return invalidPayload("%v", err)
		}
		return nil
	}
	return invalidPayload("cannot assign %s to %s", st, dt)
}
