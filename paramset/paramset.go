// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package paramset decodes the extended-query-protocol bound-parameter
// vector (§6 "Consumed from the session layer": an ordered sequence of
// `(postgres-type-oid, raw-bytes, format-code)`) into the string values
// the Shard Mapper hashes, using jackc/pgtype's wire-format codecs instead
// of a hand-rolled OID switch.
package paramset

import (
	"strconv"

	"github.com/jackc/pgtype"
)

// FormatCode matches the Postgres wire protocol's parameter format codes.
type FormatCode int16

const (
	FormatText   FormatCode = 0
	FormatBinary FormatCode = 1
)

// Param is one bound parameter as it arrives off the wire, before
// decoding.
type Param struct {
	TypeOID uint32
	Raw     []byte
	Format  FormatCode
}

// Vector is the ordered bound-parameter list for one extended-query
// statement. Simple-query-protocol statements pass an empty Vector; every
// parameter lookup against it then falls through the mapper's
// out-of-range rule and degrades to All (§4.3 rule 4).
type Vector []Param

var connInfo = pgtype.NewConnInfo()

// Text decodes the parameter at pos to its string form, suitable for
// hashing. ok is false when pos is out of range - the caller (the Shard
// Mapper) treats that as a missing parameter and degrades to All.
func (v Vector) Text(pos int) (value string, ok bool) {
	if pos < 0 || pos >= len(v) {
		return "", false
	}
	return decodeScalar(v[pos])
}

// TextArray decodes the parameter at pos as a Postgres array literal,
// returning each element's string form. A malformed array literal
// degrades that key alone (§7); other keys in the same predicate still
// contribute.
func (v Vector) TextArray(pos int) (elements []string, ok bool) {
	if pos < 0 || pos >= len(v) {
		return nil, false
	}
	return decodeArray(v[pos])
}

func decodeScalar(p Param) (string, bool) {
	if p.Raw == nil {
		return "", false
	}
	if p.Format == FormatText {
		return string(p.Raw), true
	}
	return decodeBinaryScalar(p.TypeOID, p.Raw)
}

func decodeBinaryScalar(oid uint32, raw []byte) (string, bool) {
	switch oid {
	case pgtype.Int4OID:
		var v pgtype.Int4
		if err := v.DecodeBinary(connInfo, raw); err != nil {
			return "", false
		}
		return formatInt64(int64(v.Int)), v.Status == pgtype.Present
	case pgtype.Int8OID:
		var v pgtype.Int8
		if err := v.DecodeBinary(connInfo, raw); err != nil {
			return "", false
		}
		return formatInt64(v.Int), v.Status == pgtype.Present
	case pgtype.UUIDOID:
		var v pgtype.UUID
		if err := v.DecodeBinary(connInfo, raw); err != nil {
			return "", false
		}
		s, err := v.EncodeText(connInfo, nil)
		if err != nil {
			return "", false
		}
		return string(s), v.Status == pgtype.Present
	default:
		var v pgtype.Text
		if err := v.DecodeBinary(connInfo, raw); err != nil {
			return "", false
		}
		return v.String, v.Status == pgtype.Present
	}
}

func decodeArray(p Param) ([]string, bool) {
	if p.Raw == nil {
		return nil, false
	}

	var arr pgtype.TextArray
	var err error
	if p.Format == FormatText {
		err = arr.DecodeText(connInfo, p.Raw)
	} else {
		err = arr.DecodeBinary(connInfo, p.Raw)
	}
	if err != nil {
		return nil, false
	}

	out := make([]string, 0, len(arr.Elements))
	for _, el := range arr.Elements {
		if el.Status != pgtype.Present {
			continue
		}
		out = append(out, el.String)
	}
	return out, true
}

// ParseArrayLiteral decodes a Postgres array literal in its text form
// (e.g. `{1, 2, 3}`, as it appears inlined in SQL rather than bound as a
// parameter) into its element strings. Used for the
// `Constant{array: true}` case in §4.3 rule 3. A malformed literal
// returns ok=false so the caller can degrade that key alone.
func ParseArrayLiteral(text string) (elements []string, ok bool) {
	var arr pgtype.TextArray
	if err := arr.DecodeText(connInfo, []byte(text)); err != nil {
		return nil, false
	}
	out := make([]string, 0, len(arr.Elements))
	for _, el := range arr.Elements {
		if el.Status != pgtype.Present {
			continue
		}
		out = append(out, el.String)
	}
	return out, true
}

func formatInt64(v int64) string {
	return strconv.FormatInt(v, 10)
}
