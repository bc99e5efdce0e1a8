package table

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Key is a composite grouping key: a fixed-order sequence of tagged values
type Key []Value

// KeyOf extracts the values at idx from row
func KeyOf(row Row, idx []int) Key {
	k := make(Key, len(idx))
	for n, i := range idx {
		k[n] = row[i]
	}
	return k
}

// Encode produces a map index for the key. Strings and numbers never share
// an encoding, and an integral float encodes like the int of the same
// value. Ints beyond 2^53 that round to one float compare Equal to that
// float but keep distinct encodings.
func (k Key) Encode() string {
	var b strings.Builder
	for _, v := range k {
		if v.IsNumeric() {
			b.WriteByte('n')
			f := v.Float()
			if v.Kind() == KindInt {
				b.WriteString(strconv.FormatInt(v.Int(), 10))
			} else if f == math.Trunc(f) && f >= -(1<<63) && f < 1<<63 {
				b.WriteString(strconv.FormatInt(int64(f), 10))
			} else {
				b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
			}
			b.WriteByte(';')
			continue
		}
		s := v.Str()
		b.WriteByte('s')
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte(':')
		b.WriteString(s)
	}
	return b.String()
}

// CompareKeys orders keys element by element
func CompareKeys(a, b Key) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

// Group is one distinct key and the positions of the rows that carry it
type Group struct {
	Key  Key
	Rows []int
}

// GroupBy partitions t by the named columns. Groups are returned ascending
// by key; rows inside a group keep table order.
func GroupBy(t *Table, names ...string) ([]Group, error) {
	idx, err := t.Indexes(names...)
	if err != nil {
		return nil, err
	}

	positions := make(map[string]int)
	var groups []Group
	for i, r := range t.rows {
		k := KeyOf(r, idx)
		enc := k.Encode()
		p, ok := positions[enc]
		if !ok {
			p = len(groups)
			positions[enc] = p
			groups = append(groups, Group{Key: k})
		}
		groups[p].Rows = append(groups[p].Rows, i)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return CompareKeys(groups[i].Key, groups[j].Key) < 0
	})
	return groups, nil
}

// Sum adds up the numeric values of column c over the given rows. Other
// values are skipped; an empty row set sums to Int(0).
func Sum(t *Table, rows []int, c int) Value {
	total := Int(0)
	for _, i := range rows {
		if v := t.rows[i][c]; v.IsNumeric() {
			total = Add(total, v)
		}
	}
	return total
}

// MinMax returns the smallest and largest value of column c over rows
func MinMax(t *Table, rows []int, c int) (Value, Value) {
	if len(rows) == 0 {
		return Value{}, Value{}
	}
	lo, hi := t.rows[rows[0]][c], t.rows[rows[0]][c]
	for _, i := range rows[1:] {
		v := t.rows[i][c]
		if Compare(v, lo) < 0 {
			lo = v
		}
		if Compare(v, hi) > 0 {
			hi = v
		}
	}
	return lo, hi
}
