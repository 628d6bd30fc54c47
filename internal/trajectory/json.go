// Package trajectory loads precomputed position tables and serves them to
// the simulator.
package trajectory

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/san-kum/orrery/internal/orbit"
)

// ParseJSON decodes the trajectory service's response body:
//
//	{"Earth": {"0.0": [x, y, z], "60.0": [x, y, z]}, ...}
//
// Keys are seconds from the trajectory origin written as decimal strings.
func ParseJSON(r io.Reader) (map[string]orbit.Table, error) {
	var raw map[string]map[string][3]float64
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("trajectory: decode: %w", err)
	}

	out := make(map[string]orbit.Table, len(raw))
	for body, samples := range raw {
		tbl := make(orbit.Table, len(samples))
		for key, p := range samples {
			offset, err := strconv.ParseFloat(key, 64)
			if err != nil {
				return nil, fmt.Errorf("trajectory: %s: bad time key %q: %w", body, key, err)
			}
			tbl[offset] = orbit.Vec3{X: p[0], Y: p[1], Z: p[2]}
		}
		out[body] = tbl
	}
	return out, nil
}

// WriteJSON encodes tables in the layout read by ParseJSON, with keys in
// ascending time order.
func WriteJSON(w io.Writer, tables map[string]orbit.Table) error {
	bodies := make([]string, 0, len(tables))
	for name := range tables {
		bodies = append(bodies, name)
	}
	sort.Strings(bodies)

	if _, err := io.WriteString(w, "{"); err != nil {
		return err
	}
	for i, name := range bodies {
		tbl := tables[name]
		keys := make([]float64, 0, len(tbl))
		for k := range tbl {
			keys = append(keys, k)
		}
		sort.Float64s(keys)

		nameJSON, _ := json.Marshal(name)
		sep := ","
		if i == 0 {
			sep = ""
		}
		if _, err := fmt.Fprintf(w, "%s%s:{", sep, nameJSON); err != nil {
			return err
		}
		for j, k := range keys {
			p := tbl[k]
			sep := ","
			if j == 0 {
				sep = ""
			}
			if _, err := fmt.Fprintf(w, "%s%q:[%s,%s,%s]", sep, formatKey(k),
				strconv.FormatFloat(p.X, 'g', -1, 64),
				strconv.FormatFloat(p.Y, 'g', -1, 64),
				strconv.FormatFloat(p.Z, 'g', -1, 64)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "}"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "}\n")
	return err
}

// formatKey writes whole seconds as "60.0" like the trajectory service.
func formatKey(k float64) string {
	s := strconv.FormatFloat(k, 'f', -1, 64)
	for _, c := range s {
		if c == '.' {
			return s
		}
	}
	return s + ".0"
}
