// SPDX-License-Identifier: GPL-3.0-only

// Package catalog holds the static NYC subway station list. It is loaded once
// at startup from the MTA Stations.csv format and read-only afterwards; the
// relational store never references it.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultSource is the MTA's published station list (GTFS Stop ID, Complex
// ID, Stop Name, Daytime Routes, coordinates). No API key required.
const DefaultSource = "http://web.mta.info/developers/data/nyct/subway/Stations.csv"

var httpClient = &http.Client{Timeout: 12 * time.Second}

type Station struct {
	ID        string   `json:"id"`
	ComplexID string   `json:"complex_id"`
	Name      string   `json:"name"`
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
	Routes    []string `json:"routes"`
}

type Catalog struct {
	stations  []Station
	byID      map[string]Station
	byComplex map[string][]string
}

// Load reads the station list from source, which may be a local file path or
// an http(s) URL.
func Load(source string) (*Catalog, error) {
	var body io.ReadCloser
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		resp, err := httpClient.Get(source)
		if err != nil {
			return nil, fmt.Errorf("download stations: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("download stations: status %d", resp.StatusCode)
		}
		body = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open stations file: %w", err)
		}
		body = f
	}
	defer body.Close()
	return Parse(body)
}

// Parse reads stations from MTA Stations.csv data.
func Parse(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	need := []string{"gtfsstopid", "complexid", "stopname", "daytimeroutes", "gtfslatitude", "gtfslongitude"}
	idx, err := parseCSVHeaders(reader, need)
	if err != nil {
		return nil, err
	}
	maxIdx := 0
	for _, k := range need {
		if idx[k] > maxIdx {
			maxIdx = idx[k]
		}
	}

	c := &Catalog{
		byID:      map[string]Station{},
		byComplex: map[string][]string{},
	}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read stations row: %w", err)
		}
		if len(row) <= maxIdx {
			// Ragged row, cannot hold every needed column.
			continue
		}
		stopID := strings.TrimSpace(row[idx["gtfsstopid"]])
		name := strings.TrimSpace(row[idx["stopname"]])
		lat, _ := strconv.ParseFloat(row[idx["gtfslatitude"]], 64)
		lon, _ := strconv.ParseFloat(row[idx["gtfslongitude"]], 64)
		if stopID == "" || lat == 0 || lon == 0 {
			continue
		}
		if _, dup := c.byID[stopID]; dup {
			continue
		}
		routes := strings.Fields(row[idx["daytimeroutes"]])
		if routes == nil {
			routes = []string{}
		}
		s := Station{
			ID:        stopID,
			ComplexID: strings.TrimSpace(row[idx["complexid"]]),
			Name:      name,
			Lat:       lat,
			Lon:       lon,
			Routes:    routes,
		}
		c.stations = append(c.stations, s)
		c.byID[stopID] = s
		if s.ComplexID != "" {
			c.byComplex[s.ComplexID] = append(c.byComplex[s.ComplexID], stopID)
		}
	}
	if len(c.stations) == 0 {
		return nil, fmt.Errorf("stations csv contained no usable rows")
	}
	return c, nil
}

// Stations returns every catalog entry.
func (c *Catalog) Stations() []Station {
	return c.stations
}

func (c *Catalog) Count() int {
	return len(c.stations)
}

// Station looks a single entry up by id.
func (c *Catalog) Station(id string) (Station, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// ComplexMembers returns every station id sharing the given station's
// transfer complex, the station itself included. Unknown ids and stations
// without a complex map to themselves, so the result is always non-empty.
func (c *Catalog) ComplexMembers(stationID string) []string {
	s, ok := c.byID[stationID]
	if !ok || s.ComplexID == "" {
		return []string{stationID}
	}
	members := c.byComplex[s.ComplexID]
	if len(members) == 0 {
		return []string{stationID}
	}
	return members
}

// ComplexCount reports the number of distinct logical stops.
func (c *Catalog) ComplexCount() int {
	seen := map[string]struct{}{}
	n := 0
	for _, s := range c.stations {
		if s.ComplexID == "" {
			n++
			continue
		}
		if _, ok := seen[s.ComplexID]; !ok {
			seen[s.ComplexID] = struct{}{}
			n++
		}
	}
	return n
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	replacer := strings.NewReplacer(" ", "", "_", "", "-", "", "/", "", ".", "")
	return replacer.Replace(s)
}

func parseCSVHeaders(r *csv.Reader, needed []string) (map[string]int, error) {
	headers, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read stations header: %w", err)
	}

	idx := map[string]int{}
	for i, h := range headers {
		idx[normalizeHeader(h)] = i
	}

	var missing []string
	for _, k := range needed {
		if _, ok := idx[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("stations csv missing columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}
