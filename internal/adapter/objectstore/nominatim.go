package objectstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/couchcryptid/destination-weather-etl/internal/domain"
)

// nominatimPlace is one search result of the coordinates document. Nominatim
// returns lat/lon as strings; numbers are accepted too.
type nominatimPlace struct {
	Lat         *flexFloat `json:"lat"`
	Lon         *flexFloat `json:"lon"`
	DisplayName string     `json:"display_name"`
}

type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid coordinate %s", data)
	}
	*f = flexFloat(v)
	return nil
}

// DecodeCoordinates reads a `{ "<name>": [place, ...], ... }` document and
// returns one entry per name in document order. The first place is
// authoritative: when it lacks lat or lon the name gets no candidates at all.
// Later places without both lat and lon are skipped.
func DecodeCoordinates(r io.Reader) ([]domain.NamedCoordinates, error) {
	dec := json.NewDecoder(r)
	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("decode coordinates: %w", err)
	}

	var out []domain.NamedCoordinates
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode coordinates: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("decode coordinates: unexpected token %v", tok)
		}

		var places []nominatimPlace
		if err := dec.Decode(&places); err != nil {
			return nil, fmt.Errorf("decode coordinates for %q: %w", name, err)
		}

		entry := domain.NamedCoordinates{Name: name}
		for i, p := range places {
			if p.Lat == nil || p.Lon == nil {
				if i == 0 {
					break
				}
				continue
			}
			entry.Candidates = append(entry.Candidates, domain.Coordinates{Lon: float64(*p.Lon), Lat: float64(*p.Lat)})
		}
		out = append(out, entry)
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, fmt.Errorf("decode coordinates: %w", err)
	}
	return out, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
