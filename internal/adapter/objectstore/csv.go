package objectstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/couchcryptid/destination-weather-etl/internal/domain"
)

// HotelCityColumn is the join column of the hotels CSV.
const HotelCityColumn = "city"

// ErrNoCityColumn is returned when the hotels CSV header has no city column.
var ErrNoCityColumn = errors.New("hotels csv has no city column")

// DecodeHotels reads a hotels CSV with a header row. The city column is the
// join key; every other column is kept verbatim in header order.
func DecodeHotels(r io.Reader) ([]domain.HotelRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 0

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read hotels header: %w", err)
	}

	cityIdx := -1
	var columns []string
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == HotelCityColumn && cityIdx < 0 {
			cityIdx = i
			continue
		}
		columns = append(columns, h)
	}
	if cityIdx < 0 {
		return nil, ErrNoCityColumn
	}

	var hotels []domain.HotelRecord
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read hotels line %d: %w", line, err)
		}

		attrs := make([]string, 0, len(rec)-1)
		for i, v := range rec {
			if i != cityIdx {
				attrs = append(attrs, v)
			}
		}
		hotels = append(hotels, domain.HotelRecord{City: rec[cityIdx], Columns: columns, Attributes: attrs})
	}
	return hotels, nil
}

// EncodeSelection writes rows as CSV with a header of domain.OutputColumns.
func EncodeSelection(w io.Writer, rows []domain.OutputRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.OutputColumns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(selectionRecord(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func selectionRecord(r domain.OutputRow) []string {
	return []string{
		r.Name,
		formatFloat(r.Longitude),
		formatFloat(r.Latitude),
		formatFloat(r.TempDayMean),
		formatFloat(r.CloudsMean),
		formatFloat(r.PopMean),
		strconv.Itoa(r.TempDayScore),
		strconv.Itoa(r.CloudsScore),
		strconv.Itoa(r.PopScore),
		formatFloat(r.GlobalScore),
		r.Rank,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
