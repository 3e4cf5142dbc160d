package workload

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cpusim/cpusim/sim"
)

// Format identifies a process file encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// defaultPriority is assigned when a process file omits the priority column or key.
const defaultPriority = 1

// csvColumns is the header written by WriteDescriptors and expected by ReadDescriptors.
var csvColumns = []string{"pid", "arrival_time", "burst_time", "priority"}

// FormatFromPath selects a Format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported process file extension %q; valid: .csv, .json, .yaml, .yml", filepath.Ext(path))
	}
}

// ReadDescriptors loads processes from path, choosing the decoder by extension.
// The result is stably sorted by ArrivalTime. Values are not range-checked here;
// sim.ValidateDescriptors does that before a run.
func ReadDescriptors(path string) ([]sim.Descriptor, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening process file: %w", err)
	}
	defer func() { _ = file.Close() }()

	ds, err := DecodeDescriptors(file, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// DecodeDescriptors parses processes from r in the given format and sorts them by arrival.
func DecodeDescriptors(r io.Reader, format Format) ([]sim.Descriptor, error) {
	var (
		ds  []sim.Descriptor
		err error
	)
	switch format {
	case FormatCSV:
		ds, err = decodeCSV(r)
	case FormatJSON, FormatYAML:
		ds, err = decodeRecords(r, format)
	default:
		return nil, fmt.Errorf("unknown process file format %q", format)
	}
	if err != nil {
		return nil, err
	}
	SortByArrival(ds)
	return ds, nil
}

// WriteDescriptors saves processes to path, choosing the encoder by extension.
func WriteDescriptors(path string, ds []sim.Descriptor) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating process file: %w", err)
	}
	if err := EncodeDescriptors(file, format, ds); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing process file: %w", err)
	}
	return nil
}

// EncodeDescriptors writes processes to w in the given format, in slice order.
func EncodeDescriptors(w io.Writer, format Format, ds []sim.Descriptor) error {
	switch format {
	case FormatCSV:
		return encodeCSV(w, ds)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		if ds == nil {
			ds = []sim.Descriptor{}
		}
		if err := enc.Encode(ds); err != nil {
			return fmt.Errorf("encoding JSON processes: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		if ds == nil {
			ds = []sim.Descriptor{}
		}
		if err := enc.Encode(ds); err != nil {
			return fmt.Errorf("encoding YAML processes: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown process file format %q", format)
	}
}

func encodeCSV(w io.Writer, ds []sim.Descriptor) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, d := range ds {
		row := []string{
			strconv.Itoa(d.PID),
			strconv.FormatInt(d.ArrivalTime, 10),
			strconv.FormatInt(d.BurstTime, 10),
			strconv.Itoa(d.Priority),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row for pid %d: %w", d.PID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// decodeCSV maps columns by header name, so column order is free and the
// priority column may be omitted.
func decodeCSV(r io.Reader) ([]sim.Descriptor, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty CSV: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range csvColumns[:3] {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("CSV header missing column %q", required)
		}
	}
	priorityCol, hasPriority := index["priority"]

	var ds []sim.Descriptor
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		d := sim.Descriptor{Priority: defaultPriority}
		if d.PID, err = atoiField(row, index["pid"]); err != nil {
			return nil, fmt.Errorf("line %d: pid: %w", line, err)
		}
		if d.ArrivalTime, err = parseInt64Field(row, index["arrival_time"]); err != nil {
			return nil, fmt.Errorf("line %d: arrival_time: %w", line, err)
		}
		if d.BurstTime, err = parseInt64Field(row, index["burst_time"]); err != nil {
			return nil, fmt.Errorf("line %d: burst_time: %w", line, err)
		}
		if hasPriority && priorityCol < len(row) && strings.TrimSpace(row[priorityCol]) != "" {
			if d.Priority, err = atoiField(row, priorityCol); err != nil {
				return nil, fmt.Errorf("line %d: priority: %w", line, err)
			}
		}
		ds = append(ds, d)
	}
	return ds, nil
}

func atoiField(row []string, i int) (int, error) {
	if i >= len(row) {
		return 0, fmt.Errorf("missing value")
	}
	return strconv.Atoi(strings.TrimSpace(row[i]))
}

func parseInt64Field(row []string, i int) (int64, error) {
	if i >= len(row) {
		return 0, fmt.Errorf("missing value")
	}
	return strconv.ParseInt(strings.TrimSpace(row[i]), 10, 64)
}

// fileRecord distinguishes missing keys from zero values in JSON and YAML input.
type fileRecord struct {
	PID         *int   `json:"pid" yaml:"pid"`
	ArrivalTime *int64 `json:"arrival_time" yaml:"arrival_time"`
	BurstTime   *int64 `json:"burst_time" yaml:"burst_time"`
	Priority    *int   `json:"priority" yaml:"priority"`
}

func decodeRecords(r io.Reader, format Format) ([]sim.Descriptor, error) {
	var records []fileRecord
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&records); err != nil {
			return nil, fmt.Errorf("parsing JSON processes: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&records); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing YAML processes: %w", err)
		}
	}

	ds := make([]sim.Descriptor, 0, len(records))
	for i, rec := range records {
		switch {
		case rec.PID == nil:
			return nil, fmt.Errorf("process[%d]: missing pid", i)
		case rec.ArrivalTime == nil:
			return nil, fmt.Errorf("process[%d]: missing arrival_time", i)
		case rec.BurstTime == nil:
			return nil, fmt.Errorf("process[%d]: missing burst_time", i)
		}
		d := sim.Descriptor{PID: *rec.PID, ArrivalTime: *rec.ArrivalTime, BurstTime: *rec.BurstTime, Priority: defaultPriority}
		if rec.Priority != nil {
			d.Priority = *rec.Priority
		}
		ds = append(ds, d)
	}
	return ds, nil
}
