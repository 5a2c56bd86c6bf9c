package table

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// ColumnFormatter transforms a value for display in a specific column.
type ColumnFormatter func(value any) any

// Renderer builds and renders a table of T values.
type Renderer[T any] struct {
	writer       io.Writer
	headers      []string
	formatters   map[string]ColumnFormatter
	table        *tablewriter.Table
	tableOptions []tablewriter.Option
}

// NewRenderer creates a new table renderer with the given options.
func NewRenderer[T any](opts ...Option[T]) *Renderer[T] {
	r := &Renderer[T]{
		writer:     os.Stdout,
		formatters: make(map[string]ColumnFormatter),
	}

	for _, opt := range opts {
		opt.ApplyTo(r)
	}

	r.table = tablewriter.NewTable(r.writer)

	if len(r.tableOptions) == 0 {
		r.table = r.table.Options(tablewriter.WithRendition(
			tw.Rendition{
				Settings: tw.Settings{
					Separators: tw.Separators{
						BetweenColumns: tw.Off,
					},
				},
			}),
		)
	} else {
		r.table = r.table.Options(r.tableOptions...)
	}

	if len(r.headers) > 0 {
		r.table.Header(r.headers)
	}

	return r
}

// Append adds a single row. Accepts either []any or a struct whose fields are
// matched to headers via mapstructure.
func (r *Renderer[T]) Append(value T) error {
	// When every column has a formatter, hand the whole value to each one.
	// That is what lets jq formatters project columns out of unstructured
	// objects without an intermediate row type.
	allHaveFormatters := true

	for _, header := range r.headers {
		if _, exists := r.formatters[strings.ToUpper(header)]; !exists {
			allHaveFormatters = false

			break
		}
	}

	var values []any
	var err error

	if allHaveFormatters {
		values = make([]any, len(r.headers))
		for i := range r.headers {
			values[i] = value
		}
	} else {
		values, err = r.extractValues(value)
		if err != nil {
			return err
		}
	}

	row := make([]any, 0, len(r.headers))

	for i := range r.headers {
		v := values[i]

		if formatter, exists := r.formatters[strings.ToUpper(r.headers[i])]; exists {
			v = formatter(v)
		}

		row = append(row, v)
	}

	if err := r.table.Append(row); err != nil {
		return fmt.Errorf("failed to append row to table: %w", err)
	}

	return nil
}

// extractValues extracts column values from either a slice or a struct.
func (r *Renderer[T]) extractValues(value any) ([]any, error) {
	if value == nil {
		return nil, errors.New("cannot append nil value")
	}

	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Slice {
		values := make([]any, v.Len())
		for i := range v.Len() {
			values[i] = v.Index(i).Interface()
		}

		if len(values) != len(r.headers) {
			return nil, fmt.Errorf("column count mismatch: expected %d, got %d", len(r.headers), len(values))
		}

		return values, nil
	}

	var dataMap map[string]any
	if err := mapstructure.Decode(value, &dataMap); err != nil {
		return nil, fmt.Errorf("failed to decode value to map: %w", err)
	}

	values := make([]any, 0, len(r.headers))

	for _, header := range r.headers {
		val, err := extractFieldValue(dataMap, header)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", header, err)
		}

		values = append(values, val)
	}

	return values, nil
}

// extractFieldValue finds a field by column name, case-insensitively.
func extractFieldValue(data map[string]any, columnName string) (any, error) {
	if val, ok := data[columnName]; ok {
		return val, nil
	}

	lowerColumn := strings.ToLower(columnName)
	for key, val := range data {
		if strings.ToLower(key) == lowerColumn {
			return val, nil
		}
	}

	return nil, errors.New("field not found")
}

// AppendAll adds multiple rows.
func (r *Renderer[T]) AppendAll(rows []T) error {
	for _, value := range rows {
		if err := r.Append(value); err != nil {
			return err
		}
	}

	return nil
}

// Render outputs the table to the configured writer.
func (r *Renderer[T]) Render() error {
	if err := r.table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
