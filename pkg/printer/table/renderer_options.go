package table

import (
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/lburgazzoli/kube-triage/pkg/util"
	"github.com/lburgazzoli/kube-triage/pkg/util/jq"
)

// DefaultMaxRowWidth is the maximum width for table row cells; longer content
// wraps at word boundaries.
const DefaultMaxRowWidth = 100

// DefaultTableOptions provides a minimal table style with left-aligned
// headers and no separators, matching kubectl-style output.
//
//nolint:gochecknoglobals // Shared default table options for consistency across probes
var DefaultTableOptions = []tablewriter.Option{
	tablewriter.WithHeaderAlignment(tw.AlignLeft),
	tablewriter.WithRowAutoWrap(tw.WrapNormal),
	tablewriter.WithRowMaxWidth(DefaultMaxRowWidth),
	tablewriter.WithRendition(tw.Rendition{
		Settings: tw.Settings{
			Separators: tw.Separators{
				BetweenColumns: tw.Off,
				BetweenRows:    tw.Off,
			},
			Lines: tw.Lines{
				ShowTop:        tw.On,
				ShowBottom:     tw.On,
				ShowHeaderLine: tw.On,
			},
		},
	}),
}

// Option is a functional option for configuring a Renderer.
type Option[T any] = util.Option[Renderer[T]]

// WithWriter sets the output writer for the table renderer.
func WithWriter[T any](w io.Writer) Option[T] {
	return util.FunctionalOption[Renderer[T]](func(r *Renderer[T]) {
		r.writer = w
	})
}

// WithHeaders sets the column headers for the table.
func WithHeaders[T any](headers ...string) Option[T] {
	return util.FunctionalOption[Renderer[T]](func(r *Renderer[T]) {
		r.headers = headers
	})
}

// WithFormatter adds a column-specific formatter function.
func WithFormatter[T any](columnName string, formatter ColumnFormatter) Option[T] {
	return util.FunctionalOption[Renderer[T]](func(r *Renderer[T]) {
		if r.formatters == nil {
			r.formatters = make(map[string]ColumnFormatter)
		}

		r.formatters[strings.ToUpper(columnName)] = formatter
	})
}

// WithTableOptions sets the underlying tablewriter options.
func WithTableOptions[T any](values ...tablewriter.Option) Option[T] {
	return util.FunctionalOption[Renderer[T]](func(r *Renderer[T]) {
		r.tableOptions = append(r.tableOptions, values...)
	})
}

// JQFormatter creates a ColumnFormatter that projects a column out of the row
// value with a jq query.
func JQFormatter(query string) ColumnFormatter {
	return func(value any) any {
		result, err := jq.Query[any](value, query)
		if err != nil {
			return err.Error()
		}

		return result
	}
}
