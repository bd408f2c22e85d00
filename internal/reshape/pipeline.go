package reshape

import (
	"fmt"
	"slices"

	"github.com/nconklindev/capview/internal/log"
	"github.com/nconklindev/capview/internal/types"
	"github.com/nconklindev/capview/internal/workbook"

	"golang.org/x/sync/errgroup"
)

// Default sheet names read from a workbook.
const (
	DefaultActivitySheet       = "cap_activity"
	DefaultPartnerCapitalSheet = "partner_capital"
)

type options struct {
	logger              *log.Logger
	activitySheet       string
	partnerCapitalSheet string
}

type Option func(*options)

func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSheetNames overrides the source sheet names. Empty names keep the
// defaults.
func WithSheetNames(activity, partnerCapital string) Option {
	return func(o *options) {
		if activity != "" {
			o.activitySheet = activity
		}
		if partnerCapital != "" {
			o.partnerCapitalSheet = partnerCapital
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:              log.Discard(),
		activitySheet:       DefaultActivitySheet,
		partnerCapitalSheet: DefaultPartnerCapitalSheet,
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = o.logger.WithComponent("reshape")
	return o
}

type derivation struct {
	name   string
	source string
	derive func(*types.Sheet) (*types.SummaryTable, error)
}

func (o options) derivations() []derivation {
	return []derivation{
		{name: types.Contributions, source: o.activitySheet, derive: Contributions},
		{name: types.Redemptions, source: o.activitySheet, derive: Redemptions},
		{name: types.PartnerCapital, source: o.partnerCapitalSheet, derive: PartnerCapital},
	}
}

// Transform derives every summary table whose source sheet is present.
// A derivation that fails is logged and left out; it never affects the
// others. The result may be empty but is never nil.
func Transform(sheets map[string]*types.Sheet, opts ...Option) types.Result {
	o := newOptions(opts)
	derivs := o.derivations()
	tables := make([]*types.SummaryTable, len(derivs))

	var g errgroup.Group
	for i, d := range derivs {
		sheet, ok := sheets[d.source]
		if !ok || sheet == nil {
			o.logger.Debug("source sheet not found, skipping", "table", d.name, "sheet", d.source)
			continue
		}

		g.Go(func() error {
			table, err := runIsolated(d, sheet)
			if err != nil {
				o.logger.Warn("derivation failed", "table", d.name, "sheet", d.source, "error", err)
				return nil
			}
			tables[i] = table
			return nil
		})
	}
	_ = g.Wait()

	result := make(types.Result, len(tables))
	for _, table := range tables {
		if table != nil {
			result[table.Name] = table
		}
	}

	o.logger.Info("transform complete", "tables", len(result))
	return result
}

// runIsolated turns a panic inside a derivation into an error.
func runIsolated(d derivation, sheet *types.Sheet) (table *types.SummaryTable, err error) {
	defer func() {
		if r := recover(); r != nil {
			table, err = nil, fmt.Errorf("%s: panic: %v", d.name, r)
		}
	}()
	return d.derive(sheet)
}

// ProcessFile loads the workbook at path and transforms it. A workbook that
// cannot be read yields an empty result; the cause is only logged.
func ProcessFile(path string, opts ...Option) (result types.Result) {
	logger := newOptions(opts).logger.With("path", path)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("error processing workbook", "panic", r)
			result = types.Result{}
		}
	}()

	wb, err := workbook.Load(path)
	if err != nil {
		logger.Error("error processing workbook", "error", err)
		return types.Result{}
	}
	logger.Debug("workbook loaded", "sheets", len(wb.Sheets))

	return Transform(wb.Sheets, append(slices.Clip(opts), WithLogger(logger))...)
}
