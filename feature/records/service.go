package records

import (
	"context"
	"errors"
	"maps"

	"relation-matcher/core/engine"
	"relation-matcher/core/logger"
	"relation-matcher/core/matcher"
	"relation-matcher/core/utils"

	"go.uber.org/zap"
)

// DefaultField is the output field holding the joined data.
const DefaultField = "related"

// Options describes one record join.
type Options struct {
	// ElementKey is the element field compared with DataKey.
	ElementKey string
	// Identifier is the element field sent to the source. Defaults to ElementKey.
	Identifier string
	// DataKey is the data field compared with ElementKey.
	DataKey string
	// As is the output field receiving the joined data. Defaults to DefaultField.
	As string
	// Cardinality is the association shape.
	Cardinality matcher.Cardinality
	// Where keeps only data rows whose fields equal the given values.
	Where map[string]string
	// IncludeUnmatched keeps unmatched elements in the output, with a null field.
	IncludeUnmatched bool
	// CacheNamespace enables the engine cache under this namespace.
	CacheNamespace string
}

func (o Options) withDefaults() Options {
	if o.Identifier == "" {
		o.Identifier = o.ElementKey
	}
	if o.As == "" {
		o.As = DefaultField
	}
	return o
}

// Service joins record sets on the shared engine.
type Service struct {
	engine *engine.Engine
	logger *zap.Logger
}

// NewService creates a new records service.
func NewService(eng *engine.Engine, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{engine: eng, logger: logger}
}

// Match joins elements with the data of src and returns the output rows in
// element order.
func (s *Service) Match(ctx context.Context, elements []*Record, src Source, opts Options) ([]Row, error) {
	opts = opts.withDefaults()
	if opts.ElementKey == "" || opts.DataKey == "" {
		return nil, errors.New("element key and data key are required")
	}

	m, err := s.build(elements, src, opts)
	if err != nil {
		return nil, err
	}
	l := logger.WithMatchID(s.logger, m.ID())

	res, err := m.Match(ctx)
	if err != nil {
		l.Error("Match failed", zap.Error(err))
		return nil, err
	}
	l.Info("Match finished",
		zap.Stringer("cardinality", opts.Cardinality),
		zap.Int("elements", res.Len()),
		zap.Int("matched", res.MatchedCount()))

	out := make([]Row, 0, res.Len())
	attach := func(e *Record, v any) {
		row := maps.Clone(e.Fields)
		if row == nil {
			row = Row{}
		}
		row[opts.As] = v
		out = append(out, row)
	}
	unmatched := func(e *Record) {
		if opts.IncludeUnmatched {
			attach(e, nil)
		}
	}

	switch opts.Cardinality {
	case matcher.OneToOne:
		err = res.ProcessOneToOne(func(e *Record, d Row) { attach(e, d) }, unmatched)
	case matcher.OneToMany:
		err = res.ProcessOneToMany(func(e *Record, d []Row) { attach(e, d) }, unmatched)
	default:
		err = res.ProcessManyToMany(func(e *Record, d []Row) { attach(e, d) }, unmatched)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) build(elements []*Record, src Source, opts Options) (*matcher.Matcher[*Record, string, Row, string], error) {
	var b *matcher.Builder[*Record, string, Row, string]
	if opts.CacheNamespace != "" {
		b = engine.Cached[*Record, string, Row, string](s.engine, opts.CacheNamespace)
	} else {
		b = engine.NewBuilder[*Record, string, Row, string](s.engine)
	}

	b.Elements(elements).
		Cardinality(opts.Cardinality).
		FilterElements(func(e *Record) bool {
			return e.Fields[opts.Identifier] != nil
		}).
		DataKey(func(r Row) string { return utils.ToKey(r[opts.DataKey]) })

	if src.Batch != nil {
		b.BatchQuery(src.Batch).Aggregate(matcher.AggregateSet)
	}
	if src.Single != nil {
		b.SingleQuery(src.Single)
	}

	if opts.Cardinality == matcher.ManyToMany {
		b.Identifiers(func(e *Record) []string { return utils.ToKeys(e.Fields[opts.Identifier]) }).
			ElementKeys(func(e *Record) []string { return utils.ToKeys(e.Fields[opts.ElementKey]) })
	} else {
		b.Identifier(func(e *Record) string { return utils.ToKey(e.Fields[opts.Identifier]) }).
			ElementKey(func(e *Record) string { return utils.ToKey(e.Fields[opts.ElementKey]) })
	}

	if len(opts.Where) > 0 {
		b.FilterData(func(r Row) bool {
			for k, v := range opts.Where {
				if utils.ToKey(r[k]) != v {
					return false
				}
			}
			return true
		})
	}

	b.Listener(matcher.ListenerFuncs[string, Row]{
		Failure: func(ids []string, attempt int, err error) {
			s.logger.Debug("Source query failed", zap.Int("identifiers", len(ids)), zap.Int("attempt", attempt), zap.Error(err))
		},
	})

	return b.Build()
}
