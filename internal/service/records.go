package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	jmespath "github.com/jmespath-community/go-jmespath"
	domainauth "github.com/target/campus-portal/internal/domain/auth"
	"github.com/target/campus-portal/internal/domain/model"
	apperrors "github.com/target/campus-portal/internal/errors"
	"github.com/target/campus-portal/internal/observability/metrics"
	"github.com/target/campus-portal/internal/observability/statsd"
)

// JMESPathEvaluator abstracts JMESPath operations for testability.
type JMESPathEvaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

// jmespathLibEvaluator implements JMESPathEvaluator using go-jmespath.
type jmespathLibEvaluator struct{}

func (jmespathLibEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// RecordServiceConfig carries optional collaborators.
type RecordServiceConfig struct {
	Evaluator JMESPathEvaluator
	Metrics   statsd.Sink
	Logger    *slog.Logger
	Now       func() time.Time
}

// RecordServiceOptions groups dependencies for RecordService.
type RecordServiceOptions struct {
	Catalog *model.Catalog // required
	// Seed holds initial field values per page; pages absent from Seed start empty.
	Seed   map[model.PageRef][]map[string]string
	Config RecordServiceConfig
}

// pageData is one page's dataset. Each page has its own lock so pages
// never contend with, or observe, one another.
type pageData struct {
	mu      sync.RWMutex
	records []model.Record
}

// RecordService serves the feature pages' mock datasets. Data lives only
// in process memory and resets on restart.
type RecordService struct {
	catalog *model.Catalog
	pages   map[model.PageRef]*pageData
	eval    JMESPathEvaluator
	metrics statsd.Sink
	logger  *slog.Logger
	now     func() time.Time
}

// NewRecordService constructs a RecordService and loads the seed data.
func NewRecordService(opts RecordServiceOptions) *RecordService {
	if opts.Catalog == nil {
		panic("Catalog is required")
	}
	cfg := opts.Config
	s := &RecordService{
		catalog: opts.Catalog,
		pages:   make(map[model.PageRef]*pageData),
		eval:    cfg.Evaluator,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
		now:     cfg.Now,
	}
	if s.eval == nil {
		s.eval = jmespathLibEvaluator{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}

	at := s.now().UTC()
	for _, ref := range opts.Catalog.Refs() {
		page, _ := opts.Catalog.Lookup(ref)
		pd := &pageData{}
		for _, fields := range opts.Seed[ref] {
			pd.records = append(pd.records, model.Record{
				ID:        uuid.NewString(),
				Page:      ref.String(),
				Fields:    keepDeclared(page, fields),
				CreatedAt: at,
				UpdatedAt: at,
			})
		}
		s.pages[ref] = pd
	}
	return s
}

// Catalog returns the navigation registry.
func (s *RecordService) Catalog() *model.Catalog { return s.catalog }

// Page resolves a page within a role's subtree.
func (s *RecordService) Page(role domainauth.Role, key string) (model.Page, error) {
	p, ok := s.catalog.Lookup(model.PageRef{Role: role, Key: key})
	if !ok {
		return model.Page{}, apperrors.NotFoundf("page %q not found", key)
	}
	return p, nil
}

func (s *RecordService) data(ref model.PageRef) (model.Page, *pageData, error) {
	p, err := s.Page(ref.Role, ref.Key)
	if err != nil {
		return model.Page{}, nil, err
	}
	return p, s.pages[ref], nil
}

// List returns the page's records in insertion order, narrowed by opts.
func (s *RecordService) List(ctx context.Context, ref model.PageRef, opts model.ListOptions) ([]model.Record, error) {
	_, pd, err := s.data(ref)
	if err != nil {
		return nil, err
	}
	filter := strings.TrimSpace(opts.Filter)
	if filter != "" {
		if vErr := s.eval.Validate(filter); vErr != nil {
			return nil, apperrors.Wrap(vErr, apperrors.ErrCodeValidation, "invalid filter expression").WithField("filter")
		}
	}

	pd.mu.RLock()
	defer pd.mu.RUnlock()

	out := make([]model.Record, 0, len(pd.records))
	for _, r := range pd.records {
		if !r.Matches(opts.Query) {
			continue
		}
		if filter != "" {
			keep, evalErr := s.matchesFilter(filter, r)
			if evalErr != nil {
				s.logger.DebugContext(ctx, "filter evaluation failed", "page", ref.String(), "error", evalErr)
				continue
			}
			if !keep {
				continue
			}
		}
		out = append(out, r.Clone())
	}
	return out, nil
}

func (s *RecordService) matchesFilter(expr string, r model.Record) (bool, error) {
	v, err := s.eval.Evaluate(expr, r.AsMap())
	if err != nil {
		return false, apperrors.Wrapf(err, apperrors.ErrCodeValidation, "evaluate filter on record %s", r.ID)
	}
	return truthy(v), nil
}

// truthy follows JMESPath's notion of false: null, false, and empty
// strings, arrays and objects.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

// Get returns one record.
func (s *RecordService) Get(_ context.Context, ref model.PageRef, id string) (model.Record, error) {
	_, pd, err := s.data(ref)
	if err != nil {
		return model.Record{}, err
	}
	pd.mu.RLock()
	defer pd.mu.RUnlock()
	if i := indexOf(pd.records, id); i >= 0 {
		return pd.records[i].Clone(), nil
	}
	return model.Record{}, apperrors.NotFoundf("record %q not found", id)
}

// Create appends a record after checking the page's required fields.
func (s *RecordService) Create(ctx context.Context, ref model.PageRef, in model.RecordInput) (model.Record, error) {
	rec, err := s.create(ref, in)
	s.emit(ctx, ref, "create", err)
	return rec, err
}

func (s *RecordService) create(ref model.PageRef, in model.RecordInput) (model.Record, error) {
	page, pd, err := s.data(ref)
	if err != nil {
		return model.Record{}, err
	}
	fields := keepDeclared(page, in.Fields)
	if vErr := checkRequired(page, fields); vErr != nil {
		return model.Record{}, vErr
	}

	now := s.now().UTC()
	rec := model.Record{
		ID:        uuid.NewString(),
		Page:      ref.String(),
		Fields:    fields,
		CreatedAt: now,
		UpdatedAt: now,
	}
	pd.mu.Lock()
	pd.records = append(pd.records, rec)
	pd.mu.Unlock()
	return rec.Clone(), nil
}

// Update replaces a record's fields.
func (s *RecordService) Update(ctx context.Context, ref model.PageRef, id string, in model.RecordInput) (model.Record, error) {
	rec, err := s.update(ref, id, in)
	s.emit(ctx, ref, "update", err)
	return rec, err
}

func (s *RecordService) update(ref model.PageRef, id string, in model.RecordInput) (model.Record, error) {
	page, pd, err := s.data(ref)
	if err != nil {
		return model.Record{}, err
	}
	fields := keepDeclared(page, in.Fields)
	if vErr := checkRequired(page, fields); vErr != nil {
		return model.Record{}, vErr
	}

	pd.mu.Lock()
	defer pd.mu.Unlock()
	i := indexOf(pd.records, id)
	if i < 0 {
		return model.Record{}, apperrors.NotFoundf("record %q not found", id)
	}
	pd.records[i].Fields = fields
	pd.records[i].UpdatedAt = s.now().UTC()
	return pd.records[i].Clone(), nil
}

// Delete removes a record.
func (s *RecordService) Delete(ctx context.Context, ref model.PageRef, id string) error {
	err := s.delete(ref, id)
	s.emit(ctx, ref, "delete", err)
	return err
}

func (s *RecordService) delete(ref model.PageRef, id string) error {
	_, pd, err := s.data(ref)
	if err != nil {
		return err
	}
	pd.mu.Lock()
	defer pd.mu.Unlock()
	i := indexOf(pd.records, id)
	if i < 0 {
		return apperrors.NotFoundf("record %q not found", id)
	}
	pd.records = append(pd.records[:i], pd.records[i+1:]...)
	return nil
}

func (s *RecordService) emit(ctx context.Context, ref model.PageRef, op string, err error) {
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
		if !apperrors.IsValidation(err) && !apperrors.IsNotFound(err) {
			s.logger.ErrorContext(ctx, "record mutation failed", "page", ref.String(), "op", op, "error", err)
		}
	}
	metrics.EmitRecord(s.metrics, metrics.RecordMetric{Page: ref.String(), Op: op, Result: result, Err: err})
}

func indexOf(records []model.Record, id string) int {
	for i, r := range records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// keepDeclared copies the page's declared fields out of in, trimming values.
func keepDeclared(page model.Page, in map[string]string) map[string]string {
	out := make(map[string]string, len(page.Fields))
	for _, f := range page.Fields {
		if v, ok := in[f.Name]; ok {
			out[f.Name] = strings.TrimSpace(v)
		}
	}
	return out
}

// checkRequired is the only validation feature pages perform: required
// fields must be present and non-blank.
func checkRequired(page model.Page, fields map[string]string) error {
	for _, f := range page.Fields {
		if f.Required && fields[f.Name] == "" {
			return apperrors.Validationf("%s is required", f.Label).WithField(f.Name)
		}
	}
	return nil
}
