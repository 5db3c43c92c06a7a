package solution

import (
	"errors"
	"fmt"
	"iter"

	"github.com/arloliu/go-divelog/dc"
	"github.com/arloliu/go-divelog/logger"
)

// Parser decodes one Suunto Solution dive at a time.
//
// The dive bytes are borrowed, not copied: the caller must not modify them while the
// parser uses them. Summary fields are computed on first access and cached until SetData
// is called again.
//
// A Parser is not safe for concurrent use.
type Parser struct {
	data   []byte
	cache  summary
	walks  int
	logger logger.Logger
}

var _ dc.Parser = (*Parser)(nil)

// Option configures a Parser.
type Option interface {
	apply(*Parser) error
}

type optFunc func(*Parser) error

func (f optFunc) apply(p *Parser) error { return f(p) }

// WithLogger sets the logger used to report unknown events.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(p *Parser) error {
		if l == nil {
			return errors.New("suunto: logger must not be nil")
		}
		p.logger = l

		return nil
	})
}

// NewParser creates a parser without data. Call SetData before decoding.
func NewParser(opts ...Option) (*Parser, error) {
	p := &Parser{logger: logger.GetLogger()}

	for _, opt := range opts {
		if err := opt.apply(p); err != nil {
			return nil, fmt.Errorf("%w: %w", dc.ErrInvalidArgs, err)
		}
	}

	return p, nil
}

func (p *Parser) check() error {
	if p == nil {
		return fmt.Errorf("%w: parser is nil", dc.ErrInvalidArgs)
	}

	return nil
}

// Family returns dc.FamilySuuntoSolution.
func (p *Parser) Family() dc.Family {
	return dc.FamilySuuntoSolution
}

// SetData makes data the dive to decode and drops the cached summary.
func (p *Parser) SetData(data []byte) error {
	if err := p.check(); err != nil {
		return err
	}

	p.data = data
	p.cache = summary{}

	return nil
}

// Walks returns how many times the summary was computed since the parser was created.
func (p *Parser) Walks() int {
	return p.walks
}

func (p *Parser) load() error {
	if p.cache.valid {
		return nil
	}

	p.walks++
	s, err := computeSummary(p.data)
	if err != nil {
		return err
	}
	p.cache = s

	return nil
}

// Field returns the summary field t:
//
//   - dc.FieldDiveTime: uint32, seconds
//   - dc.FieldMaxDepth: float64, meters
//   - dc.FieldGasMixCount: int
//   - dc.FieldGasMix: dc.GasMix
//
// Other fields fail with dc.ErrUnsupported. A malformed dive fails with dc.ErrDataFormat
// for every field.
func (p *Parser) Field(t dc.FieldType) (any, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	if err := p.load(); err != nil {
		return nil, err
	}

	switch t {
	case dc.FieldDiveTime:
		return p.cache.divetime, nil
	case dc.FieldMaxDepth:
		return float64(p.cache.maxdepth) * dc.Feet, nil
	case dc.FieldGasMixCount:
		return 1, nil
	case dc.FieldGasMix:
		return dc.AirMix(), nil
	default:
		return nil, fmt.Errorf("%w: field %s", dc.ErrUnsupported, t)
	}
}

// DiveTime returns the total dive time in seconds.
func (p *Parser) DiveTime() (uint32, error) {
	v, err := p.Field(dc.FieldDiveTime)
	if err != nil {
		return 0, err
	}

	return v.(uint32), nil
}

// MaxDepth returns the maximum depth in meters.
func (p *Parser) MaxDepth() (float64, error) {
	v, err := p.Field(dc.FieldMaxDepth)
	if err != nil {
		return 0, err
	}

	return v.(float64), nil
}

// GasMixCount returns the number of gas mixes, which is always one.
func (p *Parser) GasMixCount() (int, error) {
	v, err := p.Field(dc.FieldGasMixCount)
	if err != nil {
		return 0, err
	}

	return v.(int), nil
}

// GasMix returns gas mix i. Only mix 0, air, exists.
func (p *Parser) GasMix(i int) (dc.GasMix, error) {
	if i != 0 {
		return dc.GasMix{}, fmt.Errorf("%w: gas mix %d out of range", dc.ErrInvalidArgs, i)
	}

	v, err := p.Field(dc.FieldGasMix)
	if err != nil {
		return dc.GasMix{}, err
	}

	return v.(dc.GasMix), nil
}

// Samples returns an iterator over the samples of the dive in chronological order.
// Every depth record yields a time sample immediately followed by a depth sample.
// A malformed dive yields an error as the last element; the samples before it were
// decoded correctly.
func (p *Parser) Samples() iter.Seq2[dc.Sample, error] {
	return func(yield func(dc.Sample, error) bool) {
		if err := p.check(); err != nil {
			yield(dc.Sample{}, err)
			return
		}

		r, err := newReader(p.data)
		if err != nil {
			yield(dc.Sample{}, err)
			return
		}

		var time uint32
		depth := 0
		for {
			rec, ok, err := r.next()
			if err != nil {
				yield(dc.Sample{}, err)
				return
			}
			if !ok {
				break
			}

			if rec.event {
				typ, known := eventType(rec.code)
				if !known {
					p.logger.Warn("suunto: unknown event", "code", rec.code, "offset", r.offset-1)
				}
				if !yield(dc.Sample{Type: dc.SampleEvent, Event: dc.SampleEventInfo{Type: typ}}, nil) {
					return
				}

				continue
			}

			time += sampleInterval
			if !yield(dc.Sample{Type: dc.SampleTime, Time: time}, nil) {
				return
			}

			depth += rec.delta
			if !yield(dc.Sample{Type: dc.SampleDepth, Depth: float64(depth) * dc.Feet}, nil) {
				return
			}
		}

		if _, err := r.end(); err != nil {
			yield(dc.Sample{}, err)
		}
	}
}

// SamplesForeach reports every sample to fn. fn may be nil to only validate the stream.
func (p *Parser) SamplesForeach(fn dc.SampleFunc) error {
	for s, err := range p.Samples() {
		if err != nil {
			return err
		}
		if fn != nil {
			fn(s)
		}
	}

	return nil
}

// DecodeSamples returns all samples of the dive, or nil and the error if the dive is
// malformed anywhere.
func (p *Parser) DecodeSamples() ([]dc.Sample, error) {
	var samples []dc.Sample
	if err := p.SamplesForeach(func(s dc.Sample) { samples = append(samples, s) }); err != nil {
		return nil, err
	}

	return samples, nil
}

func init() {
	dc.Register(dc.Backend{
		Family: dc.FamilySuuntoSolution,
		NewParser: func() dc.Parser {
			return &Parser{logger: logger.GetLogger()}
		},
	})
}
