package coltype

// Options configures a Classifier. Zero values select the defaults.
type Options struct {
	// SampleSize bounds the permissive date fallback (default: 10).
	SampleSize int

	// Seed makes the fallback sample deterministic when non-zero.
	Seed uint64

	// Patterns overrides the date pattern catalog. Order is priority.
	Patterns []DatePattern

	// Sampler overrides the fallback sampler; Seed is ignored when set.
	Sampler Sampler
}

// Classifier assigns a Category to columns. It holds only immutable
// configuration and is safe for concurrent use.
type Classifier struct {
	dates DateRecognizer
	mixed MixedContentDetector
}

// New creates a Classifier from opts.
func New(opts Options) *Classifier {
	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = DefaultPatterns()
	} else {
		patterns = append([]DatePattern(nil), patterns...)
	}

	size := opts.SampleSize
	if size <= 0 {
		size = DefaultSampleSize
	}

	sampler := opts.Sampler
	if sampler == nil {
		sampler = RandomSampler{Seed: opts.Seed}
	}

	return &Classifier{
		dates: DateRecognizer{
			Patterns: patterns,
			Fallback: PermissiveFallback{SampleSize: size, Sampler: sampler},
		},
	}
}

// Default returns a Classifier with the default catalog and a random
// fallback sample.
func Default() *Classifier {
	return New(Options{})
}

// ClassifyColumn returns the category for one column.
func (c *Classifier) ClassifyColumn(col Column) Category {
	return c.Explain(col).Category
}

// Explain classifies one column and reports which date strategy matched,
// if any.
func (c *Classifier) Explain(col Column) ColumnResult {
	res := ColumnResult{Name: col.Name, Category: Text}

	switch {
	case IsNumeric(col):
		res.Category = Numeric
	default:
		if how, ok := c.dates.Match(col); ok {
			res.Category = Date
			res.DateFormat = how
		} else if c.mixed.IsMixed(col) {
			res.Category = TextNumeric
		}
	}
	return res
}

// Classify assigns a category to every column. Each column is classified
// independently; the result preserves input order.
func (c *Classifier) Classify(cols []Column) *Result {
	res := NewResult(len(cols))
	for _, col := range cols {
		res.Set(c.Explain(col))
	}
	return res
}
