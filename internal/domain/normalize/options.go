// Package normalize turns raw, loosely-keyed source rows into canonical
// ResultRecords.
package normalize

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithDateLayouts sets the layouts tried, in order, when parsing the
// event date.
func WithDateLayouts(layouts ...string) Option {
	return func(n *Normalizer) {
		if len(layouts) > 0 {
			n.dateLayouts = layouts
		}
	}
}
