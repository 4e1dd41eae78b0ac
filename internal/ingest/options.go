// Package ingest orchestrates one producer run: fetch raw season
// results, normalize them, hand them to the upsert workers, and account
// for every record's outcome.
package ingest

import (
	"github.com/okian/gridbook/internal/domain/normalize"
	"github.com/okian/gridbook/pkg/logger"
)

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithNormalizer sets a custom normalizer.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(p *Pipeline) {
		if n != nil {
			p.normalizer = n
		}
	}
}

// WithLogger sets a custom logger for the pipeline.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}
