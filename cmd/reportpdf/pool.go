package main

import (
	"context"

	reportpdf "github.com/alnah/go-reportpdf"
)

// CLIConverter is the conversion service as seen by the commands.
type CLIConverter interface {
	Convert(ctx context.Context, input reportpdf.Input) (*reportpdf.ConvertResult, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*reportpdf.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() (CLIConverter, error)
	Release(CLIConverter)
	Size() int
	Close() error
}

// converterPool adapts reportpdf.ConverterPool to Pool.
type converterPool struct {
	pool *reportpdf.ConverterPool
}

// Compile-time check that converterPool implements Pool.
var _ Pool = (*converterPool)(nil)

// newConverterPool creates a pool with capacity for size converters.
// Each converter owns one browser, started on its first PDF.
func newConverterPool(size int, opts ...reportpdf.Option) Pool {
	return &converterPool{pool: reportpdf.NewConverterPool(size, opts...)}
}

func (p *converterPool) Acquire() (CLIConverter, error) {
	c, err := p.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (p *converterPool) Release(c CLIConverter) {
	if conv, ok := c.(*reportpdf.Converter); ok {
		p.pool.Release(conv)
	}
}

func (p *converterPool) Size() int {
	return p.pool.Size()
}

func (p *converterPool) Close() error {
	return p.pool.Close()
}
