package pipeline

import "github.com/matzehuels/skijump/pkg/source"

// Load reads the table selected by opts.
func Load(opts Options) (*source.Table, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	switch {
	case opts.Data != nil:
		return source.ReadBytes(opts.Data, opts.Filename)
	case opts.Input != "":
		return source.Load(opts.Input)
	default:
		return source.Demo(), nil
	}
}
