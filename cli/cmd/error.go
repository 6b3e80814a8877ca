package cmd

import "github.com/EmmChriss/msc/pkg"

var (
	ErrJSONMarshal   = pkg.NewError("marshal JSON")
	ErrYAMLMarshal   = pkg.NewError("marshal YAML")
	ErrWriteLibrary  = pkg.NewError("write library file")
	ErrWriteOutput   = pkg.NewError("write output")
	ErrInvalidFilter = pkg.NewError("invalid filter expression")
)
