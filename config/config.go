package config

import (
	"embed"
)

//go:embed svgpatch.yaml gradient.xml
var embeddedFiles embed.FS

const (
	JobFile      = "svgpatch.yaml"
	GradientFile = "gradient.xml"
)

func ConfigFS() embed.FS {
	return embeddedFiles
}

// DefaultJob returns the built-in job file. The values are the ones the logo
// was originally patched with.
func DefaultJob() []byte {
	data, err := ConfigFS().ReadFile(JobFile)
	if err != nil {
		panic(err)
	}
	return data
}

// Gradient returns the built-in gradient fragment, leading and trailing
// newlines included.
func Gradient() string {
	data, err := ConfigFS().ReadFile(GradientFile)
	if err != nil {
		panic(err)
	}
	return string(data)
}
