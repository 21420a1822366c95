// Package config defines the engineering configuration consumed by the
// resolution engine: work-center rates, manufacturing thresholds and
// formulas, material pricing and densities, tensile strengths, path
// fallback lists and processing defaults.
//
// Configuration is loaded from YAML, overlaid on built-in defaults, then
// validated twice: struct tags via go-playground/validator and a CUE
// schema pinning section shapes. Formula fields are small Starlark
// scripts evaluated on demand with part inputs. A fsnotify-based Watcher
// hot-reloads the file with atomic swap semantics.
package config
