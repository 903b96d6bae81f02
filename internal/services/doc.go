// Package services defines the error taxonomy shared by the conversion
// pipeline. Sentinel errors tag failures by kind (external tool fault,
// validation, configuration, missing input) and Wrap attaches stage and
// operation context so batch results and CLI output can classify what went
// wrong without string matching.
package services
