// Package processor wires the pipeline together for headless use. It
// runs a single clipboard pass from the command line, prints the
// results, and handles key saving and history listing. This package
// serves as the main coordinator outside of GUI mode.
package processor
