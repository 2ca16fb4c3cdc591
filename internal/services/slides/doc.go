// Package slides wraps the external slide-rendering tool that exports one
// deck slide to a PNG image.
package slides
