// Package textutil provides filename helpers shared by the pipeline and the
// publisher: sanitizing names, deriving stems, and swapping extensions.
package textutil
