// Package omex implements the COMBINE archive (OMEX) library identifier
// scheme.
//
// Every annotated resource is named relative to the archive and the file
// inside it:
//
//	http://omex-library.org/<archive>/<source>#<fragment>
//
// Anonymous entities minted during annotation use the fragment
// <label>--s<N> with N starting at 1.
package omex
