// Package shaders provides the embedded GLSL sources for the instanced
// DNA renderer.
package shaders

import _ "embed"

// DNAVertexShader transforms instanced primitives: scale, joint
// adjacency mitering, model transform, perspective or stereographic
// projection.
//
//go:embed dna.vert
var DNAVertexShader string

// DNAFragmentShader applies the fog, phantom and cut-plane discard rules
// and shades or, in the identity pass, writes the encoded picking id.
//
//go:embed dna.frag
var DNAFragmentShader string
