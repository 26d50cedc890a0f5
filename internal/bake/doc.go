// Package bake renders a project tree from an embedded template set. It owns
// the typed variable Context, the slug derivation, and the file generation:
// template execution, slug path tokens, conditional files, license emission,
// and the leftover-placeholder check that guards against half-rendered output.
package bake
