// Package prompt implements the interactive variable collector. It walks a
// template manifest's variable list, asking for each value on stdin with the
// resolved default shown in brackets, numbered menus for choices, and y/n
// for booleans.
package prompt
