/*
Package iteratable implements iteratable container data structures.

Set is a special purpose set type, suitable mainly for implementing
algorithms around scanners and parsers, where both the Earley recognizer's
inner loop and the static grammar analysis are more straightforward to
describe as set constructions (closure, goto, subset) than as explicit
loops over slices.

Unusually, all mutating set operations are destructive: Add, Remove,
Union and Subset all act on the receiver. Use Copy to branch off before
mutating a set you still need in its previous shape.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright (c) 2017-2024 The YAEP-Go Authors

*/
package iteratable
