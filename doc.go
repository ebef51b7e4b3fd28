/*
Package parsegen is a parser generator toolbox.

parsegen strives to be a small and self-contained tool to derive
table-driven parsers from context-free grammars.
It covers grammar analysis, LR item-set construction and two parser
runtimes. Package structure is as follows:

■ grammar: Package grammar holds the grammar object model, a fluent
grammar builder and the FIRST/FOLLOW set analysis.

■ items: Package items implements LR items and item-sets, including
CLOSURE and GOTO, plus the canonical collection of item-sets.

■ table: Package table provides sparse parser tables for LL- and
LR-parsing, with typed table entries.

■ llparse: Package llparse implements a predictive table-driven
LL parser with panic-mode error recovery.

■ lrparse: Package lrparse implements a table-driven shift-reduce
LR parser with panic-mode error recovery.

■ scanner: Package scanner provides a tokenizer abstraction together
with implementations on top of text/scanner and lexmachine.

The base package contains data types which are used throughout all the
other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2020–2023 The parsegen authors

*/
package parsegen
