package model

// Action is a single effect a plan function asks the executor effector
// to carry out against a target: a shell command, run as SudoUser when
// set (spec.md §6 "Executor (effector)", glossary entry "Action").
type Action struct {
	Command  string
	SudoUser string
}
